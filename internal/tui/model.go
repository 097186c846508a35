package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notebook/internal/domain"
	"notebook/internal/service"
	"notebook/internal/textproc"
)

const recentLimit = 20

// NotebookPort is the TUI-facing subset of the notebook service.
type NotebookPort interface {
	List(ctx context.Context, f domain.ListFilter) ([]domain.Entry, error)
	Search(ctx context.Context, query string, topK int) ([]service.SearchHit, error)
}

// Model is the Bubble Tea model for browsing and searching the notebook.
type Model struct {
	ctx       context.Context
	service   NotebookPort
	topK      int
	input     textinput.Model
	viewport  viewport.Model
	results   []service.SearchHit
	status    string
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a model that starts on the most recent entries.
func New(ctx context.Context, svc NotebookPort, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Search the notebook and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	m := Model{ctx: ctx, service: svc, topK: topK, input: ti, viewport: viewport.New(0, 0)}
	m.loadRecent()
	return m
}

func (m *Model) loadRecent() {
	entries, err := m.service.List(m.ctx, domain.ListFilter{Limit: recentLimit})
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	m.results = make([]service.SearchHit, len(entries))
	for i, e := range entries {
		m.results[i] = service.SearchHit{Entry: e}
	}
	m.cursor = 0
	m.lastQuery = ""
	m.status = fmt.Sprintf("%d recent entries. Type to search.", len(entries))
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				m.loadRecent()
			} else if hits, err := m.service.Search(m.ctx, q, m.topK); err != nil {
				m.status = "Error: " + err.Error()
				m.results = nil
			} else {
				m.status = fmt.Sprintf("%d results for %q", len(hits), q)
				m.results = hits
				m.cursor = 0
				m.lastQuery = q
			}
			m.viewport.SetContent(m.renderCurrentResult())
			m.viewport.GotoTop()
			return m, nil
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "pgdown", "pgup":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Research Notebook")
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No entries."
	}
	hit := m.results[m.cursor]
	e := hit.Entry

	var b strings.Builder
	pos := fmt.Sprintf("%d/%d", m.cursor+1, len(m.results))
	if m.lastQuery != "" {
		pos += fmt.Sprintf("  score=%.3f", hit.Score)
	}
	b.WriteString(mutedStyle.Render(pos) + "\n\n")
	b.WriteString(titleStyle.Render(e.Title) + "\n")
	meta := []string{e.Type.Label(), string(e.Topic), string(e.Stance)}
	if tags := e.TagList(); len(tags) > 0 {
		meta = append(meta, "#"+strings.Join(tags, " #"))
	}
	b.WriteString(mutedStyle.Render(strings.Join(meta, " · ")) + "\n")
	if e.Type == domain.EntryArticle || e.Type == domain.EntryYouTube {
		b.WriteString(mutedStyle.Render(e.Content) + "\n")
	}
	b.WriteString("\n" + e.DisplaySummary() + "\n")
	if hit.Chunk.Text != "" {
		b.WriteString("\n" + highlightBestSentence(hit.Chunk.Text, m.lastQuery) + "\n")
	}
	for _, n := range e.Notes {
		b.WriteString("\n" + noteStyle.Render(fmt.Sprintf("[%d] %s", n.ID, n.Text)))
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true)
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sentenceRe     = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

func highlightBestSentence(text, query string) string {
	var sentences []string
	for _, s := range sentenceRe.FindAllString(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}
	qTokens := textproc.WordSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx, bestScore := 0, -1
	for i, s := range sentences {
		if score := tokenOverlapScore(qTokens, s); score > bestScore {
			bestScore, bestIdx = score, i
		}
	}
	sentences[bestIdx] = highlightStyle.Render(sentences[bestIdx])
	return strings.Join(sentences, " ")
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	for t := range textproc.WordSet(sentence) {
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
