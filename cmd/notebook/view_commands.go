package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"notebook/internal/domain"
)

const (
	titleWidth = 48
	shortIDLen = 8
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var typ, topic, stance, tag string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notebook entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := domain.ListFilter{Tag: strings.TrimSpace(tag), Limit: limit}
			var err error
			if typ != "" {
				if f.Type, err = domain.ParseEntryType(typ); err != nil {
					return err
				}
			}
			if topic != "" {
				if f.Topic, err = domain.ParseTopic(topic); err != nil {
					return err
				}
			}
			if stance != "" {
				if f.Stance, err = domain.ParseStance(stance); err != nil {
					return err
				}
			}
			svc, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := svc.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries.")
				return nil
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					shortID(e.ID),
					string(e.Type),
					truncate(e.Title, titleWidth),
					string(e.Topic),
					string(e.Stance),
					strconv.Itoa(len(e.Notes)),
					e.CreatedAt.Local().Format("2006-01-02"),
				}
			}
			headers := []string{"ID", "Type", "Title", "Topic", "Stance", "Notes", "Added"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "Filter by entry type")
	cmd.Flags().StringVar(&topic, "topic", "", "Filter by topic")
	cmd.Flags().StringVar(&stance, "stance", "", "Filter by stance")
	cmd.Flags().StringVar(&tag, "tag", "", "Filter by tag")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum entries to list")
	return cmd
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show an entry with its summary and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, id, err := ctx.withEntry(cmd, args[0])
			if err != nil {
				return err
			}
			e, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			md := entryMarkdown(e)
			out := cmd.OutOrStdout()
			if raw || !isTerminal(out) {
				fmt.Fprint(out, md)
				return nil
			}
			renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
			if err != nil {
				fmt.Fprint(out, md)
				return nil
			}
			rendered, err := renderer.Render(md)
			if err != nil {
				fmt.Fprint(out, md)
				return nil
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")
	return cmd
}

func entryMarkdown(e *domain.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", e.Title)
	fmt.Fprintf(&b, "*%s* · %s · %s", e.Type.Label(), e.Topic, e.Stance)
	if tags := e.TagList(); len(tags) > 0 {
		fmt.Fprintf(&b, " · `%s`", strings.Join(tags, "` `"))
	}
	b.WriteString("\n\n")
	switch e.Type {
	case domain.EntryArticle, domain.EntryYouTube:
		fmt.Fprintf(&b, "<%s>\n\n", e.Content)
	case domain.EntryQuote:
		fmt.Fprintf(&b, "> %s\n\n", e.Content)
	default:
		fmt.Fprintf(&b, "%s\n\n", e.Content)
	}
	if e.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", e.Description)
	}
	fmt.Fprintf(&b, "## Summary\n\n%s\n\n", e.DisplaySummary())
	if len(e.Notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, n := range e.Notes {
			fmt.Fprintf(&b, "- [%d] %s\n", n.ID, n.Text)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "ID `%s`, added %s\n", e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	return b.String()
}
