package chunker

import (
	"regexp"
	"strconv"
	"strings"

	"notebook/internal/domain"
	"notebook/internal/textproc"
)

// SentenceChunker splits an entry's search text into overlapping sentence windows.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	splitter          *regexp.Regexp
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 3
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	// windows must advance
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		splitter:          regexp.MustCompile(`[^.!?]+[.!?]*`),
	}
}

// Chunk returns the windows of entry.SearchText. Entries with no text yield no chunks.
func (c *SentenceChunker) Chunk(entry domain.Entry) ([]domain.Chunk, error) {
	content := textproc.Normalize(entry.SearchText())
	if content == "" {
		return nil, nil
	}
	var sentences []string
	for _, s := range c.splitter.FindAllString(content, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		sentences = []string{content}
	}

	var chunks []domain.Chunk
	for i, idx := 0, 0; i < len(sentences); idx++ {
		end := min(i+c.sentencesPerChunk, len(sentences))
		chunks = append(chunks, domain.Chunk{
			EntryID: entry.ID,
			ChunkID: entry.ID + ":" + strconv.Itoa(idx),
			Text:    strings.Join(sentences[i:end], " "),
			Index:   idx,
		})
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
	}
	return chunks, nil
}
