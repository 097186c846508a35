package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"notebook/internal/domain"
	"notebook/internal/textproc"
)

const defaultTopK = 10

// SearchHit is an entry ranked by its best matching chunk.
type SearchHit struct {
	Entry domain.Entry
	Chunk domain.Chunk
	Score float64
}

// Search ranks notebook entries against query. The index is rebuilt from the
// store on every call so it always reflects the current notebook.
func (s *NotebookService) Search(ctx context.Context, query string, topK int) ([]SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = s.opts.TopK
	}
	if topK <= 0 {
		topK = defaultTopK
	}
	entries, err := s.deps.Store.List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rebuildIndex(entries); err != nil {
		return nil, err
	}
	if len(s.chunks) == 0 {
		return nil, nil
	}
	results, err := s.query(query)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	var hits []SearchHit
	seen := make(map[string]struct{})
	for _, r := range results {
		if r.Score <= 0 {
			break
		}
		if _, dup := seen[r.Chunk.EntryID]; dup {
			continue
		}
		seen[r.Chunk.EntryID] = struct{}{}
		hits = append(hits, SearchHit{Entry: byID[r.Chunk.EntryID], Chunk: r.Chunk, Score: r.Score})
		if len(hits) == topK {
			break
		}
	}
	s.log.Debug("search", zap.String("query", query), zap.Int("chunks", len(s.chunks)), zap.Int("hits", len(hits)))
	return hits, nil
}

func (s *NotebookService) rebuildIndex(entries []domain.Entry) error {
	var (
		chunks []domain.Chunk
		texts  []string
	)
	for _, e := range entries {
		cs, err := s.deps.Chunker.Chunk(e)
		if err != nil {
			return err
		}
		for _, ch := range cs {
			chunks = append(chunks, ch)
			texts = append(texts, ch.Text)
		}
	}
	s.chunks = chunks
	if len(chunks) == 0 {
		return s.deps.Index.Clear()
	}
	if err := s.deps.Embedder.Prepare(texts); err != nil {
		// a corpus of stopwords only still has a lexical ranking
		s.log.Debug("embedder prepare failed", zap.Error(err))
		return s.deps.Index.Clear()
	}
	if err := s.deps.Index.Init(s.deps.Embedder.Dimension()); err != nil {
		return err
	}
	vectors := make([][]float64, len(chunks))
	for i := range chunks {
		vec, err := s.deps.Embedder.Embed(chunks[i].Text)
		if err != nil {
			return err
		}
		vectors[i] = vec
	}
	return s.deps.Index.Upsert(chunks, vectors)
}

// query returns every chunk ranked by vector similarity, falling back to
// lexical overlap when the query shares no terms with the vocabulary.
func (s *NotebookService) query(query string) ([]domain.SearchResult, error) {
	vec, err := s.deps.Embedder.Embed(query)
	if err != nil {
		return s.lexicalSearch(query), nil
	}
	if isZero(vec) {
		return s.lexicalSearch(query), nil
	}
	res, err := s.deps.Index.Search(vec, len(s.chunks))
	if err != nil {
		return nil, err
	}
	for _, r := range res {
		if r.Score > 1e-9 {
			return res, nil
		}
	}
	return s.lexicalSearch(query), nil
}

func isZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

func (s *NotebookService) lexicalSearch(query string) []domain.SearchResult {
	qset := textproc.WordSet(query)
	out := make([]domain.SearchResult, len(s.chunks))
	for i, ch := range s.chunks {
		out[i] = domain.SearchResult{Chunk: ch, Score: overlapOchiai(qset, ch.Text)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// overlapOchiai is |A∩B| / sqrt(|A||B|) over distinct tokens.
func overlapOchiai(qset map[string]struct{}, text string) float64 {
	tset := textproc.WordSet(text)
	if len(qset) == 0 || len(tset) == 0 {
		return 0
	}
	inter := 0
	for t := range tset {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(qset))*float64(len(tset)))
}
