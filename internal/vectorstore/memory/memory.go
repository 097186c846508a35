package memory

import (
	"errors"
	"sort"
	"sync"

	"notebook/internal/domain"
)

const defaultTopK = 5

var (
	ErrInvalidDimension  = errors.New("invalid dimension")
	ErrLengthMismatch    = errors.New("chunks and vectors length mismatch")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	chunks    []domain.Chunk
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return ErrInvalidDimension
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.chunks = nil
	return nil
}

func (s *Storage) Upsert(chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return ErrLengthMismatch
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return ErrDimensionMismatch
		}
	}
	pos := make(map[string]int, len(s.chunks))
	for i, ch := range s.chunks {
		pos[ch.ChunkID] = i
	}
	for i, ch := range chunks {
		if j, ok := pos[ch.ChunkID]; ok {
			s.chunks[j] = ch
			s.vectors[j] = vectors[i]
			continue
		}
		pos[ch.ChunkID] = len(s.chunks)
		s.chunks = append(s.chunks, ch)
		s.vectors = append(s.vectors, vectors[i])
	}
	return nil
}

// Search ranks stored chunks by dot product with vector, which equals cosine
// similarity for L2-normalized vectors. Equal scores keep insertion order.
func (s *Storage) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = defaultTopK
	}
	results := make([]domain.SearchResult, len(s.vectors))
	for i := range s.vectors {
		results[i] = domain.SearchResult{Chunk: s.chunks[i], Score: dot(s.vectors[i], vector)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.chunks = nil
	return nil
}

// Len reports the number of stored chunks.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func dot(a, b []float64) float64 {
	n := min(len(a), len(b))
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
