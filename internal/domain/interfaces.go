package domain

import "context"

// Sentence is a candidate sentence cut out of a document.
// Index is its position among the sentences that survived segmentation.
type Sentence struct {
	Index int
	Text  string
	Score int
}

// Chunk is a window of an entry's text used for search indexing.
type Chunk struct {
	EntryID string
	ChunkID string
	Text    string
	Index   int
}

// SearchResult is a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Article is the readable content extracted from a web page.
type Article struct {
	URL   string
	Title string
	Text  string
}

// Transcript is the caption text of a video.
type Transcript struct {
	VideoID  string
	Title    string
	Language string
	Text     string
}

// Summarizer produces a bounded extractive summary. The bool is false when
// the text has nothing worth summarizing.
type Summarizer interface {
	Summarize(text string, limit int) (string, bool)
}

// ArticleFetcher retrieves the paragraph text of a web article.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (*Article, error)
}

// TranscriptFetcher retrieves the caption text of a video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (*Transcript, error)
}

// EntryStore persists notebook entries and their notes.
type EntryStore interface {
	Create(ctx context.Context, e *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	List(ctx context.Context, f ListFilter) ([]Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id string) error
	AddNote(ctx context.Context, entryID, text string) (*Note, error)
	DeleteNote(ctx context.Context, noteID int64) error
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// Chunker splits entries into chunks suitable for search indexing.
type Chunker interface {
	Chunk(entry Entry) ([]Chunk, error)
}

// VectorStore holds chunk vectors and supports similarity search.
type VectorStore interface {
	Init(dimension int) error
	Upsert(chunks []Chunk, vectors [][]float64) error
	Search(vector []float64, topK int) ([]SearchResult, error)
	Clear() error
}
