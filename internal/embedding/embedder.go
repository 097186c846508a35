// Package embedding selects the text embedder used by notebook search.
package embedding

import (
	"fmt"

	"notebook/internal/domain"
	"notebook/internal/embedding/tfidf"
)

// New returns the embedder registered under name. An empty name selects tfidf.
func New(name string) (domain.Embedder, error) {
	switch name {
	case "tfidf", "":
		return tfidf.NewEmbedder(), nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", name)
	}
}
