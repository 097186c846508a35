// Package vectorstore selects where notebook search vectors are held.
package vectorstore

import (
	"fmt"

	"notebook/internal/domain"
	"notebook/internal/vectorstore/memory"
)

// New returns the vector store registered under kind. An empty kind selects memory.
func New(kind string) (domain.VectorStore, error) {
	switch kind {
	case "memory", "":
		return memory.NewStorage(), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", kind)
	}
}
