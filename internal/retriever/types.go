package retriever

import (
	"context"
	"errors"

	"codeberg.org/techcorp/supportbot/internal/storage"
)

var ErrVectorUnavailable = errors.New("vector index unavailable")

// which search produced a result
type Backend string

const (
	BackendVector Backend = "vector"
	BackendLegacy Backend = "tfidf"
)

// nearest-neighbour search over stored chunk embeddings
type VectorIndex interface {
	Search(ctx context.Context, embedding []float32, k int) ([]storage.ScoredChunk, error)
}

type SearchResult struct {
	Source      string
	Title       string
	SourceTitle string
	Content     string
	Similarity  float64
	Backend     Backend
}

type Config struct {
	TopK               int
	MinSimilarity      float64 // results at or below this are dropped
	RelevanceThreshold float64 // if the best result is below this, nothing is returned
}
