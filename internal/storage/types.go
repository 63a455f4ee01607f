package storage

import (
	"time"

	"codeberg.org/techcorp/supportbot/internal/chunker"
)

// a chunk returned by a similarity search
type ScoredChunk struct {
	chunker.Chunk
	Similarity float64
}

// describes the embedding space of the stored index
type IndexMeta struct {
	EmbeddingModel string
	Dimension      int
	Source         string
	BuiltAt        time.Time
}
