package knowledge

import (
	"context"
	"errors"
	"sync"
	"time"

	"codeberg.org/techcorp/supportbot/internal/chunker"
	"codeberg.org/techcorp/supportbot/internal/llm"
	"codeberg.org/techcorp/supportbot/internal/retriever"
	"codeberg.org/techcorp/supportbot/internal/storage"
)

var ErrNoDocuments = errors.New("no knowledge-base documents found")

const defaultEmbedBatchSize = 64

// persistent chunk embeddings; satisfied by *storage.Client
type VectorStore interface {
	ReplaceAll(ctx context.Context, chunks []chunker.Chunk, embeddings [][]float32, meta storage.IndexMeta) error
	AppendChunks(ctx context.Context, chunks []chunker.Chunk, embeddings [][]float32) error
	Search(ctx context.Context, embedding []float32, k int) ([]storage.ScoredChunk, error)
	ListChunks(ctx context.Context) ([]chunker.Chunk, error)
	GetChunkCount(ctx context.Context) (int, error)
	GetIndexMeta(ctx context.Context) (*storage.IndexMeta, error)
}

// local chunk copy; satisfied by *snapshot.Store
type Snapshot interface {
	Replace(ctx context.Context, chunks []chunker.Chunk) error
	Append(ctx context.Context, chunks []chunker.Chunk) error
	Load(ctx context.Context) ([]chunker.Chunk, error)
	UpdatedAt(ctx context.Context) (time.Time, error)
	Path() string
}

type Config struct {
	DocumentDirs   []string // searched in order for PDFs
	Chunking       chunker.ChunkOptions
	Retrieval      retriever.Config
	EmbedBatchSize int
	WatchDebounce  time.Duration
}

// owns the chunk set and keeps the vector index, snapshot and TF-IDF fallback in step
type Service struct {
	config   Config
	vectors  VectorStore  // nil without a database
	embedder llm.Embedder // nil without an embedding provider
	snapshot Snapshot     // optional
	search   *retriever.Client
	extract  func(path string) (string, error)

	// serializes rebuilds, uploads and resets
	writeMu sync.Mutex

	mu        sync.RWMutex
	chunks    []chunker.Chunk
	source    string
	updatedAt time.Time
}

// one uploaded file and what became of it
type UploadResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Size     int    `json:"size,omitempty"`
	Chunks   int    `json:"chunks,omitempty"`
	Error    string `json:"error,omitempty"`
}

type IndexStatus struct {
	VectorAvailable bool       `json:"vector_available"`
	LegacyAvailable bool       `json:"legacy_available"`
	DocumentsCount  int        `json:"documents_count"`
	VectorCount     int        `json:"vector_count"`
	VectorDim       int        `json:"vector_dim,omitempty"`
	IndexExists     bool       `json:"index_exists"`
	EmbeddingsModel string     `json:"embeddings_model"`
	SnapshotPath    string     `json:"snapshot_path,omitempty"`
	Source          string     `json:"source,omitempty"`
	BuiltAt         *time.Time `json:"built_at,omitempty"`
	Error           string     `json:"error,omitempty"`
}

type KnowledgeBaseStatus struct {
	TotalDocuments int       `json:"total_documents"`
	DocumentTitles []string  `json:"document_titles"`
	VectorsBuilt   bool      `json:"vectors_built"`
	LastUpdated    time.Time `json:"last_updated"`
}
