package knowledge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/techcorp/supportbot/internal/chunker"
	"codeberg.org/techcorp/supportbot/internal/document"
	"codeberg.org/techcorp/supportbot/internal/llm"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"codeberg.org/techcorp/supportbot/internal/retriever"
)

// vectors, embedder and snapshot may each be nil
func NewService(config Config, vectors VectorStore, embedder llm.Embedder, snapshot Snapshot) *Service {
	if config.EmbedBatchSize <= 0 {
		config.EmbedBatchSize = defaultEmbedBatchSize
	}

	if config.Chunking.ChunkSize == 0 {
		config.Chunking = chunker.DefaultOptions()
	}

	if config.WatchDebounce <= 0 {
		config.WatchDebounce = 2 * time.Second
	}

	s := &Service{
		config:   config,
		vectors:  vectors,
		embedder: embedder,
		snapshot: snapshot,
		extract:  document.ExtractText,
	}

	// keep a nil store a nil interface
	var index retriever.VectorIndex
	if vectors != nil {
		index = vectors
	}

	s.search = retriever.NewClient(index, embedder, config.Retrieval)

	return s
}

// vector indexing needs both a store and an embedder
func (s *Service) vectorEnabled() bool {
	return s.vectors != nil && s.embedder != nil
}

// loads the vector index, else the snapshot, else processes the first discovered PDF
func (s *Service) Initialize(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	loaded, err := s.loadVectorIndex(ctx)
	if err != nil {
		logger.Warn("failed to load vector index", "error", err)
	}

	if loaded {
		return nil
	}

	loaded, err = s.loadSnapshot(ctx)
	if err != nil {
		logger.Warn("failed to load knowledge-base snapshot", "error", err)
	}

	if loaded {
		return nil
	}

	logger.Info("no stored knowledge base, processing documents")

	if _, err := s.rebuildLocked(ctx, ""); err != nil {
		if errors.Is(err, ErrNoDocuments) {
			logger.Warn("no company information PDF found; upload one or add it to the documents directory",
				"dirs", s.config.DocumentDirs,
			)

			return nil
		}

		return err
	}

	return nil
}

func (s *Service) loadVectorIndex(ctx context.Context) (bool, error) {
	if !s.vectorEnabled() {
		return false, nil
	}

	meta, err := s.vectors.GetIndexMeta(ctx)
	if err != nil {
		return false, err
	}

	if meta == nil {
		return false, nil
	}

	if model := s.embedder.EmbeddingModel(); meta.EmbeddingModel != model {
		logger.Warn("vector index was built with a different embedding model, rebuild required",
			"index_model", meta.EmbeddingModel,
			"embedder_model", model,
		)

		return false, nil
	}

	chunks, err := s.vectors.ListChunks(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list indexed chunks: %w", err)
	}

	if len(chunks) == 0 {
		return false, nil
	}

	if err := s.setChunks(chunks, meta.Source, meta.BuiltAt); err != nil {
		return false, err
	}

	s.search.SetVectorReady(true)

	logger.Info("vector index loaded",
		"chunks", len(chunks),
		"model", meta.EmbeddingModel,
		"dimension", meta.Dimension,
	)

	return true, nil
}

func (s *Service) loadSnapshot(ctx context.Context) (bool, error) {
	if s.snapshot == nil {
		return false, nil
	}

	chunks, err := s.snapshot.Load(ctx)
	if err != nil {
		return false, err
	}

	if len(chunks) == 0 {
		return false, nil
	}

	updatedAt, err := s.snapshot.UpdatedAt(ctx)
	if err != nil {
		updatedAt = time.Now()
	}

	if err := s.setChunks(chunks, chunks[0].Source, updatedAt); err != nil {
		return false, err
	}

	logger.Info("knowledge base loaded from snapshot",
		"chunks", len(chunks),
		"path", s.snapshot.Path(),
	)

	// bring an empty or stale vector index back in step with the snapshot
	if s.vectorEnabled() {
		if err := s.indexVectors(ctx, chunks, chunks[0].Source, true); err != nil {
			logger.Warn("failed to index snapshot chunks, using tfidf search", "error", err)
		}
	}

	return true, nil
}

// replaces the in-memory chunk set and the TF-IDF fallback built over it
func (s *Service) setChunks(chunks []chunker.Chunk, source string, updatedAt time.Time) error {
	if err := s.search.SetLegacyCorpus(chunks); err != nil {
		return err
	}

	s.mu.Lock()
	s.chunks = chunks
	s.source = source
	s.updatedAt = updatedAt
	s.mu.Unlock()

	return nil
}

// searches the knowledge base with similarity gating
func (s *Service) Search(ctx context.Context, query string, k int) ([]retriever.SearchResult, error) {
	return s.search.Search(ctx, query, k)
}

// reports the PDFs available in the documents directories
func (s *Service) PDFInfo() document.Info {
	return document.Discover(s.config.DocumentDirs...)
}

// drops in-memory state and initializes again from storage
func (s *Service) Reset(ctx context.Context) error {
	s.writeMu.Lock()
	s.search.SetVectorReady(false)

	if err := s.setChunks(nil, "", time.Time{}); err != nil {
		s.writeMu.Unlock()
		return err
	}

	s.writeMu.Unlock()

	return s.Initialize(ctx)
}
