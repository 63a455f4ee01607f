package knowledge

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/techcorp/supportbot/internal/chunker"
	"codeberg.org/techcorp/supportbot/internal/document"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"codeberg.org/techcorp/supportbot/internal/storage"
)

// reprocesses the first discovered PDF and replaces the whole index
func (s *Service) Rebuild(ctx context.Context) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.rebuildLocked(ctx, "")
}

// like Rebuild but for an explicit PDF
func (s *Service) RebuildFrom(ctx context.Context, path string) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.rebuildLocked(ctx, path)
}

func (s *Service) rebuildLocked(ctx context.Context, path string) (int, error) {
	if path == "" {
		path = s.PDFInfo().Primary()
	}

	if path == "" {
		return 0, ErrNoDocuments
	}

	start := time.Now()

	text, err := s.extract(path)
	if err != nil {
		return 0, fmt.Errorf("failed to extract %s: %w", path, err)
	}

	chunks, err := chunker.ChunkPDF(text, path, s.config.Chunking)
	if err != nil {
		return 0, fmt.Errorf("failed to chunk %s: %w", path, err)
	}

	if len(chunks) == 0 {
		return 0, fmt.Errorf("%s: %w", path, document.ErrEmptyDocument)
	}

	if s.snapshot != nil {
		if err := s.snapshot.Replace(ctx, chunks); err != nil {
			return 0, fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	if err := s.setChunks(chunks, path, time.Now()); err != nil {
		return 0, err
	}

	if s.vectorEnabled() {
		if err := s.indexVectors(ctx, chunks, path, true); err != nil {
			return len(chunks), fmt.Errorf("chunks saved but vector indexing failed: %w", err)
		}
	}

	logger.Info("knowledge base rebuilt",
		"source", path,
		"chunks", len(chunks),
		"vector", s.search.VectorAvailable(),
		"duration", time.Since(start).String(),
	)

	return len(chunks), nil
}

// decodes an uploaded file, chunks it and appends it to every index
func (s *Service) AddDocument(ctx context.Context, filename string, data []byte) UploadResult {
	result := UploadResult{Filename: filename}

	text, err := document.Decode(filename, data)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()

		return result
	}

	result.Size = len(text)

	chunks, err := chunker.ChunkDocument(text, filename, s.config.Chunking)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()

		return result
	}

	if err := s.appendChunks(ctx, chunks); err != nil {
		logger.ErrorErr(err, "failed to add document", "filename", filename)

		result.Status = "error"
		result.Error = err.Error()

		return result
	}

	result.Status = "success"
	result.Chunks = len(chunks)

	return result
}

func (s *Service) appendChunks(ctx context.Context, chunks []chunker.Chunk) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.snapshot != nil {
		if err := s.snapshot.Append(ctx, chunks); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	s.mu.RLock()
	all := make([]chunker.Chunk, 0, len(s.chunks)+len(chunks))
	all = append(all, s.chunks...)
	source := s.source
	s.mu.RUnlock()

	all = append(all, chunks...)

	if source == "" {
		source = chunks[0].Source
	}

	if err := s.setChunks(all, source, time.Now()); err != nil {
		return err
	}

	if !s.vectorEnabled() {
		return nil
	}

	// an index that is not ready is rebuilt from the full set
	if !s.search.VectorAvailable() {
		if err := s.indexVectors(ctx, all, source, true); err != nil {
			logger.Warn("failed to index knowledge base, using tfidf search", "error", err)
		}

		return nil
	}

	if err := s.indexVectors(ctx, chunks, source, false); err != nil {
		// the chunks are searchable through tfidf until the next rebuild
		s.search.SetVectorReady(false)
		logger.Warn("failed to index uploaded chunks, vector search disabled until rebuild", "error", err)
	}

	return nil
}

// embeds chunks and replaces or extends the vector index
func (s *Service) indexVectors(ctx context.Context, chunks []chunker.Chunk, source string, replace bool) error {
	embeddings, err := s.embed(ctx, chunks)
	if err != nil {
		s.search.SetVectorReady(false)
		return err
	}

	if replace {
		meta := storage.IndexMeta{
			EmbeddingModel: s.embedder.EmbeddingModel(),
			Dimension:      len(embeddings[0]),
			Source:         source,
		}

		if err := s.vectors.ReplaceAll(ctx, chunks, embeddings, meta); err != nil {
			s.search.SetVectorReady(false)
			return fmt.Errorf("failed to replace vector index: %w", err)
		}
	} else if err := s.vectors.AppendChunks(ctx, chunks, embeddings); err != nil {
		return fmt.Errorf("failed to append to vector index: %w", err)
	}

	s.search.SetVectorReady(true)

	return nil
}

func (s *Service) embed(ctx context.Context, chunks []chunker.Chunk) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks to embed")
	}

	embeddings := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += s.config.EmbedBatchSize {
		end := min(start+s.config.EmbedBatchSize, len(chunks))

		texts := make([]string, 0, end-start)
		for _, ch := range chunks[start:end] {
			texts = append(texts, ch.Content)
		}

		batch, err := s.embedder.GenerateEmbeddings(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunks %d-%d: %w", start, end, err)
		}

		embeddings = append(embeddings, batch...)
	}

	return embeddings, nil
}
