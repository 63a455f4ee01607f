package knowledge

import (
	"context"
	"sort"
	"time"
)

// describes the search backends and the stored vector index
func (s *Service) IndexStatus(ctx context.Context) IndexStatus {
	s.mu.RLock()
	status := IndexStatus{
		VectorAvailable: s.search.VectorAvailable(),
		LegacyAvailable: s.search.LegacyAvailable(),
		DocumentsCount:  len(s.chunks),
		Source:          s.source,
		EmbeddingsModel: "tfidf",
	}
	s.mu.RUnlock()

	if s.embedder != nil {
		status.EmbeddingsModel = s.embedder.EmbeddingModel()
	}

	if s.snapshot != nil {
		status.SnapshotPath = s.snapshot.Path()
	}

	if s.vectors == nil {
		return status
	}

	count, err := s.vectors.GetChunkCount(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.VectorCount = count
	status.IndexExists = count > 0

	meta, err := s.vectors.GetIndexMeta(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	if meta != nil {
		builtAt := meta.BuiltAt
		status.VectorDim = meta.Dimension
		status.BuiltAt = &builtAt
	}

	return status
}

// summarizes the chunk set: how many, from which documents, and when it last changed
func (s *Service) KnowledgeBaseStatus() KnowledgeBaseStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	titles := make([]string, 0)

	for _, ch := range s.chunks {
		if _, ok := seen[ch.SourceTitle]; ok {
			continue
		}

		seen[ch.SourceTitle] = struct{}{}
		titles = append(titles, ch.SourceTitle)
	}

	sort.Strings(titles)

	updated := s.updatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	return KnowledgeBaseStatus{
		TotalDocuments: len(s.chunks),
		DocumentTitles: titles,
		VectorsBuilt:   len(s.chunks) > 0,
		LastUpdated:    updated,
	}
}
