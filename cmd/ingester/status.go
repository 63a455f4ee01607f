package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"codeberg.org/techcorp/supportbot/internal/config"
	"codeberg.org/techcorp/supportbot/internal/knowledge"
)

type statusReport struct {
	Index         knowledge.IndexStatus         `json:"index"`
	KnowledgeBase knowledge.KnowledgeBaseStatus `json:"knowledge_base"`
}

type searchHit struct {
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
	Backend    string  `json:"backend"`
	Preview    string  `json:"preview"`
}

const previewLength = 200

// loads the persisted index and prints its status as JSON
func PrintStatus(cfg *config.Config, w io.Writer) error {
	ctx := context.Background()

	kb, err := openKnowledgeBase(ctx, cfg, false)
	if err != nil {
		return err
	}

	defer kb.Close()

	if err := kb.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	return writeJSON(w, statusReport{
		Index:         kb.IndexStatus(ctx),
		KnowledgeBase: kb.KnowledgeBaseStatus(),
	})
}

// loads the persisted index and prints the hits for query as JSON
func SearchIndex(cfg *config.Config, query string, w io.Writer) error {
	ctx := context.Background()

	kb, err := openKnowledgeBase(ctx, cfg, false)
	if err != nil {
		return err
	}

	defer kb.Close()

	if err := kb.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	results, err := kb.Search(ctx, query, cfg.Retrieval.TopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	hits := make([]searchHit, 0, len(results))
	for _, r := range results {
		preview := []rune(r.Content)
		if len(preview) > previewLength {
			preview = preview[:previewLength]
		}

		hits = append(hits, searchHit{
			Title:      r.Title,
			Similarity: r.Similarity,
			Backend:    string(r.Backend),
			Preview:    string(preview),
		})
	}

	return writeJSON(w, hits)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
