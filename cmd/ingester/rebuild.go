package main

import (
	"context"
	"fmt"

	"codeberg.org/techcorp/supportbot/internal/config"
	"codeberg.org/techcorp/supportbot/internal/logger"
)

// extracts, chunks and indexes the knowledge-base PDF
func RebuildIndex(cfg *config.Config, flags config.Flags) error {
	ctx := context.Background()
	logger.Info("starting rebuild", "path", flags.Path, "clear", flags.Clear)

	kb, err := openKnowledgeBase(ctx, cfg, flags.Clear)
	if err != nil {
		return err
	}

	defer kb.Close()

	var count int
	if flags.Path != "" {
		count, err = kb.RebuildFrom(ctx, flags.Path)
	} else {
		count, err = kb.Rebuild(ctx)
	}

	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	status := kb.IndexStatus(ctx)

	logger.Info("successfully rebuilt index",
		"chunks", count,
		"vector_available", status.VectorAvailable,
		"vector_count", status.VectorCount,
		"source", status.Source,
	)

	return nil
}
