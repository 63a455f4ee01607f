package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/techcorp/supportbot/internal/config"
	"codeberg.org/techcorp/supportbot/internal/knowledge"
	"codeberg.org/techcorp/supportbot/internal/llm"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"codeberg.org/techcorp/supportbot/internal/retriever"
	"codeberg.org/techcorp/supportbot/internal/snapshot"
	"codeberg.org/techcorp/supportbot/internal/storage"
)

const snapshotFile = "knowledge.db"

// knowledge service plus the clients it owns
type knowledgeBase struct {
	*knowledge.Service
	storage  *storage.Client
	snapshot *snapshot.Store
}

func (kb *knowledgeBase) Close() {
	if kb.snapshot != nil {
		if err := kb.snapshot.Close(); err != nil {
			logger.ErrorErr(err, "failed to close knowledge snapshot")
		}
	}

	if kb.storage != nil {
		kb.storage.Close()
	}
}

// opens the same stores the server uses; clearSnapshot removes the local copy first
func openKnowledgeBase(ctx context.Context, cfg *config.Config, clearSnapshot bool) (*knowledgeBase, error) {
	kb := &knowledgeBase{}

	var vectors knowledge.VectorStore
	if cfg.DatabaseURL != "" {
		client, err := storage.NewClient(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to vector database: %w", err)
		}

		if err := client.EnsureSchema(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to prepare vector schema: %w", err)
		}

		logger.Info("connected to database")

		kb.storage = client
		vectors = client
	}

	var embedder llm.Embedder
	if vectors != nil {
		llmClient, err := llm.NewLLM(ctx)
		if err != nil {
			kb.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}

		if llmClient.HasEmbedder() {
			embedder = llmClient.Embedder
		} else {
			logger.Warn("no embedding provider configured, only the TF-IDF index will be built")
		}
	}

	snapshotPath := filepath.Join(cfg.DataDir, snapshotFile)
	if clearSnapshot {
		if err := os.Remove(snapshotPath); err != nil && !os.IsNotExist(err) {
			kb.Close()
			return nil, fmt.Errorf("failed to clear snapshot: %w", err)
		}

		logger.Info("cleared local snapshot", "path", snapshotPath)
	}

	store, err := snapshot.Open(ctx, snapshotPath)
	if err != nil {
		kb.Close()
		return nil, fmt.Errorf("failed to open knowledge snapshot: %w", err)
	}

	kb.snapshot = store

	kb.Service = knowledge.NewService(knowledge.Config{
		DocumentDirs: cfg.DocumentSearchDirs(),
		Retrieval: retriever.Config{
			TopK:               cfg.Retrieval.TopK,
			MinSimilarity:      cfg.Retrieval.MinSimilarity,
			RelevanceThreshold: cfg.Retrieval.RelevanceThreshold,
		},
	}, vectors, embedder, store)

	return kb, nil
}
