package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/techcorp/supportbot/internal/assistant"
	"codeberg.org/techcorp/supportbot/internal/cache"
	"codeberg.org/techcorp/supportbot/internal/config"
	"codeberg.org/techcorp/supportbot/internal/conversations"
	"codeberg.org/techcorp/supportbot/internal/knowledge"
	"codeberg.org/techcorp/supportbot/internal/llm"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"codeberg.org/techcorp/supportbot/internal/retriever"
	"codeberg.org/techcorp/supportbot/internal/snapshot"
	"codeberg.org/techcorp/supportbot/internal/storage"
	"github.com/redis/go-redis/v9"
)

const (
	// how often the memory conversation store drops expired conversations
	conversationCleanupInterval = 5 * time.Minute

	// how long cached query embeddings are kept in Redis
	embeddingCacheTTL = 24 * time.Hour

	snapshotFile = "knowledge.db"
)

// creates and configures all service clients
func InitializeServices(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	llmClient, err := llm.NewLLM(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	profile, err := config.LoadCompanyProfile(cfg.CompanyProfile)
	if err != nil {
		return nil, fmt.Errorf("failed to load company profile: %w", err)
	}

	services := &Services{LLM: llmClient}

	// the vector index is optional; without it search runs on TF-IDF alone
	var vectors knowledge.VectorStore
	if cfg.DatabaseURL != "" {
		storageClient, err := storage.NewClient(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to vector database: %w", err)
		}

		if err := storageClient.EnsureSchema(ctx); err != nil {
			storageClient.Close()
			return nil, fmt.Errorf("failed to prepare vector schema: %w", err)
		}

		services.Storage = storageClient
		vectors = storageClient
	}

	var embedder llm.Embedder
	if llmClient.HasEmbedder() {
		embedder = llmClient.Embedder

		if redisClient != nil {
			embedder = cache.NewEmbeddingCache(llmClient.Embedder, redisClient, embeddingCacheTTL)
		}
	}

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		services.Close()
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	snapshotStore, err := snapshot.Open(ctx, filepath.Join(cfg.DataDir, snapshotFile))
	if err != nil {
		services.Close()
		return nil, fmt.Errorf("failed to open knowledge snapshot: %w", err)
	}

	services.Snapshot = snapshotStore

	services.Knowledge = knowledge.NewService(knowledge.Config{
		DocumentDirs: cfg.DocumentSearchDirs(),
		Retrieval: retriever.Config{
			TopK:               cfg.Retrieval.TopK,
			MinSimilarity:      cfg.Retrieval.MinSimilarity,
			RelevanceThreshold: cfg.Retrieval.RelevanceThreshold,
		},
	}, vectors, embedder, snapshotStore)

	if redisClient != nil {
		services.Conversations = conversations.NewRedisStore(redisClient, cfg.ConversationTTL)
	} else {
		services.Conversations = conversations.NewMemoryStore(cfg.ConversationTTL, conversationCleanupInterval)
	}

	services.Assistant = assistant.New(llmClient, services.Knowledge, profile,
		assistant.WithConversations(services.Conversations),
		assistant.WithTopK(cfg.Retrieval.TopK),
	)

	logger.Info("services initialized",
		"generator", llmClient.Model(),
		"embedder", llmClient.HasEmbedder(),
		"vector_index", services.Storage != nil,
		"conversations", fmt.Sprintf("%T", services.Conversations),
		"company", profile.Name,
	)

	return services, nil
}

// releases every client that was opened; safe on a partially built Services
func (s *Services) Close() {
	if s.Conversations != nil {
		if err := s.Conversations.Close(); err != nil {
			logger.ErrorErr(err, "failed to close conversation store")
		}
	}

	if s.Snapshot != nil {
		if err := s.Snapshot.Close(); err != nil {
			logger.ErrorErr(err, "failed to close knowledge snapshot")
		}
	}

	if s.Storage != nil {
		s.Storage.Close()
	}
}
