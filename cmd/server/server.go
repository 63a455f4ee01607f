package main

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/techcorp/supportbot/internal/cache"
	"codeberg.org/techcorp/supportbot/internal/config"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"codeberg.org/techcorp/supportbot/internal/ratelimit"
	ws "codeberg.org/techcorp/supportbot/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		redisClient = client
	}

	services, err := InitializeServices(ctx, cfg, redisClient)
	if err != nil {
		closeRedis(redisClient)
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// an empty knowledge base is not fatal, the assistant falls back to general answers
	if err := services.Knowledge.Initialize(ctx); err != nil {
		logger.Warn("knowledge base not loaded", "error", err)
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	if cfg.WatchDocuments {
		go func() {
			if err := services.Knowledge.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorErr(err, "document watcher stopped")
			}
		}()
	}

	hub := ws.NewHub()

	hub.RegisterHandler(ws.TypeChatMessage, ws.ChatHandler(services.Assistant))
	hub.RegisterHandler(ws.TypePing, ws.PingHandler())

	limitConfig := ratelimit.DefaultConfig()
	limitConfig.Rate = cfg.ChatRateLimit
	limitConfig.Redis = redisClient

	limiter, err := ratelimit.New(limitConfig)
	if err != nil {
		stopWatch()
		services.Close()
		closeRedis(redisClient)
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	logger.Info("rate limiter initialized",
		"rate", limitConfig.Rate,
		"distributed", redisClient != nil,
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		config:    cfg,
		services:  services,
		hub:       hub,
		router:    router,
		redis:     redisClient,
		limiter:   limiter,
		stopWatch: stopWatch,
	}

	RegisterRoutes(router, server)

	return server, nil
}

// stops background work and releases every client
func (s *Server) Close() {
	s.stopWatch()
	s.services.Close()
	closeRedis(s.redis)
}

func closeRedis(client *redis.Client) {
	if client == nil {
		return
	}

	if err := client.Close(); err != nil {
		logger.ErrorErr(err, "failed to close redis connection")
	}
}
