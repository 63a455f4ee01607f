package main

import (
	"context"

	"codeberg.org/techcorp/supportbot/internal/assistant"
	"codeberg.org/techcorp/supportbot/internal/config"
	"codeberg.org/techcorp/supportbot/internal/conversations"
	"codeberg.org/techcorp/supportbot/internal/knowledge"
	"codeberg.org/techcorp/supportbot/internal/llm"
	"codeberg.org/techcorp/supportbot/internal/snapshot"
	"codeberg.org/techcorp/supportbot/internal/storage"
	ws "codeberg.org/techcorp/supportbot/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// holds all dependencies and state for the API server
type Server struct {
	config   *config.Config
	services *Services
	hub      *ws.Hub
	router   *gin.Engine
	redis    *redis.Client // nil without REDIS_URL

	limiter   gin.HandlerFunc
	stopWatch context.CancelFunc
}

// holds all external service clients (LLM, storage, knowledge base, assistant)
type Services struct {
	LLM           *llm.CompositeLLM
	Storage       *storage.Client // nil without DATABASE_URL
	Snapshot      *snapshot.Store
	Knowledge     *knowledge.Service
	Conversations conversations.Store
	Assistant     *assistant.Assistant
}
