package config

import "time"

type Config struct {
	Environment     string
	Port            string
	JWTSecret       string
	DatabaseURL     string // optional, empty means no vector index
	RedisURL        string // optional, empty means in-memory stores
	DocumentsDir    string
	DataDir         string
	AllowedOrigins  []string
	ChatRateLimit   string // ulule limiter format, e.g. "60-M"
	WatchDocuments  bool
	MaxUploadBytes  int64
	CompanyProfile  string // optional path to a YAML company profile
	Retrieval       RetrievalConfig
	ConversationTTL time.Duration
}

type RetrievalConfig struct {
	TopK               int
	MinSimilarity      float64
	RelevanceThreshold float64
}

type Flags struct {
	Path  string
	Clear bool
}

type TokenFlags struct {
	Subject string
	TTL     time.Duration
}
