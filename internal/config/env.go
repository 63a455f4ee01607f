package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "5000"
	defaultDocumentsDir    = "./company_documents"
	defaultDataDir         = "./data"
	defaultChatRateLimit   = "60-M"
	defaultMaxUploadBytes  = 16 << 20
	defaultConversationTTL = 24 * time.Hour
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	environment := getEnv("ENVIRONMENT", "development")

	retrieval, err := loadRetrievalConfig()
	if err != nil {
		return nil, err
	}

	maxUpload, err := getInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}

	ttl, err := getDuration("CONVERSATION_TTL", defaultConversationTTL)
	if err != nil {
		return nil, err
	}

	return &Config{
		Environment:     environment,
		Port:            getEnv("PORT", defaultPort),
		JWTSecret:       jwtSecret,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		DocumentsDir:    getEnv("DOCUMENTS_DIR", defaultDocumentsDir),
		DataDir:         getEnv("DATA_DIR", defaultDataDir),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "*")),
		ChatRateLimit:   getEnv("CHAT_RATE_LIMIT", defaultChatRateLimit),
		WatchDocuments:  getBool("WATCH_DOCUMENTS"),
		MaxUploadBytes:  maxUpload,
		CompanyProfile:  os.Getenv("COMPANY_PROFILE"),
		Retrieval:       retrieval,
		ConversationTTL: ttl,
	}, nil
}

// returns the retrieval defaults, overridable per variable
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		TopK:               3,
		MinSimilarity:      0.2,
		RelevanceThreshold: 0.4,
	}
}

func loadRetrievalConfig() (RetrievalConfig, error) {
	cfg := DefaultRetrievalConfig()

	if v := os.Getenv("RETRIEVAL_TOP_K"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil || k <= 0 {
			return cfg, fmt.Errorf("RETRIEVAL_TOP_K must be a positive integer, got %q", v)
		}

		cfg.TopK = k
	}

	if v := os.Getenv("RETRIEVAL_MIN_SIMILARITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("RETRIEVAL_MIN_SIMILARITY: %w", err)
		}

		cfg.MinSimilarity = f
	}

	if v := os.Getenv("RETRIEVAL_RELEVANCE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("RETRIEVAL_RELEVANCE_THRESHOLD: %w", err)
		}

		cfg.RelevanceThreshold = f
	}

	if cfg.RelevanceThreshold < cfg.MinSimilarity {
		return cfg, fmt.Errorf("relevance threshold %.2f is below min similarity %.2f",
			cfg.RelevanceThreshold, cfg.MinSimilarity)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	return fallback
}

func getBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}

	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	return d, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// directories searched for the knowledge-base PDF, project root first
func (c *Config) DocumentSearchDirs() []string {
	dirs := []string{"."}

	if c.DocumentsDir != "" && filepath.Clean(c.DocumentsDir) != "." {
		dirs = append(dirs, c.DocumentsDir)
	}

	return dirs
}
