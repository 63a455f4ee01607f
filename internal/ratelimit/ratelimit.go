package ratelimit

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/techcorp/supportbot/internal/errors"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const keyPrefix = "supportbot:limit"

// holds rate limiter configuration
type Config struct {
	// ulule formatted rate, e.g. "60-M"
	Rate string

	// paths that bypass the limiter (health checks, etc.)
	ExemptPaths []string

	// shared counters across replicas when set, in-process otherwise
	Redis *redis.Client
}

// returns the per-IP chat limit
func DefaultConfig() *Config {
	return &Config{
		Rate:        "60-M",
		ExemptPaths: []string{"/health", "/api/health"},
	}
}

func (c *Config) IsExemptPath(path string) bool {
	for _, ep := range c.ExemptPaths {
		if path == ep || strings.HasPrefix(path, ep+"/") {
			return true
		}
	}
	return false
}

// returns a Gin middleware that limits requests per client IP
func New(config *Config) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(config.Rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", config.Rate, err)
	}

	store, err := newStore(config.Redis)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(store, rate)

	retryAfter := strconv.Itoa(int(rate.Period.Seconds()))

	limited := mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			handleRateLimited(c, retryAfter)
		}),
		mgin.WithErrorHandler(handleStoreError),
	)

	return func(c *gin.Context) {
		if config.IsExemptPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		limited(c)
	}, nil
}

func newStore(client *redis.Client) (limiter.Store, error) {
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: keyPrefix}), nil
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: keyPrefix})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}

	return store, nil
}

func handleRateLimited(c *gin.Context, retryAfter string) {
	logger.Warn("rate limit exceeded", "ip", c.ClientIP(), "path", c.Request.URL.Path)

	c.Header("Retry-After", retryAfter)

	errors.TooManyRequests(c, "too many requests. please slow down.")
}

// store failures let the request through
func handleStoreError(c *gin.Context, err error) {
	logger.ErrorErr(err, "rate limiter store failed", "ip", c.ClientIP())
	c.Next()
}
