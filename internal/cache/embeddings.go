package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"codeberg.org/techcorp/supportbot/internal/llm"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"github.com/redis/go-redis/v9"
)

const defaultEmbeddingTTL = 24 * time.Hour

// wraps an embedder with a Redis lookaside cache; cache failures only log
type EmbeddingCache struct {
	next   llm.Embedder
	client *redis.Client
	ttl    time.Duration
}

func NewEmbeddingCache(next llm.Embedder, client *redis.Client, ttl time.Duration) *EmbeddingCache {
	if ttl <= 0 {
		ttl = defaultEmbeddingTTL
	}

	return &EmbeddingCache{next: next, client: client, ttl: ttl}
}

func (c *EmbeddingCache) EmbeddingModel() string {
	return c.next.EmbeddingModel()
}

func (c *EmbeddingCache) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	key := embeddingKey(c.next.EmbeddingModel(), text)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if vec, decodeErr := decodeVector(raw); decodeErr == nil {
			return vec, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn("embedding cache read failed", "error", err)
	}

	vec, err := c.next.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, vec)

	return vec, nil
}

// batch calls go straight to the provider, results are cached individually
func (c *EmbeddingCache) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := c.next.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return nil, err
	}

	model := c.next.EmbeddingModel()
	for i, vec := range vectors {
		if i < len(texts) {
			c.store(ctx, embeddingKey(model, texts[i]), vec)
		}
	}

	return vectors, nil
}

func (c *EmbeddingCache) store(ctx context.Context, key string, vec []float32) {
	if err := c.client.Set(ctx, key, encodeVector(vec), c.ttl).Err(); err != nil {
		logger.Warn("embedding cache write failed", "error", err)
	}
}

func embeddingKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("emb:%s:%s", model, hex.EncodeToString(sum[:]))
}

// little-endian float32s
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}

	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf) == 0 || len(buf)%4 != 0 {
		return nil, fmt.Errorf("invalid cached vector length %d", len(buf))
	}

	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}

	return vec, nil
}
