package conversations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"codeberg.org/techcorp/supportbot/internal/logger"
	"github.com/redis/go-redis/v9"
)

const keyConversation = "conversation:%s"

// redis-backed store, one capped list per conversation
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// the client is owned by the caller; Close does not close it
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Append(ctx context.Context, conversationID string, exchange Exchange) error {
	if conversationID == "" {
		return ErrInvalidConversationID
	}

	if exchange.Timestamp.IsZero() {
		exchange.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(exchange)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange: %w", err)
	}

	key := fmt.Sprintf(keyConversation, conversationID)

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -maxExchanges, -1)
	pipe.Expire(ctx, key, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append exchange in redis: %w", err)
	}

	return nil
}

func (s *RedisStore) Recent(ctx context.Context, conversationID string, n int) ([]Exchange, error) {
	if conversationID == "" {
		return nil, ErrInvalidConversationID
	}

	if n <= 0 {
		return nil, nil
	}

	key := fmt.Sprintf(keyConversation, conversationID)

	items, err := s.client.LRange(ctx, key, int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation from redis: %w", err)
	}

	exchanges := make([]Exchange, 0, len(items))

	for _, item := range items {
		var ex Exchange
		if err := json.Unmarshal([]byte(item), &ex); err != nil {
			logger.Warn("skipping malformed exchange", "conversation_id", conversationID, "error", err)
			continue
		}

		exchanges = append(exchanges, ex)
	}

	return exchanges, nil
}

func (s *RedisStore) Close() error {
	return nil
}
