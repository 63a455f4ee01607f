package conversations

import (
	"context"
	"sync"
	"time"
)

type conversation struct {
	exchanges []Exchange
	expiresAt time.Time
}

// in-memory store with TTL expiry
type MemoryStore struct {
	conversations map[string]*conversation
	mu            sync.RWMutex
	ttl           time.Duration
	done          chan struct{}
	wg            sync.WaitGroup
	closeOnce     sync.Once
}

// returns a new memory store and starts its cleanup loop
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}

	s := &MemoryStore{
		conversations: make(map[string]*conversation),
		ttl:           ttl,
		done:          make(chan struct{}),
	}

	s.wg.Add(1)

	go s.cleanupExpired(cleanupInterval)

	return s
}

func (s *MemoryStore) Append(_ context.Context, conversationID string, exchange Exchange) error {
	if conversationID == "" {
		return ErrInvalidConversationID
	}

	if exchange.Timestamp.IsZero() {
		exchange.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok || time.Now().After(conv.expiresAt) {
		conv = &conversation{}
		s.conversations[conversationID] = conv
	}

	conv.exchanges = append(conv.exchanges, exchange)
	if len(conv.exchanges) > maxExchanges {
		conv.exchanges = conv.exchanges[len(conv.exchanges)-maxExchanges:]
	}

	conv.expiresAt = time.Now().Add(s.ttl)

	return nil
}

// returns up to n most recent exchanges, oldest first
func (s *MemoryStore) Recent(_ context.Context, conversationID string, n int) ([]Exchange, error) {
	if conversationID == "" {
		return nil, ErrInvalidConversationID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[conversationID]
	if !ok || time.Now().After(conv.expiresAt) || n <= 0 {
		return nil, nil
	}

	start := len(conv.exchanges) - n
	if start < 0 {
		start = 0
	}

	out := make([]Exchange, len(conv.exchanges)-start)
	copy(out, conv.exchanges[start:])

	return out, nil
}

// returns the number of live conversations
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.conversations)
}

// stops the cleanup loop
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})

	s.wg.Wait()

	return nil
}

func (s *MemoryStore) cleanupExpired(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.removeExpired(time.Now())
		}
	}
}

func (s *MemoryStore) removeExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, conv := range s.conversations {
		if now.After(conv.expiresAt) {
			delete(s.conversations, id)
		}
	}
}
