package retriever

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"codeberg.org/techcorp/supportbot/internal/chunker"
	"codeberg.org/techcorp/supportbot/internal/llm"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"codeberg.org/techcorp/supportbot/internal/tfidf"
)

// searches the vector index and falls back to TF-IDF over the same chunks
type Client struct {
	index    VectorIndex
	embedder llm.Embedder
	config   Config

	mu           sync.RWMutex
	vectorReady  bool
	legacy       *tfidf.Index
	legacyChunks []chunker.Chunk
}

// index and embedder may be nil, in which case only the legacy search runs
func NewClient(index VectorIndex, embedder llm.Embedder, config Config) *Client {
	if config.TopK <= 0 {
		config.TopK = 3
	}

	return &Client{
		index:    index,
		embedder: embedder,
		config:   config,
	}
}

func (c *Client) Config() Config {
	return c.config
}

// marks whether the vector index holds a usable chunk set
func (c *Client) SetVectorReady(ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.vectorReady = ready
}

// reports whether searches go to the vector index first
func (c *Client) VectorAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.vectorAvailableLocked()
}

func (c *Client) vectorAvailableLocked() bool {
	return c.vectorReady && c.index != nil && c.embedder != nil
}

// rebuilds the TF-IDF fallback over chunks; an empty set disables it
func (c *Client) SetLegacyCorpus(chunks []chunker.Chunk) error {
	if len(chunks) == 0 {
		c.mu.Lock()
		c.legacy, c.legacyChunks = nil, nil
		c.mu.Unlock()

		return nil
	}

	docs := make([]string, len(chunks))
	for i, ch := range chunks {
		docs[i] = ch.Content
	}

	idx, err := tfidf.Build(docs, tfidf.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to build tfidf index: %w", err)
	}

	c.mu.Lock()
	c.legacy, c.legacyChunks = idx, chunks
	c.mu.Unlock()

	return nil
}

// reports whether the TF-IDF fallback has documents
func (c *Client) LegacyAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.legacy != nil
}

// vector search when available, otherwise or on failure the legacy search;
// only a cancelled ctx is returned as an error
func (c *Client) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	if k <= 0 {
		k = c.config.TopK
	}

	if c.VectorAvailable() {
		results, err := c.VectorSearch(ctx, query, k)
		if err == nil {
			return results, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// without a legacy corpus this is a plain no-match, not an error
		logger.Warn("vector search failed, falling back to tfidf", "error", err, "legacy_available", c.LegacyAvailable())
	}

	return c.LegacySearch(query, k), nil
}

// embeds the query and searches the vector index, gated by similarity
func (c *Client) VectorSearch(ctx context.Context, query string, k int) ([]SearchResult, error) {
	if !c.VectorAvailable() {
		return nil, ErrVectorUnavailable
	}

	embedding, err := c.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	scored, err := c.index.Search(ctx, embedding, k)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, len(scored))
	for i, s := range scored {
		results[i] = SearchResult{
			Source:      s.Source,
			Title:       s.Title,
			SourceTitle: s.SourceTitle,
			Content:     s.Content,
			Similarity:  s.Similarity,
			Backend:     BackendVector,
		}
	}

	return Gate(results, c.config), nil
}

// TF-IDF cosine search, gated by similarity; nil when no corpus is loaded
func (c *Client) LegacySearch(query string, k int) []SearchResult {
	c.mu.RLock()
	idx, chunks := c.legacy, c.legacyChunks
	c.mu.RUnlock()

	if idx == nil {
		return nil
	}

	matches := idx.Search(query, k)
	results := make([]SearchResult, 0, len(matches))

	for _, m := range matches {
		ch := chunks[m.Doc]
		results = append(results, SearchResult{
			Source:      ch.Source,
			Title:       ch.Title,
			SourceTitle: ch.SourceTitle,
			Content:     ch.Content,
			Similarity:  m.Score,
			Backend:     BackendLegacy,
		})
	}

	return Gate(results, c.config)
}

// drops weak results and returns nothing unless the best one clears the relevance threshold
func Gate(results []SearchResult, config Config) []SearchResult {
	kept := make([]SearchResult, 0, len(results))
	best := 0.0

	for _, r := range results {
		if r.Similarity <= config.MinSimilarity {
			continue
		}

		kept = append(kept, r)

		if r.Similarity > best {
			best = r.Similarity
		}
	}

	if len(kept) == 0 || best < config.RelevanceThreshold {
		return nil
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Similarity > kept[j].Similarity
	})

	return kept
}
