package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/techcorp/supportbot/internal/chunker"
	"codeberg.org/techcorp/supportbot/internal/storage"
)

var testConfig = Config{TopK: 3, MinSimilarity: 0.2, RelevanceThreshold: 0.4}

type mockEmbedder struct {
	err   error
	calls int
}

func (m *mockEmbedder) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	return []float32{1, 0, 0}, nil
}

func (m *mockEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v, err := m.GenerateEmbedding(ctx, texts[i])
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

func (m *mockEmbedder) EmbeddingModel() string {
	return "mock"
}

type mockIndex struct {
	results []storage.ScoredChunk
	err     error
	gotK    int
}

func (m *mockIndex) Search(_ context.Context, _ []float32, k int) ([]storage.ScoredChunk, error) {
	m.gotK = k
	return m.results, m.err
}

func scored(title string, sim float64) storage.ScoredChunk {
	return storage.ScoredChunk{
		Chunk:      chunker.Chunk{Source: "kb.pdf", Title: title, SourceTitle: "kb", Content: title + " content"},
		Similarity: sim,
	}
}

func legacyChunks() []chunker.Chunk {
	return []chunker.Chunk{
		{Source: "kb.pdf", Title: "Chunk 1", Content: "Cloud migration services move workloads to AWS Azure and GCP"},
		{Source: "kb.pdf", Title: "Chunk 2", Content: "Cybersecurity audits monitoring and compliance reviews"},
		{Source: "kb.pdf", Title: "Chunk 3", Content: "Mobile app development for iOS and Android"},
	}
}

func TestGate(t *testing.T) {
	tests := []struct {
		name    string
		input   []float64
		want    []float64
		wantNil bool
	}{
		{name: "empty", input: nil, wantNil: true},
		{name: "all below floor", input: []float64{0.1, 0.2, 0.15}, wantNil: true},
		{name: "best below threshold", input: []float64{0.35, 0.3, 0.25}, wantNil: true},
		{name: "drops weak and sorts", input: []float64{0.3, 0.9, 0.1, 0.5}, want: []float64{0.9, 0.5, 0.3}},
		{name: "threshold is inclusive", input: []float64{0.4}, want: []float64{0.4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]SearchResult, len(tt.input))
			for i, s := range tt.input {
				results[i] = SearchResult{Similarity: s}
			}

			got := Gate(results, testConfig)

			if tt.wantNil {
				assert.Nil(t, got)
				return
			}

			sims := make([]float64, len(got))
			for i, r := range got {
				sims[i] = r.Similarity
			}

			assert.Equal(t, tt.want, sims)
		})
	}
}

func TestSearchPrefersVectorIndex(t *testing.T) {
	index := &mockIndex{results: []storage.ScoredChunk{scored("Chunk 1", 0.82), scored("Chunk 2", 0.15)}}
	embedder := &mockEmbedder{}

	client := NewClient(index, embedder, testConfig)
	client.SetVectorReady(true)
	require.NoError(t, client.SetLegacyCorpus(legacyChunks()))

	results, err := client.Search(context.Background(), "cloud migration", 0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "Chunk 1", results[0].Title)
	assert.Equal(t, BackendVector, results[0].Backend)
	assert.Equal(t, 3, index.gotK)
	assert.Equal(t, 1, embedder.calls)
}

func TestSearchFallsBackToLegacy(t *testing.T) {
	t.Run("vector not ready", func(t *testing.T) {
		embedder := &mockEmbedder{}
		client := NewClient(&mockIndex{}, embedder, testConfig)
		require.NoError(t, client.SetLegacyCorpus(legacyChunks()))

		results, err := client.Search(context.Background(), "cloud migration to AWS", 3)
		require.NoError(t, err)

		require.NotEmpty(t, results)
		assert.Equal(t, "Chunk 1", results[0].Title)
		assert.Equal(t, BackendLegacy, results[0].Backend)
		assert.Zero(t, embedder.calls)
	})

	t.Run("embedding failure", func(t *testing.T) {
		client := NewClient(&mockIndex{}, &mockEmbedder{err: errors.New("quota exceeded")}, testConfig)
		client.SetVectorReady(true)
		require.NoError(t, client.SetLegacyCorpus(legacyChunks()))

		results, err := client.Search(context.Background(), "cybersecurity audits", 3)
		require.NoError(t, err)

		require.NotEmpty(t, results)
		assert.Equal(t, "Chunk 2", results[0].Title)
	})

	t.Run("index failure without legacy corpus is no match", func(t *testing.T) {
		client := NewClient(&mockIndex{err: errors.New("connection refused")}, &mockEmbedder{}, testConfig)
		client.SetVectorReady(true)

		results, err := client.Search(context.Background(), "anything", 3)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("cancelled context is an error", func(t *testing.T) {
		client := NewClient(&mockIndex{err: context.Canceled}, &mockEmbedder{}, testConfig)
		client.SetVectorReady(true)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Search(ctx, "anything", 3)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSearchWithoutAnyIndex(t *testing.T) {
	client := NewClient(nil, nil, testConfig)

	results, err := client.Search(context.Background(), "cloud", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.False(t, client.VectorAvailable())

	client.SetVectorReady(true)
	assert.False(t, client.VectorAvailable())

	_, err = client.VectorSearch(context.Background(), "cloud", 3)
	assert.ErrorIs(t, err, ErrVectorUnavailable)
}

func TestLegacySearchUnrelatedQuery(t *testing.T) {
	client := NewClient(nil, nil, testConfig)
	require.NoError(t, client.SetLegacyCorpus(legacyChunks()))

	assert.Empty(t, client.LegacySearch("weather forecast tomorrow", 3))

	require.NoError(t, client.SetLegacyCorpus(nil))
	assert.False(t, client.LegacyAvailable())
}
