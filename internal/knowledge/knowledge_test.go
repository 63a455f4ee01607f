package knowledge

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"codeberg.org/techcorp/supportbot/internal/chunker"
	"codeberg.org/techcorp/supportbot/internal/llm"
	"codeberg.org/techcorp/supportbot/internal/retriever"
	"codeberg.org/techcorp/supportbot/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const companyText = `Cloud Migration services move workloads to AWS, Azure and GCP with zero downtime.

Cybersecurity audits include penetration testing, monitoring and compliance reviews.

Mobile App Development covers iOS, Android and cross-platform applications.

Data Analytics delivers dashboards, reporting and business intelligence.`

// deterministic bag-of-words embeddings
type fakeEmbedder struct {
	model string
	err   error
	calls atomic.Int32
}

func (f *fakeEmbedder) EmbeddingModel() string {
	if f.model == "" {
		return "fake-embedding"
	}

	return f.model
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	out, err := f.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return out[0], nil
}

func (f *fakeEmbedder) GenerateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	f.calls.Add(1)

	if f.err != nil {
		return nil, f.err
	}

	out := make([][]float32, len(texts))

	for i, text := range texts {
		vec := make([]float32, 32)

		for _, word := range strings.Fields(strings.ToLower(text)) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(strings.Trim(word, ".,"))) //nolint:errcheck
			vec[h.Sum32()%32]++
		}

		out[i] = vec
	}

	return out, nil
}

type fakeVectorStore struct {
	mu         sync.Mutex
	chunks     []chunker.Chunk
	embeddings [][]float32
	meta       *storage.IndexMeta
	replaceErr error
}

func (f *fakeVectorStore) ReplaceAll(_ context.Context, chunks []chunker.Chunk, embeddings [][]float32, meta storage.IndexMeta) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.replaceErr != nil {
		return f.replaceErr
	}

	meta.BuiltAt = time.Now()
	f.chunks, f.embeddings, f.meta = chunks, embeddings, &meta

	return nil
}

func (f *fakeVectorStore) AppendChunks(_ context.Context, chunks []chunker.Chunk, embeddings [][]float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.chunks = append(f.chunks, chunks...)
	f.embeddings = append(f.embeddings, embeddings...)

	return nil
}

func (f *fakeVectorStore) Search(_ context.Context, embedding []float32, k int) ([]storage.ScoredChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	scored := make([]storage.ScoredChunk, len(f.chunks))
	for i, ch := range f.chunks {
		scored[i] = storage.ScoredChunk{Chunk: ch, Similarity: cosine(embedding, f.embeddings[i])}
	}

	sort.Slice(scored, func(a, b int) bool { return scored[a].Similarity > scored[b].Similarity })

	if len(scored) > k {
		scored = scored[:k]
	}

	return scored, nil
}

func (f *fakeVectorStore) ListChunks(_ context.Context) ([]chunker.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]chunker.Chunk(nil), f.chunks...), nil
}

func (f *fakeVectorStore) GetChunkCount(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.chunks), nil
}

func (f *fakeVectorStore) GetIndexMeta(_ context.Context) (*storage.IndexMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.meta, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i] * b[i])
		na += float64(a[i] * a[i])
		nb += float64(b[i] * b[i])
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

type fakeSnapshot struct {
	mu     sync.Mutex
	chunks []chunker.Chunk
	at     time.Time
}

func (f *fakeSnapshot) Replace(_ context.Context, chunks []chunker.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.chunks = append([]chunker.Chunk(nil), chunks...)
	f.at = time.Now()

	return nil
}

func (f *fakeSnapshot) Append(_ context.Context, chunks []chunker.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.chunks = append(f.chunks, chunks...)
	f.at = time.Now()

	return nil
}

func (f *fakeSnapshot) Load(_ context.Context) ([]chunker.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]chunker.Chunk(nil), f.chunks...), nil
}

func (f *fakeSnapshot) UpdatedAt(_ context.Context) (time.Time, error) {
	return f.at, nil
}

func (f *fakeSnapshot) Path() string {
	return "memory"
}

func testConfig(dir string) Config {
	return Config{
		DocumentDirs:  []string{dir},
		Chunking:      chunker.ChunkOptions{ChunkSize: 120, ChunkOverlap: 10, Separators: []string{"\n\n", "\n", " ", ""}},
		Retrieval:     retriever.Config{TopK: 3, MinSimilarity: 0.2, RelevanceThreshold: 0.4},
		WatchDebounce: 50 * time.Millisecond,
	}
}

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	return path
}

// returns a service whose PDF extraction yields companyText and counts calls
func newTestService(cfg Config, vectors VectorStore, embedder *fakeEmbedder, snap Snapshot) (*Service, *atomic.Int32) {
	var calls atomic.Int32

	var emb llm.Embedder
	if embedder != nil {
		emb = embedder
	}

	s := NewService(cfg, vectors, emb, snap)
	s.extract = func(string) (string, error) {
		calls.Add(1)
		return companyText, nil
	}

	return s, &calls
}

func TestInitializeWithoutDocuments(t *testing.T) {
	s, calls := newTestService(testConfig(t.TempDir()), nil, nil, nil)

	require.NoError(t, s.Initialize(context.Background()))
	assert.Zero(t, calls.Load())

	status := s.KnowledgeBaseStatus()
	assert.Zero(t, status.TotalDocuments)
	assert.False(t, status.VectorsBuilt)
	assert.NotNil(t, status.DocumentTitles)

	results, err := s.Search(context.Background(), "cloud migration", 3)
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = s.Rebuild(context.Background())
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestInitializeProcessesPDF(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "company.pdf")

	snap := &fakeSnapshot{}
	s, calls := newTestService(testConfig(dir), nil, nil, snap)

	require.NoError(t, s.Initialize(context.Background()))
	assert.Equal(t, int32(1), calls.Load())

	status := s.KnowledgeBaseStatus()
	assert.Greater(t, status.TotalDocuments, 1)
	assert.Equal(t, []string{"company.pdf"}, status.DocumentTitles)
	assert.Len(t, snap.chunks, status.TotalDocuments)

	results, err := s.Search(context.Background(), "cybersecurity audits and penetration testing", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Content, "Cybersecurity")
	assert.Equal(t, retriever.BackendLegacy, results[0].Backend)

	idx := s.IndexStatus(context.Background())
	assert.False(t, idx.VectorAvailable)
	assert.True(t, idx.LegacyAvailable)
	assert.Equal(t, "tfidf", idx.EmbeddingsModel)
	assert.Equal(t, "memory", idx.SnapshotPath)
}

func TestInitializeBuildsVectorIndex(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "company.pdf")

	vectors := &fakeVectorStore{}
	s, _ := newTestService(testConfig(dir), vectors, &fakeEmbedder{}, nil)

	require.NoError(t, s.Initialize(context.Background()))

	require.NotNil(t, vectors.meta)
	assert.Equal(t, "fake-embedding", vectors.meta.EmbeddingModel)
	assert.Equal(t, 32, vectors.meta.Dimension)

	query := vectors.chunks[0].Content
	results, err := s.Search(context.Background(), query, 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, retriever.BackendVector, results[0].Backend)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)

	idx := s.IndexStatus(context.Background())
	assert.True(t, idx.VectorAvailable)
	assert.True(t, idx.IndexExists)
	assert.Equal(t, 32, idx.VectorDim)
	assert.Equal(t, len(vectors.chunks), idx.VectorCount)
}

func TestInitializeLoadsStoredIndex(t *testing.T) {
	vectors := &fakeVectorStore{}
	embedder := &fakeEmbedder{}

	chunks := []chunker.Chunk{{Source: "kb.pdf", Title: "Chunk 1", SourceTitle: "kb.pdf", Content: "stored chunk about cloud"}}
	embeddings, err := embedder.GenerateEmbeddings(context.Background(), []string{chunks[0].Content})
	require.NoError(t, err)
	require.NoError(t, vectors.ReplaceAll(context.Background(), chunks, embeddings, storage.IndexMeta{EmbeddingModel: "fake-embedding", Dimension: 32, Source: "kb.pdf"}))

	s, calls := newTestService(testConfig(t.TempDir()), vectors, embedder, nil)
	require.NoError(t, s.Initialize(context.Background()))

	assert.Zero(t, calls.Load())
	assert.Equal(t, 1, s.KnowledgeBaseStatus().TotalDocuments)
	assert.True(t, s.IndexStatus(context.Background()).VectorAvailable)
}

func TestInitializeSkipsIndexFromOtherModel(t *testing.T) {
	vectors := &fakeVectorStore{
		chunks:     []chunker.Chunk{{Content: "old"}},
		embeddings: [][]float32{{1}},
		meta:       &storage.IndexMeta{EmbeddingModel: "other-model", Dimension: 1},
	}
	snap := &fakeSnapshot{chunks: []chunker.Chunk{{Source: "kb.pdf", SourceTitle: "kb.pdf", Title: "Chunk 1", Content: "snapshot chunk about data analytics"}}}

	s, calls := newTestService(testConfig(t.TempDir()), vectors, &fakeEmbedder{}, snap)
	require.NoError(t, s.Initialize(context.Background()))

	assert.Zero(t, calls.Load())
	assert.Equal(t, "fake-embedding", vectors.meta.EmbeddingModel, "snapshot chunks are re-embedded")
	require.Len(t, vectors.chunks, 1)
	assert.Equal(t, "snapshot chunk about data analytics", vectors.chunks[0].Content)
}

func TestRebuildEmbeddingFailureKeepsLegacySearch(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "company.pdf")

	s, _ := newTestService(testConfig(dir), &fakeVectorStore{}, &fakeEmbedder{err: errors.New("quota exceeded")}, nil)

	n, err := s.Rebuild(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Positive(t, n)

	assert.False(t, s.IndexStatus(context.Background()).VectorAvailable)

	results, err := s.Search(context.Background(), "mobile app development for iOS", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, retriever.BackendLegacy, results[0].Backend)
}

func TestRebuildFromExplicitPath(t *testing.T) {
	s, calls := newTestService(testConfig(t.TempDir()), nil, nil, nil)

	var got string
	s.extract = func(path string) (string, error) {
		calls.Add(1)
		got = path
		return companyText, nil
	}

	n, err := s.RebuildFrom(context.Background(), "/srv/kb/handbook.pdf")
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.Equal(t, "/srv/kb/handbook.pdf", got)
	assert.Equal(t, []string{"handbook.pdf"}, s.KnowledgeBaseStatus().DocumentTitles)
}

func TestAddDocument(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "company.pdf")

	vectors := &fakeVectorStore{}
	snap := &fakeSnapshot{}
	s, _ := newTestService(testConfig(dir), vectors, &fakeEmbedder{}, snap)
	require.NoError(t, s.Initialize(context.Background()))

	before := len(vectors.chunks)

	res := s.AddDocument(context.Background(), "pricing.md", []byte("Cloud Migration starts at $2,500 per month. Support plans start at $500 per month."))
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, 1, res.Chunks)
	assert.Positive(t, res.Size)
	assert.Empty(t, res.Error)

	assert.Len(t, vectors.chunks, before+1)
	assert.Equal(t, "pricing.md - Part 1", vectors.chunks[before].Title)
	assert.Len(t, snap.chunks, before+1)
	assert.Equal(t, []string{"company.pdf", "pricing.md"}, s.KnowledgeBaseStatus().DocumentTitles)

	bad := s.AddDocument(context.Background(), "logo.png", []byte{0x89, 'P', 'N', 'G'})
	assert.Equal(t, "error", bad.Status)
	assert.NotEmpty(t, bad.Error)

	empty := s.AddDocument(context.Background(), "notes.txt", []byte("   "))
	assert.Equal(t, "error", empty.Status)
}

func TestAddDocumentWithoutExistingIndex(t *testing.T) {
	vectors := &fakeVectorStore{}
	s, _ := newTestService(testConfig(t.TempDir()), vectors, &fakeEmbedder{}, nil)
	require.NoError(t, s.Initialize(context.Background()))

	res := s.AddDocument(context.Background(), "faq.txt", []byte("We offer 24/7 technical support with a two hour response time."))
	require.Equal(t, "success", res.Status)

	require.NotNil(t, vectors.meta)
	assert.Len(t, vectors.chunks, 1)
	assert.True(t, s.IndexStatus(context.Background()).VectorAvailable)
}

func TestReset(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "company.pdf")

	snap := &fakeSnapshot{}
	s, calls := newTestService(testConfig(dir), nil, nil, snap)
	require.NoError(t, s.Initialize(context.Background()))

	total := s.KnowledgeBaseStatus().TotalDocuments

	require.NoError(t, s.Reset(context.Background()))

	assert.Equal(t, int32(1), calls.Load(), "reset reloads the snapshot instead of reprocessing")
	assert.Equal(t, total, s.KnowledgeBaseStatus().TotalDocuments)
}

func TestWatchRebuildsOnPDFChange(t *testing.T) {
	dir := t.TempDir()
	s, calls := newTestService(testConfig(dir), nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- s.Watch(ctx)
	}()

	// let the watcher register the directory
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))
	writePDF(t, dir, "company.pdf")

	require.Eventually(t, func() bool {
		return s.KnowledgeBaseStatus().TotalDocuments > 0
	}, 5*time.Second, 20*time.Millisecond)

	assert.GreaterOrEqual(t, calls.Load(), int32(1))

	cancel()
	require.NoError(t, <-done)
}

func TestWatchWithoutDirectory(t *testing.T) {
	s, _ := newTestService(testConfig(filepath.Join(t.TempDir(), "missing")), nil, nil, nil)

	assert.Error(t, s.Watch(context.Background()))
}
