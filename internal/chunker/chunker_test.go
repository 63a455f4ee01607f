package chunker

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paragraph(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func TestSplitShortTextIsOneChunk(t *testing.T) {
	parts, err := Split("  TechCorp offers cloud migration.  ", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"TechCorp offers cloud migration."}, parts)
}

func TestSplitRespectsChunkSize(t *testing.T) {
	text := strings.Join([]string{
		paragraph("cloud", 120),
		paragraph("security", 90),
		paragraph("analytics", 100),
	}, "\n\n")

	opts := DefaultOptions()

	parts, err := Split(text, opts)
	require.NoError(t, err)
	require.Greater(t, len(parts), 1)

	for i, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), opts.ChunkSize, "chunk %d too long", i)
		assert.NotEmpty(t, strings.TrimSpace(p))
	}
}

func TestSplitOverlapsNeighbours(t *testing.T) {
	words := make([]string, 0, 400)
	for i := 0; i < 400; i++ {
		words = append(words, fmt.Sprintf("w%03d", i))
	}

	opts := ChunkOptions{ChunkSize: 200, ChunkOverlap: 50, Separators: DefaultOptions().Separators}

	parts, err := Split(strings.Join(words, " "), opts)
	require.NoError(t, err)
	require.Greater(t, len(parts), 2)

	// the head of each chunk repeats the tail of the previous one
	for i := 1; i < len(parts); i++ {
		head := strings.Fields(parts[i])[0]
		assert.Contains(t, parts[i-1], head, "chunk %d does not overlap its predecessor", i)
	}
}

func TestSplitRejectsBadOptions(t *testing.T) {
	_, err := Split("text", ChunkOptions{ChunkSize: 0})
	assert.Error(t, err)

	_, err = Split("text", ChunkOptions{ChunkSize: 100, ChunkOverlap: 100})
	assert.Error(t, err)
}

func TestSplitEmpty(t *testing.T) {
	parts, err := Split(" \n\n ", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, parts)
}

func TestChunkTitles(t *testing.T) {
	text := paragraph("pricing", 300)

	pdfChunks, err := ChunkPDF(text, "/srv/docs/company.pdf", DefaultOptions())
	require.NoError(t, err)
	require.Greater(t, len(pdfChunks), 1)
	assert.Equal(t, "Chunk 1", pdfChunks[0].Title)
	assert.Equal(t, "Chunk 2", pdfChunks[1].Title)
	assert.Equal(t, "company.pdf", pdfChunks[0].SourceTitle)
	assert.Equal(t, 1, pdfChunks[1].Index)

	docChunks, err := ChunkDocument(text, "faq.md", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "faq.md - Part 1", docChunks[0].Title)
	assert.Equal(t, "faq.md", docChunks[0].SourceTitle)
}
