package chunker

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// a window of knowledge-base text, the unit of retrieval
type Chunk struct {
	Source      string // file the text came from
	Title       string // e.g. "Chunk 3" or "pricing.md - Part 2"
	SourceTitle string // title of the whole document
	Index       int
	Content     string
}

type ChunkOptions struct {
	ChunkSize    int // characters per chunk
	ChunkOverlap int // characters shared between neighbouring chunks
	Separators   []string
}

func DefaultOptions() ChunkOptions {
	return ChunkOptions{
		ChunkSize:    900,
		ChunkOverlap: 100,
		Separators:   []string{"\n\n", "\n", " ", ""},
	}
}

// splits text recursively on paragraph, line, word and character boundaries
func Split(text string, opts ChunkOptions) ([]string, error) {
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", opts.ChunkSize)
	}

	if opts.ChunkOverlap < 0 || opts.ChunkOverlap >= opts.ChunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, %d)", opts.ChunkOverlap, opts.ChunkSize)
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(opts.ChunkSize),
		textsplitter.WithChunkOverlap(opts.ChunkOverlap),
		textsplitter.WithSeparators(opts.Separators),
	)

	parts, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split text: %w", err)
	}

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out, nil
}

// chunks the text extracted from the knowledge-base PDF ("Chunk 1", "Chunk 2", ...)
func ChunkPDF(text, source string, opts ChunkOptions) ([]Chunk, error) {
	return chunk(text, source, opts, func(i int) string {
		return fmt.Sprintf("Chunk %d", i+1)
	})
}

// chunks an uploaded document ("name - Part 1", "name - Part 2", ...)
func ChunkDocument(text, filename string, opts ChunkOptions) ([]Chunk, error) {
	return chunk(text, filename, opts, func(i int) string {
		return fmt.Sprintf("%s - Part %d", filename, i+1)
	})
}

func chunk(text, source string, opts ChunkOptions, title func(int) string) ([]Chunk, error) {
	parts, err := Split(text, opts)
	if err != nil {
		return nil, err
	}

	sourceTitle := source
	if idx := strings.LastIndexAny(source, `/\`); idx >= 0 {
		sourceTitle = source[idx+1:]
	}

	chunks := make([]Chunk, len(parts))

	for i, p := range parts {
		chunks[i] = Chunk{
			Source:      source,
			Title:       title(i),
			SourceTitle: sourceTitle,
			Index:       i,
			Content:     p,
		}
	}

	return chunks, nil
}
