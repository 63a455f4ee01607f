package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extracts the plain text of every non-empty page
func ExtractPages(path string) ([]Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}

	defer f.Close() //nolint:errcheck

	return readPages(r)
}

// extracts a PDF held in memory (uploads)
func ExtractPagesFromBytes(data []byte) ([]Page, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	return readPages(r)
}

// the pdf package panics on some malformed content streams
func readPages(r *pdf.Reader) (pages []Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", i, err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pages = append(pages, Page{Number: i, Text: text})
	}

	return pages, nil
}

// extracts a PDF and joins its pages with blank lines
func ExtractText(path string) (string, error) {
	pages, err := ExtractPages(path)
	if err != nil {
		return "", err
	}

	return joinPages(pages)
}

func joinPages(pages []Page) (string, error) {
	if len(pages) == 0 {
		return "", ErrEmptyDocument
	}

	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}

	return strings.Join(texts, "\n\n"), nil
}

// reads an upload stream fully, capped at limit bytes
func ReadAllLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	if int64(len(data)) > limit {
		return nil, fmt.Errorf("upload exceeds %d bytes", limit)
	}

	return data, nil
}
