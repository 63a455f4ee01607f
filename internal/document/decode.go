package document

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".json":     true,
	".html":     true,
	"":          true,
}

// turns an uploaded file into plain text
func Decode(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == ".pdf" {
		pages, err := ExtractPagesFromBytes(data)
		if err != nil {
			return "", err
		}

		return joinPages(pages)
	}

	if !textExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8 text", ErrUnsupportedFormat, filename)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", ErrEmptyDocument
	}

	return text, nil
}
