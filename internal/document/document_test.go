package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o600))
}

func TestDiscoverPrefersFirstDirectoryWithPDFs(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "company_documents")
	require.NoError(t, os.Mkdir(sub, 0o755))

	touch(t, sub, "b.pdf")
	touch(t, sub, "a.PDF")
	touch(t, sub, "notes.txt")

	info := Discover(root, sub)
	require.True(t, info.Available)
	assert.Equal(t, []string{"a.PDF", "b.pdf"}, info.Files)
	assert.Equal(t, filepath.Join(sub, "a.PDF"), info.Primary())
	assert.Contains(t, info.Message, "2 PDF document(s)")

	touch(t, root, "root.pdf")

	info = Discover(root, sub)
	assert.Equal(t, []string{"root.pdf"}, info.Files)
}

func TestDiscoverNothing(t *testing.T) {
	info := Discover(t.TempDir(), "", filepath.Join(t.TempDir(), "missing"))
	assert.False(t, info.Available)
	assert.Empty(t, info.Primary())
	assert.True(t, strings.HasPrefix(info.Message, "No PDF documents found"))
}

func TestDecodeText(t *testing.T) {
	text, err := Decode("faq.md", []byte("  # FAQ\n\nWe migrate clouds.  "))
	require.NoError(t, err)
	assert.Equal(t, "# FAQ\n\nWe migrate clouds.", text)
}

func TestDecodeRejects(t *testing.T) {
	_, err := Decode("binary.txt", []byte{0xff, 0xfe, 0xfd})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Decode("slides.pptx", []byte("x"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Decode("empty.txt", []byte("   \n"))
	assert.True(t, errors.Is(err, ErrEmptyDocument))

	_, err = Decode("broken.pdf", []byte("not a pdf"))
	assert.Error(t, err)
}

func TestJoinPages(t *testing.T) {
	text, err := joinPages([]Page{{Number: 1, Text: "one"}, {Number: 3, Text: "three"}})
	require.NoError(t, err)
	assert.Equal(t, "one\n\nthree", text)

	_, err = joinPages(nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestReadAllLimited(t *testing.T) {
	data, err := ReadAllLimited(strings.NewReader("abc"), 3)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	_, err = ReadAllLimited(strings.NewReader("abcd"), 3)
	assert.Error(t, err)
}
