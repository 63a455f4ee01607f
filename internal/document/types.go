package document

import "errors"

var (
	ErrEmptyDocument     = errors.New("document contains no extractable text")
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// one page of extracted PDF text
type Page struct {
	Number int
	Text   string
}

// result of looking for knowledge-base PDFs
type Info struct {
	Available bool     `json:"available"`
	Files     []string `json:"files,omitempty"`
	Directory string   `json:"directory,omitempty"`
	Message   string   `json:"message"`
}

// returns the absolute path of the first discovered file
func (i Info) Primary() string {
	if !i.Available || len(i.Files) == 0 {
		return ""
	}

	return joinPath(i.Directory, i.Files[0])
}
