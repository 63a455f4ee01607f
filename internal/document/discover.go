package document

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// looks for PDFs in each directory in order and reports the first one that has any
func Discover(dirs ...string) Info {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}

		files := listPDFs(dir)
		if len(files) == 0 {
			continue
		}

		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = dir
		}

		return Info{
			Available: true,
			Files:     files,
			Directory: abs,
			Message: fmt.Sprintf("Company information is available in %d PDF document(s). "+
				"You can download these for offline reference.", len(files)),
		}
	}

	return Info{
		Available: false,
		Message:   "No PDF documents found. Add a company PDF to the documents directory and rebuild the index.",
	}
}

func listPDFs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if IsPDF(entry.Name()) {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)

	return files
}

// reports whether name has a .pdf extension
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

func joinPath(dir, file string) string {
	return filepath.Join(dir, file)
}
