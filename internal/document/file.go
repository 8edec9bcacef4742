package document

import (
	"os"
	"strings"
)

// ReadPagesFile reads extracted report text from a plain-text file. Pages
// are separated by form feed characters, the convention pdftotext uses. A
// file with no form feeds loads as a single page.
func ReadPagesFile(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	chunks := strings.Split(string(data), "\f")
	pages := make([]Page, 0, len(chunks))
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		pages = append(pages, Page{Number: i + 1, Text: chunk})
	}
	return pages, nil
}
