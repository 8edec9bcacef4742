// Package document holds the currently loaded report's per-page text.
package document

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
)

type Language string

const (
	LangChinese Language = "chinese"
	LangEnglish Language = "english"
	LangUnknown Language = "unknown"
)

// Page is one page of extracted report text.
type Page struct {
	Number int
	Text   string
}

// Store keeps the loaded report pages. One report is loaded at a time; the
// chat core only reads, so a plain RWMutex is enough.
type Store struct {
	mu       sync.RWMutex
	pages    []Page
	language Language
}

func NewStore() *Store {
	return &Store{language: LangUnknown}
}

// Load replaces the current report with the given pages. Page text is
// cleaned and the document language re-detected from a bounded sample.
func (s *Store) Load(pages []Page) {
	cleaned := make([]Page, 0, len(pages))
	for _, p := range pages {
		cleaned = append(cleaned, Page{Number: p.Number, Text: CleanText(p.Text)})
	}
	sort.Slice(cleaned, func(i, j int) bool { return cleaned[i].Number < cleaned[j].Number })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = cleaned
	s.language = detectLanguage(cleaned, 10)
}

// Clear drops the loaded report.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = nil
	s.language = LangUnknown
}

// Loaded reports whether a report is currently loaded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages) > 0
}

// Language returns the detected report language.
func (s *Store) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// PageCount returns the number of loaded pages.
func (s *Store) PageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// Page returns the formatted text of one page, or a not-found notice.
func (s *Store) Page(n int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pages {
		if p.Number == n {
			return fmt.Sprintf("[Page %d]: %s", p.Number, p.Text)
		}
	}
	return fmt.Sprintf("Page %d not found.", n)
}

// All returns the full report text, one "[Page n]: ..." block per page.
func (s *Store) All() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blocks := make([]string, 0, len(s.pages))
	for _, p := range s.pages {
		blocks = append(blocks, fmt.Sprintf("[Page %d]: %s", p.Number, p.Text))
	}
	return strings.Join(blocks, "\n\n")
}

var (
	wsRun     = regexp.MustCompile(`\s+`)
	hyphenGap = regexp.MustCompile(`-\s+`)
	htmlTag   = regexp.MustCompile(`<[^>]+>`)
)

// CleanText collapses whitespace runs, joins hyphenated line breaks, and
// strips markup left over from extraction.
func CleanText(text string) string {
	text = wsRun.ReplaceAllString(text, " ")
	text = hyphenGap.ReplaceAllString(text, "")
	text = htmlTag.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// detectLanguage classifies a report as chinese or english by comparing CJK
// rune counts against ASCII letters over at most maxPages pages.
func detectLanguage(pages []Page, maxPages int) Language {
	var sample strings.Builder
	for i, p := range pages {
		if i >= maxPages {
			break
		}
		sample.WriteString(p.Text)
	}

	var chinese, english int
	for _, r := range sample.String() {
		switch {
		case r >= 0x4e00 && r <= 0x9fff:
			chinese++
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			english++
		}
	}

	switch {
	case chinese > english:
		return LangChinese
	case english > chinese:
		return LangEnglish
	default:
		return LangUnknown
	}
}
