// Package registry keeps listed-company metadata (name, industry, filed
// sustainability reports) for the company_lookup tool.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Company is one listed company with its filed report years.
type Company struct {
	Name        string `json:"name"`
	NameEnglish string `json:"name_english,omitempty"`
	Industry    string `json:"industry,omitempty"`
	ReportYears []int  `json:"report_years,omitempty"`
}

// Store is an in-memory company index with a simple lexical matcher. The
// chat core only reads; the scraper seeds it before serving.
type Store struct {
	mu        sync.RWMutex
	companies []Company
}

func NewStore() *Store {
	return &Store{}
}

// Add inserts or merges a company record. Matching is by Chinese name.
func (s *Store) Add(c Company) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.companies {
		if s.companies[i].Name == c.Name {
			if c.NameEnglish != "" {
				s.companies[i].NameEnglish = c.NameEnglish
			}
			if c.Industry != "" {
				s.companies[i].Industry = c.Industry
			}
			s.companies[i].ReportYears = mergeYears(s.companies[i].ReportYears, c.ReportYears)
			return
		}
	}
	sort.Ints(c.ReportYears)
	s.companies = append(s.companies, c)
}

// Len returns the number of indexed companies.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.companies)
}

// Lookup finds companies whose Chinese or English name contains the query,
// case-insensitively. Shorter names rank first so exact-ish matches surface.
func (s *Store) Lookup(query string, k int) []Company {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || k <= 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Company
	for _, c := range s.companies {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.NameEnglish), query) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return len(matched[i].Name) < len(matched[j].Name)
	})
	if len(matched) > k {
		matched = matched[:k]
	}
	return matched
}

// Describe renders one company as a display line.
func Describe(c Company) string {
	name := c.Name
	if c.NameEnglish != "" {
		name = fmt.Sprintf("%s (%s)", c.Name, c.NameEnglish)
	}
	line := fmt.Sprintf("%s | industry: %s", name, valueOr(c.Industry, "unknown"))
	if len(c.ReportYears) > 0 {
		years := make([]string, 0, len(c.ReportYears))
		for _, y := range c.ReportYears {
			years = append(years, fmt.Sprintf("%d", y))
		}
		line += fmt.Sprintf(", reports: %s", strings.Join(years, ", "))
	}
	return line
}

func mergeYears(a, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	for _, y := range a {
		seen[y] = struct{}{}
	}
	for _, y := range b {
		seen[y] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
