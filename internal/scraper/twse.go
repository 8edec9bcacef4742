// Package scraper seeds the company registry from the TWSE ISIN listing
// pages using a headless browser, since the listing site renders its tables
// through scripted form posts.
package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"esgchat/internal/registry"

	"github.com/chromedp/chromedp"
)

const (
	listingURLZh = "https://isin.twse.com.tw/isin/class_main.jsp?market=1&industry_code=%02d"
	listingURLEn = "https://isin.twse.com.tw/isin/e_class_main.jsp?market=1&industry_code=%02d"

	// TWSE industry codes run 01..38.
	industryCodeMax = 38
)

// Config holds scraper configuration.
type Config struct {
	Headless   bool
	ChromePath string
	// Delay between listing-page fetches; the site rate-limits aggressively.
	Delay time.Duration
}

// Scraper drives a headless Chrome instance against the listing pages.
type Scraper struct {
	cfg         Config
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func New(cfg Config) *Scraper {
	if cfg.Delay <= 0 {
		cfg.Delay = 500 * time.Millisecond
	}
	return &Scraper{cfg: cfg}
}

// Start launches Chrome/Chromium.
func (s *Scraper) Start(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 900),
	)
	if s.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.cfg.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	s.allocCtx = allocCtx
	s.allocCancel = cancel

	probe, _ := chromedp.NewContext(s.allocCtx)
	if err := chromedp.Run(probe); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	return nil
}

// Stop gracefully shuts down Chrome.
func (s *Scraper) Stop() {
	if s.allocCancel != nil {
		s.allocCancel()
	}
}

// Seed walks every industry code on the Chinese and English listing pages
// and merges the rows into the registry. Returns the number of rows added.
func (s *Scraper) Seed(ctx context.Context, store *registry.Store) (int, error) {
	if s.allocCtx == nil {
		return 0, fmt.Errorf("scraper not started")
	}

	total := 0
	for code := 1; code <= industryCodeMax; code++ {
		zh, err := s.fetchText(ctx, fmt.Sprintf(listingURLZh, code))
		if err != nil {
			return total, fmt.Errorf("industry %02d (zh): %w", code, err)
		}
		for _, c := range ParseListing(zh, false) {
			store.Add(c)
			total++
		}
		time.Sleep(s.cfg.Delay)

		en, err := s.fetchText(ctx, fmt.Sprintf(listingURLEn, code))
		if err != nil {
			return total, fmt.Errorf("industry %02d (en): %w", code, err)
		}
		for _, c := range ParseListing(en, true) {
			store.Add(c)
		}
		time.Sleep(s.cfg.Delay)
	}
	return total, nil
}

func (s *Scraper) fetchText(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tabCtx, cancel := chromedp.NewContext(s.allocCtx)
	defer cancel()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 30*time.Second)
	defer cancelTimeout()

	var body string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Text("body", &body, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("navigate failed: %w", err)
	}
	return body, nil
}

// ParseListing extracts company rows from the rendered listing-table text.
// Rows look like "2330\t台積電\t...\t半導體業\t..." with tab- or
// multi-space-separated cells; the company name is the second cell and the
// industry the last non-empty cell.
func ParseListing(body string, english bool) []registry.Company {
	var out []registry.Company
	for _, line := range strings.Split(body, "\n") {
		cells := splitCells(line)
		if len(cells) < 3 {
			continue
		}
		// Listed rows start with a 4-digit ticker.
		if !isTicker(cells[0]) {
			continue
		}
		name := strings.TrimSpace(cells[1])
		industry := strings.TrimSpace(cells[len(cells)-1])
		if name == "" {
			continue
		}
		c := registry.Company{Name: name, Industry: industry}
		if english {
			c.NameEnglish = name
		}
		out = append(out, c)
	}
	return out
}

func splitCells(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == '\t'
	})
	if len(fields) < 2 {
		fields = strings.Fields(line)
	}
	cleaned := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			cleaned = append(cleaned, f)
		}
	}
	return cleaned
}

func isTicker(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
