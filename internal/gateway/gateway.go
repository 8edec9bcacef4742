package gateway

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"esgchat/internal/analysis"
	"esgchat/internal/document"
	"esgchat/internal/llm"
	"esgchat/internal/middleware"
	"esgchat/internal/onboarding"
	"esgchat/internal/orchestrator"
	"esgchat/internal/registry"
	"esgchat/internal/tools"
	_ "esgchat/middlewares/autoload" // Auto-load all middlewares

	"github.com/joho/godotenv"
)

type Gateway struct {
	ConfigPath string
}

func New(configPath string) *Gateway {
	return &Gateway{ConfigPath: configPath}
}

// Session is one wired-up chat stack: the orchestrator plus the stores it
// reads. The CLI loop and the web UI both drive a Session.
type Session struct {
	Orchestrator *orchestrator.Orchestrator
	Docs         *document.Store
	Companies    *registry.Store
	Mode         orchestrator.Mode

	model    string
	provider llm.Provider
	baseURL  string
}

// InitSession loads configuration, builds the LLM adapter and stores, and
// wires the orchestrator with the registered middleware chain.
func (g *Gateway) InitSession(ctx context.Context) (*Session, error) {
	// Load environment variables from .env if present
	_ = godotenv.Load()

	// Default values
	model := "gemini-2.0-flash-lite"
	provider := llm.ProviderGemini
	baseURL := ""
	apiKey := ""
	outputLang := "English"
	mode := orchestrator.ModeSingle
	budgets := orchestrator.DefaultBudgets()

	// Load from config file if available
	if g.ConfigPath != "" {
		if cfg, err := onboarding.LoadFromFile(g.ConfigPath); err == nil {
			model = cfg.Model
			provider = llm.Provider(cfg.Provider)
			baseURL = cfg.BaseURL
			apiKey = cfg.APIKey
			if cfg.OutputLanguage != "" {
				outputLang = cfg.OutputLanguage
			}
			mode = orchestrator.ParseMode(cfg.Mode)
			if cfg.TurnBudgets != (orchestrator.Budgets{}) {
				budgets = cfg.TurnBudgets
			}

			// Apply middleware settings
			var disabled []string
			for _, m := range cfg.Middlewares {
				if !m.Enabled {
					disabled = append(disabled, m.ID)
				}
				for k, v := range m.EnvVars {
					if v != "" {
						os.Setenv(k, v)
					}
				}
			}
			if len(disabled) > 0 {
				os.Setenv("ESGCHAT_DISABLED_MIDDLEWARES", strings.Join(disabled, ","))
			}
		}
	}

	// Environment variables override config file
	if m := os.Getenv("ESGCHAT_MODEL"); m != "" {
		model = m
	}
	if p := os.Getenv("ESGCHAT_PROVIDER"); p != "" {
		provider = llm.Provider(p)
	}
	if u := os.Getenv("ESGCHAT_OLLAMA_URL"); u != "" {
		baseURL = u
	}
	if l := os.Getenv("ESGCHAT_OUTPUT_LANGUAGE"); l != "" {
		outputLang = l
	}
	if m := os.Getenv("ESGCHAT_MODE"); m != "" {
		mode = orchestrator.ParseMode(m)
	}
	if apiKey != "" {
		keyVar := "ESGCHAT_" + strings.ToUpper(string(provider)) + "_API_KEY"
		if os.Getenv(keyVar) == "" {
			os.Setenv(keyVar, apiKey)
		}
	}

	adapter, err := llm.NewAdapter(provider, model, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize adapter: %w", err)
	}

	// Middleware logging
	logPath := filepath.Join("bin", "middleware.debug.jsonl")
	_ = os.MkdirAll(filepath.Dir(logPath), 0o755)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to open middleware log file (%s): %v\n", logPath, err)
	}
	var mwLog io.Writer = logFile

	chain := middleware.NewChainFromRegistry(mwLog)

	docs := document.NewStore()
	companies := registry.NewStore()
	if path := os.Getenv("ESGCHAT_REGISTRY_PATH"); path != "" {
		if n, err := companies.LoadJSONFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load company registry (%s): %v\n", path, err)
		} else {
			fmt.Fprintf(os.Stderr, "loaded %d companies from %s\n", n, path)
		}
	}

	analyzer := analysis.New(adapter)
	reg := tools.NewRegistry()
	reg.Register(&tools.ShowContentTool{Docs: docs})
	reg.Register(&tools.ShowPageTool{Docs: docs})
	reg.Register(&tools.AnalysisTool{Docs: docs, Analyzer: analyzer})
	reg.Register(&tools.CompanyLookupTool{Companies: companies})

	orch := orchestrator.New(adapter, docs, reg,
		orchestrator.WithBudgets(budgets),
		orchestrator.WithOutputLanguage(outputLang),
		orchestrator.WithMiddlewareChain(chain),
	)

	return &Session{
		Orchestrator: orch,
		Docs:         docs,
		Companies:    companies,
		Mode:         mode,
		model:        model,
		provider:     provider,
		baseURL:      baseURL,
	}, nil
}

// LoadReport reads extracted report text from a file into the document
// store.
func (s *Session) LoadReport(path string) error {
	pages, err := document.ReadPagesFile(path)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no text found in %s", path)
	}
	s.Docs.Load(pages)
	return nil
}

// Ask runs one prompt through the orchestrator with the session's mode.
func (s *Session) Ask(ctx context.Context, prompt string) string {
	return s.Orchestrator.Run(ctx, prompt, s.Mode)
}

// Execute answers a single prompt and prints the response.
func (g *Gateway) Execute(ctx context.Context, input, reportPath string) error {
	session, err := g.InitSession(ctx)
	if err != nil {
		return err
	}
	if reportPath != "" {
		if err := session.LoadReport(reportPath); err != nil {
			return err
		}
	}

	turnCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	fmt.Println(session.Ask(turnCtx, input))
	return nil
}

// Run starts the interactive chat loop.
func (g *Gateway) Run(ctx context.Context) error {
	session, err := g.InitSession(ctx)
	if err != nil {
		return err
	}

	fmt.Println("esgchat")
	fmt.Printf("model=%s, provider=%s, url=%s\n", session.model, session.provider, valueOrDefault(session.baseURL, "default"))
	fmt.Println("Type /exit to quit. /load <file> loads a report, /mode <m> switches")
	fmt.Println("between single, two_agent and three_agent, /lang <l> sets the output language.")

	scanner := bufio.NewScanner(os.Stdin)
	go func() {
		<-ctx.Done()
		os.Stdin.Close() // Force read error to break loop
	}()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" || input == "exit" || input == "quit" {
			return nil
		}
		if handled := session.handleCommand(input); handled {
			continue
		}

		turnCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		reply := session.Ask(turnCtx, input)
		cancel()
		fmt.Println(reply)
	}
}

// handleCommand runs slash commands that manage the session itself. It
// returns false for regular chat input.
func (s *Session) handleCommand(input string) bool {
	if !strings.HasPrefix(input, "/") {
		return false
	}
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/load":
		if arg == "" {
			fmt.Println("usage: /load <report.txt>")
			return true
		}
		if err := s.LoadReport(arg); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return true
		}
		fmt.Printf("loaded %d pages (%s)\n", s.Docs.PageCount(), s.Docs.Language())
	case "/unload":
		s.Docs.Clear()
		fmt.Println("report unloaded")
	case "/mode":
		s.Mode = orchestrator.ParseMode(arg)
		fmt.Printf("mode set to %s\n", s.Mode)
	case "/lang":
		if arg == "" {
			fmt.Println("usage: /lang <language>")
			return true
		}
		s.Orchestrator.SetOutputLanguage(arg)
		fmt.Printf("output language set to %s\n", arg)
	default:
		fmt.Printf("unknown command %s\n", cmd)
	}
	return true
}

func valueOrDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
