package onboarding

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"esgchat/internal/orchestrator"
)

// DefaultConfigPath is where the setup flows persist their result.
const DefaultConfigPath = "~/.esgchat/config.json"

// Config represents the core settings gathered during onboarding
type Config struct {
	Model          string               `json:"model"`
	Provider       string               `json:"provider"`
	BaseURL        string               `json:"base_url,omitempty"`
	APIKey         string               `json:"api_key,omitempty"`
	OutputLanguage string               `json:"output_language"`
	Mode           string               `json:"mode"`
	TurnBudgets    orchestrator.Budgets `json:"turn_budgets"`
	Middlewares    []MiddlewareSetting  `json:"middlewares"`
}

// Wizard guides the user through the initial configuration of esgchat
type Wizard struct {
	scanner *bufio.Scanner
}

func NewWizard() *Wizard {
	return &Wizard{
		scanner: bufio.NewScanner(os.Stdin),
	}
}

// Run starts the interactive setup process
func (w *Wizard) Run() (*Config, error) {
	fmt.Println("\n🚀 Welcome to esgchat setup!")
	fmt.Println("Let's configure your ESG report assistant.")
	fmt.Println(strings.Repeat("-", 40))

	cfg := &Config{
		OutputLanguage: "English",
		Mode:           string(orchestrator.ModeSingle),
		TurnBudgets:    orchestrator.DefaultBudgets(),
	}

	fmt.Println("\n[1/3] LLM Configuration")
	w.askProvider(cfg)
	w.askModel(cfg)
	w.askBaseURL(cfg)
	w.askAPIKey(cfg)

	fmt.Println("\n[2/3] Conversation Settings")
	w.askOutputLanguage(cfg)
	w.askMode(cfg)

	fmt.Println("\n[3/3] Middleware Configuration")
	menu := NewMiddlewareMenu(w.scanner)
	mSettings, err := menu.Run()
	if err == nil {
		cfg.Middlewares = mSettings
	}

	w.summarize(cfg)

	return cfg, nil
}

func (w *Wizard) askProvider(cfg *Config) {
	fmt.Println("Select LLM Provider:")
	fmt.Println("1) Gemini")
	fmt.Println("2) OpenAI")
	fmt.Println("3) Anthropic")
	fmt.Println("4) Ollama (Local)")

	for {
		fmt.Print("Choice (default: 1): ")
		w.scanner.Scan()
		input := strings.TrimSpace(w.scanner.Text())

		switch input {
		case "1", "":
			cfg.Provider = "gemini"
			return
		case "2":
			cfg.Provider = "openai"
			return
		case "3":
			cfg.Provider = "anthropic"
			return
		case "4":
			cfg.Provider = "ollama"
			return
		default:
			fmt.Println("❌ Invalid choice. Please select 1-4.")
		}
	}
}

func (w *Wizard) askModel(cfg *Config) {
	defaultModel := "gemini-2.0-flash-lite"
	switch cfg.Provider {
	case "openai":
		defaultModel = "gpt-4o"
	case "anthropic":
		defaultModel = "claude-3-5-sonnet-latest"
	case "ollama":
		defaultModel = "llama3.2"
	}

	fmt.Printf("Enter Model Name (default: %s): ", defaultModel)
	w.scanner.Scan()
	input := strings.TrimSpace(w.scanner.Text())
	if input == "" {
		cfg.Model = defaultModel
	} else {
		cfg.Model = input
	}
}

func (w *Wizard) askBaseURL(cfg *Config) {
	if cfg.Provider != "ollama" {
		return
	}

	defaultURL := "http://localhost:11434"
	fmt.Printf("Enter Base URL (press Enter for default %s): ", defaultURL)
	w.scanner.Scan()
	input := strings.TrimSpace(w.scanner.Text())
	if input == "" {
		cfg.BaseURL = defaultURL
	} else {
		cfg.BaseURL = input
	}
}

func (w *Wizard) askAPIKey(cfg *Config) {
	if cfg.Provider == "ollama" {
		return
	}

	envVar := strings.ToUpper("ESGCHAT_" + cfg.Provider + "_API_KEY")
	fmt.Printf("Enter API Key (or leave empty if set in %s): ", envVar)
	w.scanner.Scan()
	cfg.APIKey = strings.TrimSpace(w.scanner.Text())
}

func (w *Wizard) askOutputLanguage(cfg *Config) {
	fmt.Println("Select output language:")
	fmt.Println("1) English")
	fmt.Println("2) 繁體中文")
	fmt.Print("Choice (default: 1): ")
	w.scanner.Scan()
	if strings.TrimSpace(w.scanner.Text()) == "2" {
		cfg.OutputLanguage = "繁體中文"
	}
}

func (w *Wizard) askMode(cfg *Config) {
	fmt.Println("Select conversation mode:")
	fmt.Println("1) single      (one assistant with tools)")
	fmt.Println("2) two_agent   (student drafts, teacher reviews)")
	fmt.Println("3) three_agent (reader extracts, student analyzes, teacher reviews)")
	fmt.Print("Choice (default: 1): ")
	w.scanner.Scan()
	switch strings.TrimSpace(w.scanner.Text()) {
	case "2":
		cfg.Mode = string(orchestrator.ModeTwoAgent)
	case "3":
		cfg.Mode = string(orchestrator.ModeThreeAgent)
	}
}

func (w *Wizard) summarize(cfg *Config) {
	fmt.Println("\n" + strings.Repeat("=", 40))
	fmt.Println("Setup Summary:")
	fmt.Printf("Provider: %s\n", cfg.Provider)
	fmt.Printf("Model:    %s\n", cfg.Model)
	if cfg.BaseURL != "" {
		fmt.Printf("URL:      %s\n", cfg.BaseURL)
	}
	fmt.Printf("Language: %s\n", cfg.OutputLanguage)
	fmt.Printf("Mode:     %s\n", cfg.Mode)
	fmt.Println(strings.Repeat("=", 40))

	fmt.Println("\nTip: You can save these as environment variables:")
	fmt.Printf("export ESGCHAT_PROVIDER=%s\n", cfg.Provider)
	fmt.Printf("export ESGCHAT_MODEL=%s\n", cfg.Model)
	if cfg.APIKey != "" {
		fmt.Printf("export ESGCHAT_%s_API_KEY=***\n", strings.ToUpper(cfg.Provider))
	}
	fmt.Println("\n✅ Configuration complete! Restart esgchat to apply changes.")
}

// LoadFromFile loads the configuration from a JSON file
func LoadFromFile(path string) (*Config, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveToFile persists the configuration as indented JSON.
func (cfg *Config) SaveToFile(path string) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}
