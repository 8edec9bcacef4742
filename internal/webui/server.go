package webui

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"esgchat/internal/gateway"
	"esgchat/internal/onboarding"
	"esgchat/internal/orchestrator"
)

//go:embed static
var staticFiles embed.FS

// Server represents the Web UI backend server
type Server struct {
	gw      *gateway.Gateway
	session *gateway.Session
	mu      sync.Mutex
	port    int
}

// NewServer creates a new Web UI server instance
func NewServer(gw *gateway.Gateway, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		gw:   gw,
		port: port,
	}
}

// Start initializes the session and starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	session, err := s.gw.InitSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to init session for webui: %w", err)
	}
	s.session = session

	mux := http.NewServeMux()

	// API Routes
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/api/status", s.handleStatus)

	// Serve static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		log.Println("[WebUI] Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[WebUI] 🌐 Starting Web UI on http://localhost:%d", s.port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("webui server error: %w", err)
	}

	return nil
}

type ChatRequest struct {
	Message string `json:"message"`
	Mode    string `json:"mode,omitempty"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Ensure thread-safe access to the single chat session for now
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := s.session.Mode
	if req.Mode != "" {
		mode = orchestrator.ParseMode(req.Mode)
	}

	turnCtx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	reply := s.session.Orchestrator.Run(turnCtx, req.Message, mode)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatResponse{Reply: reply})
}

type ReportRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req ReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		err := s.session.LoadReport(req.Path)
		s.mu.Unlock()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"pages":    s.session.Docs.PageCount(),
			"language": s.session.Docs.Language(),
		})

	case http.MethodDelete:
		s.mu.Lock()
		s.session.Docs.Clear()
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	configPath := s.gw.ConfigPath
	if configPath == "" {
		home, _ := os.UserHomeDir()
		configPath = filepath.Join(home, ".esgchat", "config.json")
	}

	if r.Method == http.MethodGet {
		cfg, err := onboarding.LoadFromFile(configPath)
		if err != nil {
			// Return an empty config if it doesn't exist yet
			cfg = &onboarding.Config{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg)
		return
	}

	if r.Method == http.MethodPost {
		var cfg onboarding.Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := cfg.SaveToFile(configPath); err != nil {
			http.Error(w, "Failed to save config", http.StatusInternalServerError)
			return
		}

		// Apply the settings that can change without a restart
		s.mu.Lock()
		if cfg.OutputLanguage != "" {
			s.session.Orchestrator.SetOutputLanguage(cfg.OutputLanguage)
		}
		if cfg.Mode != "" {
			s.session.Mode = orchestrator.ParseMode(cfg.Mode)
		}
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"success"}`))
		return
	}

	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	status := map[string]interface{}{
		"status":          "online",
		"mode":            s.session.Mode,
		"report_loaded":   s.session.Docs.Loaded(),
		"report_language": s.session.Docs.Language(),
		"companies":       s.session.Companies.Len(),
		"time":            time.Now().Format(time.RFC3339),
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
