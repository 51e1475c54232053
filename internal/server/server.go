package server

import (
	"log/slog"
	"net/http"

	"resale-dashboard/internal/handlers"
	"resale-dashboard/internal/ui/static"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

// TemplateHandlers carries the page renderers so route setup stays free of
// template imports.
type TemplateHandlers struct {
	Dashboard http.HandlerFunc
	Items     http.HandlerFunc
	Analysis  http.HandlerFunc
	AIAgent   http.HandlerFunc
	AIModel   http.HandlerFunc
}

func NewServer(api *handlers.APIHandlers, sse *handlers.SSEHandlers, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: api,
		sseHandlers: sse,
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Pages
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /items", templateHandlers.Items)
	s.mux.HandleFunc("GET /analysis", templateHandlers.Analysis)
	s.mux.HandleFunc("GET /ai-agent", templateHandlers.AIAgent)
	s.mux.HandleFunc("GET /ai-model", templateHandlers.AIModel)
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static.Files)))

	// Operational endpoints
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API
	s.mux.HandleFunc("GET /api/items", s.apiHandlers.HandleListItems)
	s.mux.HandleFunc("POST /api/items", s.apiHandlers.HandleCreateItem)
	s.mux.HandleFunc("PATCH /api/items/{id}", s.apiHandlers.HandleEditItem)
	s.mux.HandleFunc("PUT /api/items/{id}", s.apiHandlers.HandleSellItem)
	s.mux.HandleFunc("DELETE /api/items/{id}", s.apiHandlers.HandleDeleteItem)
	s.mux.HandleFunc("GET /api/analysis", s.apiHandlers.HandleAnalysis)
	s.mux.HandleFunc("POST /api/import", s.apiHandlers.HandleImport)
	s.mux.HandleFunc("POST /api/generate-description", s.apiHandlers.HandleGenerateDescription)
	s.mux.HandleFunc("POST /api/generate-image", s.apiHandlers.HandleGenerateImage)

	// Datastar SSE fragments
	s.mux.HandleFunc("GET /sse/items", s.sseHandlers.HandleItems)
	s.mux.HandleFunc("GET /sse/analysis", s.sseHandlers.HandleAnalysis)
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
