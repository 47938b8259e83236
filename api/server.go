// Package api provides the HTTP API server for RupeeWise.
//
// It exposes endpoints for market snapshots, batched quotes, symbol
// search, market news, and WebSocket streaming.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rupeewise/rupeewise/internal/config"
	"github.com/rupeewise/rupeewise/internal/market"
	"github.com/rupeewise/rupeewise/pkg/utils"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	svc    *market.Service
	news   *market.News
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) *Server {
	svc := market.NewService(cfg.Market)
	srv := &Server{
		cfg:  cfg,
		svc:  svc,
		news: market.NewNews(cfg.News, market.NewCache(cfg.Market.RedisURL)),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	// REST endpoints get a request deadline; the WebSocket stream stays
	// outside it, since its request context must live for the whole
	// connection.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/api/market", s.handleMarket)
		r.Get("/api/quotes", s.handleQuotes)
		r.Get("/api/stocks/search", s.handleSearch)
		r.Get("/api/news", s.handleNews)
	})

	r.Get("/api/stream", s.handleStream)

	return r
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := utils.NowIST()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"time":       now.Format(time.RFC3339),
		"marketOpen": utils.IsMarketOpenAt(now),
	})
}

// handleMarket returns the full market snapshot. ?mock=1 (or useMock=1)
// forces the synthesized path.
func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	payload := s.svc.GetMarketData(r.Context(), wantsMock(r))
	writeJSON(w, http.StatusOK, payload)
}

// handleQuotes returns quotes for ?symbols=A,B,C. A missing or empty
// list is a client error.
func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	symbols := splitSymbols(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		writeError(w, http.StatusBadRequest, "symbols_required")
		return
	}
	quotes := s.svc.GetQuotes(r.Context(), symbols)
	writeJSON(w, http.StatusOK, quotes)
}

// handleSearch resolves ?query= (or ?q=) to matching symbols. An empty
// query yields an empty list, not an error.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("query")
	if q == "" {
		q = r.URL.Query().Get("q")
	}
	writeJSON(w, http.StatusOK, s.svc.Search(r.Context(), q))
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	articles, err := s.news.MarketNews(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, "news_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

// --- Helpers ---

func wantsMock(r *http.Request) bool {
	q := r.URL.Query()
	for _, key := range []string{"mock", "useMock"} {
		switch strings.ToLower(q.Get(key)) {
		case "1", "true", "yes":
			return true
		}
	}
	return false
}

func splitSymbols(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
