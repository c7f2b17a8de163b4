// Package api provides the HTTP server for StudyGram. Handlers stay thin:
// they decode the request, call one session-service operation, and map
// domain errors to status codes.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studygram-app/studygram/internal/app/contentgen"
	"github.com/studygram-app/studygram/internal/app/gems"
	"github.com/studygram-app/studygram/internal/app/notify"
	"github.com/studygram-app/studygram/internal/app/session"
	"github.com/studygram-app/studygram/internal/domain"
	"github.com/studygram-app/studygram/internal/health"
)

// Version is the API version string reported at /api/version.
const Version = "0.1.0"

// Server is the StudyGram HTTP API server.
type Server struct {
	session        *session.Service
	gems           *gems.Service
	notify         *notify.Service
	content        *contentgen.Client
	db             Store
	health         *health.Checker
	metricsEnabled bool
}

// Store is the slice of the sqlite layer the API reads directly
// (feed, focus history, ledger); profile mutations go through the
// session service.
type Store interface {
	CreatePost(p domain.Post) error
	GetPost(id string) (*domain.Post, error)
	ListPosts(limit int) ([]domain.Post, error)
	LikePost(id string) (int, error)
	AddComment(postID string, c domain.Comment) error
	ListFocusSessions(limit int) ([]domain.FocusSession, error)
	FocusMinutesSince(cutoff time.Time) (int, error)
}

// NewServer creates a new API server.
func NewServer(sess *session.Service, g *gems.Service, n *notify.Service, c *contentgen.Client, db Store) *Server {
	return &Server{session: sess, gems: g, notify: n, content: c, db: db}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth attaches the health checker surfaced at /health.
func (s *Server) SetHealth(h *health.Checker) { s.health = h }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": Version})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", s.handleGetProfile)
		r.Post("/profile", s.handleCreateProfile)
		r.Post("/session/start", s.handleStartSession)

		r.Post("/experience", s.handleGrantExperience)
		r.Post("/progress", s.handleRecordProgress)
		r.Get("/quests", s.handleListQuests)
		r.Post("/quests/{id}/claim", s.handleClaimQuest)
		r.Get("/badges", s.handleListBadges)
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Get("/gems/ledger", s.handleGemsLedger)

		r.Get("/feed", s.handleListFeed)
		r.Post("/feed", s.handleCreatePost)
		r.Post("/feed/{id}/like", s.handleLikePost)
		r.Post("/feed/{id}/comments", s.handleAddComment)

		r.Post("/focus/sessions", s.handleCompleteFocus)
		r.Get("/focus/stats", s.handleFocusStats)

		r.Post("/quiz/generate", s.handleGenerateQuiz)
		r.Post("/quiz/submit", s.handleSubmitQuiz)

		r.Post("/tutor/chat", s.handleTutorChat)
		r.Post("/tools/essay", s.handleEssay)
		r.Post("/tools/roadmap", s.handleRoadmap)
		r.Post("/tools/mindmap", s.handleMindMap)
		r.Post("/tools/flashcards", s.handleFlashcards)
		r.Post("/tools/summarize", s.handleSummarize)
		r.Post("/tools/quote", s.handleQuote)
		r.Post("/tools/roast", s.handleRoast)

		r.Get("/notifications", s.handleListNotifications)
		r.Post("/notifications/{id}/shown", s.handleNotificationShown)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status, label := http.StatusOK, "ok"
	if !s.health.IsHealthy() {
		status, label = http.StatusServiceUnavailable, "degraded"
	}
	writeJSON(w, status, map[string]any{
		"status": label,
		"checks": s.health.Statuses(),
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps domain sentinels to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoProfile), errors.Is(err, domain.ErrPostNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrProfileExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidClaim):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInsufficientGems):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrContentService), errors.Is(err, domain.ErrContentUnparseable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
