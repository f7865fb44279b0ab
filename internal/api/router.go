package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chalkline/chalkline/internal/api/handler"
	"github.com/chalkline/chalkline/internal/api/middleware"
	basemiddleware "github.com/chalkline/chalkline/internal/middleware"
	"github.com/chalkline/chalkline/internal/services/achievements"
	"github.com/chalkline/chalkline/internal/services/matchplay"
	"github.com/chalkline/chalkline/internal/services/roster"
	"github.com/chalkline/chalkline/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger              *slog.Logger
	RosterService       *roster.Service
	StatsService        *stats.Service
	AchievementsService *achievements.Service
	MatchplayController *matchplay.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.RosterService)
	sessionHandler := handler.NewSessionHandler(cfg.MatchplayController)
	statsHandler := handler.NewStatsHandler(cfg.StatsService)
	achievementHandler := handler.NewAchievementHandler(cfg.AchievementsService, cfg.RosterService)

	// Create middleware
	loggingMiddleware := basemiddleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Roster routes
	api.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Update).Methods(http.MethodPatch)
	api.HandleFunc("/players/{id}", playerHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/players/{id}/archive", playerHandler.Archive).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}/restore", playerHandler.Restore).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}/achievements", achievementHandler.PlayerUnlocks).Methods(http.MethodGet)

	// Session and frame routes
	api.HandleFunc("/sessions", sessionHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/sessions", sessionHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/end", sessionHandler.End).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/participants", sessionHandler.AddParticipant).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/frames", sessionHandler.RecordFrame).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/frames/last", sessionHandler.UndoLastFrame).Methods(http.MethodDelete)

	// Statistics routes
	api.HandleFunc("/stats/leaderboard", statsHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/stats/players/{id}", statsHandler.PlayerStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/players/{id}/form", statsHandler.Form).Methods(http.MethodGet)

	// Achievement catalog
	api.HandleFunc("/achievements", achievementHandler.List).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
