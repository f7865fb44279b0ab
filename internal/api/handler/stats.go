package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/chalkline/chalkline/internal/api/apierr"
	"github.com/chalkline/chalkline/internal/api/response"
	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/services/stats"
)

// defaultFormLength is the number of sessions returned by the form endpoint
// when the caller doesn't ask for a specific count
const defaultFormLength = 5

// StatsHandler handles statistics endpoints
type StatsHandler struct {
	stats *stats.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats *stats.Service) *StatsHandler {
	return &StatsHandler{
		stats: stats,
	}
}

// Leaderboard handles GET /api/v1/stats/leaderboard
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	entries, err := h.stats.Leaderboard(r.Context(), window)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(entries))
}

// PlayerStats handles GET /api/v1/stats/players/{id}
func (h *StatsHandler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	playerStats, err := h.stats.PlayerStats(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerStatsFromModel(playerStats))
}

// Form handles GET /api/v1/stats/players/{id}/form
func (h *StatsHandler) Form(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	n := defaultFormLength
	if raw := r.URL.Query().Get("sessions"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apierr.WriteError(w, apierr.NewInvalidRequestError("sessions must be a positive integer"))
			return
		}
		n = parsed
	}

	form, err := h.stats.CurrentForm(r.Context(), id, n)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FormFromModel(form))
}

// parseWindow reads optional from/to query params into a date range.
// Both bounds are YYYY-MM-DD and inclusive; either may be omitted.
func parseWindow(r *http.Request) (*model.DateRange, error) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" && to == "" {
		return nil, nil
	}

	window := &model.DateRange{}
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, apierr.NewInvalidRequestError("from must be formatted YYYY-MM-DD")
		}
		window.From = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, apierr.NewInvalidRequestError("to must be formatted YYYY-MM-DD")
		}
		// Inclusive through the end of the named day
		window.To = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return window, nil
}
