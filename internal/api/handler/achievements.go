package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chalkline/chalkline/internal/api/apierr"
	"github.com/chalkline/chalkline/internal/api/response"
	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/services/achievements"
	"github.com/chalkline/chalkline/internal/services/roster"
)

// AchievementHandler handles achievement endpoints
type AchievementHandler struct {
	achievements *achievements.Service
	roster       *roster.Service
}

// NewAchievementHandler creates a new achievement handler
func NewAchievementHandler(achievements *achievements.Service, roster *roster.Service) *AchievementHandler {
	return &AchievementHandler{
		achievements: achievements,
		roster:       roster,
	}
}

// List handles GET /api/v1/achievements
func (h *AchievementHandler) List(w http.ResponseWriter, r *http.Request) {
	defs := h.achievements.Definitions()
	out := make([]response.Achievement, 0, len(defs))
	for _, def := range defs {
		out = append(out, response.AchievementFromDefinition(def))
	}
	response.JSON(w, http.StatusOK, out)
}

// PlayerUnlocks handles GET /api/v1/players/{id}/achievements
func (h *AchievementHandler) PlayerUnlocks(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	if _, err := h.roster.GetPlayer(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	unlocks := h.achievements.ListUnlockedForPlayer(id)
	response.JSON(w, http.StatusOK, response.UnlocksFromModel(unlocks))
}
