package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chalkline/chalkline/internal/api/apierr"
	"github.com/chalkline/chalkline/internal/api/request"
	"github.com/chalkline/chalkline/internal/api/response"
	"github.com/chalkline/chalkline/internal/model"
	"github.com/chalkline/chalkline/internal/services/matchplay"
)

// SessionHandler handles session and frame endpoints
type SessionHandler struct {
	matchplay *matchplay.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(matchplay *matchplay.Controller) *SessionHandler {
	return &SessionHandler{
		matchplay: matchplay,
	}
}

// Start handles POST /api/v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req request.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if len(req.PlayerIDs) == 0 {
		apierr.WriteError(w, apierr.NewInvalidRequestError("player_ids is required"))
		return
	}

	playerIDs := make([]model.PlayerID, 0, len(req.PlayerIDs))
	for _, id := range req.PlayerIDs {
		playerIDs = append(playerIDs, model.PlayerID(id))
	}

	session, err := h.matchplay.StartSession(r.Context(), playerIDs)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.matchplay.ListSessions(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionsFromModel(sessions))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	session, err := h.matchplay.GetSession(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// End handles POST /api/v1/sessions/{id}/end
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	session, err := h.matchplay.EndSession(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// AddParticipant handles POST /api/v1/sessions/{id}/participants
func (h *SessionHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.AddParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("player_id is required"))
		return
	}

	session, err := h.matchplay.AddParticipant(r.Context(), id, model.PlayerID(req.PlayerID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// RecordFrame handles POST /api/v1/sessions/{id}/frames
func (h *SessionHandler) RecordFrame(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.RecordFrameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.WinnerID == "" || req.LoserID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("winner_id and loser_id are required"))
		return
	}

	frame, unlocks, err := h.matchplay.RecordFrame(r.Context(), matchplay.RecordFrameParams{
		SessionID: id,
		WinnerID:  model.PlayerID(req.WinnerID),
		LoserID:   model.PlayerID(req.LoserID),
		Brush:     req.Brush,
		Clearance: req.Clearance,
		ClipURL:   req.ClipURL,
		StartedAt: req.StartedAt,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RecordFrameResponseFrom(frame, unlocks))
}

// UndoLastFrame handles DELETE /api/v1/sessions/{id}/frames/last
func (h *SessionHandler) UndoLastFrame(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	frame, err := h.matchplay.UndoLastFrame(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FrameFromModel(frame))
}
