package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chalkline/chalkline/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodePlayerArchived  = "PLAYER_ARCHIVED"
	CodePlayerHasFrames = "PLAYER_HAS_FRAMES"
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeSessionActive   = "SESSION_ACTIVE"
	CodeSessionEnded    = "SESSION_ENDED"
	CodeNotParticipant  = "NOT_PARTICIPANT"
	CodeFrameNotFound   = "FRAME_NOT_FOUND"
	CodeNoFrames        = "NO_FRAMES"
	CodeSameWinnerLoser = "SAME_WINNER_LOSER"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// NewInvalidRequestError creates a 400 error with the given message
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates a generic 500 error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrPlayerArchived):
		return &httpError{http.StatusConflict, APIError{CodePlayerArchived, "Player is archived"}}
	case errors.Is(err, model.ErrPlayerHasFrames):
		return &httpError{http.StatusConflict, APIError{CodePlayerHasFrames, "Player has recorded frames"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrSessionActive):
		return &httpError{http.StatusConflict, APIError{CodeSessionActive, "Another session is already active"}}
	case errors.Is(err, model.ErrSessionEnded):
		return &httpError{http.StatusConflict, APIError{CodeSessionEnded, "Session has already ended"}}
	case errors.Is(err, model.ErrNotParticipant):
		return &httpError{http.StatusConflict, APIError{CodeNotParticipant, "Player is not a session participant"}}
	case errors.Is(err, model.ErrFrameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeFrameNotFound, "Frame not found"}}
	case errors.Is(err, model.ErrNoFrames):
		return &httpError{http.StatusNotFound, APIError{CodeNoFrames, "Session has no frames"}}
	case errors.Is(err, model.ErrSameWinnerLoser):
		return &httpError{http.StatusBadRequest, APIError{CodeSameWinnerLoser, "Winner and loser must be different players"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}
