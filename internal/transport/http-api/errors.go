package http_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iamvkosarev/fintrack/internal/model"
	"github.com/iamvkosarev/fintrack/internal/usecase"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error          string `json:"error"`
	Redirect       string `json:"redirect,omitempty"`
	Reason         string `json:"reason,omitempty"`
	DismissAfterMs int64  `json:"dismiss_after_ms,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// writeError maps usecase errors onto status codes. Anything unknown is logged and hidden.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var rejected *model.FileRejectedError
	switch {
	case errors.Is(err, model.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Redirect: usecase.PathSignIn})
	case errors.Is(err, model.ErrRoleForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrChatDoesNotExist):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &rejected):
		status := http.StatusUnsupportedMediaType
		if rejected.Reason == model.FileRejectReasonSize {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorResponse{
			Error:          rejected.Message,
			Reason:         string(rejected.Reason),
			DismissAfterMs: rejected.DismissAfter.Milliseconds(),
		})
	case errors.Is(err, model.ErrEmptyEmail),
		errors.Is(err, model.ErrMissingFields),
		errors.Is(err, model.ErrInvalidCSV):
		badRequest(w, err.Error())
	case errors.Is(err, model.ErrChatClosed):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
