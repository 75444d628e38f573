package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spotcircuit/dmv-test/internal/catalog"
	"github.com/spotcircuit/dmv-test/internal/domain/questionbank"
	"github.com/spotcircuit/dmv-test/internal/domain/quizsession"
	"github.com/spotcircuit/dmv-test/internal/domain/section"
	"github.com/spotcircuit/dmv-test/internal/service"
)

const (
	maxBodyBytes    = 1 << 20
	loadFailureText = "Error: Failed to load questions. Check logs for details."
)

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	quiz       *service.QuizService
	sessions   *SessionCookies
	reloadHash []byte // bcrypt hash; empty leaves reload open
	logger     *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(quiz *service.QuizService, sessions *SessionCookies, reloadHash string, logger *slog.Logger) *Handler {
	return &Handler{
		quiz:       quiz,
		sessions:   sessions,
		reloadHash: []byte(reloadHash),
		logger:     logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

type validator interface {
	Validate() error
}

// decodeAndValidate reads the JSON body into v and runs its Validate
// method. It writes a 400 and returns false on any failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleServiceError maps quiz errors onto HTTP responses. Returns true if
// an error was handled (caller should return).
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}

	var loadErr *questionbank.LoadError
	switch {
	case errors.As(err, &loadErr),
		errors.Is(err, section.ErrNoSectionsAvailable),
		errors.Is(err, catalog.ErrNotLoaded):
		h.logger.Error("question bank unavailable", "error", err)
		http.Error(w, loadFailureText, http.StatusInternalServerError)
	case errors.Is(err, quizsession.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, quizsession.ErrInvalidState),
		errors.Is(err, service.ErrNotStarted):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
