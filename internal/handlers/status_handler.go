package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"launchpad/internal/models"
)

const defaultPingLimit = 50

var errInvalidLimit = errors.New("invalid limit")

// StatusSource is implemented by the supervisor.
type StatusSource interface {
	Status() models.Status
	RecentPings(limit int) ([]string, error)
}

type StatusHandler struct {
	src    StatusSource
	logger zerolog.Logger
}

func NewStatusHandler(src StatusSource, logger zerolog.Logger) *StatusHandler {
	return &StatusHandler{src: src, logger: logger}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *StatusHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("encoding JSON response")
	}
}

func (h *StatusHandler) writeError(w http.ResponseWriter, status int, err error, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   err.Error(),
		Message: message,
	})
}

func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.src.Status())
}

func (h *StatusHandler) GetPings(w http.ResponseWriter, r *http.Request) {
	limit := defaultPingLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.writeError(w, http.StatusBadRequest, errInvalidLimit, "limit must be a positive integer")
			return
		}
		limit = n
	}

	lines, err := h.src.RecentPings(limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err, "Failed to read ping log")
		return
	}

	h.writeJSON(w, http.StatusOK, models.PingLog{Lines: lines})
}
