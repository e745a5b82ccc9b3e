package handlers

import (
	"net/http"

	"github.com/smokeland/store-backend/internal/service"
	"go.uber.org/zap"
)

// FortuneHandler обрабатывает запросы колеса фортуны
type FortuneHandler struct {
	fortune *service.FortuneService
	logger  *zap.Logger
}

// NewFortuneHandler создает новый FortuneHandler
func NewFortuneHandler(fortune *service.FortuneService, logger *zap.Logger) *FortuneHandler {
	return &FortuneHandler{fortune: fortune, logger: logger}
}

// State обрабатывает GET /api/fortune
func (h *FortuneHandler) State(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	state, err := h.fortune.State(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Spin обрабатывает POST /api/fortune/spin
func (h *FortuneHandler) Spin(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	result, err := h.fortune.Spin(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
