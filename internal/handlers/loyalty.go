package handlers

import (
	"net/http"

	"github.com/smokeland/store-backend/internal/service"
	"go.uber.org/zap"
)

// LoyaltyHandler обрабатывает запросы программы лояльности
type LoyaltyHandler struct {
	loyalty *service.LoyaltyService
	logger  *zap.Logger
}

// NewLoyaltyHandler создает новый LoyaltyHandler
func NewLoyaltyHandler(loyalty *service.LoyaltyService, logger *zap.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{loyalty: loyalty, logger: logger}
}

// Profile обрабатывает GET /api/loyalty/profile
func (h *LoyaltyHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	profile, err := h.loyalty.Profile(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
