package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smokeland/store-backend/internal/domain"
	"github.com/smokeland/store-backend/internal/service"
	"go.uber.org/zap"
)

// BonusHandler обрабатывает запросы бонусного счета
type BonusHandler struct {
	bonuses *service.BonusService
	logger  *zap.Logger
}

// NewBonusHandler создает новый BonusHandler
func NewBonusHandler(bonuses *service.BonusService, logger *zap.Logger) *BonusHandler {
	return &BonusHandler{bonuses: bonuses, logger: logger}
}

type balanceResponse struct {
	Balance float64 `json:"balance"`
}

// Balance обрабатывает GET /api/bonuses/balance
func (h *BonusHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	balance, err := h.bonuses.Balance(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}

// History обрабатывает GET /api/bonuses/history
func (h *BonusHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	history, err := h.bonuses.History(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if len(history) == 0 {
		writeJSON(w, http.StatusOK, []*domain.BonusTransaction{})
		return
	}

	writeJSON(w, http.StatusOK, history)
}

type applyBonusRequest struct {
	Amount float64 `json:"amount"`
}

type applyBonusResponse struct {
	Applicable float64 `json:"applicable"`
}

// Apply обрабатывает POST /api/bonuses/apply — предварительную проверку
// суммы списания. Окончательное ограничение выполняется при оплате.
func (h *BonusHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	var req applyBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}

	applicable, err := h.bonuses.Apply(r.Context(), userID, req.Amount)
	if err != nil && !errors.Is(err, domain.ErrBonusExceedsBalance) {
		handleError(w, h.logger, err)
		return
	}

	// При превышении баланса сообщаем клиенту реально доступный максимум
	writeJSON(w, http.StatusOK, applyBonusResponse{Applicable: applicable})
}
