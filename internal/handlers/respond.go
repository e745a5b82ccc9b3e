package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smokeland/store-backend/internal/domain"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON сериализует ответ в JSON
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError пишет машиночитаемый код ошибки
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorResponse{Error: code})
}

// errorStatus сопоставляет доменные ошибки HTTP статусу и коду ответа
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidRefCode):
		return http.StatusBadRequest, "VALIDATION"

	case errors.Is(err, domain.ErrOrderAccessDenied):
		return http.StatusForbidden, "FORBIDDEN"

	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "PRODUCT_NOT_FOUND"
	case errors.Is(err, domain.ErrCartItemNotFound):
		return http.StatusNotFound, "CART_ITEM_NOT_FOUND"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "ORDER_NOT_FOUND"
	case errors.Is(err, domain.ErrPromoNotFound):
		return http.StatusNotFound, "PROMO_NOT_FOUND"
	case errors.Is(err, domain.ErrCourierNotFound):
		return http.StatusNotFound, "COURIER_NOT_FOUND"

	case errors.Is(err, domain.ErrProductInactive):
		return http.StatusConflict, "PRODUCT_INACTIVE"
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrOrderAlreadyPaid):
		return http.StatusConflict, "ALREADY_PAID"
	case errors.Is(err, domain.ErrOrderNotConfirmable):
		return http.StatusConflict, "NOT_CONFIRMABLE"
	case errors.Is(err, domain.ErrBonusExceedsBalance):
		return http.StatusConflict, "BONUS_EXCEEDS_BALANCE"
	case errors.Is(err, domain.ErrPromoInactive):
		return http.StatusConflict, "PROMO_INACTIVE"
	case errors.Is(err, domain.ErrPromoMinTotal):
		return http.StatusConflict, "PROMO_MIN_TOTAL"
	case errors.Is(err, domain.ErrPromoExists):
		return http.StatusConflict, "PROMO_EXISTS"
	case errors.Is(err, domain.ErrReferralClaimed):
		return http.StatusConflict, "REFERRAL_ALREADY_CLAIMED"
	case errors.Is(err, domain.ErrReferralSelfClaim):
		return http.StatusConflict, "REFERRAL_SELF_CLAIM"
	case errors.Is(err, domain.ErrSpinsExhausted):
		return http.StatusConflict, "SPINS_EXHAUSTED"
	case errors.Is(err, domain.ErrCourierInactive):
		return http.StatusConflict, "COURIER_INACTIVE"
	case errors.Is(err, domain.ErrInvalidTimeSlot):
		return http.StatusConflict, "INVALID_TIME_SLOT"
	case errors.Is(err, domain.ErrPayoutAlreadySettled):
		return http.StatusConflict, "PAYOUT_ALREADY_SETTLED"
	}

	return http.StatusInternalServerError, "INTERNAL"
}

// handleError пишет ответ об ошибке и логирует неожиданные сбои
func handleError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}
	writeError(w, status, code)
}
