package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/smokeland/store-backend/internal/service"
	"go.uber.org/zap"
)

// ReferralHandler обрабатывает запросы реферальной программы
type ReferralHandler struct {
	referrals *service.ReferralService
	logger    *zap.Logger
}

// NewReferralHandler создает новый ReferralHandler
func NewReferralHandler(referrals *service.ReferralService, logger *zap.Logger) *ReferralHandler {
	return &ReferralHandler{referrals: referrals, logger: logger}
}

type claimReferralRequest struct {
	RefCode string `json:"ref_code"`
}

// Claim обрабатывает POST /api/referral/claim
func (h *ReferralHandler) Claim(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	var req claimReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}

	if err := h.referrals.Claim(r.Context(), userID, req.RefCode); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Info обрабатывает GET /api/referral
func (h *ReferralHandler) Info(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	info, err := h.referrals.Info(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}
