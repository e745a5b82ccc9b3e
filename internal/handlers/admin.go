package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/smokeland/store-backend/internal/domain"
	"github.com/smokeland/store-backend/internal/service"
	"go.uber.org/zap"
)

// AdminHandler обрабатывает запросы админ-консоли
type AdminHandler struct {
	orders   *service.OrderService
	couriers *service.CourierService
	promos   *service.PromoService
	logger   *zap.Logger
}

// NewAdminHandler создает новый AdminHandler
func NewAdminHandler(
	orders *service.OrderService,
	couriers *service.CourierService,
	promos *service.PromoService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		orders:   orders,
		couriers: couriers,
		promos:   promos,
		logger:   logger,
	}
}

// Orders обрабатывает GET /api/admin/orders
func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if len(orders) == 0 {
		writeJSON(w, http.StatusOK, []*domain.Order{})
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus обрабатывает PATCH /api/admin/orders/{orderID}/status.
// Назначение курьера передается в теле вместе со статусом assigned.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}

	actor := service.Actor{UserID: userID, Role: domain.RoleAdmin}
	order, err := h.orders.UpdateStatus(r.Context(), actor, orderID, req.Status, req.CourierID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Couriers обрабатывает GET /api/admin/couriers
func (h *AdminHandler) Couriers(w http.ResponseWriter, r *http.Request) {
	couriers, err := h.couriers.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if len(couriers) == 0 {
		writeJSON(w, http.StatusOK, []*domain.Courier{})
		return
	}

	writeJSON(w, http.StatusOK, couriers)
}

// CreateCourier обрабатывает POST /api/admin/couriers
func (h *AdminHandler) CreateCourier(w http.ResponseWriter, r *http.Request) {
	var courier domain.Courier
	if err := json.NewDecoder(r.Body).Decode(&courier); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}

	created, err := h.couriers.Create(r.Context(), &courier)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateCourier обрабатывает PUT /api/admin/couriers/{courierID}
func (h *AdminHandler) UpdateCourier(w http.ResponseWriter, r *http.Request) {
	courierID, err := strconv.ParseInt(chi.URLParam(r, "courierID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}

	var courier domain.Courier
	if err := json.NewDecoder(r.Body).Decode(&courier); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}
	courier.ID = courierID

	if err := h.couriers.Update(r.Context(), &courier); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type settlePayoutRequest struct {
	Date string `json:"date"`
}

// SettlePayout обрабатывает POST /api/admin/couriers/{courierID}/payouts.
// Повторный расчет за ту же дату возвращает уже рассчитанную выплату.
func (h *AdminHandler) SettlePayout(w http.ResponseWriter, r *http.Request) {
	courierID, err := strconv.ParseInt(chi.URLParam(r, "courierID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}

	var req settlePayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}

	payout, err := h.couriers.SettlePayout(r.Context(), courierID, req.Date)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, payout)
}

// Promos обрабатывает GET /api/admin/promos
func (h *AdminHandler) Promos(w http.ResponseWriter, r *http.Request) {
	promos, err := h.promos.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if len(promos) == 0 {
		writeJSON(w, http.StatusOK, []*domain.PromoCode{})
		return
	}

	writeJSON(w, http.StatusOK, promos)
}

// CreatePromo обрабатывает POST /api/admin/promos
func (h *AdminHandler) CreatePromo(w http.ResponseWriter, r *http.Request) {
	var promo domain.PromoCode
	if err := json.NewDecoder(r.Body).Decode(&promo); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}

	if err := h.promos.Create(r.Context(), &promo); err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, promo)
}
