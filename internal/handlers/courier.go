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

// CourierHandler обрабатывает слоты доставки и консоль курьера
type CourierHandler struct {
	couriers *service.CourierService
	orders   *service.OrderService
	logger   *zap.Logger
}

// NewCourierHandler создает новый CourierHandler
func NewCourierHandler(couriers *service.CourierService, orders *service.OrderService, logger *zap.Logger) *CourierHandler {
	return &CourierHandler{couriers: couriers, orders: orders, logger: logger}
}

type slotsResponse struct {
	Slots []string `json:"slots"`
}

// Slots обрабатывает GET /api/couriers/{courierID}/slots — сетку времен
// доставки для шага оформления заказа
func (h *CourierHandler) Slots(w http.ResponseWriter, r *http.Request) {
	courierID, err := strconv.ParseInt(chi.URLParam(r, "courierID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}

	slots, err := h.couriers.Slots(r.Context(), courierID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, slotsResponse{Slots: slots})
}

// MyOrders обрабатывает GET /api/courier/orders — активные заказы,
// назначенные вызывающему курьеру
func (h *CourierHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	tgID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	orders, err := h.orders.CourierOrders(r.Context(), tgID)
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

type updateStatusRequest struct {
	Status    domain.OrderStatus `json:"status"`
	CourierID *int64             `json:"courier_id,omitempty"`
}

// UpdateStatus обрабатывает PATCH /api/courier/orders/{orderID}/status.
// Курьер может переводить только назначенные ему заказы.
func (h *CourierHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	tgID, ok := GetUserID(r.Context())
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

	actor := service.Actor{UserID: tgID, Role: domain.RoleCourier}
	order, err := h.orders.UpdateStatus(r.Context(), actor, orderID, req.Status, nil)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
