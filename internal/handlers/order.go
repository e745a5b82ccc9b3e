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

// OrderHandler обрабатывает запросы заказов покупателя
type OrderHandler struct {
	orders *service.OrderService
	logger *zap.Logger
}

// NewOrderHandler создает новый OrderHandler
func NewOrderHandler(orders *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

type createOrderRequest struct {
	City  string               `json:"city"`
	Items []service.CreateItem `json:"items"`
}

// Create обрабатывает POST /api/orders. Ключ идемпотентности передается
// заголовком Idempotency-Key; повтор с тем же ключом вернет исходный заказ.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	if idemKey == "" {
		writeError(w, http.StatusBadRequest, "IDEMPOTENCY_KEY_REQUIRED")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}

	result, err := h.orders.Create(r.Context(), userID, req.City, req.Items, idemKey)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// Confirm обрабатывает POST /api/orders/{orderID}/confirm
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
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

	var req service.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}
	req.OrderID = orderID

	order, err := h.orders.Confirm(r.Context(), userID, req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

type paymentRequest struct {
	Method         string  `json:"paymentMethod"`
	BonusRequested float64 `json:"bonusRequested"`
}

// Payment обрабатывает POST /api/orders/{orderID}/payment
func (h *OrderHandler) Payment(w http.ResponseWriter, r *http.Request) {
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

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION")
		return
	}

	order, err := h.orders.Payment(r.Context(), userID, orderID, req.Method, req.BonusRequested)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Get обрабатывает GET /api/orders/{orderID}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	order, err := h.orders.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// History обрабатывает GET /api/orders
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	orders, err := h.orders.History(r.Context(), userID)
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
