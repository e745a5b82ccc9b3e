package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smokeland/store-backend/internal/domain"
	"github.com/smokeland/store-backend/internal/utils/timeslot"
)

// CreateItem представляет позицию запроса создания заказа
type CreateItem struct {
	ProductID int64  `json:"product_id"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}

// CreateResult представляет результат создания заказа
type CreateResult struct {
	OrderID     int64   `json:"orderId"`
	OrderText   string  `json:"orderText"`
	TotalAmount float64 `json:"totalAmount"`
}

// ConfirmRequest представляет запрос подтверждения заказа
type ConfirmRequest struct {
	OrderID      int64                 `json:"orderId"`
	Method       domain.DeliveryMethod `json:"deliveryMethod"`
	CourierID    *int64                `json:"courierId,omitempty"`
	DeliveryDate string                `json:"deliveryDate,omitempty"`
	DeliveryTime string                `json:"deliveryTime,omitempty"`
	Address      string                `json:"deliveryAddress,omitempty"`
	PromoCode    string                `json:"promoCode,omitempty"`
}

// Actor представляет вызывающего статусных операций
type Actor struct {
	UserID int64
	Role   domain.Role
}

// Легальные переходы статуса доставки
var allowedTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusPending:  {domain.OrderStatusAssigned, domain.OrderStatusCancelled},
	domain.OrderStatusAssigned: {domain.OrderStatusPickedUp, domain.OrderStatusCancelled},
	domain.OrderStatusPickedUp: {domain.OrderStatusDelivered},
}

func transitionAllowed(from, to domain.OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// OrderService реализует машину состояний заказа
type OrderService struct {
	orders   domain.OrderRepository
	products domain.ProductRepository
	carts    domain.CartRepository
	couriers domain.CourierRepository
	promo    *PromoService
	pricing  CartPricing
	events   domain.EventPublisher

	// Шаг сетки слотов доставки курьером
	slotStep time.Duration
}

// NewOrderService создает новый OrderService
func NewOrderService(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	carts domain.CartRepository,
	couriers domain.CourierRepository,
	promo *PromoService,
	pricing CartPricing,
	events domain.EventPublisher,
	slotStep time.Duration,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		carts:    carts,
		couriers: couriers,
		promo:    promo,
		pricing:  pricing,
		events:   events,
		slotStep: slotStep,
	}
}

// Create создает заказ идемпотентно по ключу клиента. Повтор с тем же
// ключом возвращает исходный заказ без пересчета цен и без повторного
// списания остатков. Остатки проверяются и списываются жестко в
// транзакции создания.
func (s *OrderService) Create(ctx context.Context, userID int64, city string, items []CreateItem, idemKey string) (*CreateResult, error) {
	if city == "" || len(items) == 0 || strings.TrimSpace(idemKey) == "" {
		return nil, domain.ErrInvalidInput
	}

	var totalQty int
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, domain.ErrInvalidInput
		}
		totalQty += item.Quantity
	}

	order := &domain.Order{
		UserID:         userID,
		City:           city,
		IdempotencyKey: strings.TrimSpace(idemKey),
	}

	orderItems := make([]*domain.OrderItem, 0, len(items))
	for _, item := range items {
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Active {
			return nil, domain.ErrProductInactive
		}

		unit := product.Price
		if totalQty >= s.pricing.MinQty {
			unit = s.pricing.UnitPrice
		}

		orderItems = append(orderItems, &domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Variant:   item.Variant,
			Quantity:  item.Quantity,
			UnitPrice: unit,
		})
		order.TotalAmount += unit * float64(item.Quantity)
	}

	created, err := s.orders.CreateOrder(ctx, order, orderItems)
	if err != nil {
		if errors.Is(err, domain.ErrOrderExists) {
			// Идемпотентный повтор: тот же заказ, та же сумма
			return &CreateResult{
				OrderID:     created.ID,
				OrderText:   orderText(created),
				TotalAmount: created.TotalAmount,
			}, nil
		}
		return nil, err
	}

	// Корзина города выполнена — очищаем. Заказ и списание остатков уже
	// зафиксированы, поэтому неудача очистки заказ не отменяет: оставшиеся
	// строки перезапишет следующее добавление или явная очистка
	if clearErr := s.carts.Clear(ctx, userID, city); clearErr != nil {
		s.events.Publish("cart_clear_failed", map[string]any{
			"order_id": created.ID,
			"user_id":  userID,
			"city":     city,
		})
	}

	s.events.Publish("order_created", map[string]any{
		"order_id": created.ID,
		"user_id":  userID,
		"city":     city,
		"total":    created.TotalAmount,
	})

	return &CreateResult{
		OrderID:     created.ID,
		OrderText:   orderText(created),
		TotalAmount: created.TotalAmount,
	}, nil
}

// orderText собирает человекочитаемую сводку заказа для клиента
func orderText(order *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Заказ №%d\n", order.ID)
	for _, item := range order.Items {
		name := item.Name
		if item.Variant != "" {
			name = fmt.Sprintf("%s (%s)", name, item.Variant)
		}
		fmt.Fprintf(&b, "%s x%d — %.2f\n", name, item.Quantity, item.UnitPrice*float64(item.Quantity))
	}
	fmt.Fprintf(&b, "Итого: %.2f", order.TotalAmount)
	return b.String()
}

// Confirm записывает способ получения заказа и применяет промокод.
// Для курьерской доставки время должно лежать на 10-минутной сетке
// окна доступности курьера.
func (s *OrderService) Confirm(ctx context.Context, userID int64, req ConfirmRequest) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, userID, req.OrderID)
	if err != nil {
		return nil, err
	}

	switch req.Method {
	case domain.DeliveryMethodCourier:
		if req.CourierID == nil || req.DeliveryDate == "" || req.DeliveryTime == "" {
			return nil, domain.ErrInvalidInput
		}

		courier, err := s.couriers.GetCourier(ctx, *req.CourierID)
		if err != nil {
			return nil, err
		}
		if !courier.Active {
			return nil, domain.ErrCourierInactive
		}
		if !timeslot.Contains(courier.TimeFrom, courier.TimeTo, s.slotStep, req.DeliveryTime) {
			return nil, domain.ErrInvalidTimeSlot
		}

		order.DeliveryMethod = domain.DeliveryMethodCourier
		order.CourierID = req.CourierID
		order.DeliveryDate = &req.DeliveryDate
		order.DeliveryTime = &req.DeliveryTime
		if req.Address != "" {
			order.DeliveryAddress = &req.Address
		}

	case domain.DeliveryMethodPickup:
		if req.Address == "" {
			return nil, domain.ErrInvalidInput
		}
		order.DeliveryMethod = domain.DeliveryMethodPickup
		order.DeliveryAddress = &req.Address

	default:
		return nil, domain.ErrInvalidInput
	}

	if req.PromoCode != "" {
		promo, discount, err := s.promo.Validate(ctx, req.PromoCode, userID, order.TotalAmount)
		if err != nil {
			return nil, err
		}
		order.PromoCode = &promo.Code
		order.PromoDiscount = discount
	}

	if err := s.orders.ConfirmOrder(ctx, order); err != nil {
		return nil, err
	}

	s.events.Publish("order_confirmed", map[string]any{
		"order_id": order.ID,
		"method":   string(req.Method),
	})

	return s.orders.GetOrderByID(ctx, order.ID)
}

// Payment списывает бонусы и фиксирует оплату. Применяемая сумма
// ограничивается живым балансом в момент списания — предварительная
// валидация клиенту не доверяется.
func (s *OrderService) Payment(ctx context.Context, userID, orderID int64, method string, bonusRequested float64) (*domain.Order, error) {
	if method == "" || bonusRequested < 0 {
		return nil, domain.ErrInvalidInput
	}

	order, err := s.orders.ApplyPayment(ctx, userID, orderID, method, bonusRequested)
	if err != nil {
		return nil, err
	}

	s.events.Publish("order_paid", map[string]any{
		"order_id":      order.ID,
		"bonus_applied": order.BonusApplied,
		"final_amount":  order.FinalAmount,
	})

	return order, nil
}

// GetOrder получает заказ с проверкой владельца
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, domain.ErrOrderAccessDenied
	}

	return order, nil
}

// History получает заказы пользователя
func (s *OrderService) History(ctx context.Context, userID int64) ([]*domain.Order, error) {
	orders, err := s.orders.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("order service: failed to get history for user %d: %w", userID, err)
	}

	return orders, nil
}

// ListAll получает все заказы (админ-консоль)
func (s *OrderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.GetAllOrders(ctx)
}

// CourierOrders получает активные заказы курьера по его Telegram ID
func (s *OrderService) CourierOrders(ctx context.Context, tgID int64) ([]*domain.Order, error) {
	courier, err := s.couriers.GetCourierByTgID(ctx, tgID)
	if err != nil {
		return nil, err
	}

	return s.orders.GetOrdersByCourierID(ctx, courier.ID)
}

// UpdateStatus переводит заказ в новый статус. Курьер может менять только
// назначенные ему заказы; переход выполняется compare-and-swap'ом по
// текущему статусу. Переход в delivered оставляет маркер начислений в той
// же транзакции — лояльность и конверсию реферала досылает фоновый
// обработчик; отмена возвращает остатки на склад.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, orderID int64, newStatus domain.OrderStatus, assignCourierID *int64) (*domain.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleCourier {
		courier, err := s.couriers.GetCourierByTgID(ctx, actor.UserID)
		if err != nil {
			return nil, domain.ErrOrderAccessDenied
		}
		if order.CourierID == nil || *order.CourierID != courier.ID {
			return nil, domain.ErrOrderAccessDenied
		}
	}

	if !transitionAllowed(order.Status, newStatus) {
		return nil, domain.ErrInvalidTransition
	}

	if newStatus == domain.OrderStatusAssigned {
		if assignCourierID == nil {
			return nil, domain.ErrInvalidInput
		}
		courier, err := s.couriers.GetCourier(ctx, *assignCourierID)
		if err != nil {
			return nil, err
		}
		if !courier.Active {
			return nil, domain.ErrCourierInactive
		}
	}

	if err := s.orders.UpdateStatus(ctx, orderID, order.Status, newStatus, assignCourierID); err != nil {
		return nil, err
	}

	s.events.Publish("order_status", map[string]any{
		"order_id": orderID,
		"from":     string(order.Status),
		"to":       string(newStatus),
	})

	return s.orders.GetOrderByID(ctx, orderID)
}
