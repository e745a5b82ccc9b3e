package service

import (
	"context"

	"github.com/smokeland/store-backend/internal/domain"
)

// Ручные стабы репозиториев: каждый метод делегирует в функцию-поле,
// nil-поле возвращает нулевые значения.

type productRepoStub struct {
	getProduct func(ctx context.Context, productID int64) (*domain.Product, error)
	getStock   func(ctx context.Context, productID int64, city string) (int, error)
}

func (s *productRepoStub) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	if s.getProduct == nil {
		return nil, domain.ErrProductNotFound
	}
	return s.getProduct(ctx, productID)
}

func (s *productRepoStub) GetStock(ctx context.Context, productID int64, city string) (int, error) {
	if s.getStock == nil {
		return 0, nil
	}
	return s.getStock(ctx, productID, city)
}

type cartRepoStub struct {
	addItem    func(ctx context.Context, userID int64, city string, productID int64, variant string, quantity int, price float64) (*domain.CartItem, error)
	updateItem func(ctx context.Context, userID, itemID int64, quantity int) error
	removeItem func(ctx context.Context, userID, itemID int64) error
	clear      func(ctx context.Context, userID int64, city string) error
	getItems   func(ctx context.Context, userID int64, city string) ([]*domain.CartItem, error)
}

func (s *cartRepoStub) AddItem(ctx context.Context, userID int64, city string, productID int64, variant string, quantity int, price float64) (*domain.CartItem, error) {
	if s.addItem == nil {
		return &domain.CartItem{UserID: userID, City: city, ProductID: productID, Variant: variant, Quantity: quantity, Price: price}, nil
	}
	return s.addItem(ctx, userID, city, productID, variant, quantity, price)
}

func (s *cartRepoStub) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) error {
	if s.updateItem == nil {
		return nil
	}
	return s.updateItem(ctx, userID, itemID, quantity)
}

func (s *cartRepoStub) RemoveItem(ctx context.Context, userID, itemID int64) error {
	if s.removeItem == nil {
		return nil
	}
	return s.removeItem(ctx, userID, itemID)
}

func (s *cartRepoStub) Clear(ctx context.Context, userID int64, city string) error {
	if s.clear == nil {
		return nil
	}
	return s.clear(ctx, userID, city)
}

func (s *cartRepoStub) GetItems(ctx context.Context, userID int64, city string) ([]*domain.CartItem, error) {
	if s.getItems == nil {
		return nil, nil
	}
	return s.getItems(ctx, userID, city)
}

type orderRepoStub struct {
	createOrder          func(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error)
	getOrderByID         func(ctx context.Context, orderID int64) (*domain.Order, error)
	getOrdersByUserID    func(ctx context.Context, userID int64) ([]*domain.Order, error)
	getOrdersByCourierID func(ctx context.Context, courierID int64) ([]*domain.Order, error)
	getAllOrders         func(ctx context.Context) ([]*domain.Order, error)
	confirmOrder         func(ctx context.Context, order *domain.Order) error
	applyPayment         func(ctx context.Context, userID, orderID int64, method string, requested float64) (*domain.Order, error)
	updateStatus         func(ctx context.Context, orderID int64, from, to domain.OrderStatus, courierID *int64) error
	countDelivered       func(ctx context.Context, userID int64) (int, error)
	pendingAwards        func(ctx context.Context, limit int) ([]*domain.DeliveryAward, error)
	settleAward          func(ctx context.Context, orderID int64, cherries int) (bool, error)
}

func (s *orderRepoStub) CreateOrder(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	if s.createOrder == nil {
		order.ID = 1
		order.Items = items
		return order, nil
	}
	return s.createOrder(ctx, order, items)
}

func (s *orderRepoStub) GetOrderByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	if s.getOrderByID == nil {
		return nil, domain.ErrOrderNotFound
	}
	return s.getOrderByID(ctx, orderID)
}

func (s *orderRepoStub) GetOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	if s.getOrdersByUserID == nil {
		return nil, nil
	}
	return s.getOrdersByUserID(ctx, userID)
}

func (s *orderRepoStub) GetOrdersByCourierID(ctx context.Context, courierID int64) ([]*domain.Order, error) {
	if s.getOrdersByCourierID == nil {
		return nil, nil
	}
	return s.getOrdersByCourierID(ctx, courierID)
}

func (s *orderRepoStub) GetAllOrders(ctx context.Context) ([]*domain.Order, error) {
	if s.getAllOrders == nil {
		return nil, nil
	}
	return s.getAllOrders(ctx)
}

func (s *orderRepoStub) ConfirmOrder(ctx context.Context, order *domain.Order) error {
	if s.confirmOrder == nil {
		return nil
	}
	return s.confirmOrder(ctx, order)
}

func (s *orderRepoStub) ApplyPayment(ctx context.Context, userID, orderID int64, method string, requested float64) (*domain.Order, error) {
	if s.applyPayment == nil {
		return nil, domain.ErrOrderNotFound
	}
	return s.applyPayment(ctx, userID, orderID, method, requested)
}

func (s *orderRepoStub) UpdateStatus(ctx context.Context, orderID int64, from, to domain.OrderStatus, courierID *int64) error {
	if s.updateStatus == nil {
		return nil
	}
	return s.updateStatus(ctx, orderID, from, to, courierID)
}

func (s *orderRepoStub) CountDelivered(ctx context.Context, userID int64) (int, error) {
	if s.countDelivered == nil {
		return 0, nil
	}
	return s.countDelivered(ctx, userID)
}

func (s *orderRepoStub) PendingDeliveryAwards(ctx context.Context, limit int) ([]*domain.DeliveryAward, error) {
	if s.pendingAwards == nil {
		return nil, nil
	}
	return s.pendingAwards(ctx, limit)
}

func (s *orderRepoStub) SettleDeliveryAward(ctx context.Context, orderID int64, cherries int) (bool, error) {
	if s.settleAward == nil {
		return true, nil
	}
	return s.settleAward(ctx, orderID, cherries)
}

type bonusRepoStub struct {
	getBalance func(ctx context.Context, userID int64) (float64, error)
	getHistory func(ctx context.Context, userID int64) ([]*domain.BonusTransaction, error)
	credit     func(ctx context.Context, userID int64, orderID *int64, amount float64, txType domain.BonusTxType) error
}

func (s *bonusRepoStub) GetBalance(ctx context.Context, userID int64) (float64, error) {
	if s.getBalance == nil {
		return 0, nil
	}
	return s.getBalance(ctx, userID)
}

func (s *bonusRepoStub) GetHistory(ctx context.Context, userID int64) ([]*domain.BonusTransaction, error) {
	if s.getHistory == nil {
		return nil, nil
	}
	return s.getHistory(ctx, userID)
}

func (s *bonusRepoStub) Credit(ctx context.Context, userID int64, orderID *int64, amount float64, txType domain.BonusTxType) error {
	if s.credit == nil {
		return nil
	}
	return s.credit(ctx, userID, orderID, amount, txType)
}

type cherryRepoStub struct {
	getCherries    func(ctx context.Context, userID int64) (int, error)
	addCherries    func(ctx context.Context, userID int64, delta int) (int, error)
	grantMilestone func(ctx context.Context, userID int64, orderNumber int) (bool, error)
}

func (s *cherryRepoStub) GetCherries(ctx context.Context, userID int64) (int, error) {
	if s.getCherries == nil {
		return 0, nil
	}
	return s.getCherries(ctx, userID)
}

func (s *cherryRepoStub) AddCherries(ctx context.Context, userID int64, delta int) (int, error) {
	if s.addCherries == nil {
		return delta, nil
	}
	return s.addCherries(ctx, userID, delta)
}

func (s *cherryRepoStub) GrantMilestone(ctx context.Context, userID int64, orderNumber int) (bool, error) {
	if s.grantMilestone == nil {
		return true, nil
	}
	return s.grantMilestone(ctx, userID, orderNumber)
}

type promoRepoStub struct {
	getPromo    func(ctx context.Context, code string) (*domain.PromoCode, error)
	createPromo func(ctx context.Context, promo *domain.PromoCode) error
	listPromos  func(ctx context.Context) ([]*domain.PromoCode, error)
}

func (s *promoRepoStub) GetPromo(ctx context.Context, code string) (*domain.PromoCode, error) {
	if s.getPromo == nil {
		return nil, domain.ErrPromoNotFound
	}
	return s.getPromo(ctx, code)
}

func (s *promoRepoStub) CreatePromo(ctx context.Context, promo *domain.PromoCode) error {
	if s.createPromo == nil {
		return nil
	}
	return s.createPromo(ctx, promo)
}

func (s *promoRepoStub) ListPromos(ctx context.Context) ([]*domain.PromoCode, error) {
	if s.listPromos == nil {
		return nil, nil
	}
	return s.listPromos(ctx)
}

type referralRepoStub struct {
	claim        func(ctx context.Context, referrerID, refereeID int64, refCode string) error
	getByReferee func(ctx context.Context, refereeID int64) (*domain.Referral, error)
	convert      func(ctx context.Context, referrerID, refereeID int64, orderAmount float64) (bool, error)
	getAccount   func(ctx context.Context, userID int64) (*domain.ReferralAccount, error)
}

func (s *referralRepoStub) Claim(ctx context.Context, referrerID, refereeID int64, refCode string) error {
	if s.claim == nil {
		return nil
	}
	return s.claim(ctx, referrerID, refereeID, refCode)
}

func (s *referralRepoStub) GetByReferee(ctx context.Context, refereeID int64) (*domain.Referral, error) {
	if s.getByReferee == nil {
		return nil, nil
	}
	return s.getByReferee(ctx, refereeID)
}

func (s *referralRepoStub) Convert(ctx context.Context, referrerID, refereeID int64, orderAmount float64) (bool, error) {
	if s.convert == nil {
		return true, nil
	}
	return s.convert(ctx, referrerID, refereeID, orderAmount)
}

func (s *referralRepoStub) GetAccount(ctx context.Context, userID int64) (*domain.ReferralAccount, error) {
	if s.getAccount == nil {
		return &domain.ReferralAccount{UserID: userID}, nil
	}
	return s.getAccount(ctx, userID)
}

type fortuneRepoStub struct {
	getSpinsUsed func(ctx context.Context, userID int64, date string) (int, error)
	consumeSpin  func(ctx context.Context, userID int64, date string, quota int, bonus float64, promo *domain.PromoCode) (int, error)
}

func (s *fortuneRepoStub) GetSpinsUsed(ctx context.Context, userID int64, date string) (int, error) {
	if s.getSpinsUsed == nil {
		return 0, nil
	}
	return s.getSpinsUsed(ctx, userID, date)
}

func (s *fortuneRepoStub) ConsumeSpin(ctx context.Context, userID int64, date string, quota int, bonus float64, promo *domain.PromoCode) (int, error) {
	if s.consumeSpin == nil {
		return 1, nil
	}
	return s.consumeSpin(ctx, userID, date, quota, bonus, promo)
}

type courierRepoStub struct {
	getCourier     func(ctx context.Context, courierID int64) (*domain.Courier, error)
	getByTgID      func(ctx context.Context, tgID int64) (*domain.Courier, error)
	listCouriers   func(ctx context.Context) ([]*domain.Courier, error)
	createCourier  func(ctx context.Context, courier *domain.Courier) (*domain.Courier, error)
	updateCourier  func(ctx context.Context, courier *domain.Courier) error
	settlePayout   func(ctx context.Context, courierID int64, date string, percent float64) (*domain.CourierPayout, error)
}

func (s *courierRepoStub) GetCourier(ctx context.Context, courierID int64) (*domain.Courier, error) {
	if s.getCourier == nil {
		return nil, domain.ErrCourierNotFound
	}
	return s.getCourier(ctx, courierID)
}

func (s *courierRepoStub) GetCourierByTgID(ctx context.Context, tgID int64) (*domain.Courier, error) {
	if s.getByTgID == nil {
		return nil, domain.ErrCourierNotFound
	}
	return s.getByTgID(ctx, tgID)
}

func (s *courierRepoStub) ListCouriers(ctx context.Context) ([]*domain.Courier, error) {
	if s.listCouriers == nil {
		return nil, nil
	}
	return s.listCouriers(ctx)
}

func (s *courierRepoStub) CreateCourier(ctx context.Context, courier *domain.Courier) (*domain.Courier, error) {
	if s.createCourier == nil {
		courier.ID = 1
		return courier, nil
	}
	return s.createCourier(ctx, courier)
}

func (s *courierRepoStub) UpdateCourier(ctx context.Context, courier *domain.Courier) error {
	if s.updateCourier == nil {
		return nil
	}
	return s.updateCourier(ctx, courier)
}

func (s *courierRepoStub) SettlePayout(ctx context.Context, courierID int64, date string, percent float64) (*domain.CourierPayout, error) {
	if s.settlePayout == nil {
		return &domain.CourierPayout{CourierID: courierID, PayoutDate: date}, nil
	}
	return s.settlePayout(ctx, courierID, date, percent)
}

// eventsStub собирает опубликованные события
type eventsStub struct {
	published []string
}

func (s *eventsStub) Publish(event string, payload map[string]any) {
	s.published = append(s.published, event)
}
