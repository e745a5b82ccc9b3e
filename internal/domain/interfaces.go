package domain

import "context"

// ProductRepository определяет методы для работы с каталогом и остатками
type ProductRepository interface {
	GetProduct(ctx context.Context, productID int64) (*Product, error)
	GetStock(ctx context.Context, productID int64, city string) (int, error)
}

// CartRepository определяет методы для работы с корзиной
type CartRepository interface {
	AddItem(ctx context.Context, userID int64, city string, productID int64, variant string, quantity int, price float64) (*CartItem, error)
	UpdateItem(ctx context.Context, userID, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64, city string) error
	GetItems(ctx context.Context, userID int64, city string) ([]*CartItem, error)
}

// OrderRepository определяет методы для работы с заказами
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order, items []*OrderItem) (*Order, error)
	GetOrderByID(ctx context.Context, orderID int64) (*Order, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*Order, error)
	GetOrdersByCourierID(ctx context.Context, courierID int64) ([]*Order, error)
	GetAllOrders(ctx context.Context) ([]*Order, error)
	ConfirmOrder(ctx context.Context, order *Order) error
	ApplyPayment(ctx context.Context, userID, orderID int64, method string, requested float64) (*Order, error)
	UpdateStatus(ctx context.Context, orderID int64, from, to OrderStatus, courierID *int64) error
	CountDelivered(ctx context.Context, userID int64) (int, error)
	PendingDeliveryAwards(ctx context.Context, limit int) ([]*DeliveryAward, error)
	SettleDeliveryAward(ctx context.Context, orderID int64, cherries int) (bool, error)
}

// BonusRepository определяет методы для работы с бонусным счетом
type BonusRepository interface {
	GetBalance(ctx context.Context, userID int64) (float64, error)
	GetHistory(ctx context.Context, userID int64) ([]*BonusTransaction, error)
	Credit(ctx context.Context, userID int64, orderID *int64, amount float64, txType BonusTxType) error
}

// CherryRepository определяет методы для работы со счетчиком вишен
type CherryRepository interface {
	GetCherries(ctx context.Context, userID int64) (int, error)
	AddCherries(ctx context.Context, userID int64, delta int) (int, error)
	GrantMilestone(ctx context.Context, userID int64, orderNumber int) (bool, error)
}

// PromoRepository определяет методы для работы с промокодами
type PromoRepository interface {
	GetPromo(ctx context.Context, code string) (*PromoCode, error)
	CreatePromo(ctx context.Context, promo *PromoCode) error
	ListPromos(ctx context.Context) ([]*PromoCode, error)
}

// ReferralRepository определяет методы для реферальной программы
type ReferralRepository interface {
	Claim(ctx context.Context, referrerID, refereeID int64, refCode string) error
	GetByReferee(ctx context.Context, refereeID int64) (*Referral, error)
	Convert(ctx context.Context, referrerID, refereeID int64, orderAmount float64) (bool, error)
	GetAccount(ctx context.Context, userID int64) (*ReferralAccount, error)
}

// FortuneRepository определяет методы для учета спинов колеса фортуны
type FortuneRepository interface {
	GetSpinsUsed(ctx context.Context, userID int64, date string) (int, error)
	ConsumeSpin(ctx context.Context, userID int64, date string, quota int, bonus float64, promo *PromoCode) (int, error)
}

// CourierRepository определяет методы для работы с курьерами и выплатами
type CourierRepository interface {
	GetCourier(ctx context.Context, courierID int64) (*Courier, error)
	GetCourierByTgID(ctx context.Context, tgID int64) (*Courier, error)
	ListCouriers(ctx context.Context) ([]*Courier, error)
	CreateCourier(ctx context.Context, courier *Courier) (*Courier, error)
	UpdateCourier(ctx context.Context, courier *Courier) error
	SettlePayout(ctx context.Context, courierID int64, date string, percent float64) (*CourierPayout, error)
}

// EventPublisher определяет неблокирующую публикацию аналитических событий
type EventPublisher interface {
	Publish(event string, payload map[string]any)
}
