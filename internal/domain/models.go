package domain

import "time"

// Role представляет роль вызывающего из JWT
type Role string

const (
	RoleRegular Role = "regular"
	RoleCourier Role = "courier"
	RoleAdmin   Role = "admin"
)

// OrderStatus представляет статус доставки заказа
type OrderStatus string

const (
	OrderStatusBuffer    OrderStatus = "buffer"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAssigned  OrderStatus = "assigned"
	OrderStatusPickedUp  OrderStatus = "picked_up"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Terminal сообщает, является ли статус терминальным
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// PaymentStatus представляет платежный под-статус заказа
type PaymentStatus string

const (
	PaymentStatusUnpaid    PaymentStatus = "unpaid"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
)

// DeliveryMethod представляет способ получения заказа
type DeliveryMethod string

const (
	DeliveryMethodCourier DeliveryMethod = "courier"
	DeliveryMethodPickup  DeliveryMethod = "pickup"
)

// BonusTxType представляет тип бонусной транзакции
type BonusTxType string

const (
	BonusTxEarn      BonusTxType = "earn"
	BonusTxSpend     BonusTxType = "spend"
	BonusTxMilestone BonusTxType = "milestone"
	BonusTxExpire    BonusTxType = "expire"
)

// PromoKind представляет тип промокода
type PromoKind string

const (
	PromoKindPercent PromoKind = "percent"
	PromoKindFixed   PromoKind = "fixed"
	PromoKindGift    PromoKind = "gift"
)

// Product представляет товар каталога
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Brand     string    `json:"brand"`
	Price     float64   `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CartItem представляет позицию корзины пользователя
type CartItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	City      string    `json:"city"`
	ProductID int64     `json:"product_id"`
	Variant   string    `json:"variant"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"-"`
}

// Cart представляет корзину с пересчитанной стоимостью
type Cart struct {
	City          string      `json:"city"`
	Items         []*CartItem `json:"items"`
	TotalQuantity int         `json:"total_quantity"`
	Subtotal      float64     `json:"subtotal"`
	BulkApplied   bool        `json:"bulk_applied"`
}

// OrderItem представляет позицию заказа со снимком цены
type OrderItem struct {
	ID        int64   `json:"-"`
	OrderID   int64   `json:"-"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Variant   string  `json:"variant"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Order представляет заказ пользователя
type Order struct {
	ID              int64          `json:"id"`
	UserID          int64          `json:"-"`
	City            string         `json:"city"`
	Status          OrderStatus    `json:"status"`
	PaymentStatus   PaymentStatus  `json:"payment_status"`
	TotalAmount     float64        `json:"total_amount"`
	BonusApplied    float64        `json:"bonus_applied"`
	PromoDiscount   float64        `json:"promo_discount"`
	FinalAmount     float64        `json:"final_amount"`
	PromoCode       *string        `json:"promo_code,omitempty"`
	DeliveryMethod  DeliveryMethod `json:"delivery_method,omitempty"`
	CourierID       *int64         `json:"courier_id,omitempty"`
	DeliveryDate    *string        `json:"delivery_date,omitempty"`
	DeliveryTime    *string        `json:"delivery_time,omitempty"`
	DeliveryAddress *string        `json:"delivery_address,omitempty"`
	PaymentMethod   *string        `json:"payment_method,omitempty"`
	IdempotencyKey  string         `json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	Items           []*OrderItem   `json:"items,omitempty"`
}

// DeliveryAward представляет открытое начисление за доставленный заказ.
// Маркер записывается той же транзакцией, что и переход в delivered, и
// закрывается после фактического выполнения начислений.
type DeliveryAward struct {
	OrderID   int64
	UserID    int64
	Amount    float64
	CreatedAt time.Time
}

// BonusTransaction представляет запись бонусной истории
type BonusTransaction struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"-"`
	OrderID   *int64      `json:"order_id,omitempty"`
	Amount    float64     `json:"amount"`
	Type      BonusTxType `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
}

// PromoCode представляет промокод
type PromoCode struct {
	Code      string     `json:"code"`
	Kind      PromoKind  `json:"kind"`
	Value     float64    `json:"value"`
	MinTotal  float64    `json:"min_total"`
	Active    bool       `json:"active"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	UserID    *int64     `json:"-"` // Персональный промокод (приз колеса, milestone)
	CreatedAt time.Time  `json:"created_at"`
}

// Referral представляет привязку приглашенного пользователя к рефереру
type Referral struct {
	ReferrerID  int64      `json:"referrer_id"`
	RefereeID   int64      `json:"referee_id"`
	RefCode     string     `json:"ref_code"`
	CreatedAt   time.Time  `json:"created_at"`
	ConvertedAt *time.Time `json:"converted_at,omitempty"`
}

// ReferralAccount представляет накопленное состояние реферера
type ReferralAccount struct {
	UserID       int64   `json:"-"`
	InvitedCount int     `json:"invited_count"`
	BalanceTotal float64 `json:"balance_total"`
}

// FortuneState представляет дневное состояние колеса фортуны
type FortuneState struct {
	Date      string `json:"date"`
	Quota     int    `json:"quota"`
	SpinsUsed int    `json:"spins_used"`
	Remaining int    `json:"remaining"`
}

// Courier представляет курьера
type Courier struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TgID         int64  `json:"tg_id"`
	Active       bool   `json:"active"`
	TimeFrom     string `json:"time_from"`
	TimeTo       string `json:"time_to"`
	MeetingPlace string `json:"meeting_place"`
}

// CourierPayout представляет дневную выплату курьеру
type CourierPayout struct {
	CourierID  int64     `json:"courier_id"`
	PayoutDate string    `json:"payout_date"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}
