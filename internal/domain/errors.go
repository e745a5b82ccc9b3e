package domain

import "errors"

// ErrInvalidInput возвращается при некорректных входных данных запроса
var ErrInvalidInput = errors.New("invalid input")

// Ошибки корзины и остатков
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is not active")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCartItemNotFound  = errors.New("cart item not found")
)

// Ошибки заказов
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderExists        = errors.New("order already exists")
	ErrOrderAccessDenied  = errors.New("order belongs to another user")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrOrderAlreadyPaid   = errors.New("order already paid")
	ErrOrderNotConfirmable = errors.New("order is not awaiting confirmation")
)

// Ошибки бонусов и промокодов
var (
	ErrBonusExceedsBalance = errors.New("bonus amount exceeds balance")
	ErrPromoNotFound       = errors.New("promo code not found")
	ErrPromoInactive       = errors.New("promo code is not active")
	ErrPromoMinTotal       = errors.New("order total below promo minimum")
	ErrPromoExists         = errors.New("promo code already exists")
)

// Ошибки реферальной программы и колеса фортуны
var (
	ErrReferralClaimed   = errors.New("referral already claimed")
	ErrReferralSelfClaim = errors.New("cannot claim own referral code")
	ErrInvalidRefCode    = errors.New("invalid referral code")
	ErrSpinsExhausted    = errors.New("daily spins exhausted")
)

// Ошибки курьеров и выплат
var (
	ErrCourierNotFound     = errors.New("courier not found")
	ErrCourierInactive     = errors.New("courier is not active")
	ErrInvalidTimeSlot     = errors.New("delivery time outside courier window")
	ErrPayoutAlreadySettled = errors.New("payout already settled for this date")
)
