package domain

// WheelPrizeKind представляет тип приза колеса фортуны
type WheelPrizeKind string

const (
	WheelPrizeBonus   WheelPrizeKind = "bonus"
	WheelPrizePromo   WheelPrizeKind = "promo"
	WheelPrizeNothing WheelPrizeKind = "nothing"
)

// WheelPrize представляет сектор колеса с весом выпадения
type WheelPrize struct {
	Kind       WheelPrizeKind `json:"kind"`
	Label      string         `json:"label"`
	Amount     float64        `json:"amount,omitempty"`
	PromoKind  PromoKind      `json:"promo_kind,omitempty"`
	PromoValue float64        `json:"promo_value,omitempty"`
	Weight     float64        `json:"-"`
}

// WheelPrizes содержит таблицу призов; веса в сумме дают 1.0.
// Розыгрыш выполняется только на сервере.
var WheelPrizes = []WheelPrize{
	{Kind: WheelPrizeBonus, Label: "50 бонусов", Amount: 50, Weight: 0.30},
	{Kind: WheelPrizeBonus, Label: "150 бонусов", Amount: 150, Weight: 0.15},
	{Kind: WheelPrizeBonus, Label: "500 бонусов", Amount: 500, Weight: 0.05},
	{Kind: WheelPrizePromo, Label: "Промокод -10%", PromoKind: PromoKindPercent, PromoValue: 10, Weight: 0.10},
	{Kind: WheelPrizeNothing, Label: "Повезет в следующий раз", Weight: 0.40},
}

// WheelQuotaFor возвращает дневную квоту спинов по уровню лояльности:
// starter/silver — 3, gold/platinum — 5, legend — 10
func WheelQuotaFor(tier LoyaltyTier) int {
	switch {
	case tier.Rank >= 4:
		return 10
	case tier.Rank >= 2:
		return 5
	default:
		return 3
	}
}

// SpinResult представляет результат розыгрыша
type SpinResult struct {
	Prize     WheelPrize `json:"prize"`
	PromoCode *string    `json:"promo_code,omitempty"`
	State     *FortuneState `json:"state"`
}
