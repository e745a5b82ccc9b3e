package domain

import "math"

// LoyaltyTier представляет уровень программы лояльности
type LoyaltyTier struct {
	Rank            int    `json:"rank"`
	Name            string `json:"name"`
	MinCherries     int    `json:"min_cherries"`
	DiscountPercent int    `json:"discount_percent"`
	ExtraCherries   int    `json:"extra_cherries_per_order"`
}

// LoyaltyTiers содержит уровни лояльности, отсортированные по порогу.
// Таблица фиксируется на старте и сканируется по порогам.
var LoyaltyTiers = []LoyaltyTier{
	{Rank: 0, Name: "starter", MinCherries: 0, DiscountPercent: 0, ExtraCherries: 0},
	{Rank: 1, Name: "silver", MinCherries: 10, DiscountPercent: 5, ExtraCherries: 0},
	{Rank: 2, Name: "gold", MinCherries: 25, DiscountPercent: 10, ExtraCherries: 1},
	{Rank: 3, Name: "platinum", MinCherries: 50, DiscountPercent: 15, ExtraCherries: 2},
	{Rank: 4, Name: "legend", MinCherries: 100, DiscountPercent: 20, ExtraCherries: 3},
}

// TierFor возвращает наивысший уровень, порог которого не превышает cherries
func TierFor(cherries int) LoyaltyTier {
	if cherries < 0 {
		cherries = 0
	}
	tier := LoyaltyTiers[0]
	for _, t := range LoyaltyTiers {
		if cherries >= t.MinCherries {
			tier = t
		}
	}
	return tier
}

// NextTierFor возвращает ближайший уровень с порогом выше cherries,
// либо nil, если достигнут максимальный уровень
func NextTierFor(cherries int) *LoyaltyTier {
	if cherries < 0 {
		cherries = 0
	}
	for i := range LoyaltyTiers {
		if LoyaltyTiers[i].MinCherries > cherries {
			return &LoyaltyTiers[i]
		}
	}
	return nil
}

// CherriesPerOrder возвращает количество вишен за доставленный заказ
func CherriesPerOrder(tier LoyaltyTier) int {
	return 1 + tier.ExtraCherries
}

// TierProgress возвращает прогресс к следующему уровню в процентах [0,100]
func TierProgress(cherries int) int {
	next := NextTierFor(cherries)
	if next == nil {
		return 100
	}
	if cherries < 0 {
		cherries = 0
	}
	progress := int(math.Round(100 * float64(cherries) / float64(next.MinCherries)))
	if progress > 100 {
		progress = 100
	}
	return progress
}

// LoyaltyProfile представляет профиль лояльности пользователя
type LoyaltyProfile struct {
	Cherries    int          `json:"cherries"`
	Tier        LoyaltyTier  `json:"tier"`
	NextTier    *LoyaltyTier `json:"next_tier,omitempty"`
	ProgressPct int          `json:"progress_pct"`
}

// MilestoneRewardKind представляет тип награды за порядковый номер заказа
type MilestoneRewardKind string

const (
	MilestoneRewardBonus MilestoneRewardKind = "bonus"
	MilestoneRewardPromo MilestoneRewardKind = "promo"
)

// Milestone представляет разовую награду за N-й доставленный заказ
type Milestone struct {
	OrderNumber int                 `json:"order_number"`
	Reward      MilestoneRewardKind `json:"reward"`
	BonusAmount float64             `json:"bonus_amount,omitempty"`
	PromoKind   PromoKind           `json:"promo_kind,omitempty"`
	PromoValue  float64             `json:"promo_value,omitempty"`
	Description string              `json:"description"`
}

// OrderMilestones содержит награды по порядковым номерам доставленных
// заказов, отсортированные по номеру. Каждая выдается не более одного раза.
var OrderMilestones = []Milestone{
	{OrderNumber: 1, Reward: MilestoneRewardBonus, BonusAmount: 100, Description: "Первый заказ: 100 бонусов"},
	{OrderNumber: 2, Reward: MilestoneRewardPromo, PromoKind: PromoKindPercent, PromoValue: 5, Description: "Промокод -5%"},
	{OrderNumber: 3, Reward: MilestoneRewardBonus, BonusAmount: 150, Description: "150 бонусов"},
	{OrderNumber: 4, Reward: MilestoneRewardPromo, PromoKind: PromoKindFixed, PromoValue: 200, Description: "Промокод -200"},
	{OrderNumber: 5, Reward: MilestoneRewardPromo, PromoKind: PromoKindGift, PromoValue: 0, Description: "Жидкость в подарок"},
	{OrderNumber: 10, Reward: MilestoneRewardPromo, PromoKind: PromoKindPercent, PromoValue: 10, Description: "Промокод -10%"},
	{OrderNumber: 25, Reward: MilestoneRewardBonus, BonusAmount: 500, Description: "500 бонусов"},
	{OrderNumber: 50, Reward: MilestoneRewardPromo, PromoKind: PromoKindGift, PromoValue: 0, Description: "Бокс в подарок"},
	{OrderNumber: 100, Reward: MilestoneRewardBonus, BonusAmount: 2000, Description: "2000 бонусов"},
}

// MilestoneFor возвращает награду за указанный порядковый номер заказа
func MilestoneFor(orderNumber int) *Milestone {
	for i := range OrderMilestones {
		if OrderMilestones[i].OrderNumber == orderNumber {
			return &OrderMilestones[i]
		}
	}
	return nil
}
