package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/smokeland/store-backend/internal/domain"
)

// LoyaltyService реализует вишневую программу лояльности: уровни,
// начисления за доставку и разовые milestone-награды
type LoyaltyService struct {
	cherries domain.CherryRepository
	bonuses  domain.BonusRepository
	promos   domain.PromoRepository
	orders   domain.OrderRepository

	// Процент начисления бонусов от финальной суммы заказа
	earnPercent float64
}

// NewLoyaltyService создает новый LoyaltyService
func NewLoyaltyService(
	cherries domain.CherryRepository,
	bonuses domain.BonusRepository,
	promos domain.PromoRepository,
	orders domain.OrderRepository,
	earnPercent float64,
) *LoyaltyService {
	return &LoyaltyService{
		cherries:    cherries,
		bonuses:     bonuses,
		promos:      promos,
		orders:      orders,
		earnPercent: earnPercent,
	}
}

// Profile возвращает профиль лояльности пользователя
func (s *LoyaltyService) Profile(ctx context.Context, userID int64) (*domain.LoyaltyProfile, error) {
	cherries, err := s.cherries.GetCherries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loyalty service: failed to get cherries for user %d: %w", userID, err)
	}

	return &domain.LoyaltyProfile{
		Cherries:    cherries,
		Tier:        domain.TierFor(cherries),
		NextTier:    domain.NextTierFor(cherries),
		ProgressPct: domain.TierProgress(cherries),
	}, nil
}

// Tier возвращает текущий уровень пользователя
func (s *LoyaltyService) Tier(ctx context.Context, userID int64) (domain.LoyaltyTier, error) {
	cherries, err := s.cherries.GetCherries(ctx, userID)
	if err != nil {
		return domain.LoyaltyTiers[0], fmt.Errorf("loyalty service: failed to get cherries for user %d: %w", userID, err)
	}

	return domain.TierFor(cherries), nil
}

// AwardForDelivery выполняет начисления за доставленный заказ: бонусный
// процент от финальной суммы и milestone-награду по порядковому номеру.
// Возвращает прирост вишен; сами вишни записываются при закрытии маркера
// начисления. Каждый шаг идемпотентен, вызов безопасно повторяется до
// закрытия маркера: повторный кредит поглощается журналом, повторный
// milestone-промокод уже существует.
func (s *LoyaltyService) AwardForDelivery(ctx context.Context, userID, orderID int64, finalAmount float64) (int, error) {
	cherries, err := s.cherries.GetCherries(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("loyalty service: failed to get cherries for user %d: %w", userID, err)
	}
	delta := domain.CherriesPerOrder(domain.TierFor(cherries))

	earn := math.Round(finalAmount*s.earnPercent) / 100
	if earn > 0 {
		if err := s.bonuses.Credit(ctx, userID, &orderID, earn, domain.BonusTxEarn); err != nil {
			return 0, fmt.Errorf("loyalty service: failed to credit delivery bonus: %w", err)
		}
	}

	delivered, err := s.orders.CountDelivered(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("loyalty service: failed to count delivered orders: %w", err)
	}

	milestone := domain.MilestoneFor(delivered)
	if milestone == nil {
		return delta, nil
	}

	if err := s.grantMilestoneReward(ctx, userID, orderID, milestone); err != nil {
		return 0, err
	}
	if _, err := s.cherries.GrantMilestone(ctx, userID, milestone.OrderNumber); err != nil {
		return 0, fmt.Errorf("loyalty service: failed to mark milestone: %w", err)
	}

	return delta, nil
}

// grantMilestoneReward выдает награду за порядковый номер заказа. Бонус
// привязан к заказу отдельным типом транзакции, код промокода
// детерминирован — повтор не задваивает награду.
func (s *LoyaltyService) grantMilestoneReward(ctx context.Context, userID, orderID int64, milestone *domain.Milestone) error {
	switch milestone.Reward {
	case domain.MilestoneRewardBonus:
		if err := s.bonuses.Credit(ctx, userID, &orderID, milestone.BonusAmount, domain.BonusTxMilestone); err != nil {
			return fmt.Errorf("loyalty service: failed to credit milestone bonus: %w", err)
		}
	case domain.MilestoneRewardPromo:
		code := fmt.Sprintf("MILESTONE%d-%d", milestone.OrderNumber, userID)
		promo := &domain.PromoCode{
			Code:   code,
			Kind:   milestone.PromoKind,
			Value:  milestone.PromoValue,
			Active: true,
			UserID: &userID,
		}
		if err := s.promos.CreatePromo(ctx, promo); err != nil && !errors.Is(err, domain.ErrPromoExists) {
			return fmt.Errorf("loyalty service: failed to create milestone promo: %w", err)
		}
	}

	return nil
}
