package service

import (
	"context"
	"fmt"

	"github.com/smokeland/store-backend/internal/domain"
)

// BonusService предоставляет операции с бонусным счетом
type BonusService struct {
	bonuses domain.BonusRepository
}

// NewBonusService создает новый BonusService
func NewBonusService(bonuses domain.BonusRepository) *BonusService {
	return &BonusService{bonuses: bonuses}
}

// Balance получает баланс пользователя
func (s *BonusService) Balance(ctx context.Context, userID int64) (float64, error) {
	balance, err := s.bonuses.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("bonus service: failed to get balance for user %d: %w", userID, err)
	}

	return balance, nil
}

// History получает историю бонусных операций
func (s *BonusService) History(ctx context.Context, userID int64) ([]*domain.BonusTransaction, error) {
	history, err := s.bonuses.GetHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("bonus service: failed to get history for user %d: %w", userID, err)
	}

	return history, nil
}

// Apply предварительно проверяет сумму применения против живого баланса.
// Авторитетное ограничение выполняется в момент оплаты; здесь клиент
// получает максимум, который реально спишется.
func (s *BonusService) Apply(ctx context.Context, userID int64, requested float64) (float64, error) {
	if requested <= 0 {
		return 0, domain.ErrInvalidInput
	}

	balance, err := s.bonuses.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("bonus service: failed to get balance for user %d: %w", userID, err)
	}

	if requested > balance {
		return balance, domain.ErrBonusExceedsBalance
	}

	return requested, nil
}
