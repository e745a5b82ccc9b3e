package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/smokeland/store-backend/internal/domain"
)

// PromoService валидирует и применяет промокоды
type PromoService struct {
	promos domain.PromoRepository
}

// NewPromoService создает новый PromoService
func NewPromoService(promos domain.PromoRepository) *PromoService {
	return &PromoService{promos: promos}
}

// Validate проверяет промокод против суммы заказа и возвращает размер
// скидки. Персональные промокоды доступны только своему владельцу.
func (s *PromoService) Validate(ctx context.Context, code string, userID int64, subtotal float64) (*domain.PromoCode, float64, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, 0, domain.ErrInvalidInput
	}

	promo, err := s.promos.GetPromo(ctx, code)
	if err != nil {
		return nil, 0, err
	}

	if !promo.Active {
		return nil, 0, domain.ErrPromoInactive
	}
	if promo.UserID != nil && *promo.UserID != userID {
		return nil, 0, domain.ErrPromoNotFound
	}

	now := time.Now()
	if promo.StartsAt != nil && now.Before(*promo.StartsAt) {
		return nil, 0, domain.ErrPromoInactive
	}
	if promo.ExpiresAt != nil && now.After(*promo.ExpiresAt) {
		return nil, 0, domain.ErrPromoInactive
	}

	if subtotal < promo.MinTotal {
		return nil, 0, domain.ErrPromoMinTotal
	}

	return promo, discountFor(promo, subtotal), nil
}

// discountFor вычисляет скидку промокода для указанной суммы
func discountFor(promo *domain.PromoCode, subtotal float64) float64 {
	switch promo.Kind {
	case domain.PromoKindPercent:
		return math.Round(subtotal*promo.Value) / 100
	case domain.PromoKindFixed:
		if promo.Value > subtotal {
			return subtotal
		}
		return promo.Value
	default:
		// gift не меняет сумму заказа
		return 0
	}
}

// Create создает промокод (админ-консоль)
func (s *PromoService) Create(ctx context.Context, promo *domain.PromoCode) error {
	promo.Code = strings.TrimSpace(promo.Code)
	if promo.Code == "" {
		return domain.ErrInvalidInput
	}

	switch promo.Kind {
	case domain.PromoKindPercent:
		if promo.Value <= 0 || promo.Value > 100 {
			return domain.ErrInvalidInput
		}
	case domain.PromoKindFixed:
		if promo.Value <= 0 {
			return domain.ErrInvalidInput
		}
	case domain.PromoKindGift:
	default:
		return domain.ErrInvalidInput
	}

	return s.promos.CreatePromo(ctx, promo)
}

// List возвращает все промокоды (админ-консоль)
func (s *PromoService) List(ctx context.Context) ([]*domain.PromoCode, error) {
	return s.promos.ListPromos(ctx)
}
