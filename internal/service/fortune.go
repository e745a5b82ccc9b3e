package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/smokeland/store-backend/internal/domain"
)

const spinDateLayout = "2006-01-02"

// FortuneService реализует колесо фортуны: дневную квоту спинов по
// уровню лояльности и взвешенный розыгрыш призов на сервере
type FortuneService struct {
	spins    domain.FortuneRepository
	cherries domain.CherryRepository

	// randFloat и now подменяются в тестах
	randFloat func() float64
	now       func() time.Time
}

// NewFortuneService создает новый FortuneService
func NewFortuneService(spins domain.FortuneRepository, cherries domain.CherryRepository) *FortuneService {
	return &FortuneService{
		spins:     spins,
		cherries:  cherries,
		randFloat: rand.Float64,
		now:       time.Now,
	}
}

func (s *FortuneService) quotaFor(ctx context.Context, userID int64) (int, error) {
	cherries, err := s.cherries.GetCherries(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("fortune service: failed to get cherries for user %d: %w", userID, err)
	}

	return domain.WheelQuotaFor(domain.TierFor(cherries)), nil
}

// State возвращает дневное состояние колеса для пользователя.
// Квота сбрасывается на границе календарного дня серверного времени.
func (s *FortuneService) State(ctx context.Context, userID int64) (*domain.FortuneState, error) {
	quota, err := s.quotaFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	date := s.now().Format(spinDateLayout)
	used, err := s.spins.GetSpinsUsed(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("fortune service: failed to get spins for user %d: %w", userID, err)
	}

	remaining := quota - used
	if remaining < 0 {
		remaining = 0
	}

	return &domain.FortuneState{
		Date:      date,
		Quota:     quota,
		SpinsUsed: used,
		Remaining: remaining,
	}, nil
}

// Spin расходует один спин дневной квоты и разыгрывает приз по таблице
// весов. Розыгрыш выполняется только на сервере: клиент не может ни
// предсказать, ни воспроизвести результат из параметров запроса.
// Списание спина и выдача приза проходят одной транзакцией: сорванный
// запрос не сжигает спин без приза.
func (s *FortuneService) Spin(ctx context.Context, userID int64) (*domain.SpinResult, error) {
	quota, err := s.quotaFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	prize := drawPrize(s.randFloat())

	var bonus float64
	var promo *domain.PromoCode
	switch prize.Kind {
	case domain.WheelPrizeBonus:
		bonus = prize.Amount
	case domain.WheelPrizePromo:
		promo = &domain.PromoCode{
			Code:   "WHEEL-" + uuid.NewString()[:8],
			Kind:   prize.PromoKind,
			Value:  prize.PromoValue,
			Active: true,
			UserID: &userID,
		}
	}

	date := s.now().Format(spinDateLayout)
	used, err := s.spins.ConsumeSpin(ctx, userID, date, quota, bonus, promo)
	if err != nil {
		return nil, err
	}

	result := &domain.SpinResult{
		Prize: prize,
		State: &domain.FortuneState{
			Date:      date,
			Quota:     quota,
			SpinsUsed: used,
			Remaining: quota - used,
		},
	}
	if promo != nil {
		result.PromoCode = &promo.Code
	}

	return result, nil
}

// drawPrize выбирает приз по кумулятивному распределению весов
func drawPrize(roll float64) domain.WheelPrize {
	var cumulative float64
	for _, prize := range domain.WheelPrizes {
		cumulative += prize.Weight
		if roll < cumulative {
			return prize
		}
	}
	// Защита от погрешности сложения весов
	return domain.WheelPrizes[len(domain.WheelPrizes)-1]
}
