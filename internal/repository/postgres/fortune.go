package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/smokeland/store-backend/internal/domain"
)

// FortuneRepository реализует domain.FortuneRepository
type FortuneRepository struct {
	db DBTX
}

// NewFortuneRepository создает новый FortuneRepository
func NewFortuneRepository(db DBTX) *FortuneRepository {
	return &FortuneRepository{db: db}
}

// GetSpinsUsed получает число использованных за день спинов
func (r *FortuneRepository) GetSpinsUsed(ctx context.Context, userID int64, date string) (int, error) {
	var used int

	err := withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx,
			`SELECT spins_used FROM fortune_spins WHERE user_id = $1 AND spin_date = $2`,
			userID, date,
		).Scan(&used)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("repository: failed to get spins for user %d: %w", userID, err)
	}

	return used, nil
}

// ConsumeSpin расходует один спин дневной квоты и применяет приз той же
// транзакцией: спин не сгорает без приза, приз не выдается без спина.
// Инкремент проходит только пока spins_used < quota; конкурентные запросы
// сериализуются на строке (user_id, spin_date). При исчерпании квоты
// возвращает domain.ErrSpinsExhausted.
func (r *FortuneRepository) ConsumeSpin(ctx context.Context, userID int64, date string, quota int, bonus float64, promo *domain.PromoCode) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin spin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var used int
	err = tx.QueryRow(ctx,
		`INSERT INTO fortune_spins (user_id, spin_date, spins_used)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, spin_date)
		 DO UPDATE SET spins_used = fortune_spins.spins_used + 1
		 WHERE fortune_spins.spins_used < $3
		 RETURNING spins_used`,
		userID, date, quota,
	).Scan(&used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrSpinsExhausted
		}
		return 0, fmt.Errorf("repository: failed to consume spin for user %d: %w", userID, err)
	}

	if bonus > 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO bonus_transactions (user_id, amount, type)
			 VALUES ($1, $2, $3)`,
			userID, bonus, domain.BonusTxEarn,
		)
		if err != nil {
			return 0, fmt.Errorf("repository: failed to credit prize bonus for user %d: %w", userID, err)
		}
	}

	if promo != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO promo_codes (code, kind, value, min_total, active, starts_at, expires_at, user_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			promo.Code, promo.Kind, promo.Value, promo.MinTotal, promo.Active,
			promo.StartsAt, promo.ExpiresAt, promo.UserID,
		)
		if err != nil {
			return 0, fmt.Errorf("repository: failed to create prize promo %q: %w", promo.Code, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit spin for user %d: %w", userID, err)
	}

	return used, nil
}
