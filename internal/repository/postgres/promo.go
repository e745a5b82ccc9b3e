package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smokeland/store-backend/internal/domain"
)

// PromoRepository реализует domain.PromoRepository
type PromoRepository struct {
	db DBTX
}

// NewPromoRepository создает новый PromoRepository
func NewPromoRepository(db DBTX) *PromoRepository {
	return &PromoRepository{db: db}
}

// GetPromo получает промокод
func (r *PromoRepository) GetPromo(ctx context.Context, code string) (*domain.PromoCode, error) {
	promo := &domain.PromoCode{}

	err := withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx,
			`SELECT code, kind, value, min_total, active, starts_at, expires_at, user_id, created_at
			 FROM promo_codes
			 WHERE code = $1`,
			code,
		).Scan(&promo.Code, &promo.Kind, &promo.Value, &promo.MinTotal, &promo.Active,
			&promo.StartsAt, &promo.ExpiresAt, &promo.UserID, &promo.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromoNotFound
		}
		return nil, fmt.Errorf("repository: failed to get promo %q: %w", code, err)
	}

	return promo, nil
}

// CreatePromo создает промокод
func (r *PromoRepository) CreatePromo(ctx context.Context, promo *domain.PromoCode) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO promo_codes (code, kind, value, min_total, active, starts_at, expires_at, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		promo.Code, promo.Kind, promo.Value, promo.MinTotal, promo.Active,
		promo.StartsAt, promo.ExpiresAt, promo.UserID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrPromoExists
		}
		return fmt.Errorf("repository: failed to create promo %q: %w", promo.Code, err)
	}

	return nil
}

// ListPromos получает все промокоды (админ-консоль)
func (r *PromoRepository) ListPromos(ctx context.Context) ([]*domain.PromoCode, error) {
	var promos []*domain.PromoCode

	err := withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx,
			`SELECT code, kind, value, min_total, active, starts_at, expires_at, user_id, created_at
			 FROM promo_codes
			 ORDER BY created_at DESC`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		promos = promos[:0]
		for rows.Next() {
			promo := &domain.PromoCode{}
			if err := rows.Scan(&promo.Code, &promo.Kind, &promo.Value, &promo.MinTotal, &promo.Active,
				&promo.StartsAt, &promo.ExpiresAt, &promo.UserID, &promo.CreatedAt); err != nil {
				return err
			}
			promos = append(promos, promo)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("repository: failed to list promos: %w", err)
	}

	return promos, nil
}
