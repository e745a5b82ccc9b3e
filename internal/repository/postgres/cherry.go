package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CherryRepository реализует domain.CherryRepository
type CherryRepository struct {
	db DBTX
}

// NewCherryRepository создает новый CherryRepository
func NewCherryRepository(db DBTX) *CherryRepository {
	return &CherryRepository{db: db}
}

// GetCherries получает счетчик вишен пользователя
func (r *CherryRepository) GetCherries(ctx context.Context, userID int64) (int, error) {
	var cherries int

	err := withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx,
			`SELECT cherries FROM user_cherries WHERE user_id = $1`,
			userID,
		).Scan(&cherries)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("repository: failed to get cherries for user %d: %w", userID, err)
	}

	return cherries, nil
}

// AddCherries увеличивает счетчик вишен и возвращает новое значение
func (r *CherryRepository) AddCherries(ctx context.Context, userID int64, delta int) (int, error) {
	var cherries int

	err := r.db.QueryRow(ctx,
		`INSERT INTO user_cherries (user_id, cherries) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET cherries = user_cherries.cherries + EXCLUDED.cherries
		 RETURNING cherries`,
		userID, delta,
	).Scan(&cherries)

	if err != nil {
		return 0, fmt.Errorf("repository: failed to add cherries for user %d: %w", userID, err)
	}

	return cherries, nil
}

// GrantMilestone отмечает разовую награду за порядковый номер заказа.
// Возвращает false, если награда уже выдавалась.
func (r *CherryRepository) GrantMilestone(ctx context.Context, userID int64, orderNumber int) (bool, error) {
	result, err := r.db.Exec(ctx,
		`INSERT INTO user_milestones (user_id, milestone) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		userID, orderNumber,
	)
	if err != nil {
		return false, fmt.Errorf("repository: failed to grant milestone %d for user %d: %w", orderNumber, userID, err)
	}

	return result.RowsAffected() > 0, nil
}
