package postgres

import (
	"context"
	"fmt"

	"github.com/smokeland/store-backend/internal/domain"
)

// BonusRepository реализует domain.BonusRepository
type BonusRepository struct {
	db DBTX
}

// NewBonusRepository создает новый BonusRepository
func NewBonusRepository(db DBTX) *BonusRepository {
	return &BonusRepository{db: db}
}

// GetBalance получает баланс как сумму транзакций
func (r *BonusRepository) GetBalance(ctx context.Context, userID int64) (float64, error) {
	var balance float64

	err := withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM bonus_transactions WHERE user_id = $1`,
			userID,
		).Scan(&balance)
	})

	if err != nil {
		return 0, fmt.Errorf("repository: failed to get balance for user %d: %w", userID, err)
	}

	return balance, nil
}

// GetHistory получает историю бонусных операций пользователя
func (r *BonusRepository) GetHistory(ctx context.Context, userID int64) ([]*domain.BonusTransaction, error) {
	var transactions []*domain.BonusTransaction

	err := withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx,
			`SELECT id, user_id, order_id, amount, type, created_at
			 FROM bonus_transactions
			 WHERE user_id = $1
			 ORDER BY created_at DESC`,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		transactions = transactions[:0]
		for rows.Next() {
			tx := &domain.BonusTransaction{}
			if err := rows.Scan(&tx.ID, &tx.UserID, &tx.OrderID, &tx.Amount, &tx.Type, &tx.CreatedAt); err != nil {
				return err
			}
			transactions = append(transactions, tx)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("repository: failed to get bonus history for user %d: %w", userID, err)
	}

	return transactions, nil
}

// Credit добавляет запись в бонусный журнал (журнал только пополняется).
// Повтор начисления того же типа по тому же заказу поглощается уникальным
// индексом — досылка начислений безопасна.
func (r *BonusRepository) Credit(ctx context.Context, userID int64, orderID *int64, amount float64, txType domain.BonusTxType) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO bonus_transactions (user_id, order_id, amount, type)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT DO NOTHING`,
		userID, orderID, amount, txType,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to credit %f to user %d: %w", amount, userID, err)
	}

	return nil
}
