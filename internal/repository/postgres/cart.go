package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/smokeland/store-backend/internal/domain"
)

// CartRepository реализует domain.CartRepository
type CartRepository struct {
	db DBTX
}

// NewCartRepository создает новый CartRepository
func NewCartRepository(db DBTX) *CartRepository {
	return &CartRepository{db: db}
}

// AddItem добавляет позицию в корзину, объединяя с существующей строкой
// той же (товар, вариант). Смена города очищает корзину других городов.
// Итоговое количество проверяется по текущему остатку.
func (r *CartRepository) AddItem(ctx context.Context, userID int64, city string, productID int64, variant string, quantity int, price float64) (*domain.CartItem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction for user %d: %w", userID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback после Commit безопасен

	// Позиции других городов не переносятся — корзина города всегда изолирована
	_, err = tx.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND city <> $2`,
		userID, city,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to clear other-city cart for user %d: %w", userID, err)
	}

	item := &domain.CartItem{
		UserID:    userID,
		City:      city,
		ProductID: productID,
		Variant:   variant,
		Price:     price,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO cart_items (user_id, city, product_id, variant, quantity, price)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, city, product_id, variant)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		 RETURNING id, quantity, created_at`,
		userID, city, productID, variant, quantity, price,
	).Scan(&item.ID, &item.Quantity, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to upsert cart item for user %d: %w", userID, err)
	}

	var stock int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE((SELECT quantity FROM product_stock WHERE product_id = $1 AND city = $2), 0)`,
		productID, city,
	).Scan(&stock)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to check stock for product %d: %w", productID, err)
	}

	if item.Quantity > stock {
		return nil, domain.ErrInsufficientStock
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit cart add: %w", err)
	}

	return item, nil
}

// UpdateItem изменяет количество позиции с проверкой остатка
func (r *CartRepository) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction for user %d: %w", userID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var productID int64
	var city string
	err = tx.QueryRow(ctx,
		`SELECT product_id, city FROM cart_items WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	).Scan(&productID, &city)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCartItemNotFound
		}
		return fmt.Errorf("repository: failed to get cart item %d: %w", itemID, err)
	}

	var stock int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE((SELECT quantity FROM product_stock WHERE product_id = $1 AND city = $2), 0)`,
		productID, city,
	).Scan(&stock)
	if err != nil {
		return fmt.Errorf("repository: failed to check stock for product %d: %w", productID, err)
	}

	if quantity > stock {
		return domain.ErrInsufficientStock
	}

	_, err = tx.Exec(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE id = $2 AND user_id = $3`,
		quantity, itemID, userID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update cart item %d: %w", itemID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit cart update: %w", err)
	}

	return nil
}

// RemoveItem удаляет позицию корзины
func (r *CartRepository) RemoveItem(ctx context.Context, userID, itemID int64) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to remove cart item %d: %w", itemID, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCartItemNotFound
	}

	return nil
}

// Clear удаляет все позиции корзины пользователя в городе
func (r *CartRepository) Clear(ctx context.Context, userID int64, city string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND city = $2`,
		userID, city,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to clear cart for user %d: %w", userID, err)
	}

	return nil
}

// GetItems получает позиции корзины пользователя в городе
func (r *CartRepository) GetItems(ctx context.Context, userID int64, city string) ([]*domain.CartItem, error) {
	var items []*domain.CartItem

	err := withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx,
			`SELECT id, user_id, city, product_id, variant, quantity, price, created_at
			 FROM cart_items
			 WHERE user_id = $1 AND city = $2
			 ORDER BY created_at`,
			userID, city,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		items = items[:0]
		for rows.Next() {
			item := &domain.CartItem{}
			if err := rows.Scan(&item.ID, &item.UserID, &item.City, &item.ProductID, &item.Variant, &item.Quantity, &item.Price, &item.CreatedAt); err != nil {
				return err
			}
			items = append(items, item)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("repository: failed to get cart items for user %d: %w", userID, err)
	}

	return items, nil
}
