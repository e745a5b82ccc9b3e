package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/smokeland/store-backend/internal/domain"
)

// ProductRepository реализует domain.ProductRepository
type ProductRepository struct {
	db DBTX
}

// NewProductRepository создает новый ProductRepository
func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetProduct получает товар по ID
func (r *ProductRepository) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	product := &domain.Product{}

	err := withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx,
			`SELECT id, name, category, brand, price, active, created_at
			 FROM products
			 WHERE id = $1`,
			productID,
		).Scan(&product.ID, &product.Name, &product.Category, &product.Brand, &product.Price, &product.Active, &product.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to get product %d: %w", productID, err)
	}

	return product, nil
}

// GetStock получает доступный остаток товара в городе.
// Отсутствующая запись означает нулевой остаток.
func (r *ProductRepository) GetStock(ctx context.Context, productID int64, city string) (int, error) {
	var quantity int

	err := withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx,
			`SELECT quantity FROM product_stock WHERE product_id = $1 AND city = $2`,
			productID, city,
		).Scan(&quantity)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("repository: failed to get stock for product %d in %q: %w", productID, city, err)
	}

	return quantity, nil
}
