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

// OrderRepository реализует domain.OrderRepository
type OrderRepository struct {
	db DBTX
}

// NewOrderRepository создает новый OrderRepository
func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, city, status, payment_status, total_amount, bonus_applied,
	promo_discount, final_amount, promo_code, delivery_method, courier_id, delivery_date,
	delivery_time, delivery_address, payment_method, idempotency_key, created_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := &domain.Order{}
	err := row.Scan(
		&order.ID, &order.UserID, &order.City, &order.Status, &order.PaymentStatus,
		&order.TotalAmount, &order.BonusApplied, &order.PromoDiscount, &order.FinalAmount,
		&order.PromoCode, &order.DeliveryMethod, &order.CourierID, &order.DeliveryDate,
		&order.DeliveryTime, &order.DeliveryAddress, &order.PaymentMethod,
		&order.IdempotencyKey, &order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateOrder создает заказ с позициями и списывает остатки одной
// транзакцией. Повтор с тем же ключом идемпотентности возвращает уже
// созданный заказ и domain.ErrOrderExists; проигравший гонку вставки
// читает строку победителя.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction for user %d: %w", order.UserID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback после Commit безопасен

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, city, status, payment_status, total_amount, final_amount, idempotency_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		order.UserID, order.City, domain.OrderStatusBuffer, domain.PaymentStatusUnpaid,
		order.TotalAmount, order.TotalAmount, order.IdempotencyKey,
	).Scan(&order.ID, &order.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			existing, getErr := r.getByIdempotencyKey(ctx, order.UserID, order.IdempotencyKey)
			if getErr != nil {
				return nil, fmt.Errorf("repository: failed to read replayed order: %w", getErr)
			}
			return existing, domain.ErrOrderExists
		}
		return nil, fmt.Errorf("repository: failed to create order for user %d: %w", order.UserID, err)
	}

	order.Status = domain.OrderStatusBuffer
	order.PaymentStatus = domain.PaymentStatusUnpaid
	order.FinalAmount = order.TotalAmount

	for _, item := range items {
		// Проверка и списание остатка одним условным UPDATE:
		// два конкурентных заказа не продадут последнюю единицу дважды
		result, err := tx.Exec(ctx,
			`UPDATE product_stock SET quantity = quantity - $1
			 WHERE product_id = $2 AND city = $3 AND quantity >= $1`,
			item.Quantity, item.ProductID, order.City,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to decrement stock for product %d: %w", item.ProductID, err)
		}
		if result.RowsAffected() == 0 {
			return nil, domain.ErrInsufficientStock
		}

		item.OrderID = order.ID
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, name, variant, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, item.ProductID, item.Name, item.Variant, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to insert order item: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit order creation: %w", err)
	}

	order.Items = items
	return order, nil
}

func (r *OrderRepository) getByIdempotencyKey(ctx context.Context, userID int64, key string) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 AND idempotency_key = $2`,
		userID, key,
	))
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, product_id, name, variant, quantity, unit_price
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY id`,
		order.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		item := &domain.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Variant, &item.Quantity, &item.UnitPrice); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}

	return rows.Err()
}

// GetOrderByID получает заказ с позициями
func (r *OrderRepository) GetOrderByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order *domain.Order

	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		order, err = scanOrder(r.db.QueryRow(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE id = $1`,
			orderID,
		))
		if err != nil {
			return err
		}
		return r.loadItems(ctx, order)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to get order %d: %w", orderID, err)
	}

	return order, nil
}

func (r *OrderRepository) listOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	var orders []*domain.Order

	err := withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		orders = orders[:0]
		for rows.Next() {
			order, err := scanOrder(rows)
			if err != nil {
				return err
			}
			orders = append(orders, order)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return orders, nil
}

// GetOrdersByUserID получает все заказы пользователя
func (r *OrderRepository) GetOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	orders, err := r.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get orders for user %d: %w", userID, err)
	}
	return orders, nil
}

// GetOrdersByCourierID получает активные заказы курьера
func (r *OrderRepository) GetOrdersByCourierID(ctx context.Context, courierID int64) ([]*domain.Order, error) {
	orders, err := r.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE courier_id = $1 AND status IN ($2, $3)
		 ORDER BY created_at`,
		courierID, domain.OrderStatusAssigned, domain.OrderStatusPickedUp,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get orders for courier %d: %w", courierID, err)
	}
	return orders, nil
}

// GetAllOrders получает все заказы (админ-консоль)
func (r *OrderRepository) GetAllOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := r.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get orders: %w", err)
	}
	return orders, nil
}

// ConfirmOrder записывает способ получения и промо-скидку, переводя заказ
// из buffer в pending. Compare-and-swap по статусу: повтор и гонки
// подтверждения завершаются ErrOrderNotConfirmable.
func (r *OrderRepository) ConfirmOrder(ctx context.Context, order *domain.Order) error {
	result, err := r.db.Exec(ctx,
		`UPDATE orders SET
			status = $1,
			delivery_method = $2,
			courier_id = $3,
			delivery_date = $4,
			delivery_time = $5,
			delivery_address = $6,
			promo_code = $7,
			promo_discount = $8,
			final_amount = GREATEST(total_amount - $8 - bonus_applied, 0)
		 WHERE id = $9 AND status = $10`,
		domain.OrderStatusPending, order.DeliveryMethod, order.CourierID,
		order.DeliveryDate, order.DeliveryTime, order.DeliveryAddress,
		order.PromoCode, order.PromoDiscount, order.ID, domain.OrderStatusBuffer,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to confirm order %d: %w", order.ID, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrOrderNotConfirmable
	}

	return nil
}

// ApplyPayment списывает бонусы и фиксирует оплату одной транзакцией под
// advisory-блокировкой пользователя. Применяемая сумма ограничивается
// живым балансом в момент списания: min(запрошено, баланс, сумма к оплате).
func (r *OrderRepository) ApplyPayment(ctx context.Context, userID, orderID int64, method string, requested float64) (*domain.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin payment transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Блокировка по user_id сериализует конкурентные списания бонусов
	_, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to acquire lock for user %d: %w", userID, err)
	}

	var ownerID int64
	var paymentStatus domain.PaymentStatus
	var totalAmount, promoDiscount float64
	err = tx.QueryRow(ctx,
		`SELECT user_id, payment_status, total_amount, promo_discount
		 FROM orders WHERE id = $1 FOR UPDATE`,
		orderID,
	).Scan(&ownerID, &paymentStatus, &totalAmount, &promoDiscount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to get order %d for payment: %w", orderID, err)
	}

	if ownerID != userID {
		return nil, domain.ErrOrderAccessDenied
	}
	if paymentStatus != domain.PaymentStatusUnpaid {
		return nil, domain.ErrOrderAlreadyPaid
	}

	var balance float64
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM bonus_transactions WHERE user_id = $1`,
		userID,
	).Scan(&balance)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get balance for user %d: %w", userID, err)
	}

	payable := totalAmount - promoDiscount
	applied := requested
	if applied > balance {
		applied = balance
	}
	if applied > payable {
		applied = payable
	}
	if applied < 0 {
		applied = 0
	}

	if applied > 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO bonus_transactions (user_id, order_id, amount, type)
			 VALUES ($1, $2, $3, $4)`,
			userID, orderID, -applied, domain.BonusTxSpend,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to insert bonus spend for order %d: %w", orderID, err)
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE orders SET
			bonus_applied = $1,
			final_amount = GREATEST(total_amount - promo_discount - $1, 0),
			payment_method = $2,
			payment_status = $3
		 WHERE id = $4`,
		applied, method, domain.PaymentStatusPaid, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to record payment for order %d: %w", orderID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit payment for order %d: %w", orderID, err)
	}

	return r.GetOrderByID(ctx, orderID)
}

// UpdateStatus переводит заказ между статусами через compare-and-swap.
// При отмене остатки возвращаются на склад той же транзакцией; переход
// в delivered той же транзакцией оставляет открытый маркер начислений
// в delivery_awards.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, from, to domain.OrderStatus, courierID *int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin status transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var result pgconn.CommandTag
	if courierID != nil {
		result, err = tx.Exec(ctx,
			`UPDATE orders SET status = $1, courier_id = $2 WHERE id = $3 AND status = $4`,
			to, *courierID, orderID, from,
		)
	} else {
		result, err = tx.Exec(ctx,
			`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`,
			to, orderID, from,
		)
	}
	if err != nil {
		return fmt.Errorf("repository: failed to update status of order %d: %w", orderID, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}

	if to == domain.OrderStatusCancelled {
		_, err = tx.Exec(ctx,
			`UPDATE product_stock ps SET quantity = ps.quantity + oi.quantity
			 FROM order_items oi, orders o
			 WHERE oi.order_id = $1 AND o.id = $1
			   AND ps.product_id = oi.product_id AND ps.city = o.city`,
			orderID,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to restore stock for order %d: %w", orderID, err)
		}
	}

	if to == domain.OrderStatusDelivered {
		_, err = tx.Exec(ctx,
			`INSERT INTO delivery_awards (order_id, user_id, amount)
			 SELECT id, user_id, final_amount FROM orders WHERE id = $1
			 ON CONFLICT (order_id) DO NOTHING`,
			orderID,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to open delivery award for order %d: %w", orderID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit status update for order %d: %w", orderID, err)
	}

	return nil
}

// PendingDeliveryAwards получает открытые начисления за доставленные
// заказы в порядке появления
func (r *OrderRepository) PendingDeliveryAwards(ctx context.Context, limit int) ([]*domain.DeliveryAward, error) {
	var awards []*domain.DeliveryAward

	err := withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx,
			`SELECT order_id, user_id, amount, created_at
			 FROM delivery_awards
			 WHERE settled_at IS NULL
			 ORDER BY created_at
			 LIMIT $1`,
			limit,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		awards = awards[:0]
		for rows.Next() {
			award := &domain.DeliveryAward{}
			if err := rows.Scan(&award.OrderID, &award.UserID, &award.Amount, &award.CreatedAt); err != nil {
				return err
			}
			awards = append(awards, award)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("repository: failed to get pending delivery awards: %w", err)
	}

	return awards, nil
}

// SettleDeliveryAward закрывает маркер начисления и записывает вишни той
// же транзакцией. Закрытие проходит compare-and-swap'ом по settled_at:
// повтор и конкурентный обработчик получают false, вишни не задваиваются.
func (r *OrderRepository) SettleDeliveryAward(ctx context.Context, orderID int64, cherries int) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("repository: failed to begin settle transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var userID int64
	err = tx.QueryRow(ctx,
		`UPDATE delivery_awards SET settled_at = NOW()
		 WHERE order_id = $1 AND settled_at IS NULL
		 RETURNING user_id`,
		orderID,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("repository: failed to settle delivery award for order %d: %w", orderID, err)
	}

	if cherries > 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO user_cherries (user_id, cherries) VALUES ($1, $2)
			 ON CONFLICT (user_id) DO UPDATE SET cherries = user_cherries.cherries + EXCLUDED.cherries`,
			userID, cherries,
		)
		if err != nil {
			return false, fmt.Errorf("repository: failed to add cherries for user %d: %w", userID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("repository: failed to commit settle for order %d: %w", orderID, err)
	}

	return true, nil
}

// CountDelivered возвращает число доставленных заказов пользователя
func (r *OrderRepository) CountDelivered(ctx context.Context, userID int64) (int, error) {
	var count int

	err := withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx,
			`SELECT COUNT(*) FROM orders WHERE user_id = $1 AND status = $2`,
			userID, domain.OrderStatusDelivered,
		).Scan(&count)
	})

	if err != nil {
		return 0, fmt.Errorf("repository: failed to count delivered orders for user %d: %w", userID, err)
	}

	return count, nil
}
