package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/smokeland/store-backend/internal/domain"
)

// CourierRepository реализует domain.CourierRepository
type CourierRepository struct {
	db DBTX
}

// NewCourierRepository создает новый CourierRepository
func NewCourierRepository(db DBTX) *CourierRepository {
	return &CourierRepository{db: db}
}

const courierColumns = `id, name, tg_id, active, time_from, time_to, meeting_place`

func scanCourier(row pgx.Row) (*domain.Courier, error) {
	courier := &domain.Courier{}
	err := row.Scan(&courier.ID, &courier.Name, &courier.TgID, &courier.Active,
		&courier.TimeFrom, &courier.TimeTo, &courier.MeetingPlace)
	if err != nil {
		return nil, err
	}
	return courier, nil
}

// GetCourier получает курьера по ID
func (r *CourierRepository) GetCourier(ctx context.Context, courierID int64) (*domain.Courier, error) {
	var courier *domain.Courier

	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		courier, err = scanCourier(r.db.QueryRow(ctx,
			`SELECT `+courierColumns+` FROM couriers WHERE id = $1`,
			courierID,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCourierNotFound
		}
		return nil, fmt.Errorf("repository: failed to get courier %d: %w", courierID, err)
	}

	return courier, nil
}

// GetCourierByTgID получает курьера по Telegram ID
func (r *CourierRepository) GetCourierByTgID(ctx context.Context, tgID int64) (*domain.Courier, error) {
	var courier *domain.Courier

	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		courier, err = scanCourier(r.db.QueryRow(ctx,
			`SELECT `+courierColumns+` FROM couriers WHERE tg_id = $1`,
			tgID,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCourierNotFound
		}
		return nil, fmt.Errorf("repository: failed to get courier by tg_id %d: %w", tgID, err)
	}

	return courier, nil
}

// ListCouriers получает всех курьеров
func (r *CourierRepository) ListCouriers(ctx context.Context) ([]*domain.Courier, error) {
	var couriers []*domain.Courier

	err := withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx,
			`SELECT `+courierColumns+` FROM couriers ORDER BY id`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		couriers = couriers[:0]
		for rows.Next() {
			courier, err := scanCourier(rows)
			if err != nil {
				return err
			}
			couriers = append(couriers, courier)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("repository: failed to list couriers: %w", err)
	}

	return couriers, nil
}

// CreateCourier создает курьера
func (r *CourierRepository) CreateCourier(ctx context.Context, courier *domain.Courier) (*domain.Courier, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO couriers (name, tg_id, active, time_from, time_to, meeting_place)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		courier.Name, courier.TgID, courier.Active, courier.TimeFrom, courier.TimeTo, courier.MeetingPlace,
	).Scan(&courier.ID)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to create courier %q: %w", courier.Name, err)
	}

	return courier, nil
}

// UpdateCourier обновляет данные курьера
func (r *CourierRepository) UpdateCourier(ctx context.Context, courier *domain.Courier) error {
	result, err := r.db.Exec(ctx,
		`UPDATE couriers SET name = $1, active = $2, time_from = $3, time_to = $4, meeting_place = $5
		 WHERE id = $6`,
		courier.Name, courier.Active, courier.TimeFrom, courier.TimeTo, courier.MeetingPlace, courier.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update courier %d: %w", courier.ID, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCourierNotFound
	}

	return nil
}

// SettlePayout рассчитывает и фиксирует дневную выплату курьеру одной
// транзакцией. Запись с ключом (курьер, дата) вставляется один раз:
// повторный расчет возвращает уже рассчитанную выплату и
// domain.ErrPayoutAlreadySettled.
func (r *CourierRepository) SettlePayout(ctx context.Context, courierID int64, date string, percent float64) (*domain.CourierPayout, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin payout transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	rows, err := tx.Query(ctx,
		`SELECT total_amount FROM orders
		 WHERE courier_id = $1 AND status = $2 AND delivery_date = $3`,
		courierID, domain.OrderStatusDelivered, date,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get delivered orders for courier %d: %w", courierID, err)
	}

	var amount float64
	for rows.Next() {
		var total float64
		if err := rows.Scan(&total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("repository: failed to scan order total: %w", err)
		}
		// Округление до копеек по каждому заказу отдельно
		amount += math.Round(total*percent) / 100
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating delivered orders: %w", err)
	}

	payout := &domain.CourierPayout{
		CourierID:  courierID,
		PayoutDate: date,
		Amount:     amount,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO courier_payouts (courier_id, payout_date, amount)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING
		 RETURNING created_at`,
		courierID, date, amount,
	).Scan(&payout.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing := &domain.CourierPayout{CourierID: courierID, PayoutDate: date}
			getErr := tx.QueryRow(ctx,
				`SELECT amount, created_at FROM courier_payouts WHERE courier_id = $1 AND payout_date = $2`,
				courierID, date,
			).Scan(&existing.Amount, &existing.CreatedAt)
			if getErr != nil {
				return nil, fmt.Errorf("repository: failed to read settled payout: %w", getErr)
			}
			if commitErr := tx.Commit(ctx); commitErr != nil {
				return nil, fmt.Errorf("repository: failed to commit payout read: %w", commitErr)
			}
			return existing, domain.ErrPayoutAlreadySettled
		}
		return nil, fmt.Errorf("repository: failed to settle payout for courier %d: %w", courierID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit payout for courier %d: %w", courierID, err)
	}

	return payout, nil
}
