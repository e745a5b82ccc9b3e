package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/smokeland/store-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courierRow(mock pgxmock.PgxPoolIface, id int64, active bool) *pgxmock.Rows {
	return mock.NewRows([]string{"id", "name", "tg_id", "active", "time_from", "time_to", "meeting_place"}).
		AddRow(id, "Иван", int64(500), active, "10:00", "18:00", "у метро")
}

func TestCourierRepository_GetCourier(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCourierRepository(mock)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`FROM couriers WHERE id = \$1`).
			WithArgs(int64(3)).
			WillReturnRows(courierRow(mock, 3, true))

		courier, err := repo.GetCourier(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Иван", courier.Name)
		assert.True(t, courier.Active)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`FROM couriers WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetCourier(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrCourierNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCourierRepository_UpdateCourier(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCourierRepository(mock)
	ctx := context.Background()

	courier := &domain.Courier{ID: 3, Name: "Иван", Active: false, TimeFrom: "11:00", TimeTo: "19:00", MeetingPlace: "у метро"}

	t.Run("Updated", func(t *testing.T) {
		mock.ExpectExec(`UPDATE couriers SET`).
			WithArgs("Иван", false, "11:00", "19:00", "у метро", int64(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.UpdateCourier(ctx, courier))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing courier", func(t *testing.T) {
		mock.ExpectExec(`UPDATE couriers SET`).
			WithArgs("Иван", false, "11:00", "19:00", "у метро", int64(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateCourier(ctx, courier)
		assert.ErrorIs(t, err, domain.ErrCourierNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCourierRepository_SettlePayout(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCourierRepository(mock)
	ctx := context.Background()

	t.Run("First settlement sums delivered orders", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT total_amount FROM orders`).
			WithArgs(int64(3), domain.OrderStatusDelivered, "2026-08-28").
			WillReturnRows(mock.NewRows([]string{"total_amount"}).
				AddRow(1000.0).
				AddRow(2200.0))
		// 20% от каждого заказа: 200 + 440
		mock.ExpectQuery(`INSERT INTO courier_payouts`).
			WithArgs(int64(3), "2026-08-28", 640.0).
			WillReturnRows(mock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectCommit()
		mock.ExpectRollback()

		payout, err := repo.SettlePayout(ctx, 3, "2026-08-28", 20)
		require.NoError(t, err)
		assert.Equal(t, 640.0, payout.Amount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Replay returns the recorded payout", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT total_amount FROM orders`).
			WithArgs(int64(3), domain.OrderStatusDelivered, "2026-08-28").
			WillReturnRows(mock.NewRows([]string{"total_amount"}).AddRow(1000.0))
		mock.ExpectQuery(`INSERT INTO courier_payouts`).
			WithArgs(int64(3), "2026-08-28", 200.0).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(`SELECT amount, created_at FROM courier_payouts`).
			WithArgs(int64(3), "2026-08-28").
			WillReturnRows(mock.NewRows([]string{"amount", "created_at"}).AddRow(640.0, time.Now()))
		mock.ExpectCommit()
		mock.ExpectRollback()

		payout, err := repo.SettlePayout(ctx, 3, "2026-08-28", 20)
		assert.ErrorIs(t, err, domain.ErrPayoutAlreadySettled)
		require.NotNil(t, payout)
		assert.Equal(t, 640.0, payout.Amount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No delivered orders still records a zero payout", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT total_amount FROM orders`).
			WithArgs(int64(3), domain.OrderStatusDelivered, "2026-08-28").
			WillReturnRows(mock.NewRows([]string{"total_amount"}))
		mock.ExpectQuery(`INSERT INTO courier_payouts`).
			WithArgs(int64(3), "2026-08-28", 0.0).
			WillReturnRows(mock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectCommit()
		mock.ExpectRollback()

		payout, err := repo.SettlePayout(ctx, 3, "2026-08-28", 20)
		require.NoError(t, err)
		assert.Zero(t, payout.Amount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
