package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/smokeland/store-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferralRepository_Claim(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReferralRepository(mock)
	ctx := context.Background()

	t.Run("First claim inserts", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO referrals`).
			WithArgs(int64(100), int64(42), "ref42").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, repo.Claim(ctx, 42, 100, "ref42"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Replay hits the conflict", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO referrals`).
			WithArgs(int64(100), int64(42), "ref42").
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		err := repo.Claim(ctx, 42, 100, "ref42")
		assert.ErrorIs(t, err, domain.ErrReferralClaimed)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReferralRepository_Convert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReferralRepository(mock)
	ctx := context.Background()

	t.Run("First conversion credits the stage percent", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE referrals SET converted_at = NOW\(\)`).
			WithArgs(int64(100), int64(42)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`INSERT INTO referral_accounts`).
			WithArgs(int64(42)).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mock.ExpectQuery(`SELECT invited_count FROM referral_accounts`).
			WithArgs(int64(42)).
			WillReturnRows(mock.NewRows([]string{"invited_count"}).AddRow(9))
		// Десятый приглашенный переводит реферера на ступень ambassador: 10% от 1000
		mock.ExpectExec(`UPDATE referral_accounts`).
			WithArgs(10, 100.0, int64(42)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()
		mock.ExpectRollback()

		converted, err := repo.Convert(ctx, 42, 100, 1000)
		require.NoError(t, err)
		assert.True(t, converted)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Repeated conversion is a no-op", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE referrals SET converted_at = NOW\(\)`).
			WithArgs(int64(100), int64(42)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		converted, err := repo.Convert(ctx, 42, 100, 1000)
		require.NoError(t, err)
		assert.False(t, converted)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
