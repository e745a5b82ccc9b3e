package service

import (
	"context"
	"errors"
	"testing"

	"github.com/smokeland/store-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBonusService_Apply(t *testing.T) {
	ctx := context.Background()

	withBalance := func(balance float64) *BonusService {
		return NewBonusService(&bonusRepoStub{
			getBalance: func(ctx context.Context, userID int64) (float64, error) {
				return balance, nil
			},
		})
	}

	t.Run("Within balance", func(t *testing.T) {
		applicable, err := withBalance(500).Apply(ctx, 1, 300)
		require.NoError(t, err)
		assert.Equal(t, 300.0, applicable)
	})

	t.Run("Exceeds balance reports the real maximum", func(t *testing.T) {
		applicable, err := withBalance(5000).Apply(ctx, 1, 9999999)
		assert.ErrorIs(t, err, domain.ErrBonusExceedsBalance)
		assert.Equal(t, 5000.0, applicable)
	})

	t.Run("Zero amount", func(t *testing.T) {
		_, err := withBalance(500).Apply(ctx, 1, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Negative amount", func(t *testing.T) {
		_, err := withBalance(500).Apply(ctx, 1, -100)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Database error", func(t *testing.T) {
		svc := NewBonusService(&bonusRepoStub{
			getBalance: func(ctx context.Context, userID int64) (float64, error) {
				return 0, errors.New("db error")
			},
		})
		_, err := svc.Apply(ctx, 1, 100)
		assert.Error(t, err)
	})
}

func TestBonusService_Balance(t *testing.T) {
	ctx := context.Background()

	svc := NewBonusService(&bonusRepoStub{
		getBalance: func(ctx context.Context, userID int64) (float64, error) {
			return 250.5, nil
		},
	})

	balance, err := svc.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 250.5, balance)
}

func TestBonusService_History(t *testing.T) {
	ctx := context.Background()

	history := []*domain.BonusTransaction{
		{ID: 2, Amount: -100, Type: domain.BonusTxSpend},
		{ID: 1, Amount: 250, Type: domain.BonusTxEarn},
	}

	svc := NewBonusService(&bonusRepoStub{
		getHistory: func(ctx context.Context, userID int64) ([]*domain.BonusTransaction, error) {
			return history, nil
		},
	})

	result, err := svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, history, result)
}
