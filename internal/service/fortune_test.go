package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/smokeland/store-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fortuneServiceWith(spins *fortuneRepoStub, cherries int) *FortuneService {
	if spins == nil {
		spins = &fortuneRepoStub{}
	}
	cherryRepo := &cherryRepoStub{
		getCherries: func(ctx context.Context, userID int64) (int, error) {
			return cherries, nil
		},
	}
	svc := NewFortuneService(spins, cherryRepo)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestFortuneService_State(t *testing.T) {
	ctx := context.Background()

	t.Run("Fresh day", func(t *testing.T) {
		svc := fortuneServiceWith(nil, 0)

		state, err := svc.State(ctx, 1)
		require.NoError(t, err)

		assert.Equal(t, "2026-08-28", state.Date)
		assert.Equal(t, 3, state.Quota)
		assert.Equal(t, 0, state.SpinsUsed)
		assert.Equal(t, 3, state.Remaining)
	})

	t.Run("Quota grows with tier", func(t *testing.T) {
		svc := fortuneServiceWith(nil, 100)

		state, err := svc.State(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 10, state.Quota)
	})

	t.Run("Remaining never negative", func(t *testing.T) {
		spins := &fortuneRepoStub{
			getSpinsUsed: func(ctx context.Context, userID int64, date string) (int, error) {
				// Квота могла снизиться после смены уровня
				return 7, nil
			},
		}
		svc := fortuneServiceWith(spins, 0)

		state, err := svc.State(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, state.Remaining)
	})
}

func TestFortuneService_Spin(t *testing.T) {
	ctx := context.Background()

	t.Run("Bonus prize rides the spin write", func(t *testing.T) {
		var gotBonus float64
		var gotPromo *domain.PromoCode
		spins := &fortuneRepoStub{
			consumeSpin: func(ctx context.Context, userID int64, date string, quota int, bonus float64, promo *domain.PromoCode) (int, error) {
				gotBonus = bonus
				gotPromo = promo
				return 1, nil
			},
		}
		svc := fortuneServiceWith(spins, 0)
		svc.randFloat = func() float64 { return 0.0 } // первый сектор: 50 бонусов

		result, err := svc.Spin(ctx, 1)
		require.NoError(t, err)

		assert.Equal(t, domain.WheelPrizeBonus, result.Prize.Kind)
		assert.Equal(t, 50.0, result.Prize.Amount)
		assert.Equal(t, 50.0, gotBonus, "prize is applied inside the spin transaction")
		assert.Nil(t, gotPromo)
		assert.Equal(t, 2, result.State.Remaining)
	})

	t.Run("Promo prize rides the spin write", func(t *testing.T) {
		var gotPromo *domain.PromoCode
		spins := &fortuneRepoStub{
			consumeSpin: func(ctx context.Context, userID int64, date string, quota int, bonus float64, promo *domain.PromoCode) (int, error) {
				gotPromo = promo
				return 1, nil
			},
		}
		svc := fortuneServiceWith(spins, 0)
		svc.randFloat = func() float64 { return 0.55 } // 0.30+0.15+0.05 <= roll < +0.10

		result, err := svc.Spin(ctx, 7)
		require.NoError(t, err)

		assert.Equal(t, domain.WheelPrizePromo, result.Prize.Kind)
		require.NotNil(t, gotPromo)
		assert.True(t, strings.HasPrefix(gotPromo.Code, "WHEEL-"))
		assert.True(t, gotPromo.Active)
		require.NotNil(t, gotPromo.UserID)
		assert.Equal(t, int64(7), *gotPromo.UserID)
		require.NotNil(t, result.PromoCode)
		assert.Equal(t, gotPromo.Code, *result.PromoCode)
	})

	t.Run("Nothing prize has no side effects", func(t *testing.T) {
		spins := &fortuneRepoStub{
			consumeSpin: func(ctx context.Context, userID int64, date string, quota int, bonus float64, promo *domain.PromoCode) (int, error) {
				assert.Zero(t, bonus)
				assert.Nil(t, promo)
				return 1, nil
			},
		}
		svc := fortuneServiceWith(spins, 0)
		svc.randFloat = func() float64 { return 0.99 }

		result, err := svc.Spin(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.WheelPrizeNothing, result.Prize.Kind)
		assert.Nil(t, result.PromoCode)
	})

	t.Run("Exhausted quota", func(t *testing.T) {
		spins := &fortuneRepoStub{
			consumeSpin: func(ctx context.Context, userID int64, date string, quota int, bonus float64, promo *domain.PromoCode) (int, error) {
				return 0, domain.ErrSpinsExhausted
			},
		}
		svc := fortuneServiceWith(spins, 0)

		_, err := svc.Spin(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrSpinsExhausted)
	})
}

func TestDrawPrize(t *testing.T) {
	tests := []struct {
		name string
		roll float64
		want string
	}{
		{"start of first sector", 0.0, "50 бонусов"},
		{"end of first sector", 0.2999, "50 бонусов"},
		{"second sector", 0.31, "150 бонусов"},
		{"third sector", 0.46, "500 бонусов"},
		{"promo sector", 0.51, "Промокод -10%"},
		{"nothing sector", 0.61, "Повезет в следующий раз"},
		{"end of range", 0.999999, "Повезет в следующий раз"},
		{"rounding fallback", 1.0, "Повезет в следующий раз"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, drawPrize(tt.roll).Label)
		})
	}
}
