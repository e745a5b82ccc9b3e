package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/smokeland/store-backend/internal/domain"
)

// ReferralRepository реализует domain.ReferralRepository
type ReferralRepository struct {
	db DBTX
}

// NewReferralRepository создает новый ReferralRepository
func NewReferralRepository(db DBTX) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Claim привязывает приглашенного к рефереру. Приглашенный может быть
// заявлен только один раз: повтор возвращает domain.ErrReferralClaimed.
func (r *ReferralRepository) Claim(ctx context.Context, referrerID, refereeID int64, refCode string) error {
	result, err := r.db.Exec(ctx,
		`INSERT INTO referrals (referee_id, referrer_id, ref_code)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		refereeID, referrerID, refCode,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to claim referral for referee %d: %w", refereeID, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrReferralClaimed
	}

	return nil
}

// GetByReferee получает реферальную привязку приглашенного
func (r *ReferralRepository) GetByReferee(ctx context.Context, refereeID int64) (*domain.Referral, error) {
	referral := &domain.Referral{}

	err := withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx,
			`SELECT referee_id, referrer_id, ref_code, created_at, converted_at
			 FROM referrals
			 WHERE referee_id = $1`,
			refereeID,
		).Scan(&referral.RefereeID, &referral.ReferrerID, &referral.RefCode, &referral.CreatedAt, &referral.ConvertedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to get referral for referee %d: %w", refereeID, err)
	}

	return referral, nil
}

// Convert засчитывает конверсию приглашенного по его первому доставленному
// заказу: помечает привязку, инкрементирует счетчик приглашенных и
// начисляет рефереру процент ступени от суммы заказа. Повторные вызовы
// возвращают false без эффектов (CAS по converted_at).
func (r *ReferralRepository) Convert(ctx context.Context, referrerID, refereeID int64, orderAmount float64) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("repository: failed to begin referral transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	result, err := tx.Exec(ctx,
		`UPDATE referrals SET converted_at = NOW()
		 WHERE referee_id = $1 AND referrer_id = $2 AND converted_at IS NULL`,
		refereeID, referrerID,
	)
	if err != nil {
		return false, fmt.Errorf("repository: failed to mark referral conversion: %w", err)
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO referral_accounts (user_id) VALUES ($1) ON CONFLICT DO NOTHING`,
		referrerID,
	)
	if err != nil {
		return false, fmt.Errorf("repository: failed to init referral account %d: %w", referrerID, err)
	}

	var invited int
	err = tx.QueryRow(ctx,
		`SELECT invited_count FROM referral_accounts WHERE user_id = $1 FOR UPDATE`,
		referrerID,
	).Scan(&invited)
	if err != nil {
		return false, fmt.Errorf("repository: failed to lock referral account %d: %w", referrerID, err)
	}

	invited++
	stage := domain.ReferralStageFor(invited)
	earnings := math.Round(orderAmount*stage.Percent) / 100

	_, err = tx.Exec(ctx,
		`UPDATE referral_accounts
		 SET invited_count = $1, balance_total = balance_total + $2
		 WHERE user_id = $3`,
		invited, earnings, referrerID,
	)
	if err != nil {
		return false, fmt.Errorf("repository: failed to update referral account %d: %w", referrerID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("repository: failed to commit referral conversion: %w", err)
	}

	return true, nil
}

// GetAccount получает состояние реферера; отсутствие записи — нулевое состояние
func (r *ReferralRepository) GetAccount(ctx context.Context, userID int64) (*domain.ReferralAccount, error) {
	account := &domain.ReferralAccount{UserID: userID}

	err := withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx,
			`SELECT invited_count, balance_total FROM referral_accounts WHERE user_id = $1`,
			userID,
		).Scan(&account.InvitedCount, &account.BalanceTotal)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account, nil
		}
		return nil, fmt.Errorf("repository: failed to get referral account %d: %w", userID, err)
	}

	return account, nil
}
