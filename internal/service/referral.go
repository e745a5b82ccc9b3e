package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/smokeland/store-backend/internal/domain"
)

const refCodePrefix = "ref"

// ReferralService реализует реферальную программу
type ReferralService struct {
	referrals domain.ReferralRepository
}

// NewReferralService создает новый ReferralService
func NewReferralService(referrals domain.ReferralRepository) *ReferralService {
	return &ReferralService{referrals: referrals}
}

// RefCodeFor возвращает реферальный код пользователя
func RefCodeFor(userID int64) string {
	return refCodePrefix + strconv.FormatInt(userID, 10)
}

// parseRefCode извлекает ID реферера из кода вида ref<userID>
func parseRefCode(code string) (int64, error) {
	code = strings.TrimSpace(code)
	if !strings.HasPrefix(code, refCodePrefix) {
		return 0, domain.ErrInvalidRefCode
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(code, refCodePrefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidRefCode
	}

	return id, nil
}

// Claim привязывает вызывающего к рефереру по коду. Повтор для уже
// заявленного приглашенного возвращает domain.ErrReferralClaimed —
// приглашенные и балансы не задваиваются.
func (s *ReferralService) Claim(ctx context.Context, refereeID int64, refCode string) error {
	referrerID, err := parseRefCode(refCode)
	if err != nil {
		return err
	}

	if referrerID == refereeID {
		return domain.ErrReferralSelfClaim
	}

	return s.referrals.Claim(ctx, referrerID, refereeID, refCode)
}

// Info возвращает состояние реферера для клиента
func (s *ReferralService) Info(ctx context.Context, userID int64) (*domain.ReferralInfo, error) {
	account, err := s.referrals.GetAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("referral service: failed to get account for user %d: %w", userID, err)
	}

	return &domain.ReferralInfo{
		RefCode:      RefCodeFor(userID),
		Stage:        domain.ReferralStageFor(account.InvitedCount),
		NextStage:    domain.NextReferralStageFor(account.InvitedCount),
		InvitedCount: account.InvitedCount,
		BalanceTotal: account.BalanceTotal,
	}, nil
}

// ConvertOnDelivery засчитывает конверсию приглашенного по его первому
// доставленному заказу. Конверсия считается один раз; пользователи без
// реферальной привязки пропускаются.
func (s *ReferralService) ConvertOnDelivery(ctx context.Context, refereeID int64, orderAmount float64) error {
	referral, err := s.referrals.GetByReferee(ctx, refereeID)
	if err != nil {
		return fmt.Errorf("referral service: failed to get referral for referee %d: %w", refereeID, err)
	}
	if referral == nil || referral.ConvertedAt != nil {
		return nil
	}

	if _, err := s.referrals.Convert(ctx, referral.ReferrerID, refereeID, orderAmount); err != nil {
		return fmt.Errorf("referral service: failed to convert referral for referee %d: %w", refereeID, err)
	}

	return nil
}
