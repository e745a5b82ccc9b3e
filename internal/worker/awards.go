package worker

import (
	"context"
	"sync"
	"time"

	"github.com/smokeland/store-backend/internal/domain"
	"github.com/smokeland/store-backend/internal/service"
	"go.uber.org/zap"
)

// AwardsConfig содержит параметры обработчика начислений
type AwardsConfig struct {
	Interval  time.Duration
	BatchSize int
}

// Awards досылает начисления за доставленные заказы. Переход заказа в
// delivered оставляет открытый маркер в delivery_awards; обработчик
// выполняет идемпотентные начисления лояльности и конверсию реферала,
// затем закрывает маркер. Сорванное начисление остается открытым и
// повторяется на следующем проходе — временный сбой записи не теряет
// вишни, бонусы и реферальный заработок.
type Awards struct {
	cfg      AwardsConfig
	orders   domain.OrderRepository
	loyalty  *service.LoyaltyService
	referral *service.ReferralService
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewAwards создает новый обработчик начислений
func NewAwards(
	cfg AwardsConfig,
	orders domain.OrderRepository,
	loyalty *service.LoyaltyService,
	referral *service.ReferralService,
	logger *zap.Logger,
) *Awards {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}

	return &Awards{
		cfg:      cfg,
		orders:   orders,
		loyalty:  loyalty,
		referral: referral,
		logger:   logger,
	}
}

// Start запускает цикл обработки
func (a *Awards) Start(ctx context.Context) {
	a.wg.Add(1)
	go a.run(ctx)
}

// Stop дожидается завершения текущего прохода
func (a *Awards) Stop() {
	a.wg.Wait()
}

func (a *Awards) run(ctx context.Context) {
	defer a.wg.Done()

	a.logger.Info("award worker started", zap.Duration("interval", a.cfg.Interval))

	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("award worker stopping")
			return
		case <-ticker.C:
			a.Sweep(ctx)
		}
	}
}

// Sweep выполняет один проход по открытым начислениям
func (a *Awards) Sweep(ctx context.Context) {
	awards, err := a.orders.PendingDeliveryAwards(ctx, a.cfg.BatchSize)
	if err != nil {
		a.logger.Error("failed to list pending delivery awards", zap.Error(err))
		return
	}

	for _, award := range awards {
		if err := a.settle(ctx, award); err != nil {
			a.logger.Warn("failed to settle delivery award",
				zap.Int64("order_id", award.OrderID),
				zap.Error(err),
			)
		}
	}
}

// settle выполняет начисления одного заказа и закрывает маркер. Шаги
// начислений идемпотентны, вишни записываются при закрытии маркера —
// частично выполненный проход безопасно повторяется.
func (a *Awards) settle(ctx context.Context, award *domain.DeliveryAward) error {
	cherries, err := a.loyalty.AwardForDelivery(ctx, award.UserID, award.OrderID, award.Amount)
	if err != nil {
		return err
	}

	if err := a.referral.ConvertOnDelivery(ctx, award.UserID, award.Amount); err != nil {
		return err
	}

	settled, err := a.orders.SettleDeliveryAward(ctx, award.OrderID, cherries)
	if err != nil {
		return err
	}
	if settled {
		a.logger.Debug("delivery award settled",
			zap.Int64("order_id", award.OrderID),
			zap.Int("cherries", cherries),
		)
	}

	return nil
}
