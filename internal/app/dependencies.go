package app

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smokeland/store-backend/internal/config"
	"github.com/smokeland/store-backend/internal/domain"
	"github.com/smokeland/store-backend/internal/handlers"
	"github.com/smokeland/store-backend/internal/repository/postgres"
	"github.com/smokeland/store-backend/internal/service"
	"github.com/smokeland/store-backend/internal/utils/jwt"
	"github.com/smokeland/store-backend/internal/worker"
	"go.uber.org/zap"
)

const jwtTokenTTL = 24 * time.Hour

// repositories содержит все репозитории приложения
type repositories struct {
	product  domain.ProductRepository
	cart     domain.CartRepository
	order    domain.OrderRepository
	bonus    domain.BonusRepository
	cherry   domain.CherryRepository
	promo    domain.PromoRepository
	referral domain.ReferralRepository
	fortune  domain.FortuneRepository
	courier  domain.CourierRepository
}

// services содержит все сервисы приложения
type services struct {
	cart     *service.CartService
	order    *service.OrderService
	bonus    *service.BonusService
	loyalty  *service.LoyaltyService
	promo    *service.PromoService
	referral *service.ReferralService
	fortune  *service.FortuneService
	courier  *service.CourierService
}

// handlerSet содержит все хендлеры приложения
type handlerSet struct {
	cart     *handlers.CartHandler
	orders   *handlers.OrderHandler
	bonuses  *handlers.BonusHandler
	loyalty  *handlers.LoyaltyHandler
	referral *handlers.ReferralHandler
	fortune  *handlers.FortuneHandler
	courier  *handlers.CourierHandler
	admin    *handlers.AdminHandler
	health   *handlers.HealthHandler
}

// dependencies содержит все зависимости приложения
type dependencies struct {
	repos      *repositories
	services   *services
	handlers   *handlerSet
	jwtManager *jwt.Manager
	workerPool *worker.Pool
	awards     *worker.Awards
}

// initDependencies создает все зависимости приложения
func initDependencies(cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) *dependencies {
	repos := &repositories{
		product:  postgres.NewProductRepository(dbPool),
		cart:     postgres.NewCartRepository(dbPool),
		order:    postgres.NewOrderRepository(dbPool),
		bonus:    postgres.NewBonusRepository(dbPool),
		cherry:   postgres.NewCherryRepository(dbPool),
		promo:    postgres.NewPromoRepository(dbPool),
		referral: postgres.NewReferralRepository(dbPool),
		fortune:  postgres.NewFortuneRepository(dbPool),
		courier:  postgres.NewCourierRepository(dbPool),
	}

	jwtManager := jwt.NewManager(cfg.JWTSecret, jwtTokenTTL)

	workerPool := worker.NewPool(worker.PoolConfig{
		Workers:          cfg.WorkerPoolSize,
		QueueSize:        cfg.WorkerQueueSize,
		AnalyticsAddress: cfg.AnalyticsAddress,
	}, logger)

	pricing := service.CartPricing{
		MinQty:    cfg.BulkMinQty,
		UnitPrice: cfg.BulkUnitPrice,
	}
	slotStep := time.Duration(cfg.CourierSlotStepMin) * time.Minute

	promoSvc := service.NewPromoService(repos.promo)
	loyaltySvc := service.NewLoyaltyService(repos.cherry, repos.bonus, repos.promo, repos.order, cfg.BonusEarnPercent)
	referralSvc := service.NewReferralService(repos.referral)

	svcs := &services{
		cart:     service.NewCartService(repos.product, repos.cart, pricing),
		promo:    promoSvc,
		loyalty:  loyaltySvc,
		referral: referralSvc,
		bonus:    service.NewBonusService(repos.bonus),
		fortune:  service.NewFortuneService(repos.fortune, repos.cherry),
		courier:  service.NewCourierService(repos.courier, slotStep, cfg.CourierPayoutPercent),
		order: service.NewOrderService(
			repos.order,
			repos.product,
			repos.cart,
			repos.courier,
			promoSvc,
			pricing,
			workerPool,
			slotStep,
		),
	}

	awards := worker.NewAwards(worker.AwardsConfig{
		Interval: time.Duration(cfg.AwardSweepSec) * time.Second,
	}, repos.order, loyaltySvc, referralSvc, logger)

	hdlrs := &handlerSet{
		cart:     handlers.NewCartHandler(svcs.cart, logger),
		orders:   handlers.NewOrderHandler(svcs.order, logger),
		bonuses:  handlers.NewBonusHandler(svcs.bonus, logger),
		loyalty:  handlers.NewLoyaltyHandler(svcs.loyalty, logger),
		referral: handlers.NewReferralHandler(svcs.referral, logger),
		fortune:  handlers.NewFortuneHandler(svcs.fortune, logger),
		courier:  handlers.NewCourierHandler(svcs.courier, svcs.order, logger),
		admin:    handlers.NewAdminHandler(svcs.order, svcs.courier, svcs.promo, logger),
		health:   handlers.NewHealthHandler(dbPool, logger),
	}

	return &dependencies{
		repos:      repos,
		services:   svcs,
		handlers:   hdlrs,
		jwtManager: jwtManager,
		workerPool: workerPool,
		awards:     awards,
	}
}
