package app

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/smokeland/store-backend/internal/domain"
	"github.com/smokeland/store-backend/internal/handlers"
	"go.uber.org/zap"
)

// setupRouter создает и настраивает роутер
func setupRouter(deps *dependencies, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(handlers.RequestIDMiddleware())
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.RecoveryMiddleware(logger))
	r.Use(middleware.Compress(5))

	setupRoutes(r, deps)

	return r
}

// setupRoutes настраивает маршруты приложения
func setupRoutes(r *chi.Mux, deps *dependencies) {
	// Health check эндпоинты
	r.Get("/health", deps.handlers.health.Live)
	r.Get("/ready", deps.handlers.health.Ready)

	// Эндпоинты покупателя
	r.Group(func(r chi.Router) {
		r.Use(handlers.AuthMiddleware(deps.jwtManager))

		r.Get("/api/cart", deps.handlers.cart.Get)
		r.Delete("/api/cart", deps.handlers.cart.Clear)
		r.Post("/api/cart/items", deps.handlers.cart.Add)
		r.Patch("/api/cart/items/{itemID}", deps.handlers.cart.Update)
		r.Delete("/api/cart/items/{itemID}", deps.handlers.cart.Remove)

		r.Post("/api/orders", deps.handlers.orders.Create)
		r.Get("/api/orders", deps.handlers.orders.History)
		r.Get("/api/orders/{orderID}", deps.handlers.orders.Get)
		r.Post("/api/orders/{orderID}/confirm", deps.handlers.orders.Confirm)
		r.Post("/api/orders/{orderID}/payment", deps.handlers.orders.Payment)

		r.Get("/api/bonuses/balance", deps.handlers.bonuses.Balance)
		r.Get("/api/bonuses/history", deps.handlers.bonuses.History)
		r.Post("/api/bonuses/apply", deps.handlers.bonuses.Apply)

		r.Get("/api/loyalty/profile", deps.handlers.loyalty.Profile)

		r.Get("/api/referral", deps.handlers.referral.Info)
		r.Post("/api/referral/claim", deps.handlers.referral.Claim)

		r.Get("/api/fortune", deps.handlers.fortune.State)
		r.Post("/api/fortune/spin", deps.handlers.fortune.Spin)

		r.Get("/api/couriers/{courierID}/slots", deps.handlers.courier.Slots)
	})

	// Консоль курьера
	r.Group(func(r chi.Router) {
		r.Use(handlers.AuthMiddleware(deps.jwtManager))
		r.Use(handlers.RequireRole(domain.RoleCourier))

		r.Get("/api/courier/orders", deps.handlers.courier.MyOrders)
		r.Patch("/api/courier/orders/{orderID}/status", deps.handlers.courier.UpdateStatus)
	})

	// Админ-консоль
	r.Group(func(r chi.Router) {
		r.Use(handlers.AuthMiddleware(deps.jwtManager))
		r.Use(handlers.RequireRole(domain.RoleAdmin))

		r.Get("/api/admin/orders", deps.handlers.admin.Orders)
		r.Patch("/api/admin/orders/{orderID}/status", deps.handlers.admin.UpdateOrderStatus)

		r.Get("/api/admin/couriers", deps.handlers.admin.Couriers)
		r.Post("/api/admin/couriers", deps.handlers.admin.CreateCourier)
		r.Put("/api/admin/couriers/{courierID}", deps.handlers.admin.UpdateCourier)
		r.Post("/api/admin/couriers/{courierID}/payouts", deps.handlers.admin.SettlePayout)

		r.Get("/api/admin/promos", deps.handlers.admin.Promos)
		r.Post("/api/admin/promos", deps.handlers.admin.CreatePromo)
	})
}
