package app

import (
	"github.com/avc/rifa-storefront/internal/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// setupRouter создает и настраивает роутер
func setupRouter(deps *dependencies, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	setupMiddleware(r, logger)

	// Маршруты
	setupRoutes(r, deps, logger)

	return r
}

// setupMiddleware настраивает middleware для роутера
func setupMiddleware(r *chi.Mux, logger *zap.Logger) {
	r.Use(handlers.RequestIDMiddleware())
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.RecoveryMiddleware(logger))
	r.Use(middleware.Compress(5))
}

// setupRoutes настраивает маршруты приложения
func setupRoutes(r *chi.Mux, deps *dependencies, logger *zap.Logger) {
	h := deps.handlers

	// Health check эндпоинты
	r.Get("/health", h.health.Health)
	r.Get("/ready", h.health.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Use(handlers.VisitorMiddleware(deps.jwtManager, deps.services.tokens, deps.secureCookie, logger))

		r.Post("/auth/login", h.auth.Login)
		r.Post("/auth/logout", h.auth.Logout)
		r.Get("/auth/session", h.auth.Session)

		r.Get("/raffles", h.raffles.List)
		r.Get("/raffles/{id}", h.raffles.Get)
		r.Get("/winners", h.raffles.Winners)

		r.Get("/cart", h.cart.Get)
		r.Delete("/cart", h.cart.Clear)
		r.Post("/cart/numbers", h.cart.AddNumber)
		r.Delete("/cart/numbers/{number}", h.cart.RemoveNumber)
		r.Post("/cart/toggle", h.cart.Toggle)

		r.Get("/checkout/{raffleId}", h.checkout.Form)
		r.Post("/checkout", h.checkout.Submit)

		r.Get("/purchases/{id}", h.purchases.Get)
		r.Get("/purchases/{id}/qr", h.qr.Reservation)

		// Кабинет покупателя
		r.Route("/account", func(r chi.Router) {
			r.Use(handlers.RequireSession(deps.services.sessions, logger))

			r.Get("/purchases", h.purchases.Mine)
		})

		// Админка магазина
		r.Route("/admin", func(r chi.Router) {
			r.Use(handlers.RequireSession(deps.services.sessions, logger))
			r.Use(handlers.RequireAdmin(logger))

			r.Get("/raffles", h.admin.Raffles)
			r.Post("/raffles", h.admin.CreateRaffle)
			r.Patch("/raffles/{id}", h.admin.UpdateRaffle)
			r.Delete("/raffles/{id}", h.admin.DeleteRaffle)
			r.Get("/raffles/{id}/sales", h.admin.Sales)
			r.Get("/raffles/{id}/participants", h.admin.Participants)
			r.Get("/raffles/{id}/purchases", h.admin.RafflePurchases)

			r.Post("/raffles/{id}/draw/open", h.admin.OpenDraw)
			r.Post("/raffles/{id}/draw", h.admin.ConfirmDraw)
			r.Delete("/raffles/{id}/draw", h.admin.CancelDraw)
			r.Get("/raffles/{id}/draw/phase", h.admin.DrawPhase)

			r.Get("/purchases/pending", h.admin.PendingPurchases)
			r.Patch("/purchases/{id}/confirm", h.admin.ConfirmPurchase)
			r.Patch("/purchases/{id}/cancel", h.admin.CancelPurchase)
		})
	})
}
