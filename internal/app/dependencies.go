package app

import (
	"net/url"

	"github.com/avc/rifa-storefront/internal/apiclient"
	"github.com/avc/rifa-storefront/internal/cart"
	"github.com/avc/rifa-storefront/internal/catalog"
	"github.com/avc/rifa-storefront/internal/checkout"
	"github.com/avc/rifa-storefront/internal/config"
	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/avc/rifa-storefront/internal/draw"
	"github.com/avc/rifa-storefront/internal/handlers"
	"github.com/avc/rifa-storefront/internal/session"
	"github.com/avc/rifa-storefront/internal/utils/jwt"
	"github.com/avc/rifa-storefront/internal/worker"
	"go.uber.org/zap"
)

// services содержит все сервисы приложения
type services struct {
	tokens   *session.Store
	api      *apiclient.Client
	sessions *session.Service
	cart     *cart.Service
	checkout *checkout.Service
	draw     *draw.Service
	catalog  *catalog.Service
}

// handlerSet содержит все хендлеры приложения
type handlerSet struct {
	auth      *handlers.AuthHandler
	raffles   *handlers.RaffleHandler
	cart      *handlers.CartHandler
	checkout  *handlers.CheckoutHandler
	purchases *handlers.PurchaseHandler
	qr        *handlers.QRHandler
	admin     *handlers.AdminHandler
	health    *handlers.HealthHandler
}

// dependencies содержит все зависимости приложения
type dependencies struct {
	services     *services
	handlers     *handlerSet
	jwtManager   *jwt.Manager
	secureCookie bool
	workerPool   *worker.Pool
}

// initDependencies создает все зависимости приложения.
// Клиент API читает токен из хранилища сессии, поэтому хранилище создается первым.
func initDependencies(cfg *config.Config, state domain.StateRepository, logger *zap.Logger) *dependencies {
	jwtManager := jwt.NewManager(cfg.SessionSecret, cfg.VisitorTTL)

	tokens := session.NewStore(state, logger)
	api := apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout, tokens, logger)
	carts := cart.NewService(state, cfg.DefaultMaxNumbers, logger)

	svcs := &services{
		tokens:   tokens,
		api:      api,
		sessions: session.NewService(api, tokens, logger),
		cart:     carts,
		checkout: checkout.NewService(api, carts, logger),
		draw:     draw.NewService(api, state, logger),
		catalog:  catalog.NewService(api, logger),
	}

	hdlrs := &handlerSet{
		auth:      handlers.NewAuthHandler(svcs.sessions, logger),
		raffles:   handlers.NewRaffleHandler(api, carts, logger),
		cart:      handlers.NewCartHandler(carts, api, logger),
		checkout:  handlers.NewCheckoutHandler(svcs.checkout, carts, api, svcs.sessions, logger),
		purchases: handlers.NewPurchaseHandler(api, api, logger),
		qr:        handlers.NewQRHandler(cfg.PublicBaseURL, logger),
		admin:     handlers.NewAdminHandler(api, api, svcs.draw, svcs.catalog, logger),
		health:    handlers.NewHealthHandler(state, api, logger),
	}

	workerPoolConfig := worker.PoolConfig{
		Workers:      cfg.JanitorWorkers,
		QueueSize:    cfg.JanitorQueueSize,
		ScanInterval: cfg.JanitorInterval,
		TTL:          cfg.VisitorTTL,
	}
	workerPool := worker.NewPool(workerPoolConfig, state, logger)

	return &dependencies{
		services:     svcs,
		handlers:     hdlrs,
		jwtManager:   jwtManager,
		secureCookie: isHTTPS(cfg.PublicBaseURL),
		workerPool:   workerPool,
	}
}

func isHTTPS(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && u.Scheme == "https"
}
