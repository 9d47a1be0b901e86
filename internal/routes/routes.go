// Package routes wires services to handlers and mounts the HTTP routes.
package routes

import (
	"context"
	"strconv"
	"time"

	"bank/internal/config"
	"bank/internal/handlers"
	"bank/internal/logging"
	"bank/internal/middleware"
	"bank/internal/models"
	"bank/internal/repositories"
	"bank/internal/repositories/cache"
	"bank/internal/services/account"
	"bank/internal/services/auth"
	"bank/internal/services/authcode"
	"bank/internal/services/ledger"
	"bank/internal/services/notification"
	"bank/internal/services/transfer"
	"bank/internal/utils"
	"bank/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the shared resources the routes are built from. Cache
// may be nil, in which case balances are always read from the database.
type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	Cache    *cache.CacheService
	Registry *prometheus.Registry
	Logger   *zap.Logger
}

// SetupRoutes builds the services and configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) error {
	cfg := deps.Config
	log := logging.OrNop(deps.Logger)

	accountRepo := repositories.NewAccountRepository(deps.DB)
	txRepo := repositories.NewTransactionRepository(deps.DB)
	codeRepo := repositories.NewTransactionCodeRepository(deps.DB)
	userRepo := repositories.NewUserRepository(deps.DB)

	validator, err := validation.NewTransferValidator(cfg.TransferCodePattern)
	if err != nil {
		return err
	}

	var metrics transfer.MetricsCollector = &transfer.NoopMetricsCollector{}
	if deps.Registry != nil {
		metrics = transfer.NewPrometheusMetrics(deps.Registry)
	}

	transferDeps := transfer.Dependencies{
		Validator:    validator,
		Scopes:       repositories.NewScopeProvider(deps.DB, cfg.DB.LockTimeout),
		Ledger:       ledger.NewService(accountRepo, log),
		Authorizer:   authcode.NewService(codeRepo, authcode.Config{TTL: cfg.TransferCodeTTL}, log),
		Transactions: txRepo,
		Notifier:     notification.NewService(log),
		Metrics:      metrics,
		Logger:       log,
	}
	var accountCache account.Cache
	if deps.Cache != nil {
		transferDeps.Cache = deps.Cache
		accountCache = deps.Cache
	}
	transferService := transfer.NewService(transferDeps, transfer.Config{TransactionLimit: cfg.TransactionLimit})

	authService := auth.NewService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	authMiddleware := middleware.NewAuthMiddleware(authService, log)

	transferHandler := handlers.NewTransferHandler(transferService)
	accountHandler := handlers.NewAccountHandler(account.NewService(accountRepo, accountCache, log), txRepo, log)
	authHandler := handlers.NewAuthHandler(authService, log)
	healthHandler := handlers.NewHealthHandler(healthChecks(deps), healthStats(deps))

	app.Get("/health", healthHandler.HealthCheck)
	if deps.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Post("/login", rateLimit(5, time.Minute), authHandler.LoginUser)

	protected := api.Group("", authMiddleware.Handler)
	protected.Get("/account", accountHandler.GetAccount)
	protected.Get("/transactions", accountHandler.ListTransactions)
	protected.Get("/transactions/:id", accountHandler.GetTransaction)
	protected.Post("/transactions", rateLimit(10, time.Minute), transferHandler.Submit)

	admin := protected.Group("/admin", middleware.RequireRole(models.RoleStaff))
	admin.Get("/transactions/:id", accountHandler.GetAnyTransaction)

	return nil
}

// rateLimit allows max requests per window, keyed by user when the request
// is authenticated and by IP otherwise.
func rateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if id, ok := c.Locals(utils.LocalsUserID).(uint); ok {
				return "user:" + strconv.FormatUint(uint64(id), 10) + ":" + c.Path()
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}

func healthChecks(deps Dependencies) map[string]handlers.Checker {
	checks := map[string]handlers.Checker{
		"database": func(ctx context.Context) error {
			sqlDB, err := deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}
	return checks
}

func healthStats(deps Dependencies) map[string]handlers.Stats {
	if deps.Cache == nil {
		return nil
	}
	return map[string]handlers.Stats{
		"redis_pool": func() fiber.Map {
			pool := deps.Cache.GetStats()
			return fiber.Map{
				"hits":        pool.Hits,
				"misses":      pool.Misses,
				"timeouts":    pool.Timeouts,
				"total_conns": pool.TotalConns,
				"idle_conns":  pool.IdleConns,
				"stale_conns": pool.StaleConns,
			}
		},
	}
}
