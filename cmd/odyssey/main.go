package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/odyssey-stock/internal/app"
	"github.com/odyssey-erp/odyssey-stock/internal/audit"
	"github.com/odyssey-erp/odyssey-stock/internal/auth"
	"github.com/odyssey-erp/odyssey-stock/internal/inventory"
	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/branches"
	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/categories"
	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/clients"
	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/products"
	"github.com/odyssey-erp/odyssey-stock/internal/observability"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/cache"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/db"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/procurement"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/sales"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/users"
	"github.com/odyssey-erp/odyssey-stock/internal/view"
	"github.com/odyssey-erp/odyssey-stock/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// The branch cache falls back to the database while Redis is down.
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	messages := shared.NewErrorTranslator(cfg.AppLang, !cfg.IsProduction())
	metrics := observability.NewMetrics()
	responder := httpx.Responder{Logger: logger, Messages: messages, Development: !cfg.IsProduction()}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, cfg.SessionTTL, logger)
	sessions := shared.NewSessionResolver(authRepo, shared.CookieConfig{
		Name:   cfg.SessionCookie,
		MaxAge: cfg.SessionTTL,
		Secure: cfg.IsProduction(),
	}, logger)
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	rbacMiddleware := rbac.Middleware{
		Sessions: sessions,
		CSRF:     csrfManager,
		Messages: messages,
		Metrics:  metrics,
		Logger:   logger,
	}

	branchCache := cache.NewJSONCache(redisClient, "branches", cfg.BranchCacheTTL)
	branchService := branches.NewService(branches.NewRepository(dbpool), branchCache, logger)
	categoryService := categories.NewService(categories.NewRepository(dbpool))
	productService := products.NewService(products.NewRepository(dbpool), products.ServiceConfig{
		ImportConcurrency: cfg.ImportConcurrency,
		Messages:          messages,
		Metrics:           metrics,
		Logger:            logger,
	})
	clientService := clients.NewService(clients.NewRepository(dbpool))
	userService := users.NewService(users.NewRepository(dbpool))
	inventoryService := inventory.NewService(inventory.NewRepository(dbpool), messages, metrics, logger)
	procurementService := procurement.NewService(procurement.NewRepository(dbpool), messages, metrics, logger)
	salesService := sales.NewService(sales.NewRepository(dbpool), messages, metrics, logger)
	auditService := audit.NewService(audit.NewRepository(dbpool))

	authHandler := auth.NewHandler(auth.HandlerDeps{
		Logger:       logger,
		Service:      authService,
		Sessions:     sessions,
		CSRF:         csrfManager,
		Branches:     branchService,
		RBAC:         rbacMiddleware,
		Responder:    responder,
		LoginLimiter: app.LoginLimiter(cfg.LoginRateLimit, messages),
	})
	dashboard := view.NewDashboard(inventoryService, auditService, logger)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Messages:           messages,
		Metrics:            metrics,
		RBAC:               rbacMiddleware,
		AuthHandler:        authHandler,
		Pages:              view.NewPages(logger, rbacMiddleware, csrfManager, dashboard, responder),
		BranchesHandler:    branches.NewHandler(logger, branchService, rbacMiddleware, responder),
		CategoriesHandler:  categories.NewHandler(logger, categoryService, rbacMiddleware, responder),
		ProductsHandler:    products.NewHandler(logger, productService, rbacMiddleware, responder),
		ClientsHandler:     clients.NewHandler(logger, clientService, rbacMiddleware, responder),
		UsersHandler:       users.NewHandler(logger, userService, rbacMiddleware, responder),
		InventoryHandler:   inventory.NewHandler(logger, inventoryService, rbacMiddleware, responder),
		ProcurementHandler: procurement.NewHandler(logger, procurementService, rbacMiddleware, responder),
		SalesHandler:       sales.NewHandler(logger, salesService, rbacMiddleware, responder),
		AuditHandler:       audit.NewHandler(logger, auditService, rbacMiddleware, responder),
		JobHandler:         jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
