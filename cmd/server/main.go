package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	catalogapp "github.com/shopfront/backend/internal/application/catalog"
	contentapp "github.com/shopfront/backend/internal/application/content"
	couponapp "github.com/shopfront/backend/internal/application/coupon"
	"github.com/shopfront/backend/internal/application/dashboard"
	eventapp "github.com/shopfront/backend/internal/application/event"
	identityapp "github.com/shopfront/backend/internal/application/identity"
	inventoryapp "github.com/shopfront/backend/internal/application/inventory"
	orderapp "github.com/shopfront/backend/internal/application/order"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/cache"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/migration"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
	"github.com/shopfront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const stockCollectionInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Logs are bridged to OTLP when enabled, so the provider comes first
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log := telemetry.Bridge(baseLog, cfg.Telemetry.ServiceName, logProvider, logger.ParseLevel(cfg.Telemetry.LogsLevel))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Shopfront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}

	profiling := cfg.Telemetry.Profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              profiling.Enabled,
		ServerAddress:        profiling.ServerAddress,
		ApplicationName:      cfg.Telemetry.ServiceName,
		BasicAuthUser:        profiling.AuthUser,
		BasicAuthPassword:    profiling.AuthPassword,
		ProfileTypes:         profiling.ProfileTypes,
		MutexProfileFraction: profiling.MutexProfileFraction,
		BlockProfileRate:     profiling.BlockProfileRate,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiling.Enabled && profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Database.SlowThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(ctx, db.DB, meterProvider, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.DBMetricsEnabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Redis is optional; without it the in-memory stores serve a single
	// instance
	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		redisClient = client
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	idempotencyStore := cache.NewIdempotencyStore(redisClient, log)

	var revoked auth.RevocationList = auth.NewInMemoryRevocationList()
	if redisClient != nil {
		revoked = auth.NewRedisRevocationList(redisClient)
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	bannerRepo := persistence.NewGormBannerRepository(db.DB)
	sectionRepo := persistence.NewGormSectionRepository(db.DB)
	adminUserRepo := persistence.NewGormAdminUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus and subscribers
	eventBus := event.NewInMemoryEventBus(log)
	shopMetrics, err := telemetry.NewShopMetrics(telemetry.ShopMetricsConfig{
		Meter:  meterProvider.Meter("shopfront/shop"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to create shop metrics", zap.Error(err))
	}
	subscribe(eventBus, idempotencyStore, log,
		eventapp.NewOrderAuditHandler(log),
		eventapp.NewMetricsHandler(shopMetrics),
		inventoryapp.NewStockAlertHandler(log).WithNotifier(inventoryapp.NewLoggingStockAlertNotifier(log)),
	)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	settingsService := contentapp.NewSettingsService(settingsRepo, contentapp.SettingsDefaults{
		StoreName:             cfg.Shop.StoreName,
		ContactEmail:          cfg.Shop.ContactEmail,
		Currency:              cfg.Shop.Currency,
		FreeShippingThreshold: cfg.Shop.FreeShippingThreshold,
		FlatShippingFee:       cfg.Shop.FlatShippingFee,
	})
	storefrontService := catalogapp.NewStorefrontService(productRepo)
	homepageService := contentapp.NewHomepageService(bannerRepo, sectionRepo, storefrontService, settingsService).
		WithLogger(log)
	productService := catalogapp.NewProductService(productRepo, eventBus, cfg.Shop.DefaultMinStock)
	inventoryService := inventoryapp.NewInventoryService(inventoryRepo, eventBus)
	couponService := couponapp.NewCouponService(couponRepo)
	checkoutService := orderapp.NewCheckoutService(txScope, productRepo, couponRepo, orderRepo, settingsService, eventBus,
		orderapp.CheckoutConfig{
			OrderNumberPrefix: cfg.Shop.OrderNumberPrefix,
			IdempotencyTTL:    cfg.Checkout.IdempotencyTTL,
		}).
		WithIdempotencyStore(idempotencyStore).
		WithLogger(log)
	orderService := orderapp.NewOrderService(orderRepo, txScope, eventBus).WithLogger(log)
	dashboardService := dashboard.NewService(orderRepo, inventoryRepo, couponRepo)
	authService := identityapp.NewAuthService(adminUserRepo, jwtService, revoked, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Admin.MaxLoginAttempts,
		LockDuration:     cfg.Admin.LockDuration,
	}, log)

	if _, err := authService.EnsureBootstrapAdmin(ctx, identityapp.BootstrapAdmin{
		Email:    cfg.Admin.BootstrapEmail,
		Name:     cfg.Admin.BootstrapName,
		Password: cfg.Admin.BootstrapPassword,
	}); err != nil {
		log.Fatal("Failed to create bootstrap admin", zap.Error(err))
	}

	collectCtx, stopCollection := context.WithCancel(ctx)
	shopMetrics.StartStockCollection(collectCtx, stockLevels(inventoryRepo), stockCollectionInterval)

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.App.IsProduction()

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.SecureWithConfig(securityConfig),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
			SkipPaths:   []string{"/health"},
		}),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		}),
		middleware.ProfilingWithConfig(middleware.ProfilingConfig{
			Enabled:   profiling.Enabled,
			SkipPaths: middleware.DefaultProfilingConfig().SkipPaths,
		}),
	)

	var publicWrite gin.HandlerFunc
	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		publicWrite = middleware.RateLimit(limiter)
	}

	healthChecks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	router.Setup(engine, router.Handlers{
		Health:     handler.NewHealthHandler(healthChecks),
		Storefront: handler.NewStorefrontHandler(storefrontService),
		Checkout:   handler.NewCheckoutHandler(checkoutService, orderService),
		Content:    handler.NewContentHandler(settingsService, homepageService),
		Auth:       handler.NewAuthHandler(authService),
		Products:   handler.NewProductHandler(productService),
		Inventory:  handler.NewInventoryHandler(inventoryService),
		Coupons:    handler.NewCouponHandler(couponService),
		Orders:     handler.NewOrderHandler(orderService, dashboardService),
	}, router.Guards{
		PublicWrite: publicWrite,
		AdminAuth: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			Revoked:    revoked,
			SkipPaths:  []string{router.AdminLoginPath, router.AdminRefreshPath},
			Logger:     log,
		}),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Release resources in reverse order of acquisition
	if limiter != nil {
		limiter.Stop()
	}
	stopCollection()
	shopMetrics.Stop()
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := idempotencyStore.Close(); err != nil {
		log.Error("Error closing idempotency store", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Error shutting down log provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runMigrations applies the embedded SQL migrations
func runMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	migrator, err := migration.New(sqlDB, migration.Embedded(), log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared connection pool
	return migrator.Up()
}

// subscribe registers each handler on the bus, wrapped so an event is
// handled at most once
func subscribe(bus *event.InMemoryEventBus, store shared.IdempotencyStore, log *zap.Logger, handlers ...shared.EventHandler) {
	cfg := shared.DefaultIdempotencyConfig()
	for _, h := range handlers {
		bus.Subscribe(event.NewIdempotentHandler(h, store, cfg, log), h.EventTypes()...)
	}
}

// stockLevels adapts the inventory summary to the stock gauge
func stockLevels(repo inventory.Repository) telemetry.StockLevelsFunc {
	return func(ctx context.Context) (telemetry.StockLevels, error) {
		summary, err := repo.Summary(ctx)
		if err != nil {
			return telemetry.StockLevels{}, err
		}
		return telemetry.StockLevels{OK: summary.OK, Low: summary.Low, Out: summary.Out}, nil
	}
}
