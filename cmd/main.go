package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/suteetoe/merchant-dashboard/internal/handler"
	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/order"
	"github.com/suteetoe/merchant-dashboard/internal/repository"
	"github.com/suteetoe/merchant-dashboard/internal/service"
	"github.com/suteetoe/merchant-dashboard/pkg/config"
	"github.com/suteetoe/merchant-dashboard/pkg/database"
	"github.com/suteetoe/merchant-dashboard/pkg/jwtutil"
	"github.com/suteetoe/merchant-dashboard/pkg/logger"
	"github.com/suteetoe/merchant-dashboard/pkg/metrics"
	"github.com/suteetoe/merchant-dashboard/pkg/middleware"
	"github.com/suteetoe/merchant-dashboard/pkg/session"
	"github.com/suteetoe/merchant-dashboard/pkg/storage"
	"github.com/suteetoe/merchant-dashboard/prometheus"
)

const serviceName = "merchant-dashboard"

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting merchant dashboard service...", cfg.LogConfig()...)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid dashboard timezone", zap.Error(err))
	}

	// Initialize database
	db, err := database.InitDB(&cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.MigrateModels(&model.User{}, &model.Merchant{}, &model.Product{}, &model.Order{}); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database migrated")

	// Session store
	var sessions session.Store
	if cfg.Redis.Addr != "" {
		redisStore := session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStore.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer redisStore.Close()
		sessions = redisStore
		log.Info("Using Redis session store", zap.String("addr", cfg.Redis.Addr))
	} else {
		sessions = session.NewMemoryStore()
		log.Warn("REDIS_ADDR not set, sessions are kept in memory")
	}

	// Object storage
	var (
		uploader    storage.Uploader
		memoryFiles *storage.MemoryUploader
	)
	if cfg.Storage.CloudinaryURL != "" {
		cld, err := storage.NewCloudinaryUploader(cfg.Storage.CloudinaryURL, cfg.Storage.Folder)
		if err != nil {
			log.Fatal("Failed to initialize Cloudinary", zap.Error(err))
		}
		uploader = cld
		log.Info("Using Cloudinary storage", zap.String("folder", cfg.Storage.Folder))
	} else {
		memoryFiles = storage.NewMemoryUploader(cfg.Storage.PublicBaseURL)
		uploader = memoryFiles
		log.Warn("CLOUDINARY_URL not set, uploads are kept in memory")
	}

	// Metrics
	prometheus.InitMetrics(cfg, prom.DefaultRegisterer)
	httpMetrics := metrics.NewHTTPMetrics(cfg.ServiceName, prom.DefaultRegisterer)

	// Wiring
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	merchantRepo := repository.NewMerchantRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)

	merchantSvc := service.NewMerchantService(merchantRepo, uploader)
	handlers := &handler.Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, sessions, jwtUtil)),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(merchantSvc, productRepo, orderRepo, loc, cfg.Dashboard.TopSellersMax)),
		Merchant:  handler.NewMerchantHandler(merchantSvc),
		Product:   handler.NewProductHandler(service.NewProductService(productRepo, uploader)),
		Order:     handler.NewOrderHandler(service.NewOrderService(orderRepo, order.NewPolicy(cfg.Order.StrictTransitions))),
	}

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit("6M"))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(httpMetrics.Middleware())
	e.Use(logger.Middleware())

	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))
	if memoryFiles != nil {
		e.GET("/files/*", handler.ServeFiles(memoryFiles))
	}
	handlers.RegisterRoutes(e, middleware.JWTAuthMiddleware(jwtUtil, sessions, cfg.Server.LoginURL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}
