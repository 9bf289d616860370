package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tripplanner-backend/internal/api"
	"tripplanner-backend/internal/config"
	"tripplanner-backend/internal/core"
	"tripplanner-backend/internal/db"
	"tripplanner-backend/internal/geocode"
	"tripplanner-backend/internal/metrics"
	"tripplanner-backend/internal/middleware"
	"tripplanner-backend/pkg/cache"
	"tripplanner-backend/pkg/messagequeue"
)

func main() {
	// --- 1. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// --- 2. Initialize Logger (Zap) ---
	zapLogger, err := newLogger(appConfig)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck
	zapLogger.Info("Application configuration loaded", zap.String("ginMode", appConfig.GinMode), zap.String("logLevel", appConfig.LogLevel))

	// --- 3. Initialize Firebase Admin SDK (Firestore and Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	clients, err := db.InitFirebase(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer func() {
		if err := clients.Close(); err != nil {
			zapLogger.Warn("Error closing Firestore client", zap.Error(err))
		}
	}()

	// --- 4. Optional infrastructure: event queue and geocode cache ---
	var mq messagequeue.MessageQueue = messagequeue.Noop{}
	if appConfig.RabbitMQURL != "" {
		rabbit, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
		}
		mq = rabbit
		zapLogger.Info("Trip events enabled", zap.String("queue", appConfig.RabbitMQQueue))
	} else {
		zapLogger.Info("RABBITMQ_URL not set, trip events disabled")
	}
	defer func() {
		if err := mq.Close(); err != nil {
			zapLogger.Warn("Error closing message queue", zap.Error(err))
		}
	}()

	var geocoder geocode.Geocoder = geocode.NewClient(geocode.ClientConfig{
		BaseURL:   appConfig.GeocoderBaseURL,
		UserAgent: appConfig.GeocoderUserAgent,
		Timeout:   appConfig.GeocoderTimeout(),
	}, zapLogger)
	if appConfig.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Redis", zap.Error(err))
		}
		defer redisCache.Close()
		geocoder = geocode.NewCached(geocoder, redisCache, appConfig.GeocodeCacheTTL(), zapLogger)
		zapLogger.Info("Geocode cache enabled", zap.Duration("ttl", appConfig.GeocodeCacheTTL()))
	} else {
		zapLogger.Info("REDIS_ADDR not set, geocode cache disabled")
	}

	// --- 5. Initialize Repositories and Services ---
	userRepo := db.NewFirestoreUserRepository(clients.Firestore)
	tripRepo := db.NewFirestoreTripRepository(clients.Firestore, zapLogger)

	userService := core.NewUserService(userRepo, zapLogger)
	tripService := core.NewTripService(tripRepo, userRepo, mq, appConfig.RabbitMQQueue, zapLogger)

	// --- 6. Setup Gin HTTP Engine ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	router.Use(metrics.Middleware())
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))

	api.SetupRoutes(router, zapLogger, clients.Auth, userService, tripService, geocoder)

	// --- 7. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 8. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	zapLogger.Info("Server exiting gracefully")
}

// newLogger builds a development logger in debug mode and a JSON production
// logger in release mode, both at LOG_LEVEL.
func newLogger(appConfig *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(appConfig.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", appConfig.LogLevel, err)
	}

	zapConfig := zap.NewDevelopmentConfig()
	if appConfig.IsRelease() {
		zapConfig = zap.NewProductionConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	return zapConfig.Build()
}
