// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"appointly/config"
	"appointly/database"
	availabilityRepo "appointly/database/repository/availability"
	bookingRepo "appointly/database/repository/booking"
	catalogueRepo "appointly/database/repository/catalogue"
	"appointly/database/repository/memory"
	reviewRepo "appointly/database/repository/review"
	"appointly/handlers"
	"appointly/routes"
	"appointly/services/availability"
	"appointly/services/booking"
	"appointly/services/notification"
	"appointly/services/review"
	"appointly/utils"
	"appointly/worker"
)

// storage is the set of repositories for the configured driver.
type storage struct {
	Availability availabilityRepo.AvailabilityRepository
	Bookings     bookingRepo.BookingRepository
	Reviews      reviewRepo.ReviewRepository
	Catalogue    catalogueRepo.CatalogueRepository
	Tx           database.Transactor
	MongoClient  *mongo.Client
}

func initStorage(logger *zap.Logger) (*storage, error) {
	if config.UsesMemoryStorage() {
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &storage{
			Availability: store.Availability(),
			Bookings:     store.Bookings(),
			Reviews:      store.Reviews(),
			Catalogue:    store.Catalogue(),
			Tx:           store,
		}, nil
	}

	if err := database.InitDB(); err != nil {
		return nil, err
	}
	db := database.Database()
	st := &storage{
		Availability: availabilityRepo.NewMongoAvailabilityRepo(db),
		Bookings:     bookingRepo.NewMongoBookingRepo(db),
		Reviews:      reviewRepo.NewMongoReviewRepo(db),
		Catalogue:    catalogueRepo.NewMongoCatalogueRepo(db),
		Tx:           database.NewMongoTransactor(database.MongoClient),
		MongoClient:  database.MongoClient,
	}
	for _, idx := range []interface{ EnsureIndexes() error }{st.Availability, st.Bookings, st.Reviews} {
		if err := idx.EnsureIndexes(); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func initSlotCache(logger *zap.Logger) (availability.SlotCache, *redis.Client) {
	if !config.AppConfig.CacheEnabled {
		return availability.NoopSlotCache{}, nil
	}
	if err := utils.InitCache(); err != nil {
		logger.Warn("slot cache disabled", zap.Error(err))
		return availability.NoopSlotCache{}, nil
	}
	return availability.NewRedisSlotCache(utils.CacheClient, config.AppConfig.SlotCacheTTL, logger), utils.CacheClient
}

func initNotifier(logger *zap.Logger) notification.Notifier {
	if !config.AppConfig.NotificationsEnabled {
		return notification.NoopNotifier{}
	}
	return notification.NewAsynqNotifier(worker.QueueRedisOpt(), logger)
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := config.Validate(config.AppConfig); err != nil {
		logger.Fatal("main: invalid configuration", zap.Error(err))
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := initStorage(logger)
	if err != nil {
		logger.Fatal("main: failed to initialize storage", zap.Error(err))
	}
	slotCache, cacheClient := initSlotCache(logger)
	notifier := initNotifier(logger)

	var eventWorker *asynq.Server
	if config.AppConfig.EventWorkerEnabled {
		eventWorker = worker.StartEventWorker(notification.LogDeliverer{Logger: logger}, logger)
	}

	// services.
	availabilityService := availability.NewDefaultAvailabilityService(st.Availability, slotCache, logger)
	bookingService := booking.NewDefaultBookingService(st.Bookings, availabilityService, st.Tx, notifier, logger)
	reviewService := review.NewDefaultReviewService(st.Reviews, st.Bookings, st.Catalogue, st.Tx, logger)

	var redisClients []*redis.Client
	if cacheClient != nil {
		redisClients = append(redisClients, cacheClient)
	}
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, redisClients, st.MongoClient)

	handlerBundle := &handlers.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(availabilityService, bookingService),
		Booking:      handlers.NewBookingHandler(bookingService),
		Review:       handlers.NewReviewHandler(reviewService),
		Health:       &handlers.HealthHandler{RedisClients: redisClients, MongoClient: st.MongoClient},
	}
	router := routes.NewRouter(handlerBundle, logger, config.AppConfig.MaxRequestsPerMin)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), config.AppConfig.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	stopMonitor()
	if eventWorker != nil {
		eventWorker.Shutdown()
	}
	if err := notifier.Close(); err != nil {
		logger.Warn("main: failed to close notifier", zap.Error(err))
	}
	if cacheClient != nil {
		cacheClient.Close()
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: failed to close mongo", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
