package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sharath018/business-directory-backend/config"
	"github.com/sharath018/business-directory-backend/database"
	"github.com/sharath018/business-directory-backend/internal/billing"
	"github.com/sharath018/business-directory-backend/internal/events"
	"github.com/sharath018/business-directory-backend/internal/lock"
	"github.com/sharath018/business-directory-backend/internal/notification"
	"github.com/sharath018/business-directory-backend/logger"
	"github.com/sharath018/business-directory-backend/middleware"
	"github.com/sharath018/business-directory-backend/routes"
	"github.com/sharath018/business-directory-backend/utils"
)

// @title Business Directory API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "business-directory",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}
	if err := database.Seed(db, cfg); err != nil {
		log.Fatal().Err(err).Msg("database seed failed")
	}

	rdb, err := utils.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("redis init failed")
	}

	var locker lock.Locker = lock.NewLocalLocker()
	if rdb != nil {
		locker = lock.NewRedisLocker(rdb,
			time.Duration(cfg.LockTTLSeconds)*time.Second,
			time.Duration(cfg.LockWaitSeconds)*time.Second)
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis review lock")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, review lock is process local")
	}

	var publisher events.Publisher = events.NopPublisher{}
	var kafkaPublisher *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		publisher = kafkaPublisher
	} else {
		log.Warn().Msg("KAFKA_BROKERS not set, submission events are dropped")
	}

	var pusher notification.PushChannel
	fcm, err := utils.NewMessagingClient(ctx, cfg.FCMCredentialsPath, cfg.FCMProjectID)
	switch {
	case errors.Is(err, utils.ErrFirebaseNotConfigured):
		log.Info().Msg("firebase not configured, push notifications disabled")
	case err != nil:
		log.Error().Err(err).Msg("firebase init failed, push notifications disabled")
	default:
		pusher = notification.NewFCMChannel(fcm, log)
	}

	broadcaster := notification.NewBroadcaster(rdb)
	notifier := notification.NewService(
		notification.NewRepository(db),
		notification.NewEmailSender(cfg),
		pusher,
		broadcaster,
		cfg.FCMAdminTopic,
		log,
	)

	var consumer *notification.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		consumer = notification.StartKafkaConsumer(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, notifier, log)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg, routes.Deps{
		DB:          db,
		Redis:       rdb,
		Locker:      locker,
		Publisher:   publisher,
		Notifier:    notifier,
		Broadcaster: broadcaster,
		Gateway:     billing.NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret),
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(broadcaster.Close)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	closeAll(log, consumer, kafkaPublisher, rdb)
}

func closeAll(log zerolog.Logger, consumer *notification.Consumer, publisher *events.KafkaPublisher, rdb *redis.Client) {
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Error().Err(err).Msg("close kafka consumer")
		}
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("close kafka publisher")
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}
}
