package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"conciergego/backend/internal/api/handler"
	"conciergego/backend/internal/auth"
	"conciergego/backend/internal/chathub"
	"conciergego/backend/internal/config"
	"conciergego/backend/internal/logging"
	"conciergego/backend/internal/metrics"
	"conciergego/backend/internal/notify"
	"conciergego/backend/internal/service"
	"conciergego/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to yaml config")
	flag.Parse()

	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log, logCloser, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		panic(err)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	metrics.Register()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
	}

	store := storage.NewService(db, rdb)
	if err := store.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	var telegram *notify.TelegramChannel
	if cfg.Telegram.BotToken != "" {
		telegram, err = notify.NewTelegramChannel(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Warn().Err(err).Msg("telegram channel disabled")
			telegram = nil
		}
	}

	notifier := notify.NewService(store, store, telegram, *log)
	hub := chathub.NewHub(*log)
	publisher := chathub.NewPublisher(store, hub)

	if rdb != nil {
		relay := chathub.NewRelay(rdb, *log)
		hub.SetRelay(relay)
		go relay.Listen(ctx, hub)
	}

	tokens := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	h := &handler.Handler{
		Auth:      tokens,
		Hub:       hub,
		Publisher: publisher,
		Store:     store,
		Requests:  service.NewRequestService(store, store, notifier, *log),
		Bookings:  service.NewBookingService(store, store, store, notifier, *log),
		Notifier:  notifier,
		Log:       *log,
		DevToken:  cfg.Auth.DevTokenEndpoint,
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	h.Routes(r)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	hub.Shutdown()
	if rdb != nil {
		rdb.Close()
	}
	log.Info().Msg("bye")
}
