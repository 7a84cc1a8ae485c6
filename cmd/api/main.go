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

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/civic-polls/backend/internal/auth"
	"github.com/emilythestrangee/civic-polls/backend/internal/cache"
	"github.com/emilythestrangee/civic-polls/backend/internal/config"
	"github.com/emilythestrangee/civic-polls/backend/internal/database"
	"github.com/emilythestrangee/civic-polls/backend/internal/middleware"
	"github.com/emilythestrangee/civic-polls/backend/internal/notify"
	"github.com/emilythestrangee/civic-polls/backend/internal/server"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.New(cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	opts := server.Options{
		DB:           db,
		Sessions:     auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL),
		AuthLimiter:  middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst),
		CookieSecure: cfg.CookieSecure,
	}

	// Redis is optional; tallies fall back to an in-process cache
	var tallies store.TallyCache = cache.NewMemory()
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.Connect(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cancel()
		if err != nil {
			slog.Warn("redis unavailable, caching tallies in memory", "error", err)
		} else {
			defer redisCache.Close()
			tallies = redisCache
			opts.Redis = redisCache
		}
	}

	opts.Store = store.New(db.GetDB(), tallies)

	if cfg.Twilio.Enabled() {
		sms := notify.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
		opts.Notifier = notify.NewNotifier(opts.Store, sms)
		slog.Info("poll notifications enabled")
	}

	srv := server.NewServer(cfg.Port, opts)

	// signal.Notify requires the channel to be buffered
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
		return
	}
	<-drained
	slog.Info("Server closed")
}
