package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"bookstack/internal/app"
	"bookstack/internal/config"
	"bookstack/internal/ratelimit"
	"bookstack/internal/server"
	"bookstack/internal/util"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to parse session TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	appCore, err := app.New(app.Config{
		DatabaseURL:   cfg.DatabaseURL,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		JWTSecret:     cfg.JWTSecret,
		SessionTTL:    sessionTTL,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	var signupLimiter, loginLimiter *ratelimit.FixedWindowLimiter
	if cfg.RedisAddr != "" {
		if cfg.SignupRateLimitPerMinute > 0 {
			signupLimiter, err = ratelimit.NewRedisFixedWindowLimiter(
				cfg.RedisAddr, cfg.RedisPassword, "bookstack:ratelimit:signup",
				cfg.SignupRateLimitPerMinute, time.Minute)
			if err != nil {
				log.Fatalf("failed to init signup limiter: %v", err)
			}
		}
		if cfg.LoginRateLimitPerMinute > 0 {
			loginLimiter, err = ratelimit.NewRedisFixedWindowLimiter(
				cfg.RedisAddr, cfg.RedisPassword, "bookstack:ratelimit:login",
				cfg.LoginRateLimitPerMinute, time.Minute)
			if err != nil {
				log.Fatalf("failed to init login limiter: %v", err)
			}
		}
	}

	httpServer := server.New(server.Config{
		App:           appCore,
		SignupLimiter: signupLimiter,
		LoginLimiter:  loginLimiter,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("bookstack server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
