package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "guest_portal/internal/adapters/http_server"
	"guest_portal/internal/adapters/observability"
	redisad "guest_portal/internal/adapters/redis"
	"guest_portal/internal/adapters/session"
	"guest_portal/internal/app"
	"guest_portal/internal/shared"
	mysqlrepo "guest_portal/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable; serving without cache")
	}

	tokens, err := session.NewTokens(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("session tokens")
	}

	handlers := &server.Handlers{
		Catalog: app.NewCatalogService(repo, cache, cfg.CacheTTL),
		Bonus:   app.NewBonusService(repo, cache, cfg.CacheTTL),
		Auth:    app.NewAuthService(repo, tokens, cfg.AdminPassword),
		Limiter: server.NewIPLimiter(float64(cfg.AuthRPS), 5),
	}

	// http
	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(handlers)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
