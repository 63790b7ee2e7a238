package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	CacheTTL      time.Duration
	SessionSecret string
	SessionTTL    time.Duration
	AdminPassword string
	AuthRPS       int
	LedgerWorkers int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/portal?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SessionSecret: env("SESSION_SECRET", ""),
		SessionTTL:    time.Duration(atoi("SESSION_TTL_MINUTES", 720)) * time.Minute,
		AdminPassword: env("ADMIN_PASSWORD", ""),
		AuthRPS:       atoi("AUTH_RPS", 1),
		LedgerWorkers: atoi("LEDGER_WORKERS", 8),
	}
	if c.SessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET is empty")
	}
	if c.AdminPassword == "" {
		log.Warn().Msg("ADMIN_PASSWORD is empty; admin sign-in disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
