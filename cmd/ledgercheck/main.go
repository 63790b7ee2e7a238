package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"guest_portal/internal/adapters/observability"
	redisad "guest_portal/internal/adapters/redis"
	"guest_portal/internal/app"
	"guest_portal/internal/shared"
	mysqlrepo "guest_portal/internal/storage/mysql"
)

func main() {
	os.Exit(run())
}

// run returns 1 when any ledger is inconsistent, could not be read, or was never checked.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	workers := cfg.LedgerWorkers
	if workers < 1 {
		workers = 1
	}
	log.Info().Int("workers", workers).Msg("ledgercheck starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Error().Err(err).Msg("sql.Open failed")
		return 1
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("db.Ping failed")
		return 1
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	bonus := app.NewBonusService(repo, cache, cfg.CacheTTL)

	ids, err := repo.ListGuestIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list guests failed")
		return 1
	}

	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var broken, failed, checked atomic.Int64

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("ledgercheck interrupted")
			break
		}

		wg.Add(1)
		go func(guestID string) {
			defer wg.Done()
			defer sem.Release(1)

			disc, err := bonus.Refresh(ctx, guestID)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("guest_id", guestID).Err(err).Msg("ledger refresh failed")
				return
			}
			checked.Add(1)
			if len(disc) == 0 {
				log.Debug().Str("guest_id", guestID).Msg("ledger ok")
				return
			}
			broken.Add(1)
			observability.ObserveLedgerDiscrepancies(len(disc))
			for _, d := range disc {
				log.Error().
					Str("guest_id", guestID).
					Str("tx_id", d.TransactionID).
					Int64("expected", d.Expected).
					Int64("actual", d.Actual).
					Msg("ledger discrepancy")
			}
		}(id)
	}

	wg.Wait()
	skipped := int64(len(ids)) - checked.Load() - failed.Load()
	log.Info().
		Int("guests", len(ids)).
		Int64("inconsistent", broken.Load()).
		Int64("failed", failed.Load()).
		Int64("skipped", skipped).
		Msg("ledgercheck completed")

	return exitCode(broken.Load(), failed.Load(), skipped)
}

func exitCode(broken, failed, skipped int64) int {
	if broken > 0 || failed > 0 || skipped > 0 {
		return 1
	}
	return 0
}
