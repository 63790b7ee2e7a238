package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "CACHE_TTL_SECONDS", "SESSION_TTL_MINUTES", "LEDGER_WORKERS"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.HTTPAddr != ":8080" || c.CacheTTL != 5*time.Minute || c.SessionTTL != 12*time.Hour || c.LedgerWorkers != 8 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("AUTH_RPS", "not-a-number")
	c := Load()
	if c.HTTPAddr != ":9999" || c.CacheTTL != 30*time.Second {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.AuthRPS != 1 {
		t.Fatalf("bad int should fall back to default, got %d", c.AuthRPS)
	}
}
