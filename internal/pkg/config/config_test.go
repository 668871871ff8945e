package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StoreDriver != DriverMemory {
		t.Errorf("StoreDriver = %q, want %q", cfg.StoreDriver, DriverMemory)
	}
	if cfg.TokenCacheTTL != 15*time.Minute {
		t.Errorf("TokenCacheTTL = %s, want 15m", cfg.TokenCacheTTL)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("Redis.Addr = %q, want empty (cache disabled)", cfg.Redis.Addr)
	}
	if cfg.Postgres.MaxConns != 10 {
		t.Errorf("Postgres.MaxConns = %d, want 10", cfg.Postgres.MaxConns)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":            "9000",
		"ENV":             "production",
		"STORE_DRIVER":    "postgres",
		"POSTGRES_DSN":    "postgres://u:p@db:5432/x",
		"REDIS_ADDR":      "cache:6379",
		"BCRYPT_COST":     "12",
		"TOKEN_CACHE_TTL": "1m",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" || !cfg.IsProduction() {
		t.Errorf("got port %q env %q", cfg.Port, cfg.Env)
	}
	if cfg.StoreDriver != DriverPostgres || cfg.Postgres.DSN != "postgres://u:p@db:5432/x" {
		t.Errorf("postgres settings not applied: %+v", cfg.Postgres)
	}
	if cfg.Redis.Addr != "cache:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.BcryptCost != 12 || cfg.TokenCacheTTL != time.Minute {
		t.Errorf("got cost %d ttl %s", cfg.BcryptCost, cfg.TokenCacheTTL)
	}
}

func TestLoadWith_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}},
		{"cost too low", map[string]string{"BCRYPT_COST": "2"}},
		{"zero ttl", map[string]string{"TOKEN_CACHE_TTL": "0s"}},
		{"bad duration", map[string]string{"SHUTDOWN_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
