package config

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sqliteConfig(t *testing.T, pool PoolConfig) *DatabaseConfig {
	t.Helper()
	return &DatabaseConfig{
		Driver: "sqlite",
		SQLite: SQLiteConfig{Path: filepath.Join(t.TempDir(), "karirkit.db")},
		Pool:   pool,
	}
}

func openAndPing(t *testing.T, cfg *DatabaseConfig, log *slog.Logger) *gorm.DB {
	t.Helper()
	db, err := SetupDatabase(cfg, log)
	if err != nil {
		t.Fatalf("SetupDatabase() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	return db
}

func TestSetupDatabase_SQLite(t *testing.T) {
	cfg := sqliteConfig(t, PoolConfig{
		MaxIdleConns:    5,
		MaxOpenConns:    50,
		ConnMaxLifetime: "30m",
	})

	db := openAndPing(t, cfg, quietLogger())

	sqlDB, _ := db.DB()
	if got := sqlDB.Stats().MaxOpenConnections; got != 50 {
		t.Errorf("MaxOpenConnections = %d, want 50", got)
	}
}

func TestSetupDatabase_PoolDefaults(t *testing.T) {
	// A zero pool section falls back to the package defaults.
	cfg := sqliteConfig(t, PoolConfig{})

	db := openAndPing(t, cfg, quietLogger())

	sqlDB, _ := db.DB()
	if got := sqlDB.Stats().MaxOpenConnections; got != 100 {
		t.Errorf("MaxOpenConnections = %d, want the default 100", got)
	}
}

func TestSetupDatabase_DebugLoggerStillConnects(t *testing.T) {
	// A debug-level logger switches GORM to verbose SQL logging; the
	// connection must come up the same either way.
	cfg := sqliteConfig(t, PoolConfig{ConnMaxLifetime: "10m"})
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	openAndPing(t, cfg, log)
}

func TestSetupDatabase_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *DatabaseConfig
		wantSub string
	}{
		{
			name:    "unsupported driver",
			cfg:     &DatabaseConfig{Driver: "mysql"},
			wantSub: "unsupported database driver: mysql",
		},
		{
			name: "malformed lifetime",
			cfg: sqliteConfig(t, PoolConfig{
				ConnMaxLifetime: "not-a-duration",
			}),
			wantSub: "conn_max_lifetime",
		},
		{
			name: "negative lifetime",
			cfg: sqliteConfig(t, PoolConfig{
				ConnMaxLifetime: "-1s",
			}),
			wantSub: "pool.conn_max_lifetime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SetupDatabase(tt.cfg, quietLogger())
			if err == nil {
				t.Fatal("SetupDatabase() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestEffectiveDefaults(t *testing.T) {
	if got := effectiveMaxIdleConns(0); got != 10 {
		t.Errorf("effectiveMaxIdleConns(0) = %d, want 10", got)
	}
	if got := effectiveMaxIdleConns(5); got != 5 {
		t.Errorf("effectiveMaxIdleConns(5) = %d, want 5", got)
	}
	if got := effectiveMaxOpenConns(0); got != 100 {
		t.Errorf("effectiveMaxOpenConns(0) = %d, want 100", got)
	}
	if got := effectiveMaxOpenConns(50); got != 50 {
		t.Errorf("effectiveMaxOpenConns(50) = %d, want 50", got)
	}
	for _, in := range []string{"", "   "} {
		if got := effectiveConnMaxLifetime(in); got != "1h" {
			t.Errorf("effectiveConnMaxLifetime(%q) = %q, want 1h", in, got)
		}
	}
	if got := effectiveConnMaxLifetime("30m"); got != "30m" {
		t.Errorf("effectiveConnMaxLifetime(30m) = %q, want 30m", got)
	}
}
