package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/simp-lee/logger"
)

func boolPtr(b bool) *bool { return &b }

func TestSetupLogger_LevelMapping(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"unknown runs at info", "verbose", slog.LevelInfo},
		{"empty runs at info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := SetupLogger(&LogConfig{Level: tt.level, Format: "text"})
			if err != nil {
				t.Fatalf("SetupLogger() error = %v", err)
			}
			defer log.Close()

			if !log.Enabled(context.TODO(), tt.wantLevel) {
				t.Errorf("level %v should be enabled", tt.wantLevel)
			}
			if tt.wantLevel > slog.LevelDebug && log.Enabled(context.TODO(), tt.wantLevel-1) {
				t.Errorf("level %v should be disabled", tt.wantLevel-1)
			}
		})
	}
}

func TestSetupLogger_NilConfig(t *testing.T) {
	if _, err := SetupLogger(nil); err == nil {
		t.Fatal("SetupLogger(nil) should fail")
	}
}

func TestSetupLogger_SetsDefault(t *testing.T) {
	log, err := SetupLogger(&LogConfig{Level: "warn", Format: "text"})
	if err != nil {
		t.Fatalf("SetupLogger() error = %v", err)
	}
	defer log.Close()

	if slog.Default().Handler() != log.Handler() {
		t.Error("SetupLogger did not install itself as slog.Default()")
	}
}

func TestBuildLoggerOpts(t *testing.T) {
	// Console-only configs emit four options: level, context middleware,
	// console format, and console color. A file path adds two more, and each
	// rotation field set in the config adds one.
	const consoleOnly = 4
	const withFile = consoleOnly + 2

	tests := []struct {
		name      string
		cfg       *LogConfig
		wantCount int
	}{
		{
			name:      "console only",
			cfg:       &LogConfig{Level: "info", Format: "text"},
			wantCount: consoleOnly,
		},
		{
			name:      "color off is still one console color option",
			cfg:       &LogConfig{Level: "info", Format: "text", Color: boolPtr(false)},
			wantCount: consoleOnly,
		},
		{
			name:      "file path adds file output",
			cfg:       &LogConfig{Level: "info", Format: "json", FilePath: "/tmp/karirkit.log"},
			wantCount: withFile,
		},
		{
			name: "unset rotation fields add nothing",
			cfg: &LogConfig{
				Level: "info", Format: "text", FilePath: "/tmp/karirkit.log",
				MaxSizeMB: 0, RetentionDays: 0, MaxBackups: 0,
			},
			wantCount: withFile,
		},
		{
			name: "each rotation field adds one option",
			cfg: &LogConfig{
				Level: "info", Format: "json", FilePath: "/tmp/karirkit.log",
				MaxSizeMB: 50, RetentionDays: 30, MaxBackups: 5,
				CompressRotated: boolPtr(true),
			},
			wantCount: withFile + 4,
		},
		{
			name: "compression off still counts as a choice",
			cfg: &LogConfig{
				Level: "info", Format: "text", FilePath: "/tmp/karirkit.log",
				CompressRotated: boolPtr(false),
			},
			wantCount: withFile + 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := buildLoggerOpts(tt.cfg)
			if len(opts) != tt.wantCount {
				t.Errorf("len(opts) = %d, want %d", len(opts), tt.wantCount)
			}
		})
	}

	if opts := buildLoggerOpts(nil); opts != nil {
		t.Errorf("buildLoggerOpts(nil) = %d options, want nil", len(opts))
	}
}

func TestBuildLoggerOpts_ProducesWorkingLogger(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "opts.log")

	tests := []struct {
		name string
		cfg  *LogConfig
	}{
		{"console text", &LogConfig{Level: "debug", Format: "text"}},
		{"console json without color", &LogConfig{Level: "warn", Format: "json", Color: boolPtr(false)}},
		{
			"console and rotating file",
			&LogConfig{
				Level: "info", Format: "json", FilePath: filePath,
				MaxSizeMB: 10, RetentionDays: 7, MaxBackups: 3,
				CompressRotated: boolPtr(true),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.New(buildLoggerOpts(tt.cfg)...)
			if err != nil {
				t.Fatalf("logger.New() error = %v", err)
			}
			log.Close()
		})
	}
}
