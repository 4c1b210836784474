package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/chriscorrea/kpe/internal/config"

	"github.com/spf13/cobra"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().String("config", "", "")
	cmd.Flags().Bool("quiet", false, "")
	cmd.Flags().Bool("debug", false, "")
	cmd.Flags().String("log-level", "warn", "")
	cmd.Flags().IntP("size", "n", 5, "")
	cmd.Flags().IntP("top", "k", 30, "")
	cmd.Flags().String("method", "", "")
	cmd.Flags().StringSlice("languages", nil, "")
	return cmd
}

func TestLoadConfigPrecedence(t *testing.T) {
	for _, key := range []string{"KPE_CONFIG", "KPE_LOG_LEVEL", "KPE_LANGUAGE", "KPE_METHOD", "KPE_WORKERS"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "kpe.yaml")
	if err := os.WriteFile(path, []byte("k: 12\nn: 2\nmethod: textrank\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("KPE_METHOD", "tfidf")

	cmd := newTestCommand()
	if err := cmd.ParseFlags([]string{"--config", path, "-k", "7", "--languages", "en,fr"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	base := config.Default()
	base.N = 5
	cfg, err := loadConfig(cmd, base)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.K != 7 {
		t.Errorf("K = %d, want flag value 7", cfg.K)
	}
	if cfg.N != 2 {
		t.Errorf("N = %d, want yaml value 2 over unset flag", cfg.N)
	}
	if cfg.Method != config.MethodTFIDF {
		t.Errorf("Method = %q, want env value over yaml", cfg.Method)
	}
	if len(cfg.Languages) != 2 {
		t.Errorf("Languages = %v", cfg.Languages)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("KPE_CONFIG", "")
	t.Setenv("KPE_METHOD", "")
	t.Chdir(t.TempDir())

	cmd := newTestCommand()
	if err := cmd.ParseFlags([]string{"--method", "yake"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if _, err := loadConfig(cmd, config.Default()); err == nil {
		t.Error("expected validation error for unknown method")
	}
}

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	tests := []struct {
		debug bool
		level string
		want  slog.Level
	}{
		{true, "error", slog.LevelDebug},
		{false, "info", slog.LevelInfo},
		{false, "ERROR", slog.LevelError},
		{false, "", slog.LevelWarn},
	}
	for _, tt := range tests {
		setupLogger(tt.debug, tt.level)
		h := slog.Default().Handler()
		if !h.Enabled(context.Background(), tt.want) {
			t.Errorf("setupLogger(%v, %q) disables %v", tt.debug, tt.level, tt.want)
		}
		if tt.want > slog.LevelDebug && h.Enabled(context.Background(), tt.want-4) {
			t.Errorf("setupLogger(%v, %q) enables level below %v", tt.debug, tt.level, tt.want)
		}
	}
}
