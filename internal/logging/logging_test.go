package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"liftlog/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestForTelegram(t *testing.T) {
	record := func(level slog.Level, attrs ...slog.Attr) slog.Record {
		r := slog.NewRecord(time.Now(), level, "msg", 0)
		r.AddAttrs(attrs...)
		return r
	}

	tests := []struct {
		name string
		r    slog.Record
		want bool
	}{
		{"info", record(slog.LevelInfo), false},
		{"warn", record(slog.LevelWarn, slog.String("k", "v")), false},
		{"error", record(slog.LevelError), true},
		{"tagged info", record(slog.LevelInfo, slog.Bool(TelegramKey, true)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := forTelegram(context.Background(), tt.r); got != tt.want {
				t.Errorf("forTelegram() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitWritesLogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Log.Level = "debug"

	closer, err := Init(cfg, Options{})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	slog.Debug("hello from test", "group", "Leg Day")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.DataDir, "liftlog.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing record:\n%s", data)
	}
}
