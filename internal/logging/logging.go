// Package logging configures the process-wide slog logger.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"liftlog/internal/config"

	"github.com/phsym/console-slog"
	"github.com/samber/oops"
	slogmulti "github.com/samber/slog-multi"
	slogtelegram "github.com/samber/slog-telegram/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TelegramKey tags a record for delivery to Telegram regardless of its level.
const TelegramKey = "telegram"

// Options selects the sinks used by Init.
type Options struct {
	// Stderr also logs to the terminal. The TUI leaves it off since it owns
	// the screen.
	Stderr bool
}

// Preinit logs to stderr until the configuration is known.
func Preinit() {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: slog.LevelWarn,
	})))
}

// Init routes logs to the rotating log file, optionally to stderr, and to
// Telegram when a bot token is configured. The returned closer releases the
// log file.
func Init(cfg *config.Config, opts Options) (io.Closer, error) {
	level := ParseLevel(cfg.Log.Level)

	path := cfg.LogFile()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, oops.Errorf("failed to create log directory: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	router := slogmulti.Router()
	router = router.Add(console.NewHandler(file, &console.HandlerOptions{
		AddSource: true,
		Level:     level,
		NoColor:   true,
	}))

	if opts.Stderr {
		router = router.Add(console.NewHandler(os.Stderr, &console.HandlerOptions{
			Level: level,
		}))
	}

	if cfg.Log.Telegram.Token != "" {
		router = router.Add(
			slogtelegram.Option{
				Level:     slog.LevelDebug,
				Token:     cfg.Log.Telegram.Token,
				Username:  cfg.Log.Telegram.ChatID,
				AddSource: true,
			}.NewTelegramHandler(),
			forTelegram,
		)
	}

	slog.SetDefault(slog.New(router.Handler()))
	return file, nil
}

// forTelegram accepts error records and records carrying the telegram attr.
func forTelegram(_ context.Context, r slog.Record) bool {
	if r.Level >= slog.LevelError {
		return true
	}

	tagged := false
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == TelegramKey {
			tagged = true
			return false
		}
		return true
	})
	return tagged
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
