package mylog

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/phsym/console-slog"
	"github.com/samber/oops"
	slogmulti "github.com/samber/slog-multi"
	slogtelegram "github.com/samber/slog-telegram/v2"
)

// Options controls where records go once configuration is known.
type Options struct {
	Level          string
	File           string
	TelegramToken  string
	TelegramChatID string
}

// Preinit installs a console logger usable before configuration is loaded.
func Preinit() {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	})))
}

// Init replaces the default logger. The returned func closes the log file, if any.
func Init(opts Options) (func() error, error) {
	level := ParseLevel(opts.Level)
	closer := func() error { return nil }

	router := slogmulti.Router()

	router = router.Add(console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource: true,
		Level:     level,
	}))

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return closer, oops.In("mylog").With("file", opts.File).Wrapf(err, "open log file")
		}
		closer = f.Close

		router = router.Add(slog.NewJSONHandler(f, &slog.HandlerOptions{
			AddSource: true,
			Level:     level,
		}))
	}

	if opts.TelegramToken != "" {
		router = router.Add(
			slogtelegram.Option{
				Level:     slog.LevelDebug,
				Token:     opts.TelegramToken,
				Username:  opts.TelegramChatID,
				AddSource: true,
			}.NewTelegramHandler(),
			telegramWorthy,
		)
	}

	slog.SetDefault(slog.New(router.Handler()))

	return closer, nil
}

// telegramWorthy forwards errors and any record tagged with a "telegram" attribute.
func telegramWorthy(_ context.Context, r slog.Record) bool {
	tagged := false

	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "telegram" {
			tagged = true
			return false
		}
		return true
	})

	return r.Level >= slog.LevelError || tagged
}

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown values select info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
