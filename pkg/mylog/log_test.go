package mylog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestTelegramWorthy(t *testing.T) {
	info := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	if telegramWorthy(context.Background(), info) {
		t.Fatal("plain info record should stay local")
	}

	tagged := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	tagged.AddAttrs(slog.Bool("telegram", true))
	if !telegramWorthy(context.Background(), tagged) {
		t.Fatal("tagged record should be forwarded")
	}

	failure := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	if !telegramWorthy(context.Background(), failure) {
		t.Fatal("error record should be forwarded")
	}
}

func TestInitWritesJSONFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "app.log")
	closeFn, err := Init(Options{Level: "info", File: path})
	if err != nil {
		t.Fatalf("Init err: %v", err)
	}

	slog.Info("session opened", "sessionId", "abc")
	slog.Debug("hidden")
	if err := closeFn(); err != nil {
		t.Fatalf("close err: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"msg":"session opened"`) || !strings.Contains(content, `"sessionId":"abc"`) {
		t.Fatalf("unexpected log content: %s", content)
	}
	if strings.Contains(content, "hidden") {
		t.Fatalf("debug record should be filtered: %s", content)
	}
}

func TestInitBadFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	if _, err := Init(Options{File: filepath.Join(t.TempDir(), "missing", "app.log")}); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
