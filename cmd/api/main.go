package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"

	"github.com/mapplock/mapplock-web/backend/internal/config"
	"github.com/mapplock/mapplock-web/backend/internal/handler"
	"github.com/mapplock/mapplock-web/backend/internal/knowledge"
	"github.com/mapplock/mapplock-web/backend/internal/model/widget"
	"github.com/mapplock/mapplock-web/backend/internal/service/chat"
	"github.com/mapplock/mapplock-web/backend/internal/service/turn"
	"github.com/mapplock/mapplock-web/backend/pkg/mylog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mylog.Preinit()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file, using system environment only", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	closeLog, err := mylog.Init(mylog.Options{
		Level:          cfg.Log.Level,
		File:           cfg.Log.File,
		TelegramToken:  cfg.Log.TelegramToken,
		TelegramChatID: cfg.Log.TelegramChatID,
	})
	if err != nil {
		slog.Error("Failed to init logging", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	di := do.New()
	do.ProvideValue(di, cfg)
	do.Provide(di, newWidgetStore)
	do.Provide(di, newKnowledgeBase)
	do.Provide(di, newChatService)

	if err := run(ctx, di); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Waiting for services to finish...")
	if err := di.Shutdown(); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

func run(ctx context.Context, di *do.Injector) error {
	cfg := do.MustInvoke[*config.Config](di)

	widgets, err := do.Invoke[widget.Store](di)
	if err != nil {
		return err
	}
	kb, err := do.Invoke[*knowledge.Base](di)
	if err != nil {
		return err
	}
	chatSvc := do.MustInvoke[*chat.Service](di)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.NewRouter(widgets, chatSvc, kb),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("MappLock chat backend listening", "addr", cfg.Server.Addr)
		return runServer(gctx, srv)
	})

	g.Go(func() error {
		return chatSvc.RunJanitor(gctx, cfg.Chat.JanitorInterval, cfg.Chat.SessionTTL)
	})

	return g.Wait()
}

func newWidgetStore(di *do.Injector) (widget.Store, error) {
	cfg := do.MustInvoke[*config.Config](di)

	items, err := widget.LoadFile(cfg.Chat.WidgetsPath)
	if err != nil {
		return nil, err
	}
	slog.Info("Widget catalogue loaded", "widgets", len(items))
	return widget.NewMemoryStore(items), nil
}

func newKnowledgeBase(di *do.Injector) (*knowledge.Base, error) {
	cfg := do.MustInvoke[*config.Config](di)
	return knowledge.Load(cfg.Knowledge.Path)
}

func newChatService(di *do.Injector) (*chat.Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	widgets, err := do.Invoke[widget.Store](di)
	if err != nil {
		return nil, err
	}

	timing := turn.DefaultTiming()
	timing.TypingMin = cfg.Chat.TypingMin
	timing.TypingMax = cfg.Chat.TypingMax
	timing.FollowUpDelay = cfg.Chat.FollowUpDelay

	return chat.NewService(widgets, chat.Config{Timing: timing}), nil
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
