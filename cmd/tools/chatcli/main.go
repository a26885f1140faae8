package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/mapplock/mapplock-web/backend/internal/config"
	chatmodel "github.com/mapplock/mapplock-web/backend/internal/model/chat"
	"github.com/mapplock/mapplock-web/backend/internal/model/widget"
	"github.com/mapplock/mapplock-web/backend/internal/service/chat"
	"github.com/mapplock/mapplock-web/backend/internal/service/turn"
	"github.com/mapplock/mapplock-web/backend/pkg/mylog"
)

func main() {
	mylog.Preinit()

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file, using system environment only", "error", err)
	}

	widgetID := flag.String("widget", "assistant", "widget profile id")
	fast := flag.Bool("fast", false, "skip typing and follow-up delays")
	wait := flag.Duration("wait", 10*time.Second, "max time to wait for the bot after each line")
	verbose := flag.Bool("v", false, "print turn states and typing indicator")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if _, err := mylog.Init(mylog.Options{Level: "warn"}); err != nil {
		slog.Error("Failed to init logging", "error", err)
		os.Exit(1)
	}

	items, err := widget.LoadFile(cfg.Chat.WidgetsPath)
	if err != nil {
		slog.Error("Failed to load widgets", "error", err)
		os.Exit(1)
	}
	store := widget.NewMemoryStore(items)

	timing := turn.DefaultTiming()
	timing.TypingMin = cfg.Chat.TypingMin
	timing.TypingMax = cfg.Chat.TypingMax
	timing.FollowUpDelay = cfg.Chat.FollowUpDelay
	if *fast {
		timing.TypingMin, timing.TypingMax, timing.FollowUpDelay = 0, 0, 0
	}

	svc := chat.NewService(store, chat.Config{Timing: timing})
	defer svc.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := converse(ctx, svc, *widgetID, *wait, *verbose); err != nil {
		slog.Error("Conversation failed", "error", err)
		os.Exit(1)
	}
}

func converse(ctx context.Context, svc *chat.Service, widgetID string, wait time.Duration, verbose bool) error {
	session, err := svc.CreateSession(ctx, widgetID)
	if err != nil {
		return err
	}

	events, cancel, err := svc.Subscribe(ctx, session.ID)
	if err != nil {
		return err
	}
	defer cancel()

	idle := make(chan struct{}, 1)
	go printEvents(events, idle, verbose)

	fmt.Printf("session %s with %q, empty line or Ctrl+D to quit\n", session.ID, widgetID)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok || line == "" {
				return nil
			}

			accepted, err := svc.Submit(ctx, session.ID, line)
			if err != nil {
				return err
			}
			if !accepted {
				continue
			}

			select {
			case <-idle:
			case <-time.After(wait):
				fmt.Println("(no reply yet)")
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func printEvents(events <-chan turn.Event, idle chan<- struct{}, verbose bool) {
	for e := range events {
		switch e.Type {
		case turn.EventMessage:
			if e.Message.Sender == chatmodel.SenderBot {
				fmt.Printf("bot [%s]> %s\n", e.Message.Kind, e.Message.Content)
			}
		case turn.EventTyping:
			if verbose {
				fmt.Printf("(typing=%t)\n", e.Typing)
			}
		case turn.EventState:
			if verbose {
				fmt.Printf("(state=%s)\n", e.State)
			}
			if e.State == turn.StateIdle {
				select {
				case idle <- struct{}{}:
				default:
				}
			}
		}
	}
}
