package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tc "github.com/Roma7-7-7/telegram"

	"github.com/oleksiik/task-reminder-bot/internal/config"
	"github.com/oleksiik/task-reminder-bot/internal/dal"
	"github.com/oleksiik/task-reminder-bot/internal/service"
	"github.com/oleksiik/task-reminder-bot/internal/telegram"
	"github.com/oleksiik/task-reminder-bot/pkg/clock"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conf, err := config.New(ctx)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := mustLogger(conf.Dev)

	store := dal.NewMemory()
	sender := tc.NewClient(http.DefaultClient, conf.TelegramToken)

	tasksSvc := service.NewTasks(store, log)
	sessionsSvc := service.NewSessions(store, log)
	remindersSvc := service.NewReminders(store, sender, clock.New(), log)

	handler := telegram.NewHandler(tasksSvc, sessionsSvc, log)
	bot, err := telegram.NewBot(conf.TelegramToken, handler, log)
	if err != nil {
		log.Error("Failed to create telegram bot", "error", err)
		os.Exit(1)
	}

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		deliverReminders(ctx, remindersSvc, conf.ScanInterval, log.With("component", "schedule").With("action", "remind"))
	}()

	log.Info("Starting bot")
	err = bot.Start(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Error("Failed to start bot", "error", err)
		}
	}

	wg.Wait()
	log.Info("Stopped bot")
}

func deliverReminders(ctx context.Context, svc *service.Reminders, delay time.Duration, log *slog.Logger) {
	defer func() {
		log.InfoContext(ctx, "Stopped reminder schedule")
	}()

	log.InfoContext(ctx, "Starting reminder schedule", "interval", delay)
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
			err := svc.DeliverDue(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				if errors.Is(err, context.DeadlineExceeded) {
					log.WarnContext(ctx, "Error delivering reminders", "error", err)
					continue
				}

				log.ErrorContext(ctx, "Error delivering reminders", "error", err)
			}
		}
	}
}

func mustLogger(dev bool) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if dev {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
