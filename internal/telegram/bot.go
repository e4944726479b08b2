package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tb "gopkg.in/telebot.v3"
)

type Bot struct {
	bot *tb.Bot

	handler *Handler

	log *slog.Logger
}

func NewBot(token string, handler *Handler, log *slog.Logger) (*Bot, error) {
	bot, err := tb.NewBot(tb.Settings{
		Token:  token,
		Poller: &tb.LongPoller{Timeout: 5 * time.Second}, //nolint:mnd // it's ok
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Bot{
		bot: bot,

		handler: handler,

		log: log.With("component", "bot"),
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	b.bot.Use(StoppedChatGate(b.handler.sessions, b.log))

	// Register command handlers
	b.bot.Handle(cmdStart, b.handler.Start)
	b.bot.Handle(cmdStop, b.handler.Stop)

	// Register menu button handlers
	b.bot.Handle(&b.handler.markups.addTaskBtn, b.handler.AddTaskPrompt)
	b.bot.Handle(&b.handler.markups.listTasksBtn, b.handler.ListTasks)
	b.bot.Handle(&b.handler.markups.deleteTaskBtn, b.handler.DeleteTaskPrompt)

	// Everything else: delete index, task entry or silent drop
	b.bot.Handle(tb.OnText, b.handler.Text)

	go func() {
		<-ctx.Done()
		b.log.Info("Stopping bot")
		b.bot.Stop()
	}()

	b.bot.Start()

	return nil
}
