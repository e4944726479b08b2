package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Roma7-7-7/telegram"

	"github.com/oleksiik/task-reminder-bot/internal/dal"
)

//go:generate mockgen -package mocks -destination mocks/telegram.go . TelegramClient

const reminderMessagePrefix = "Напоминание: "

type (
	TelegramClient interface {
		SendMessage(ctx context.Context, chatID, text string) error
	}

	RemindersStore interface {
		GetDueTasks(now time.Time) []dal.Task
		MarkDelivered(id int64) bool
		PurgeDelivered() int
		PurgeChatTasks(chatID int64) int
	}

	Clock interface {
		Now() time.Time
	}

	Reminders struct {
		store    RemindersStore
		telegram TelegramClient
		clock    Clock

		log *slog.Logger
		mx  *sync.Mutex
	}
)

func NewReminders(store RemindersStore, telegram TelegramClient, clock Clock, log *slog.Logger) *Reminders {
	return &Reminders{
		store:    store,
		telegram: telegram,
		clock:    clock,

		log: log.With("component", "service").With("service", "reminders"),
		mx:  &sync.Mutex{},
	}
}

// DeliverDue runs one scan cycle: every undelivered task whose reminder time
// has passed gets a notification to its chat, in insertion order, and is then
// removed from the list. A failed send leaves the task undelivered so the next
// cycle retries it; a forbidden response means the user blocked the bot, so
// that chat's tasks are purged instead.
func (s *Reminders) DeliverDue(ctx context.Context) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	due := s.store.GetDueTasks(s.clock.Now())
	if len(due) == 0 {
		return nil
	}
	s.log.DebugContext(ctx, "delivering due reminders", "count", len(due))

	purgedChats := make(map[int64]struct{})
	for _, task := range due {
		if _, ok := purgedChats[task.ChatID]; ok {
			continue
		}

		if err := s.deliver(ctx, task); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			if errors.Is(err, telegram.ErrForbidden) {
				s.log.InfoContext(ctx, "bot is blocked by user. purging chat tasks",
					"chatID", task.ChatID,
					"error", err)
				purged := s.store.PurgeChatTasks(task.ChatID)
				purgedChats[task.ChatID] = struct{}{}
				s.log.InfoContext(ctx, "purged chat tasks", "chatID", task.ChatID, "count", purged)
				continue
			}

			s.log.ErrorContext(ctx, "failed to deliver reminder. will retry next cycle",
				"chatID", task.ChatID,
				"taskID", task.ID,
				"error", err)
			continue
		}

		s.store.MarkDelivered(task.ID)
	}

	if removed := s.store.PurgeDelivered(); removed > 0 {
		s.log.InfoContext(ctx, "delivered reminders", "count", removed)
	}

	return nil
}

func (s *Reminders) deliver(ctx context.Context, task dal.Task) error {
	chatID := strconv.FormatInt(task.ChatID, 10)
	if err := s.telegram.SendMessage(ctx, chatID, reminderMessagePrefix+task.Description); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}
