package service

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oleksiik/task-reminder-bot/internal/dal"
)

// TaskEntrySeparator splits a task entry into description and reminder time.
const TaskEntrySeparator = ";"

// TaskTimeLayout is the explicit reminder time format users are asked to use.
const TaskTimeLayout = "2006-01-02 15:04"

const taskEntryParts = 2

var ErrInvalidTaskFormat = errors.New("invalid task format")

type TasksStore interface {
	AppendTask(t dal.Task) dal.Task
	GetAllTasks() []dal.Task
	DeleteTaskByPosition(pos int) (dal.Task, bool)
}

type Tasks struct {
	store TasksStore

	log *slog.Logger
}

func NewTasks(store TasksStore, log *slog.Logger) *Tasks {
	return &Tasks{
		store: store,
		log:   log.With("component", "service").With("service", "tasks"),
	}
}

// AddFromInput parses a "description;YYYY-MM-DD HH:MM" entry and stores a new
// task for the chat. ErrInvalidTaskFormat is returned on any malformed entry;
// the store is untouched in that case.
func (s *Tasks) AddFromInput(chatID int64, input string) (dal.Task, error) {
	parts := strings.Split(input, TaskEntrySeparator)
	if len(parts) != taskEntryParts {
		return dal.Task{}, ErrInvalidTaskFormat
	}

	remindAt, err := time.Parse(TaskTimeLayout, strings.TrimSpace(parts[1]))
	if err != nil {
		return dal.Task{}, ErrInvalidTaskFormat
	}

	task := s.store.AppendTask(dal.Task{
		ChatID:      chatID,
		Description: parts[0],
		RemindAt:    remindAt,
	})

	s.log.Debug("task added",
		"chatID", chatID,
		"taskID", task.ID,
		"remindAt", task.RemindAt)

	return task, nil
}

// List returns all tasks in insertion order. Listings are global across chats.
func (s *Tasks) List() []dal.Task {
	return s.store.GetAllTasks()
}

// DeleteByPosition removes the task at the given 1-indexed position as shown
// by List. The position is resolved by the store at call time, so the result
// reflects the list as it is now, not as it was last displayed.
func (s *Tasks) DeleteByPosition(pos int) (dal.Task, bool) {
	task, ok := s.store.DeleteTaskByPosition(pos)
	if !ok {
		return dal.Task{}, false
	}

	s.log.Debug("task deleted",
		"taskID", task.ID,
		"position", pos)

	return task, true
}
