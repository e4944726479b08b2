package testutil

import (
	"time"

	"github.com/oleksiik/task-reminder-bot/internal/dal"
)

// TaskBuilder provides a fluent API for building test tasks
type TaskBuilder struct {
	task dal.Task
}

// NewTask creates a new task builder with defaults
func NewTask(chatID int64) *TaskBuilder {
	return &TaskBuilder{
		task: dal.Task{
			ChatID:      chatID,
			Description: "test task",
			RemindAt:    time.Date(2099, time.January, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

// WithDescription sets the task description
func (b *TaskBuilder) WithDescription(description string) *TaskBuilder {
	b.task.Description = description
	return b
}

// WithRemindAt sets the reminder time
func (b *TaskBuilder) WithRemindAt(t time.Time) *TaskBuilder {
	b.task.RemindAt = t
	return b
}

// WithID sets the task ID (normally assigned by the store)
func (b *TaskBuilder) WithID(id int64) *TaskBuilder {
	b.task.ID = id
	return b
}

// Delivered marks the task as delivered
func (b *TaskBuilder) Delivered() *TaskBuilder {
	b.task.Delivered = true
	return b
}

// Build returns the constructed task
func (b *TaskBuilder) Build() dal.Task {
	return b.task
}
