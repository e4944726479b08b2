package dal

import (
	"sync"
	"time"
)

type (
	// Task is a single user-entered reminder.
	Task struct {
		ID          int64     `json:"id"`
		ChatID      int64     `json:"chat_id"`
		Description string    `json:"description"`
		RemindAt    time.Time `json:"remind_at"`
		Delivered   bool      `json:"delivered"`
	}

	// Memory holds all bot state in process memory: the task list in insertion
	// order and the set of stopped chats. A single lock serializes the message
	// handlers against the reminder scanner.
	Memory struct {
		mx sync.RWMutex

		nextID  int64
		tasks   []Task
		stopped map[int64]struct{}
	}
)

func NewMemory() *Memory {
	return &Memory{
		stopped: make(map[int64]struct{}),
	}
}

// AppendTask assigns a stable ID to the task, resets its delivery flag and
// appends it to the list. The stored copy is returned.
func (m *Memory) AppendTask(t Task) Task {
	m.mx.Lock()
	defer m.mx.Unlock()

	m.nextID++
	t.ID = m.nextID
	t.Delivered = false
	m.tasks = append(m.tasks, t)

	return t
}

func (m *Memory) GetAllTasks() []Task {
	m.mx.RLock()
	defer m.mx.RUnlock()

	res := make([]Task, len(m.tasks))
	copy(res, m.tasks)
	return res
}

func (m *Memory) CountTasks() int {
	m.mx.RLock()
	defer m.mx.RUnlock()

	return len(m.tasks)
}

// TaskByPosition returns the task at the given 1-indexed display position.
func (m *Memory) TaskByPosition(pos int) (Task, bool) {
	m.mx.RLock()
	defer m.mx.RUnlock()

	if pos < 1 || pos > len(m.tasks) {
		return Task{}, false
	}
	return m.tasks[pos-1], true
}

// DeleteTaskByPosition removes the task at the given 1-indexed display
// position. The position is resolved under the lock at call time, so a
// concurrent scanner removal can make the position a miss but never a torn
// mutation.
func (m *Memory) DeleteTaskByPosition(pos int) (Task, bool) {
	m.mx.Lock()
	defer m.mx.Unlock()

	if pos < 1 || pos > len(m.tasks) {
		return Task{}, false
	}

	t := m.tasks[pos-1]
	m.tasks = append(m.tasks[:pos-1], m.tasks[pos:]...)
	return t, true
}

// GetDueTasks returns undelivered tasks whose reminder time has passed, in
// insertion order.
func (m *Memory) GetDueTasks(now time.Time) []Task {
	m.mx.RLock()
	defer m.mx.RUnlock()

	var res []Task
	for _, t := range m.tasks {
		if !t.Delivered && !t.RemindAt.After(now) {
			res = append(res, t)
		}
	}
	return res
}

func (m *Memory) MarkDelivered(id int64) bool {
	m.mx.Lock()
	defer m.mx.Unlock()

	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Delivered = true
			return true
		}
	}
	return false
}

// PurgeDelivered removes all delivered tasks and reports how many were
// removed. Together with MarkDelivered it makes the delivered flag transient:
// it never survives past the scan cycle that set it.
func (m *Memory) PurgeDelivered() int {
	m.mx.Lock()
	defer m.mx.Unlock()

	kept := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.Delivered {
			kept = append(kept, t)
		}
	}
	removed := len(m.tasks) - len(kept)
	m.tasks = kept
	return removed
}

// PurgeChatTasks removes every task belonging to the chat, delivered or not.
func (m *Memory) PurgeChatTasks(chatID int64) int {
	m.mx.Lock()
	defer m.mx.Unlock()

	kept := m.tasks[:0]
	for _, t := range m.tasks {
		if t.ChatID != chatID {
			kept = append(kept, t)
		}
	}
	removed := len(m.tasks) - len(kept)
	m.tasks = kept
	return removed
}

func (m *Memory) StopChat(chatID int64) {
	m.mx.Lock()
	defer m.mx.Unlock()

	m.stopped[chatID] = struct{}{}
}

func (m *Memory) ResumeChat(chatID int64) {
	m.mx.Lock()
	defer m.mx.Unlock()

	delete(m.stopped, chatID)
}

func (m *Memory) IsStopped(chatID int64) bool {
	m.mx.RLock()
	defer m.mx.RUnlock()

	_, ok := m.stopped[chatID]
	return ok
}
