package telegram

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tb "gopkg.in/telebot.v3"

	"github.com/oleksiik/task-reminder-bot/internal/dal"
	"github.com/oleksiik/task-reminder-bot/internal/service"
)

const (
	cmdStart = "/start"
	cmdStop  = "/stop"

	// Button text constants
	btnTextAddTask    = "Добавить задачу"
	btnTextListTasks  = "Посмотреть задачи"
	btnTextDeleteTask = "Удалить задачу"

	// Message text constants
	msgGreeting        = "Привет! Я бот для задач. Используйте кнопки ниже для управления задачами."
	msgFarewell        = "Разговор завершен. До свидания!"
	msgSessionEnded    = "Разговор завершен. Используйте /start для нового сеанса."
	msgTaskFormat      = "Введите задачу в формате: описание;ГГГГ-ММ-ДД ЧЧ:ММ"
	msgInvalidFormat   = "Неверный формат. Используйте: описание;ГГГГ-ММ-ДД ЧЧ:ММ"
	msgTaskAdded       = "Задача добавлена!"
	msgNoTasks         = "Задач пока нет."
	msgNoTasksToDelete = "Нет задач для удаления."
	msgTasksHeader     = "Ваши задачи:"
	msgDeleteHeader    = "Выберите задачу для удаления (введите номер):"
)

// listTimeLayout is the reminder time format used in listings.
const listTimeLayout = "2006-01-02 15:04:05"

type (
	Tasks interface {
		AddFromInput(chatID int64, input string) (dal.Task, error)
		List() []dal.Task
		DeleteByPosition(pos int) (dal.Task, bool)
	}

	Sessions interface {
		Stop(chatID int64)
		Resume(chatID int64)
		IsStopped(chatID int64) bool
	}
)

type Handler struct {
	tasks    Tasks
	sessions Sessions

	markups *markups

	log *slog.Logger
}

func NewHandler(tasks Tasks, sessions Sessions, log *slog.Logger) *Handler {
	return &Handler{
		tasks:    tasks,
		sessions: sessions,
		markups:  newMarkups(),
		log:      log.With("component", "handler"),
	}
}

func (h *Handler) Start(c tb.Context) error {
	chatID := c.Sender().ID

	h.sessions.Resume(chatID)
	h.log.Debug("start handler called", "chatID", chatID)

	return c.Send(msgGreeting, h.markups.main)
}

func (h *Handler) Stop(c tb.Context) error {
	chatID := c.Sender().ID

	h.sessions.Stop(chatID)
	h.log.Info("user stopped conversation", "chatID", chatID)

	return c.Send(msgFarewell)
}

func (h *Handler) AddTaskPrompt(c tb.Context) error {
	h.log.Debug("add task prompt called", "chatID", c.Sender().ID)
	return c.Send(msgTaskFormat)
}

func (h *Handler) ListTasks(c tb.Context) error {
	h.log.Debug("list tasks called", "chatID", c.Sender().ID)

	tasks := h.tasks.List()
	if len(tasks) == 0 {
		return c.Send(msgNoTasks)
	}

	return c.Send(formatTaskList(msgTasksHeader, tasks))
}

func (h *Handler) DeleteTaskPrompt(c tb.Context) error {
	h.log.Debug("delete task prompt called", "chatID", c.Sender().ID)

	tasks := h.tasks.List()
	if len(tasks) == 0 {
		return c.Send(msgNoTasksToDelete)
	}

	return c.Send(formatTaskList(msgDeleteHeader, tasks))
}

// Text routes free-form text: a number within the current task count deletes
// that task, an entry with the separator adds a task, anything else is
// dropped without a reply.
func (h *Handler) Text(c tb.Context) error {
	chatID := c.Sender().ID
	text := c.Text()

	if pos, err := strconv.Atoi(text); err == nil && pos > 0 {
		task, ok := h.tasks.DeleteByPosition(pos)
		if !ok {
			// out-of-range number is ordinary unmatched text
			h.log.Debug("delete position out of range", "chatID", chatID, "position", pos)
			return nil
		}

		h.log.Info("user deleted task", "chatID", chatID, "taskID", task.ID)
		return c.Send(fmt.Sprintf("Задача %q удалена.", task.Description))
	}

	if strings.Contains(text, service.TaskEntrySeparator) {
		task, err := h.tasks.AddFromInput(chatID, text)
		if err != nil {
			if !errors.Is(err, service.ErrInvalidTaskFormat) {
				h.log.Error("failed to add task", "chatID", chatID, "error", err)
			}
			return c.Send(msgInvalidFormat)
		}

		h.log.Info("user added task", "chatID", chatID, "taskID", task.ID, "remindAt", task.RemindAt)
		return c.Send(msgTaskAdded)
	}

	h.log.Debug("unmatched text ignored", "chatID", chatID)
	return nil
}

func formatTaskList(header string, tasks []dal.Task) string {
	var b strings.Builder
	b.WriteString(header)
	for i, t := range tasks {
		b.WriteString(fmt.Sprintf("\n%d. %s (Напоминание: %s)", i+1, t.Description, t.RemindAt.Format(listTimeLayout)))
	}
	return b.String()
}

// markups holds the persistent reply keyboard shown on /start and its
// buttons, which double as handler endpoints.
type markups struct {
	main *tb.ReplyMarkup

	addTaskBtn    tb.Btn
	listTasksBtn  tb.Btn
	deleteTaskBtn tb.Btn
}

func newMarkups() *markups {
	main := &tb.ReplyMarkup{ResizeKeyboard: true}
	addTaskBtn := main.Text(btnTextAddTask)
	listTasksBtn := main.Text(btnTextListTasks)
	deleteTaskBtn := main.Text(btnTextDeleteTask)
	main.Reply(
		main.Row(addTaskBtn, listTasksBtn),
		main.Row(deleteTaskBtn),
	)

	return &markups{
		main: main,

		addTaskBtn:    addTaskBtn,
		listTasksBtn:  listTasksBtn,
		deleteTaskBtn: deleteTaskBtn,
	}
}
