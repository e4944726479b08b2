package telegram

import (
	"log/slog"

	tb "gopkg.in/telebot.v3"
)

// StoppedChatGate short-circuits every update from a stopped chat with a fixed
// reply. Only the start command passes through, so the chat can re-open the
// session.
func StoppedChatGate(sessions Sessions, log *slog.Logger) tb.MiddlewareFunc {
	return func(next tb.HandlerFunc) tb.HandlerFunc {
		return func(c tb.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}
			if c.Text() == cmdStart || !sessions.IsStopped(sender.ID) {
				return next(c)
			}

			log.Debug("message from stopped chat", "chatID", sender.ID)
			return c.Send(msgSessionEnded)
		}
	}
}
