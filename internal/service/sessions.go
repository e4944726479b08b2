package service

import (
	"log/slog"
)

type SessionsStore interface {
	StopChat(chatID int64)
	ResumeChat(chatID int64)
	IsStopped(chatID int64) bool
}

// Sessions tracks chats that opted out of further interaction via the stop
// command. A stopped chat is gated until it issues the start command again.
type Sessions struct {
	store SessionsStore

	log *slog.Logger
}

func NewSessions(store SessionsStore, log *slog.Logger) *Sessions {
	return &Sessions{
		store: store,
		log:   log.With("component", "service").With("service", "sessions"),
	}
}

func (s *Sessions) Stop(chatID int64) {
	s.store.StopChat(chatID)
	s.log.Debug("chat stopped", "chatID", chatID)
}

func (s *Sessions) Resume(chatID int64) {
	s.store.ResumeChat(chatID)
	s.log.Debug("chat resumed", "chatID", chatID)
}

func (s *Sessions) IsStopped(chatID int64) bool {
	return s.store.IsStopped(chatID)
}
