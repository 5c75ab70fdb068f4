// Package telegram sends notifications to a Telegram chat.
package telegram

import (
	"fmt"
	"io"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/cyp0633/libcalrepeat/notify"
)

// Sender is the subset of *tgbotapi.BotAPI the sink uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sink posts every notification as a chat message.
type Sink struct {
	sender Sender
	chatID int64
	logger *slog.Logger
}

// New creates a sink writing to chatID through sender.
func New(sender Sender, chatID int64, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sink{sender: sender, chatID: chatID, logger: logger}
}

// NewFromToken connects to the Bot API with token.
func NewFromToken(token string, chatID int64, logger *slog.Logger) (*Sink, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return New(api, chatID, logger), nil
}

var prefixes = map[notify.Level]string{
	notify.LevelInfo:    "ℹ️ ",
	notify.LevelSuccess: "✅ ",
	notify.LevelError:   "❌ ",
}

// Notify sends the message. Delivery failures are logged, not returned.
func (s *Sink) Notify(message string, level notify.Level) {
	msg := tgbotapi.NewMessage(s.chatID, prefixes[level]+message)
	if _, err := s.sender.Send(msg); err != nil {
		s.logger.Warn("failed to send telegram notification",
			"chat_id", s.chatID,
			"level", level,
			"error", err)
	}
}

var _ notify.Sink = (*Sink)(nil)
