package notifier

import (
	"fmt"

	"github.com/example/learningremind/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers review reminders as Telegram messages to
// users with a linked chat
type TelegramNotifier struct {
	api         *tgbotapi.BotAPI
	frontendURL string
}

// NewTelegramNotifier creates a telegram notifier
func NewTelegramNotifier(token, frontendURL string) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}
	return &TelegramNotifier{api: api, frontendURL: frontendURL}, nil
}

// SendReviewReminder implements the Notifier interface
func (n *TelegramNotifier) SendReviewReminder(user models.User, collections []models.DueCollection) error {
	if user.TelegramChatID == 0 {
		return fmt.Errorf("user %d has no linked telegram chat", user.ID)
	}

	msg := tgbotapi.NewMessage(user.TelegramChatID, renderReminder(collections, n.frontendURL))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram reminder to user %d: %v", user.ID, err)
	}
	return nil
}
