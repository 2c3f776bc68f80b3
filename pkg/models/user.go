package models

import "time"

// User represents an account that owns collections and receives reminders
type User struct {
	ID             int64     `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	TelegramChatID int64     `json:"telegram_chat_id" db:"telegram_chat_id"` // 0 when no chat is linked
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
