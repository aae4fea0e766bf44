package models

import (
	"time"
)

// Chat представляет личную переписку ровно двух пользователей.
// Пара хранится в каноническом порядке (User1ID < User2ID), составной
// уникальный индекс не даёт создать второй чат для той же пары.
type Chat struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	User1ID   uint      `json:"user1_id" gorm:"uniqueIndex:idx_chat_pair;not null"`
	User2ID   uint      `json:"user2_id" gorm:"uniqueIndex:idx_chat_pair;not null"`
	CreatedAt time.Time `json:"created_at"`
	User1     User      `json:"-" gorm:"foreignKey:User1ID"`
	User2     User      `json:"-" gorm:"foreignKey:User2ID"`
}

// ChatMessage — сообщение в чате. SentAt назначается при записи и не
// убывает в пределах одного чата; IsRead переключается только false→true.
type ChatMessage struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	ChatID   uint      `json:"chat_id" gorm:"index;not null"`
	SenderID uint      `json:"sender_id" gorm:"index;not null"`
	Body     string    `json:"message" gorm:"type:text;not null"`
	SentAt   time.Time `json:"sent_at" gorm:"index;not null"`
	IsRead   bool      `json:"is_read" gorm:"default:false"`
	Chat     Chat      `json:"-" gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
	Sender   User      `json:"-" gorm:"foreignKey:SenderID"`
}

// ChatThreadResponse — проекция чата для списка переписок пользователя
type ChatThreadResponse struct {
	ChatID              uint       `json:"chat_id"`
	CounterpartID       uint       `json:"counterpart_id"`
	CounterpartUsername string     `json:"counterpart_username"`
	CreatedAt           time.Time  `json:"created_at"`
	LastMessage         string     `json:"last_message,omitempty"`
	LastMessageAt       *time.Time `json:"last_message_at,omitempty"`
}

// ChatMessageResponse представляет сообщение в ответе API
type ChatMessageResponse struct {
	ID       uint      `json:"id"`
	ChatID   uint      `json:"chat_id"`
	SenderID uint      `json:"sender_id"`
	Body     string    `json:"message"`
	SentAt   time.Time `json:"sent_at"`
	IsRead   bool      `json:"is_read"`
}
