package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"safar-backend/internal/middleware"
	"safar-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// getOrCreateChat находит или создает чат для пары пользователей.
// Пара приводится к каноническому порядку (меньший id первым), поэтому
// обе стороны всегда попадают в один и тот же чат. При одновременном
// первом обращении с двух сторон проигравший вставку упирается в
// уникальный индекс пары и перечитывает чат победителя.
func getOrCreateChat(db *gorm.DB, userA, userB uint) (*models.Chat, error) {
	u1, u2 := userA, userB
	if u1 > u2 {
		u1, u2 = u2, u1
	}

	var chat models.Chat
	err := db.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&chat).Error
	if err == nil {
		return &chat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Вставка идет во вложенной транзакции: внутри уже открытой
	// транзакции gorm выставляет SAVEPOINT, и на postgres нарушение
	// уникальности откатывает только его, не отменяя объемлющую
	// транзакцию — повторное чтение ниже остается возможным.
	chat = models.Chat{User1ID: u1, User2ID: u2}
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&chat).Error
	})
	if err == nil {
		return &chat, nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if err := db.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&chat).Error; err != nil {
			return nil, err
		}
		return &chat, nil
	}

	return nil, err
}

// nextSentAt возвращает время отправки нового сообщения: текущее время,
// но не раньше последнего сообщения чата, чтобы порядок не нарушался
// при рассинхроне часов. Отсутствие сообщений — штатный случай, любая
// другая ошибка чтения поднимается наверх.
func nextSentAt(tx *gorm.DB, chatID uint, now time.Time) (time.Time, error) {
	var last models.ChatMessage
	err := tx.Where("chat_id = ?", chatID).
		Order("sent_at DESC").Order("id DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return now, nil
		}
		return time.Time{}, err
	}
	if now.Before(last.SentAt) {
		return last.SentAt, nil
	}
	return now, nil
}

// resolveCounterpart проверяет, что собеседник существует и не совпадает
// с вызывающим пользователем
func resolveCounterpart(db *gorm.DB, c *gin.Context) (*models.User, bool) {
	userID := c.GetUint("user_id")

	counterpartID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный идентификатор собеседника", "code": "invalid_input"})
		return nil, false
	}

	if uint(counterpartID) == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Нельзя открыть чат с самим собой", "code": "invalid_input"})
		return nil, false
	}

	var counterpart models.User
	if err := db.First(&counterpart, uint(counterpartID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден", "code": "not_found"})
		return nil, false
	}

	return &counterpart, true
}

// ChatThreads возвращает список переписок пользователя: собеседник,
// дата создания чата и последнее сообщение. Свежие переписки — первыми.
func ChatThreads(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var chats []models.Chat
		if err := db.Where("user1_id = ? OR user2_id = ?", userID, userID).
			Preload("User1").
			Preload("User2").
			Find(&chats).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении переписок"})
			return
		}

		threads := make([]models.ChatThreadResponse, 0, len(chats))
		for i := range chats {
			chat := &chats[i]

			counterpart := chat.User1
			if chat.User1ID == userID {
				counterpart = chat.User2
			}

			thread := models.ChatThreadResponse{
				ChatID:              chat.ID,
				CounterpartID:       counterpart.ID,
				CounterpartUsername: counterpart.Username,
				CreatedAt:           chat.CreatedAt,
			}

			// Чат без сообщений отдаем с пустым превью
			var last models.ChatMessage
			if err := db.Where("chat_id = ?", chat.ID).
				Order("sent_at DESC").Order("id DESC").
				First(&last).Error; err == nil {
				thread.LastMessage = last.Body
				thread.LastMessageAt = &last.SentAt
			}

			threads = append(threads, thread)
		}

		sort.Slice(threads, func(i, j int) bool {
			return threadActivity(threads[i]).After(threadActivity(threads[j]))
		})

		c.JSON(http.StatusOK, threads)
	}
}

func threadActivity(t models.ChatThreadResponse) time.Time {
	if t.LastMessageAt != nil {
		return *t.LastMessageAt
	}
	return t.CreatedAt
}

// ChatMessages возвращает переписку с собеседником по возрастанию времени
// отправки. Попутно помечает его сообщения прочитанными: выборка и
// отметка идут одной транзакцией, чтобы клиент видел ровно то состояние,
// которое только что подтвердил.
func ChatMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		counterpart, ok := resolveCounterpart(db, c)
		if !ok {
			return
		}

		var messages []models.ChatMessage
		var chatID uint

		err := db.Transaction(func(tx *gorm.DB) error {
			chat, err := getOrCreateChat(tx, userID, counterpart.ID)
			if err != nil {
				return err
			}
			chatID = chat.ID

			// Отметка идемпотентна: повторный вызов ничего не меняет
			if err := tx.Model(&models.ChatMessage{}).
				Where("chat_id = ? AND sender_id = ? AND is_read = ?", chat.ID, counterpart.ID, false).
				Update("is_read", true).Error; err != nil {
				return err
			}

			return tx.Where("chat_id = ?", chat.ID).
				Order("sent_at ASC").Order("id ASC").
				Find(&messages).Error
		})

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении сообщений"})
			return
		}

		response := make([]models.ChatMessageResponse, 0, len(messages))
		for _, m := range messages {
			response = append(response, models.ChatMessageResponse{
				ID:       m.ID,
				ChatID:   m.ChatID,
				SenderID: m.SenderID,
				Body:     m.Body,
				SentAt:   m.SentAt,
				IsRead:   m.IsRead,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"chat_id":  chatID,
			"messages": response,
		})
	}
}

// ChatSend отправляет сообщение собеседнику. Чат создается лениво при
// первом сообщении. Время отправки не убывает в пределах чата: при
// рассинхроне часов берем время последнего сообщения.
func ChatSend(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ReceiverID uint   `json:"receiverId" binding:"required"`
			Message    string `json:"message" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных", "code": "invalid_input"})
			return
		}

		if strings.TrimSpace(req.Message) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Сообщение не может быть пустым", "code": "invalid_input"})
			return
		}

		userID := c.GetUint("user_id")
		if req.ReceiverID == userID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Нельзя отправить сообщение самому себе", "code": "invalid_input"})
			return
		}

		var receiver models.User
		if err := db.First(&receiver, req.ReceiverID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Получатель не найден", "code": "not_found"})
			return
		}

		var message models.ChatMessage

		err := db.Transaction(func(tx *gorm.DB) error {
			chat, err := getOrCreateChat(tx, userID, receiver.ID)
			if err != nil {
				return err
			}

			sentAt, err := nextSentAt(tx, chat.ID, time.Now().UTC())
			if err != nil {
				return err
			}

			message = models.ChatMessage{
				ChatID:   chat.ID,
				SenderID: userID,
				Body:     req.Message,
				SentAt:   sentAt,
				IsRead:   false,
			}

			return tx.Create(&message).Error
		})

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при отправке сообщения"})
			return
		}

		middleware.MessagesSentTotal.Inc()

		c.JSON(http.StatusCreated, models.ChatMessageResponse{
			ID:       message.ID,
			ChatID:   message.ChatID,
			SenderID: message.SenderID,
			Body:     message.Body,
			SentAt:   message.SentAt,
			IsRead:   message.IsRead,
		})
	}
}

// ChatUnreadCount возвращает число непрочитанных сообщений, адресованных
// пользователю, по всем его чатам. Счетчик не кэшируется: считаем одним
// запросом по индексу, объем переписки на пользователя небольшой.
func ChatUnreadCount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var count int64
		if err := db.Model(&models.ChatMessage{}).
			Joins("JOIN chats ON chats.id = chat_messages.chat_id").
			Where("(chats.user1_id = ? OR chats.user2_id = ?)", userID, userID).
			Where("chat_messages.sender_id <> ? AND chat_messages.is_read = ?", userID, false).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при подсчете непрочитанных"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}
