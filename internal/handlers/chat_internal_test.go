package handlers

import (
	"fmt"
	"testing"
	"time"

	"safar-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newChatDB поднимает отдельную in-memory базу только с таблицами чата.
// Лимит соединений не ставим: тесту гонки нужно второе соединение.
func newChatDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Chat{}, &models.ChatMessage{}))
	return db
}

// Проигравший гонку за создание чата должен получить чат победителя, а не
// ошибку: соперник вставляет ту же пару между проверкой и вставкой.
func TestGetOrCreateChatLosesInsertRace(t *testing.T) {
	db := newChatDB(t)

	rivalDone := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").
		Register("rival_chat_insert", func(tx *gorm.DB) {
			if rivalDone {
				return
			}
			if _, ok := tx.Statement.Dest.(*models.Chat); !ok {
				return
			}
			rivalDone = true
			require.NoError(t, db.Exec(
				"INSERT INTO chats (user1_id, user2_id, created_at) VALUES (?, ?, ?)",
				1, 2, time.Now().UTC(),
			).Error)
		}))

	chat, err := getOrCreateChat(db, 2, 1)
	require.NoError(t, err)
	require.True(t, rivalDone)

	assert.Equal(t, uint(1), chat.User1ID)
	assert.Equal(t, uint(2), chat.User2ID)

	var rival models.Chat
	require.NoError(t, db.Where("user1_id = ? AND user2_id = ?", 1, 2).First(&rival).Error)
	assert.Equal(t, rival.ID, chat.ID)

	var count int64
	require.NoError(t, db.Model(&models.Chat{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestNextSentAtMonotonic(t *testing.T) {
	db := newChatDB(t)

	chat := models.Chat{User1ID: 1, User2ID: 2}
	require.NoError(t, db.Create(&chat).Error)

	now := time.Now().UTC()

	// Пустой чат — берем текущее время как есть
	got, err := nextSentAt(db, chat.ID, now)
	require.NoError(t, err)
	assert.True(t, got.Equal(now))

	later := now.Add(time.Minute)
	require.NoError(t, db.Create(&models.ChatMessage{
		ChatID:   chat.ID,
		SenderID: 1,
		Body:     "salom",
		SentAt:   later,
	}).Error)

	// Часы ушли назад — время подтягивается к последнему сообщению
	got, err = nextSentAt(db, chat.ID, now)
	require.NoError(t, err)
	assert.True(t, got.Equal(later))

	// Часы впереди последнего сообщения — остаются как есть
	ahead := later.Add(time.Minute)
	got, err = nextSentAt(db, chat.ID, ahead)
	require.NoError(t, err)
	assert.True(t, got.Equal(ahead))
}

func TestNextSentAtSurfacesReadError(t *testing.T) {
	db := newChatDB(t)

	chat := models.Chat{User1ID: 1, User2ID: 2}
	require.NoError(t, db.Create(&chat).Error)

	require.NoError(t, db.Migrator().DropTable(&models.ChatMessage{}))

	_, err := nextSentAt(db, chat.ID, time.Now().UTC())
	assert.Error(t, err)
}
