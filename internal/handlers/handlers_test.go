package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"safar-backend/internal/models"
	"safar-backend/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupRouter поднимает роутер на отдельной in-memory базе для теста
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Ride{},
		&models.Booking{},
		&models.Chat{},
		&models.ChatMessage{},
	))

	r := gin.New()
	api := r.Group("/api")
	routes.SetupRoutes(api, db)

	return r, db
}

// doRequest выполняет запрос к тестовому роутеру
func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerUser регистрирует пользователя и возвращает его токен и id
func registerUser(t *testing.T, r *gin.Engine, db *gorm.DB, payload map[string]interface{}) (string, uint) {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	var user models.User
	require.NoError(t, db.Where("username = ?", payload["username"]).First(&user).Error)

	return resp.Token, user.ID
}

func registerDriver(t *testing.T, r *gin.Engine, db *gorm.DB, username string) (string, uint) {
	t.Helper()
	return registerUser(t, r, db, map[string]interface{}{
		"username":  username,
		"password":  "parol123",
		"phone":     "+998901112233",
		"is_driver": true,
		"car_model": "Cobalt",
		"has_ac":    true,
	})
}

func registerPassenger(t *testing.T, r *gin.Engine, db *gorm.DB, username string) (string, uint) {
	t.Helper()
	return registerUser(t, r, db, map[string]interface{}{
		"username": username,
		"password": "parol123",
		"phone":    "+998905556677",
	})
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
