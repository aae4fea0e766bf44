package handlers

import (
	"log"
	"net/http"

	"safar-backend/internal/models"
	"safar-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	IsDriver  bool   `json:"is_driver"`
	CarModel  string `json:"car_model"`
	HasAC     bool   `json:"has_ac"`
	ShowPhone *bool  `json:"show_phone"`
	Gender    string `json:"gender"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	IsDriver bool   `json:"is_driver"`
	HasAC    bool   `json:"has_ac"`
}

// AuthRegister регистрирует нового пользователя и выдает токен
func AuthRegister(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных", "code": "invalid_input"})
			return
		}

		var gender *models.Gender
		switch req.Gender {
		case "":
			// пол не указан
		case string(models.GenderMale), string(models.GenderFemale):
			g := models.Gender(req.Gender)
			gender = &g
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверное значение пола", "code": "invalid_input"})
			return
		}

		// Бизнес-правило создания личности: водитель не может быть
		// зарегистрирован с женским полом. Проверяется только здесь.
		if req.IsDriver && gender != nil && *gender == models.GenderFemale {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Водитель не может быть зарегистрирован с таким полом", "code": "invalid_input"})
			return
		}

		var existing models.User
		if result := db.Where("username = ?", req.Username).First(&existing); result.Error == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Имя пользователя уже занято", "code": "invalid_input"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании пользователя"})
			return
		}

		showPhone := true
		if req.ShowPhone != nil {
			showPhone = *req.ShowPhone
		}

		user := models.User{
			Username:     req.Username,
			PasswordHash: string(hash),
			Phone:        req.Phone,
			IsDriver:     req.IsDriver,
			CarModel:     req.CarModel,
			HasAC:        req.HasAC,
			ShowPhone:    showPhone,
			Gender:       gender,
			Role:         "user",
		}

		if result := db.Create(&user); result.Error != nil {
			log.Printf("Ошибка при регистрации: %v", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании пользователя"})
			return
		}

		token, err := utils.GenerateJWT(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании токена"})
			return
		}

		c.JSON(http.StatusCreated, AuthResponse{
			Token:    token,
			IsDriver: user.IsDriver,
			HasAC:    user.HasAC,
		})
	}
}

// AuthLogin проверяет учетные данные и выдает токен
func AuthLogin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Требуются имя пользователя и пароль", "code": "invalid_input"})
			return
		}

		var user models.User
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверные учетные данные"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверные учетные данные"})
			return
		}

		token, err := utils.GenerateJWT(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании токена"})
			return
		}

		c.JSON(http.StatusOK, AuthResponse{
			Token:    token,
			IsDriver: user.IsDriver,
			HasAC:    user.HasAC,
		})
	}
}
