package handlers

import (
	"net/http"

	"safar-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserGetProfile возвращает данные текущего пользователя
func UserGetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден", "code": "not_found"})
			return
		}

		c.JSON(http.StatusOK, models.NewUserResponse(&user))
	}
}

// UserUpdateProfile обновляет настройки текущего пользователя
func UserUpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req struct {
			HasAC     *bool `json:"has_ac"`
			ShowPhone *bool `json:"show_phone"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных", "code": "invalid_input"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден", "code": "not_found"})
			return
		}

		if req.HasAC != nil {
			user.HasAC = *req.HasAC
		}
		if req.ShowPhone != nil {
			user.ShowPhone = *req.ShowPhone
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении профиля"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"has_ac":     user.HasAC,
			"show_phone": user.ShowPhone,
		})
	}
}
