package handlers

import (
	"errors"
	"net/http"
	"time"

	"safar-backend/internal/middleware"
	"safar-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RideCreate создает новое объявление о поездке.
// У водителя может быть не более одного объявления: проверка выполняется
// в транзакции, а гарантией служит уникальный индекс rides.driver_id —
// параллельный дубль упирается в него и переводится в ту же ошибку.
func RideCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Origin             string `json:"origin" binding:"required"`
			Destination        string `json:"destination" binding:"required"`
			Phone              string `json:"phone" binding:"required"`
			Seats              int    `json:"seats" binding:"required"`
			Price              int    `json:"price"`
			DepartureTime      string `json:"departureTime" binding:"required"`
			HasFemalePassenger *bool  `json:"has_female_passenger"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных", "code": "invalid_input"})
			return
		}

		if req.Seats < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Количество мест должно быть не меньше 1", "code": "invalid_input"})
			return
		}
		if req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Цена не может быть отрицательной", "code": "invalid_input"})
			return
		}

		departureTime, err := time.Parse(time.RFC3339, req.DepartureTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты отправления", "code": "invalid_input"})
			return
		}

		userID := c.GetUint("user_id")

		var driver models.User
		if err := db.First(&driver, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден", "code": "not_found"})
			return
		}

		// Объявление может разместить и пассажир, но цена у него всегда 0
		price := req.Price
		if !driver.IsDriver {
			price = 0
		}

		ride := &models.Ride{
			Origin:             req.Origin,
			Destination:        req.Destination,
			DriverID:           driver.ID,
			DepartureTime:      departureTime,
			Phone:              req.Phone,
			Seats:              req.Seats,
			Price:              price,
			HasFemalePassenger: req.HasFemalePassenger,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Ride{}).Where("driver_id = ?", driver.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return gorm.ErrDuplicatedKey
			}
			return tx.Create(ride).Error
		})

		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "У вас уже есть активное объявление", "code": "duplicate_active_ride"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании объявления"})
			return
		}

		middleware.RidesCreatedTotal.Inc()

		c.JSON(http.StatusCreated, models.NewRideResponse(ride, &driver))
	}
}

// RideList возвращает все объявления, свежие по дате отправления — первыми
func RideList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rides []models.Ride
		if err := db.Preload("Driver").Order("departure_time DESC").Find(&rides).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении объявлений"})
			return
		}

		response := make([]models.RideResponse, 0, len(rides))
		for i := range rides {
			response = append(response, models.NewRideResponse(&rides[i], &rides[i].Driver))
		}

		c.JSON(http.StatusOK, response)
	}
}

// RideGetByID возвращает одно объявление
func RideGetByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ride models.Ride
		if err := db.Preload("Driver").First(&ride, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Объявление не найдено", "code": "not_found"})
			return
		}

		c.JSON(http.StatusOK, models.NewRideResponse(&ride, &ride.Driver))
	}
}

// RideDelete удаляет объявление вместе со всеми его бронированиями.
// Чаты не трогаем: переписка привязана к паре пользователей, а не к поездке.
func RideDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID := c.Param("id")
		userID := c.GetUint("user_id")
		role, _ := c.Get("role")

		var ride models.Ride
		if err := db.First(&ride, rideID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Объявление не найдено", "code": "not_found"})
			return
		}

		if ride.DriverID != userID && role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Удалить объявление может только его автор"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("ride_id = ?", ride.ID).Delete(&models.Booking{}).Error; err != nil {
				return err
			}
			return tx.Delete(&ride).Error
		})

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении объявления"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Объявление удалено"})
	}
}
