package handlers

import (
	"net/http"

	"safar-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BookingCreate создает бронирование со статусом pending.
// Лимит мест и повторные бронирования одной пары (поездка, пассажир)
// не проверяются — спорные места разруливаются в чате.
func BookingCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RideID uint `json:"rideId" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных", "code": "invalid_input"})
			return
		}

		passengerID := c.GetUint("user_id")

		var ride models.Ride
		if err := db.First(&ride, req.RideID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Поездка не найдена", "code": "not_found"})
			return
		}

		if ride.DriverID == passengerID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Вы не можете забронировать свою собственную поездку", "code": "invalid_input"})
			return
		}

		booking := models.Booking{
			RideID:      req.RideID,
			PassengerID: passengerID,
			Status:      models.BookingStatusPending,
		}

		if err := db.Create(&booking).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании бронирования"})
			return
		}

		c.JSON(http.StatusCreated, models.BookingResponse{
			ID:          booking.ID,
			RideID:      booking.RideID,
			PassengerID: booking.PassengerID,
			Status:      booking.Status,
			CreatedAt:   booking.CreatedAt,
		})
	}
}

// BookingUpdateStatus подтверждает бронирование.
// Единственный допустимый переход — pending → confirmed; любое другое
// значение отклоняется как invalid_transition.
func BookingUpdateStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status models.BookingStatus `json:"status" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных", "code": "invalid_input"})
			return
		}

		userID := c.GetUint("user_id")

		var booking models.Booking
		if err := db.Preload("Ride").First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бронирование не найдено", "code": "not_found"})
			return
		}

		if booking.Ride.DriverID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Подтвердить бронирование может только водитель"})
			return
		}

		if booking.Status != models.BookingStatusPending || req.Status != models.BookingStatusConfirmed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Недопустимый переход статуса", "code": "invalid_transition"})
			return
		}

		booking.Status = models.BookingStatusConfirmed
		if err := db.Save(&booking).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении бронирования"})
			return
		}

		c.JSON(http.StatusOK, models.BookingResponse{
			ID:          booking.ID,
			RideID:      booking.RideID,
			PassengerID: booking.PassengerID,
			Status:      booking.Status,
			CreatedAt:   booking.CreatedAt,
		})
	}
}

// BookingGetByUser возвращает бронирования текущего пользователя
func BookingGetByUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var bookings []models.Booking
		if err := db.Where("passenger_id = ?", userID).
			Preload("Ride").
			Preload("Ride.Driver").
			Preload("Passenger").
			Order("created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении бронирований"})
			return
		}

		response := make([]models.BookingResponse, 0, len(bookings))
		for i := range bookings {
			rideInfo := models.NewRideResponse(&bookings[i].Ride, &bookings[i].Ride.Driver)
			response = append(response, models.BookingResponse{
				ID:                bookings[i].ID,
				RideID:            bookings[i].RideID,
				PassengerID:       bookings[i].PassengerID,
				PassengerUsername: bookings[i].Passenger.Username,
				Status:            bookings[i].Status,
				CreatedAt:         bookings[i].CreatedAt,
				RideInfo:          &rideInfo,
			})
		}

		c.JSON(http.StatusOK, response)
	}
}

// BookingGetByRide возвращает бронирования поездки для ее водителя
func BookingGetByRide(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var ride models.Ride
		if err := db.First(&ride, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Поездка не найдена", "code": "not_found"})
			return
		}

		if ride.DriverID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Нет доступа к этой поездке"})
			return
		}

		var bookings []models.Booking
		if err := db.Where("ride_id = ?", ride.ID).
			Preload("Passenger").
			Order("created_at ASC").
			Find(&bookings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении бронирований"})
			return
		}

		response := make([]models.BookingResponse, 0, len(bookings))
		for i := range bookings {
			response = append(response, models.BookingResponse{
				ID:                bookings[i].ID,
				RideID:            bookings[i].RideID,
				PassengerID:       bookings[i].PassengerID,
				PassengerUsername: bookings[i].Passenger.Username,
				Status:            bookings[i].Status,
				CreatedAt:         bookings[i].CreatedAt,
			})
		}

		c.JSON(http.StatusOK, response)
	}
}
