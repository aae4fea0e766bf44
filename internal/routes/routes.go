package routes

import (
	"safar-backend/internal/handlers"
	"safar-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(api *gin.RouterGroup, db *gorm.DB) {
	// Публичные маршруты для аутентификации
	api.POST("/register", handlers.AuthRegister(db))
	api.POST("/login", handlers.AuthLogin(db))

	// Защищенные маршруты (требуют аутентификации)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth())
	{
		// Текущий пользователь
		protected.GET("/user", handlers.UserGetProfile(db))
		protected.PATCH("/user", handlers.UserUpdateProfile(db))

		// Роуты для объявлений о поездках
		protected.POST("/rides", handlers.RideCreate(db))
		protected.GET("/rides", handlers.RideList(db))
		protected.GET("/rides/:id", handlers.RideGetByID(db))
		protected.DELETE("/rides/:id", handlers.RideDelete(db))
		protected.GET("/rides/:id/bookings", handlers.BookingGetByRide(db))

		// Роуты для бронирований
		protected.POST("/bookings", handlers.BookingCreate(db))
		protected.GET("/bookings", handlers.BookingGetByUser(db))
		protected.PUT("/bookings/:id/status", handlers.BookingUpdateStatus(db))

		// Роуты для чата
		protected.GET("/chat/threads", handlers.ChatThreads(db))
		protected.GET("/chat/unread-count", handlers.ChatUnreadCount(db))
		protected.GET("/chat/:user_id/messages", handlers.ChatMessages(db))
		protected.POST("/chat/send", handlers.ChatSend(db))
	}
}
