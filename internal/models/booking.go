package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает подтверждения
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено водителем
)

// Booking представляет бронирование места в поездке
type Booking struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	RideID      uint          `json:"ride_id" gorm:"index;not null"`
	PassengerID uint          `json:"passenger_id" gorm:"index;not null"`
	Status      BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Ride        Ride          `json:"-" gorm:"foreignKey:RideID"`
	Passenger   User          `json:"-" gorm:"foreignKey:PassengerID"`
}

// BookingResponse представляет ответ API с информацией о бронировании
type BookingResponse struct {
	ID                uint          `json:"id"`
	RideID            uint          `json:"ride_id"`
	PassengerID       uint          `json:"passenger_id"`
	PassengerUsername string        `json:"passenger_username,omitempty"`
	Status            BookingStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	RideInfo          *RideResponse `json:"ride_info,omitempty"`
}
