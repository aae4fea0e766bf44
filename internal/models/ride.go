package models

import (
	"time"
)

// Ride представляет объявление о поездке. Уникальный индекс по driver_id
// гарантирует не более одного активного объявления у водителя: записи
// удаляются физически, поэтому индекс всегда отражает только активные.
type Ride struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Origin             string    `json:"origin" gorm:"not null;type:varchar(100)"`
	Destination        string    `json:"destination" gorm:"not null;type:varchar(100)"`
	DriverID           uint      `json:"driver_id" gorm:"uniqueIndex;not null"`
	DepartureTime      time.Time `json:"departure_time" gorm:"not null"`
	Phone              string    `json:"phone" gorm:"not null;type:varchar(20)"`
	Seats              int       `json:"seats" gorm:"not null"`
	Price              int       `json:"price" gorm:"default:0"`
	HasFemalePassenger *bool     `json:"has_female_passenger,omitempty" gorm:"default:null"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Driver             User      `json:"-" gorm:"foreignKey:DriverID"`
	Bookings           []Booking `json:"-" gorm:"foreignKey:RideID"`
}

// RideResponse представляет ответ API с информацией о поездке и водителе
type RideResponse struct {
	ID                 uint      `json:"id"`
	Origin             string    `json:"origin"`
	Destination        string    `json:"destination"`
	DriverID           uint      `json:"driver_id"`
	DriverUsername     string    `json:"driverUsername"`
	IsDriver           bool      `json:"is_driver"`
	HasAC              bool      `json:"has_ac"`
	CarModel           string    `json:"car_model,omitempty"`
	ContactPhone       string    `json:"contact_phone,omitempty"`
	DepartureTime      time.Time `json:"departure_time"`
	Phone              string    `json:"phone"`
	Seats              int       `json:"seats"`
	Price              int       `json:"price"`
	HasFemalePassenger *bool     `json:"has_female_passenger,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewRideResponse собирает ответ по поездке с данными водителя
func NewRideResponse(ride *Ride, driver *User) RideResponse {
	return RideResponse{
		ID:                 ride.ID,
		Origin:             ride.Origin,
		Destination:        ride.Destination,
		DriverID:           ride.DriverID,
		DriverUsername:     driver.Username,
		IsDriver:           driver.IsDriver,
		HasAC:              driver.HasAC,
		CarModel:           driver.CarModel,
		ContactPhone:       driver.ContactPhone(),
		DepartureTime:      ride.DepartureTime,
		Phone:              ride.Phone,
		Seats:              ride.Seats,
		Price:              ride.Price,
		HasFemalePassenger: ride.HasFemalePassenger,
		CreatedAt:          ride.CreatedAt,
	}
}
