package models

import (
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// User представляет пользователя сервиса. Водитель и пассажир — одна и та
// же модель, различаются флагом IsDriver.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	Username     string    `json:"username" gorm:"column:username;uniqueIndex;not null;type:varchar(150)"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null;type:varchar(255)"`
	Phone        string    `json:"phone" gorm:"column:phone;not null;type:varchar(20)"`
	IsDriver     bool      `json:"is_driver" gorm:"column:is_driver;default:false"`
	CarModel     string    `json:"car_model,omitempty" gorm:"column:car_model;type:varchar(100)"`
	HasAC        bool      `json:"has_ac" gorm:"column:has_ac;default:false"`
	ShowPhone    bool      `json:"show_phone" gorm:"column:show_phone;default:true"`
	Gender       *Gender   `json:"gender,omitempty" gorm:"column:gender;type:varchar(10);default:null"`
	Role         string    `json:"role" gorm:"column:role;default:'user';type:varchar(20)"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// UserResponse — представление пользователя в ответах профиля
type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	IsDriver  bool   `json:"is_driver"`
	CarModel  string `json:"car_model,omitempty"`
	HasAC     bool   `json:"has_ac"`
	ShowPhone bool   `json:"show_phone"`
}

// NewUserResponse собирает ответ профиля по модели пользователя
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		IsDriver:  u.IsDriver,
		CarModel:  u.CarModel,
		HasAC:     u.HasAC,
		ShowPhone: u.ShowPhone,
	}
}

// ContactPhone возвращает телефон с учетом настройки видимости
func (u *User) ContactPhone() string {
	if u.ShowPhone {
		return u.Phone
	}
	return ""
}
