package main

import (
	"fmt"
	"log"

	"safar-backend/internal/utils"

	"github.com/joho/godotenv"
)

// Утилита для выпуска админского токена (user_id = 0, role = admin).
// Используется при ручном администрировании через API.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	token, err := utils.GenerateAdminJWT()
	if err != nil {
		log.Fatalf("Ошибка при создании админского токена: %v", err)
	}

	fmt.Println(token)
}
