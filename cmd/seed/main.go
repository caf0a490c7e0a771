package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/utils"
)

func main() {
	numUsers := flag.Int("users", 3, "сколько пользователей сгенерировать")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Fatalf("Ошибка загрузки .env файла: %v", err)
	}

	pool, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	if err := database.InitSchema(ctx, pool); err != nil {
		log.Fatalf("Ошибка инициализации схемы: %v", err)
	}

	utils.GenerateTestData(ctx, pool, *numUsers)
}
