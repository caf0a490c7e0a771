package utils

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/service"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

var categoryNames = []string{"Продукты", "Транспорт", "Жильё", "Развлечения", "Зарплата", "Переводы"}

// GenerateTestData наполняет базу демонстрационными данными: пользователи со
// счетами и категориями, обычные транзакции, один перевод и одна
// повторяющаяся серия на каждого.
func GenerateTestData(ctx context.Context, pool *pgxpool.Pool, numUsers int) {
	for i := 0; i < numUsers; i++ {
		second := gofakeit.MiddleName()
		user := &models.User{
			FirstName:  gofakeit.FirstName(),
			SecondName: &second,
			Surname:    gofakeit.LastName(),
		}
		if err := database.CreateUser(ctx, pool, user); err != nil {
			log.Fatalf("ошибка при добавлении пользователя: %v", err)
		}

		accounts := make([]models.Account, 0, 2)
		for _, name := range []string{"Основной счёт", "Накопления"} {
			account := &models.Account{UserID: user.ID, Name: name}
			if err := database.CreateAccount(ctx, pool, account); err != nil {
				log.Fatalf("ошибка при добавлении счёта: %v", err)
			}
			accounts = append(accounts, *account)
		}

		categories := make([]models.Category, 0, len(categoryNames))
		for _, name := range categoryNames {
			category := &models.Category{UserID: user.ID, Name: name}
			if err := database.CreateCategory(ctx, pool, category); err != nil {
				log.Fatalf("ошибка при добавлении категории: %v", err)
			}
			categories = append(categories, *category)
		}

		transferCategory := categories[len(categories)-1]
		err := database.SetSetting(ctx, pool, user.ID, models.SettingTransferCategoryID, strconv.Itoa(transferCategory.ID))
		if err != nil {
			log.Fatalf("ошибка настройки категории переводов: %v", err)
		}

		for j := 0; j < 30; j++ {
			amount := decimal.NewFromFloat(gofakeit.Price(5, 500)).Neg()
			if rand.Intn(4) == 0 {
				amount = amount.Neg()
			}
			t := &models.Transaction{
				UserID:      user.ID,
				Date:        gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()),
				Description: gofakeit.ProductName(),
				Amount:      amount,
				AccountID:   accounts[rand.Intn(len(accounts))].ID,
				CategoryID:  categories[rand.Intn(len(categories)-1)].ID,
			}
			if err := service.CreateTransaction(ctx, pool, t); err != nil {
				log.Fatalf("ошибка при добавлении транзакции: %v", err)
			}
		}

		unit := models.UnitMonth
		interval := 1
		rent := &models.Transaction{
			UserID:        user.ID,
			Date:          time.Now().AddDate(0, -1, 0),
			Description:   "Аренда квартиры",
			Amount:        decimal.NewFromInt(-850),
			AccountID:     accounts[0].ID,
			CategoryID:    categories[2].ID,
			IsRecurrent:   true,
			RecurInterval: &interval,
			RecurUnit:     &unit,
		}
		if err := service.CreateTransaction(ctx, pool, rent); err != nil {
			log.Fatalf("ошибка при создании повторяющейся транзакции: %v", err)
		}

		_, err = service.CreateTransfer(ctx, pool, user.ID, models.Transfer{
			Date:          time.Now().AddDate(0, 0, -7),
			Description:   "Перевод в накопления",
			Amount:        decimal.NewFromInt(200),
			FromAccountID: accounts[0].ID,
			ToAccountID:   accounts[1].ID,
		})
		if err != nil {
			log.Fatalf("ошибка при создании перевода: %v", err)
		}
	}

	log.Printf("Сгенерировано пользователей: %d", numUsers)
}
