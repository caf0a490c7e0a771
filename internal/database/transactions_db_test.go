package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		t.Skipf("нет .env, тест с БД пропущен: %v", err)
	}
	pool, err := database.ConnectDB()
	if err != nil {
		t.Skipf("нет подключения к БД, тест пропущен: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := pool.Ping(context.Background()); err != nil {
		t.Skipf("БД недоступна, тест пропущен: %v", err)
	}
	if err := database.InitSchema(context.Background(), pool); err != nil {
		t.Fatalf("ошибка инициализации схемы: %v", err)
	}
	return pool
}

// testFixture создаёт пользователя со счётом и категорией под один тест.
func testFixture(t *testing.T, pool *pgxpool.Pool) (userID, accountID, categoryID int) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{FirstName: "Тест", Surname: "Тестов"}
	require.NoError(t, database.CreateUser(ctx, pool, user))

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	account := &models.Account{UserID: user.ID, Name: "Счёт " + suffix}
	require.NoError(t, database.CreateAccount(ctx, pool, account))

	category := &models.Category{UserID: user.ID, Name: "Категория " + suffix}
	require.NoError(t, database.CreateCategory(ctx, pool, category))

	return user.ID, account.ID, category.ID
}

func TestInsertAndGetTransaction(t *testing.T) {
	pool := testPool(t)
	userID, accountID, categoryID := testFixture(t, pool)
	ctx := context.Background()

	transaction := &models.Transaction{
		UserID:      userID,
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: "Продукты на неделю",
		Amount:      decimal.NewFromFloat(-54.30),
		Currency:    "EUR",
		AccountID:   accountID,
		CategoryID:  categoryID,
		Status:      models.StatusConfirmed,
	}
	require.NoError(t, database.InsertTransaction(ctx, pool, transaction))
	require.NotZero(t, transaction.ID)

	got, err := database.GetTransactionByID(ctx, pool, transaction.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Продукты на неделю", got.Description)
	assert.True(t, got.Amount.Equal(transaction.Amount))
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Nil(t, got.TransferID)
	assert.Nil(t, got.SeriesID)

	// Чужой пользователь строку не видит.
	_, err = database.GetTransactionByID(ctx, pool, transaction.ID, userID+1)
	assert.Error(t, err)
}

func TestUpdateTransactionFieldsPartial(t *testing.T) {
	pool := testPool(t)
	userID, accountID, categoryID := testFixture(t, pool)
	ctx := context.Background()

	transaction := &models.Transaction{
		UserID:      userID,
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: "До правки",
		Amount:      decimal.NewFromInt(-20),
		Currency:    "EUR",
		AccountID:   accountID,
		CategoryID:  categoryID,
		Status:      models.StatusConfirmed,
	}
	require.NoError(t, database.InsertTransaction(ctx, pool, transaction))

	description := "После правки"
	patch := models.TransactionPatch{Description: &description}
	require.NoError(t, database.UpdateTransactionFields(ctx, pool, transaction.ID, userID, patch))

	got, err := database.GetTransactionByID(ctx, pool, transaction.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "После правки", got.Description)
	// Поля вне патча не тронуты.
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, accountID, got.AccountID)

	err = database.UpdateTransactionFields(ctx, pool, transaction.ID+100000, userID, patch)
	assert.Error(t, err)
}

func TestQueryTransactionsFilterAndPaging(t *testing.T) {
	pool := testPool(t)
	userID, accountID, categoryID := testFixture(t, pool)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		transaction := &models.Transaction{
			UserID:      userID,
			Date:        time.Date(2025, 4, 1+i, 0, 0, 0, 0, time.UTC),
			Description: fmt.Sprintf("Покупка %d", i),
			Amount:      decimal.NewFromInt(int64(-10 - i)),
			Currency:    "EUR",
			AccountID:   accountID,
			CategoryID:  categoryID,
			Status:      models.StatusConfirmed,
		}
		require.NoError(t, database.InsertTransaction(ctx, pool, transaction))
	}

	page, err := database.QueryTransactions(ctx, pool, userID, models.TransactionFilter{
		AccountIDs: []int{accountID},
		Page:       1,
		PageSize:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalCount)
	require.Len(t, page.Items, 2)
	// Сортировка: свежие даты первыми.
	assert.True(t, page.Items[0].Date.After(page.Items[1].Date))

	filtered, err := database.QueryTransactions(ctx, pool, userID, models.TransactionFilter{
		Search: "Покупка 3",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.TotalCount)

	start := time.Date(2025, 4, 4, 0, 0, 0, 0, time.UTC)
	byDate, err := database.QueryTransactions(ctx, pool, userID, models.TransactionFilter{
		StartDate: &start,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, byDate.TotalCount)
}

func TestDeleteTransactionRow(t *testing.T) {
	pool := testPool(t)
	userID, accountID, categoryID := testFixture(t, pool)
	ctx := context.Background()

	transaction := &models.Transaction{
		UserID:      userID,
		Date:        time.Now(),
		Description: "На удаление",
		Amount:      decimal.NewFromInt(-5),
		Currency:    "EUR",
		AccountID:   accountID,
		CategoryID:  categoryID,
		Status:      models.StatusConfirmed,
	}
	require.NoError(t, database.InsertTransaction(ctx, pool, transaction))
	require.NoError(t, database.DeleteTransactionRow(ctx, pool, transaction.ID, userID))

	_, err := database.GetTransactionByID(ctx, pool, transaction.ID, userID)
	assert.Error(t, err)

	err = database.DeleteTransactionRow(ctx, pool, transaction.ID, userID)
	assert.Error(t, err)
}
