package service_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/service"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func TestDeleteAccountRequiresStrategyWhenUsed(t *testing.T) {
	pool := testPool(t)
	f := newFixture(t, pool)
	ctx := context.Background()

	transaction := &models.Transaction{
		UserID:      f.userID,
		Date:        time.Now(),
		Description: "Покупка",
		Amount:      decimal.NewFromInt(-10),
		AccountID:   f.accounts[0],
		CategoryID:  f.categories[0],
	}
	require.NoError(t, service.CreateTransaction(ctx, pool, transaction))

	err := service.DeleteAccountWithStrategy(ctx, pool, f.accounts[0], f.userID, "", nil)
	var validation *service.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "account_strategy_required", validation.Key)

	err = service.DeleteAccountWithStrategy(ctx, pool, f.accounts[0], f.userID, "reassign", &f.accounts[0])
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "account_target_same", validation.Key)
}

func TestDeleteAccountReassignsTransactions(t *testing.T) {
	pool := testPool(t)
	f := newFixture(t, pool)
	ctx := context.Background()

	transaction := &models.Transaction{
		UserID:      f.userID,
		Date:        time.Now(),
		Description: "Покупка",
		Amount:      decimal.NewFromInt(-10),
		AccountID:   f.accounts[0],
		CategoryID:  f.categories[0],
	}
	require.NoError(t, service.CreateTransaction(ctx, pool, transaction))

	require.NoError(t, service.DeleteAccountWithStrategy(ctx, pool, f.accounts[0], f.userID, "reassign", &f.accounts[1]))

	got, err := database.GetTransactionByID(ctx, pool, transaction.ID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, f.accounts[1], got.AccountID)

	_, err = database.GetAccountByID(ctx, pool, f.accounts[0], f.userID)
	assert.Error(t, err)
}

func TestDeleteEmptyAccountNeedsNoStrategy(t *testing.T) {
	pool := testPool(t)
	f := newFixture(t, pool)
	ctx := context.Background()

	require.NoError(t, service.DeleteAccountWithStrategy(ctx, pool, f.accounts[1], f.userID, "", nil))
}

func TestDeleteTransferCategoryRequiresReplacement(t *testing.T) {
	pool := testPool(t)
	f := newFixture(t, pool)
	ctx := context.Background()

	err := service.DeleteCategoryWithStrategy(ctx, pool, f.categories[1], f.userID, "", nil, nil)
	var validation *service.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "category_transfer_replacement_required", validation.Key)

	require.NoError(t, service.DeleteCategoryWithStrategy(ctx, pool, f.categories[1], f.userID, "", nil, &f.categories[0]))

	value, err := database.GetSetting(ctx, pool, f.userID, models.SettingTransferCategoryID)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(f.categories[0]), value)
}

func TestUpdateTransferCategoryMoveAll(t *testing.T) {
	pool := testPool(t)
	f := newFixture(t, pool)
	ctx := context.Background()

	// Перевод кладёт обе строки в текущую категорию переводов.
	_, err := service.CreateTransfer(ctx, pool, f.userID, models.Transfer{
		Date:          time.Now(),
		Description:   "Перевод",
		Amount:        decimal.NewFromInt(60),
		FromAccountID: f.accounts[0],
		ToAccountID:   f.accounts[1],
	})
	require.NoError(t, err)

	require.NoError(t, service.UpdateTransferCategorySetting(ctx, pool, f.userID, f.categories[0], "move_all"))

	count, err := database.CountTransactionsByCategory(ctx, pool, f.categories[1], f.userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = database.CountTransactionsByCategory(ctx, pool, f.categories[0], f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTransferRequiresConfiguredCategory(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	// Пользователь без настройки категории переводов.
	user := &models.User{FirstName: "Без", Surname: "Настройки"}
	require.NoError(t, database.CreateUser(ctx, pool, user))
	first := &models.Account{UserID: user.ID, Name: "А " + strconv.FormatInt(time.Now().UnixNano(), 10)}
	require.NoError(t, database.CreateAccount(ctx, pool, first))
	second := &models.Account{UserID: user.ID, Name: "Б " + strconv.FormatInt(time.Now().UnixNano(), 10)}
	require.NoError(t, database.CreateAccount(ctx, pool, second))

	_, err := service.CreateTransfer(ctx, pool, user.ID, models.Transfer{
		Date:          time.Now(),
		Amount:        decimal.NewFromInt(10),
		FromAccountID: first.ID,
		ToAccountID:   second.ID,
	})
	var config *service.ConfigurationError
	require.ErrorAs(t, err, &config)
	assert.Equal(t, models.SettingTransferCategoryID, config.Key)
}
