package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// Перевод между счетами — две строки с общим transfer_id: дебет на счёте
// отправителя и кредит на счёте получателя, суммы равны по модулю и в сумме
// дают ровно ноль. Обе строки попадают в категорию переводов пользователя.

func transferCategoryID(ctx context.Context, q database.Queryer, userID int) (int, error) {
	value, err := database.GetSetting(ctx, q, userID, models.SettingTransferCategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &ConfigurationError{Key: models.SettingTransferCategoryID}
		}
		return 0, translateStoreError(err, "настройка", models.SettingTransferCategoryID)
	}
	categoryID, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ConfigurationError{Key: models.SettingTransferCategoryID}
	}
	return categoryID, nil
}

func CreateTransfer(ctx context.Context, pool *pgxpool.Pool, userID int, in models.Transfer) (*models.Transfer, error) {
	if in.FromAccountID == in.ToAccountID {
		return nil, NewValidationError("transfer_same_account", nil)
	}
	if !in.Amount.IsPositive() {
		return nil, NewValidationError("transfer_amount_positive", map[string]any{"amount": in.Amount})
	}

	categoryID, err := transferCategoryID(ctx, pool, userID)
	if err != nil {
		return nil, err
	}
	if in.Currency == "" {
		in.Currency = "EUR"
	}
	in.TransferID = uuid.New()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, translateStoreError(err, "перевод", nil)
	}
	defer tx.Rollback(ctx)

	debitRole, creditRole := models.RoleDebit, models.RoleCredit
	legs := []models.Transaction{
		{
			UserID:       userID,
			Date:         in.Date,
			Description:  in.Description,
			Amount:       in.Amount.Abs().Neg(),
			Currency:     in.Currency,
			AccountID:    in.FromAccountID,
			CategoryID:   categoryID,
			Status:       models.StatusConfirmed,
			TransferID:   &in.TransferID,
			TransferRole: &debitRole,
		},
		{
			UserID:       userID,
			Date:         in.Date,
			Description:  in.Description,
			Amount:       in.Amount.Abs(),
			Currency:     in.Currency,
			AccountID:    in.ToAccountID,
			CategoryID:   categoryID,
			Status:       models.StatusConfirmed,
			TransferID:   &in.TransferID,
			TransferRole: &creditRole,
		},
	}
	for i := range legs {
		if err := database.InsertTransaction(ctx, tx, &legs[i]); err != nil {
			return nil, translateStoreError(err, "перевод", nil)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateStoreError(err, "перевод", nil)
	}
	return &in, nil
}

// transferView собирает представление перевода из двух строк пары.
// Роль каждой строки хранится явно, а не выводится из знака суммы.
func transferView(pair []models.Transaction, transferID uuid.UUID) (*models.Transfer, error) {
	if len(pair) != 2 {
		return nil, &NotFoundError{Entity: "перевод", ID: transferID}
	}

	view := &models.Transfer{TransferID: transferID}
	for _, leg := range pair {
		if leg.TransferRole == nil {
			return nil, &NotFoundError{Entity: "перевод", ID: transferID}
		}
		switch *leg.TransferRole {
		case models.RoleDebit:
			view.FromAccountID = leg.AccountID
		case models.RoleCredit:
			view.ToAccountID = leg.AccountID
		}
		view.Date = leg.Date
		view.Description = leg.Description
		view.Currency = leg.Currency
		view.Amount = leg.Amount.Abs()
	}
	if view.FromAccountID == 0 || view.ToAccountID == 0 {
		return nil, &NotFoundError{Entity: "перевод", ID: transferID}
	}
	return view, nil
}

func GetTransfer(ctx context.Context, pool *pgxpool.Pool, userID int, transferID uuid.UUID) (*models.Transfer, error) {
	pair, err := database.GetTransferPair(ctx, pool, transferID, userID)
	if err != nil {
		return nil, translateStoreError(err, "перевод", transferID)
	}
	return transferView(pair, transferID)
}

func UpdateTransfer(ctx context.Context, pool *pgxpool.Pool, userID int, transferID uuid.UUID, in models.Transfer) (*models.Transfer, error) {
	if in.FromAccountID == in.ToAccountID {
		return nil, NewValidationError("transfer_same_account", nil)
	}
	if !in.Amount.IsPositive() {
		return nil, NewValidationError("transfer_amount_positive", map[string]any{"amount": in.Amount})
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, translateStoreError(err, "перевод", transferID)
	}
	defer tx.Rollback(ctx)

	pair, err := database.GetTransferPair(ctx, tx, transferID, userID)
	if err != nil {
		return nil, translateStoreError(err, "перевод", transferID)
	}
	if len(pair) != 2 {
		return nil, &NotFoundError{Entity: "перевод", ID: transferID}
	}

	for _, leg := range pair {
		if leg.TransferRole == nil {
			return nil, &NotFoundError{Entity: "перевод", ID: transferID}
		}
		amount := in.Amount.Abs()
		accountID := in.ToAccountID
		if *leg.TransferRole == models.RoleDebit {
			amount = amount.Neg()
			accountID = in.FromAccountID
		}
		patch := models.TransactionPatch{
			Date:      &in.Date,
			Amount:    &amount,
			AccountID: &accountID,
		}
		if in.Description != "" {
			patch.Description = &in.Description
		}
		if err := database.UpdateTransactionFields(ctx, tx, leg.ID, userID, patch); err != nil {
			return nil, translateStoreError(err, "перевод", transferID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateStoreError(err, "перевод", transferID)
	}
	return GetTransfer(ctx, pool, userID, transferID)
}

// DeleteTransfer удаляет обе стороны пары: половина перевода остаться не может.
func DeleteTransfer(ctx context.Context, pool *pgxpool.Pool, userID int, transferID uuid.UUID) error {
	if err := database.DeleteTransferPair(ctx, pool, transferID, userID); err != nil {
		return translateStoreError(err, "перевод", transferID)
	}
	return nil
}

// ZeroSum проверяет баланс пары: используется в инвариантных проверках.
func ZeroSum(pair []models.Transaction) bool {
	sum := decimal.Zero
	for _, leg := range pair {
		sum = sum.Add(leg.Amount)
	}
	return sum.IsZero()
}
