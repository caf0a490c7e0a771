package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func CreateAccount(ctx context.Context, pool *pgxpool.Pool, account *models.Account) error {
	if err := database.CreateAccount(ctx, pool, account); err != nil {
		return translateStoreError(err, "счёт", account.Name)
	}
	return nil
}

func UpdateAccount(ctx context.Context, pool *pgxpool.Pool, account *models.Account) error {
	if err := database.UpdateAccount(ctx, pool, account); err != nil {
		return translateStoreError(err, "счёт", account.ID)
	}
	return nil
}

// DeleteAccountWithStrategy удаляет счёт. Для счёта с транзакциями обязательна
// стратегия: reassign переносит их на другой счёт, delete_transactions удаляет.
func DeleteAccountWithStrategy(ctx context.Context, pool *pgxpool.Pool, accountID, userID int, strategy string, targetAccountID *int) error {
	count, err := database.CountTransactionsByAccount(ctx, pool, accountID, userID)
	if err != nil {
		return translateStoreError(err, "счёт", accountID)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return translateStoreError(err, "счёт", accountID)
	}
	defer tx.Rollback(ctx)

	if count > 0 {
		switch strategy {
		case "reassign":
			if targetAccountID == nil {
				return NewValidationError("account_target_required", map[string]any{"account_id": accountID})
			}
			if *targetAccountID == accountID {
				return NewValidationError("account_target_same", map[string]any{"account_id": accountID})
			}
			if err := database.ReassignTransactionsFromAccount(ctx, tx, accountID, *targetAccountID, userID); err != nil {
				return translateStoreError(err, "счёт", accountID)
			}
		case "delete_transactions":
			if err := database.DeleteTransactionsByAccount(ctx, tx, accountID, userID); err != nil {
				return translateStoreError(err, "счёт", accountID)
			}
		case "":
			return NewValidationError("account_strategy_required", map[string]any{"account_id": accountID, "count": count})
		default:
			return NewValidationError("account_strategy_unknown", map[string]any{"strategy": strategy})
		}
	}

	if err := database.DeleteAccount(ctx, tx, accountID, userID); err != nil {
		return translateStoreError(err, "счёт", accountID)
	}

	if err := tx.Commit(ctx); err != nil {
		return translateStoreError(err, "счёт", accountID)
	}
	return nil
}
