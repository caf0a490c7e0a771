package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func CreateAccount(ctx context.Context, q Queryer, account *models.Account) error {
	query := `
		INSERT INTO accounts (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := q.QueryRow(ctx, query, account.UserID, account.Name).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при создании счёта: %w", err)
	}
	return nil
}

func GetAccounts(ctx context.Context, q Queryer, userID int) ([]models.Account, error) {
	query := `SELECT id, user_id, name, created_at FROM accounts WHERE user_id = $1 ORDER BY name`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка счетов: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения счёта: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func GetAccountByID(ctx context.Context, q Queryer, id, userID int) (*models.Account, error) {
	query := `SELECT id, user_id, name, created_at FROM accounts WHERE id = $1 AND user_id = $2`

	a := &models.Account{}
	err := q.QueryRow(ctx, query, id, userID).Scan(&a.ID, &a.UserID, &a.Name, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("счёт с ID %d не найден: %w", id, pgx.ErrNoRows)
		}
		return nil, fmt.Errorf("ошибка при получении счёта: %w", err)
	}
	return a, nil
}

func UpdateAccount(ctx context.Context, q Queryer, account *models.Account) error {
	result, err := q.Exec(ctx, `UPDATE accounts SET name = $1 WHERE id = $2 AND user_id = $3`,
		account.Name, account.ID, account.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления счёта: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("счёт с ID %d не найден: %w", account.ID, pgx.ErrNoRows)
	}
	return nil
}

func DeleteAccount(ctx context.Context, q Queryer, id, userID int) error {
	result, err := q.Exec(ctx, `DELETE FROM accounts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления счёта: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("счёт с ID %d не найден: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func CountTransactionsByAccount(ctx context.Context, q Queryer, accountID, userID int) (int, error) {
	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1 AND user_id = $2`,
		accountID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта транзакций счёта: %w", err)
	}
	return count, nil
}

func ReassignTransactionsFromAccount(ctx context.Context, q Queryer, fromAccountID, toAccountID, userID int) error {
	_, err := q.Exec(ctx, `UPDATE transactions SET account_id = $1 WHERE account_id = $2 AND user_id = $3`,
		toAccountID, fromAccountID, userID)
	if err != nil {
		return fmt.Errorf("ошибка переноса транзакций на другой счёт: %w", err)
	}
	return nil
}

func DeleteTransactionsByAccount(ctx context.Context, q Queryer, accountID, userID int) error {
	_, err := q.Exec(ctx, `DELETE FROM transactions WHERE account_id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления транзакций счёта: %w", err)
	}
	return nil
}
