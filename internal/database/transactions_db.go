package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

const transactionColumns = `id, user_id, date, description, amount, currency, account_id, category_id,
	is_recurrent, status, transfer_id, transfer_role, series_id, recur_interval, recur_unit, recur_end_date`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.Date, &t.Description, &t.Amount, &t.Currency,
		&t.AccountID, &t.CategoryID, &t.IsRecurrent, &t.Status,
		&t.TransferID, &t.TransferRole, &t.SeriesID,
		&t.RecurInterval, &t.RecurUnit, &t.RecurEndDate,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()
	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения строки транзакции: %v", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func InsertTransaction(ctx context.Context, q Queryer, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, date, description, amount, currency, account_id, category_id,
			is_recurrent, status, transfer_id, transfer_role, series_id, recur_interval, recur_unit, recur_end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`

	err := q.QueryRow(ctx, query,
		t.UserID, t.Date, t.Description, t.Amount, t.Currency, t.AccountID, t.CategoryID,
		t.IsRecurrent, t.Status, t.TransferID, t.TransferRole, t.SeriesID,
		t.RecurInterval, t.RecurUnit, t.RecurEndDate).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении транзакции: %w", err)
	}
	return nil
}

func GetTransactionByID(ctx context.Context, q Queryer, id, userID int) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`

	t, err := scanTransaction(q.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("транзакция с ID %d не найдена: %w", id, pgx.ErrNoRows)
		}
		return nil, fmt.Errorf("ошибка при получении транзакции: %w", err)
	}
	return t, nil
}

// UpdateTransactionFields обновляет только те поля, которые заданы в патче.
func UpdateTransactionFields(ctx context.Context, q Queryer, id, userID int, patch models.TransactionPatch) error {
	set := make([]string, 0, 11)
	args := make([]any, 0, 13)

	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Date != nil {
		add("date", *patch.Date)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Amount != nil {
		add("amount", *patch.Amount)
	}
	if patch.Currency != nil {
		add("currency", *patch.Currency)
	}
	if patch.AccountID != nil {
		add("account_id", *patch.AccountID)
	}
	if patch.CategoryID != nil {
		add("category_id", *patch.CategoryID)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.IsRecurrent != nil {
		add("is_recurrent", *patch.IsRecurrent)
	}
	if patch.RecurInterval != nil {
		add("recur_interval", *patch.RecurInterval)
	}
	if patch.RecurUnit != nil {
		add("recur_unit", *patch.RecurUnit)
	}
	if patch.RecurEndDate != nil {
		add("recur_end_date", *patch.RecurEndDate)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, id, userID)
	query := fmt.Sprintf("UPDATE transactions SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(set, ", "), len(args)-1, len(args))

	result, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления транзакции: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d не найдена: %w", id, pgx.ErrNoRows)
	}
	return nil
}

// SetSeries назначает строке серию и параметры правила повторения.
func SetSeries(ctx context.Context, q Queryer, id, userID int, seriesID uuid.UUID, interval *int, unit *models.IntervalUnit, endDate *time.Time) error {
	query := `
		UPDATE transactions
		SET is_recurrent = TRUE, series_id = $1, recur_interval = $2, recur_unit = $3, recur_end_date = $4
		WHERE id = $5 AND user_id = $6`

	result, err := q.Exec(ctx, query, seriesID, interval, unit, endDate, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка назначения серии транзакции %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d не найдена: %w", id, pgx.ErrNoRows)
	}
	return nil
}

// DetachFromSeries снимает с строки признак повторения и все поля правила.
func DetachFromSeries(ctx context.Context, q Queryer, id, userID int) error {
	query := `
		UPDATE transactions
		SET is_recurrent = FALSE, series_id = NULL, recur_interval = NULL, recur_unit = NULL, recur_end_date = NULL
		WHERE id = $1 AND user_id = $2`

	result, err := q.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка отвязки транзакции %d от серии: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d не найдена: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func DeleteTransactionRow(ctx context.Context, q Queryer, id, userID int) error {
	result, err := q.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления транзакции: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d не найдена: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func QueryTransactions(ctx context.Context, q Queryer, userID int, f models.TransactionFilter) (models.TransactionPage, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if len(f.AccountIDs) > 0 {
		args = append(args, f.AccountIDs)
		where = append(where, fmt.Sprintf("account_id = ANY($%d)", len(args)))
	}
	if len(f.CategoryIDs) > 0 {
		args = append(args, f.CategoryIDs)
		where = append(where, fmt.Sprintf("category_id = ANY($%d)", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("description ILIKE $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var page models.TransactionPage
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM transactions WHERE "+cond, args...).Scan(&page.TotalCount); err != nil {
		return page, fmt.Errorf("ошибка подсчёта транзакций: %w", err)
	}

	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	pageNum := f.Page
	if pageNum <= 0 {
		pageNum = 1
	}
	args = append(args, pageSize, (pageNum-1)*pageSize)
	query := fmt.Sprintf("SELECT %s FROM transactions WHERE %s ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d",
		transactionColumns, cond, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return page, fmt.Errorf("ошибка выборки транзакций: %w", err)
	}
	page.Items, err = collectTransactions(rows)
	if err != nil {
		return page, err
	}
	if page.Items == nil {
		page.Items = []models.Transaction{}
	}
	return page, nil
}

func GetPendingTransactions(ctx context.Context, q Queryer, userID int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 AND status = 'pending' ORDER BY date, id`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки ожидающих транзакций: %w", err)
	}
	return collectTransactions(rows)
}

// --- Пары переводов ---

func GetTransferPair(ctx context.Context, q Queryer, transferID uuid.UUID, userID int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE transfer_id = $1 AND user_id = $2 ORDER BY amount`

	rows, err := q.Query(ctx, query, transferID, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки пары перевода: %w", err)
	}
	return collectTransactions(rows)
}

func DeleteTransferPair(ctx context.Context, q Queryer, transferID uuid.UUID, userID int) error {
	result, err := q.Exec(ctx, `DELETE FROM transactions WHERE transfer_id = $1 AND user_id = $2`, transferID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления перевода: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("перевод %s не найден: %w", transferID, pgx.ErrNoRows)
	}
	return nil
}

// --- Серии повторяющихся транзакций ---

func GetSeriesTransactions(ctx context.Context, q Queryer, seriesID uuid.UUID, userID int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE series_id = $1 AND user_id = $2 ORDER BY date, id`

	rows, err := q.Query(ctx, query, seriesID, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки серии: %w", err)
	}
	return collectTransactions(rows)
}

func CountConfirmedInSeries(ctx context.Context, q Queryer, seriesID uuid.UUID, userID int) (int, error) {
	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE series_id = $1 AND user_id = $2 AND status = 'confirmed'`,
		seriesID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта подтверждённых в серии: %w", err)
	}
	return count, nil
}

func DeletePendingInSeries(ctx context.Context, q Queryer, seriesID uuid.UUID, userID int) error {
	_, err := q.Exec(ctx,
		`DELETE FROM transactions WHERE series_id = $1 AND user_id = $2 AND status = 'pending'`,
		seriesID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления ожидающих строк серии: %w", err)
	}
	return nil
}

func DeleteSeriesRows(ctx context.Context, q Queryer, seriesID uuid.UUID, userID int) error {
	_, err := q.Exec(ctx, `DELETE FROM transactions WHERE series_id = $1 AND user_id = $2`, seriesID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления серии: %w", err)
	}
	return nil
}
