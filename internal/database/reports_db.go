package database

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// Отчёты считают только подтверждённые строки: ожидающие (pending) записи
// серий не входят ни в балансы, ни в сводки до подтверждения пользователем.

func GetBalanceReport(ctx context.Context, q Queryer, userID int) (models.BalanceReport, error) {
	report := models.BalanceReport{BalancesByAccount: []models.AccountBalance{}, Currency: "EUR"}

	query := `
		SELECT a.id, a.name, COALESCE(SUM(t.amount), 0) AS balance
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id AND t.user_id = a.user_id AND t.status = 'confirmed'
		WHERE a.user_id = $1
		GROUP BY a.id, a.name
		ORDER BY a.name`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return report, fmt.Errorf("ошибка отчёта по балансам: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var b models.AccountBalance
		if err := rows.Scan(&b.AccountID, &b.Name, &b.Balance); err != nil {
			return report, fmt.Errorf("ошибка чтения баланса счёта: %w", err)
		}
		total = total.Add(b.Balance)
		report.BalancesByAccount = append(report.BalancesByAccount, b)
	}
	report.TotalBalance = total
	return report, rows.Err()
}

func GetBalanceEvolution(ctx context.Context, q Queryer, userID int) ([]models.BalanceEvolutionPoint, error) {
	query := `
		SELECT month, SUM(total) OVER (ORDER BY month) AS balance
		FROM (
			SELECT to_char(date, 'YYYY-MM') AS month, SUM(amount) AS total
			FROM transactions
			WHERE user_id = $1 AND status = 'confirmed'
			GROUP BY 1
		) m
		ORDER BY month`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка отчёта динамики баланса: %w", err)
	}
	defer rows.Close()

	points := []models.BalanceEvolutionPoint{}
	for rows.Next() {
		var p models.BalanceEvolutionPoint
		if err := rows.Scan(&p.Month, &p.Balance); err != nil {
			return nil, fmt.Errorf("ошибка чтения точки динамики баланса: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GetCategorySummary возвращает суммы по категориям за период.
// transactionType: "expense" (amount < 0, в отчёт идёт модуль) или "income".
// Категория переводов исключается, чтобы перемещения между счетами
// не выглядели как доходы и расходы.
func GetCategorySummary(ctx context.Context, q Queryer, userID int, start, end time.Time, transactionType string, transferCategoryID *int) ([]models.CategorySummaryRow, error) {
	sign := "t.amount < 0"
	if transactionType == "income" {
		sign = "t.amount > 0"
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.name, SUM(ABS(t.amount)) AS total
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.status = 'confirmed' AND %s
		  AND t.date BETWEEN $2 AND $3
		  AND ($4::int IS NULL OR t.category_id <> $4)
		GROUP BY c.id, c.name
		ORDER BY total DESC`, sign)

	rows, err := q.Query(ctx, query, userID, start, end, transferCategoryID)
	if err != nil {
		return nil, fmt.Errorf("ошибка отчёта по категориям: %w", err)
	}
	defer rows.Close()

	result := []models.CategorySummaryRow{}
	for rows.Next() {
		var r models.CategorySummaryRow
		if err := rows.Scan(&r.CategoryID, &r.Category, &r.Total); err != nil {
			return nil, fmt.Errorf("ошибка чтения строки отчёта по категориям: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func GetMonthlySummary(ctx context.Context, q Queryer, userID int, start, end time.Time, transferCategoryID *int) ([]models.MonthlySummaryRow, error) {
	query := `
		SELECT to_char(date, 'YYYY-MM') AS month,
		       COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0) AS income,
		       COALESCE(SUM(ABS(amount)) FILTER (WHERE amount < 0), 0) AS expense
		FROM transactions
		WHERE user_id = $1 AND status = 'confirmed'
		  AND date BETWEEN $2 AND $3
		  AND ($4::int IS NULL OR category_id <> $4)
		GROUP BY 1
		ORDER BY month`

	rows, err := q.Query(ctx, query, userID, start, end, transferCategoryID)
	if err != nil {
		return nil, fmt.Errorf("ошибка месячного отчёта: %w", err)
	}
	defer rows.Close()

	result := []models.MonthlySummaryRow{}
	for rows.Next() {
		var r models.MonthlySummaryRow
		if err := rows.Scan(&r.Month, &r.Income, &r.Expense); err != nil {
			return nil, fmt.Errorf("ошибка чтения строки месячного отчёта: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func GetRecurrentSummary(ctx context.Context, q Queryer, userID int, start, end time.Time) ([]models.RecurrentSummaryRow, error) {
	query := `
		SELECT to_char(date, 'YYYY-MM') AS month,
		       COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0) AS income,
		       COALESCE(SUM(ABS(amount)) FILTER (WHERE amount < 0), 0) AS expense
		FROM transactions
		WHERE user_id = $1 AND status = 'confirmed' AND series_id IS NOT NULL
		  AND date BETWEEN $2 AND $3
		GROUP BY 1
		ORDER BY month`

	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("ошибка отчёта по повторяющимся транзакциям: %w", err)
	}
	defer rows.Close()

	result := []models.RecurrentSummaryRow{}
	for rows.Next() {
		var r models.RecurrentSummaryRow
		if err := rows.Scan(&r.Month, &r.Income, &r.Expense); err != nil {
			return nil, fmt.Errorf("ошибка чтения строки отчёта по повторяющимся: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
