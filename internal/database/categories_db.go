package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func CreateCategory(ctx context.Context, q Queryer, category *models.Category) error {
	query := `
		INSERT INTO categories (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := q.QueryRow(ctx, query, category.UserID, category.Name).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при создании категории: %w", err)
	}
	return nil
}

func GetCategories(ctx context.Context, q Queryer, userID int) ([]models.Category, error) {
	query := `SELECT id, user_id, name, created_at FROM categories WHERE user_id = $1 ORDER BY name`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка категорий: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения категории: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func GetCategoryByID(ctx context.Context, q Queryer, id, userID int) (*models.Category, error) {
	query := `SELECT id, user_id, name, created_at FROM categories WHERE id = $1 AND user_id = $2`

	c := &models.Category{}
	err := q.QueryRow(ctx, query, id, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("категория с ID %d не найдена: %w", id, pgx.ErrNoRows)
		}
		return nil, fmt.Errorf("ошибка при получении категории: %w", err)
	}
	return c, nil
}

func UpdateCategory(ctx context.Context, q Queryer, category *models.Category) error {
	result, err := q.Exec(ctx, `UPDATE categories SET name = $1 WHERE id = $2 AND user_id = $3`,
		category.Name, category.ID, category.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления категории: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("категория с ID %d не найдена: %w", category.ID, pgx.ErrNoRows)
	}
	return nil
}

func DeleteCategory(ctx context.Context, q Queryer, id, userID int) error {
	result, err := q.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления категории: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("категория с ID %d не найдена: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func CountTransactionsByCategory(ctx context.Context, q Queryer, categoryID, userID int) (int, error) {
	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE category_id = $1 AND user_id = $2`,
		categoryID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта транзакций категории: %w", err)
	}
	return count, nil
}

func RecategorizeTransactions(ctx context.Context, q Queryer, fromCategoryID, toCategoryID, userID int) error {
	_, err := q.Exec(ctx, `UPDATE transactions SET category_id = $1 WHERE category_id = $2 AND user_id = $3`,
		toCategoryID, fromCategoryID, userID)
	if err != nil {
		return fmt.Errorf("ошибка смены категории транзакций: %w", err)
	}
	return nil
}

func DeleteTransactionsByCategory(ctx context.Context, q Queryer, categoryID, userID int) error {
	_, err := q.Exec(ctx, `DELETE FROM transactions WHERE category_id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления транзакций категории: %w", err)
	}
	return nil
}
