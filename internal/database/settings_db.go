package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
)

func GetSetting(ctx context.Context, q Queryer, userID int, key string) (string, error) {
	var value string
	err := q.QueryRow(ctx, `SELECT value FROM settings WHERE user_id = $1 AND key = $2`, userID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("настройка %q не найдена для user_id=%d: %w", key, userID, pgx.ErrNoRows)
		}
		return "", fmt.Errorf("ошибка получения настройки %q: %w", key, err)
	}
	return value, nil
}

func SetSetting(ctx context.Context, q Queryer, userID int, key, value string) error {
	query := `
		INSERT INTO settings (user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value`

	if _, err := q.Exec(ctx, query, userID, key, value); err != nil {
		return fmt.Errorf("ошибка сохранения настройки %q: %w", key, err)
	}
	log.Printf("Настройка %s обновлена для user_id=%d", key, userID)
	return nil
}
