package database

import (
	"context"
	"fmt"

	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func CreateUser(ctx context.Context, q Queryer, user *models.User) error {
	query := `
		INSERT INTO users (first_name, second_name, surname)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := q.QueryRow(ctx, query, user.FirstName, user.SecondName, user.Surname).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}
	return nil
}

func GetUsers(ctx context.Context, q Queryer) ([]models.User, error) {
	rows, err := q.Query(ctx, `SELECT id, first_name, second_name, surname FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка пользователей: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.SecondName, &u.Surname); err != nil {
			return nil, fmt.Errorf("ошибка чтения пользователя: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
