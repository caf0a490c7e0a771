package database

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Queryer покрывает и *pgxpool.Pool, и pgx.Tx: функции хранилища работают
// одинаково внутри и вне явной транзакции.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func ConnectDB() (*pgxpool.Pool, error) {
	// Загрузить переменные из .env
	if err := godotenv.Load(); err != nil {
		return nil, fmt.Errorf("Error loading .env file")
	}

	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"), port, os.Getenv("DB_NAME"))

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, err
	}

	return pool, nil
}

// InitSchema создаёт таблицы, если их ещё нет.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		second_name TEXT,
		surname TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS accounts (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, name)
	);

	CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, name)
	);

	CREATE TABLE IF NOT EXISTS settings (
		user_id INT NOT NULL REFERENCES users(id),
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (user_id, key)
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id),
		date DATE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		amount NUMERIC(14,2) NOT NULL,
		currency TEXT NOT NULL DEFAULT 'EUR',
		account_id INT NOT NULL REFERENCES accounts(id),
		category_id INT NOT NULL REFERENCES categories(id),
		is_recurrent BOOLEAN NOT NULL DEFAULT FALSE,
		status TEXT NOT NULL DEFAULT 'confirmed' CHECK (status IN ('confirmed', 'pending')),
		transfer_id UUID,
		transfer_role TEXT CHECK (transfer_role IN ('debit', 'credit')),
		series_id UUID,
		recur_interval INT,
		recur_unit TEXT CHECK (recur_unit IN ('day', 'week', 'month', 'year')),
		recur_end_date DATE
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions (user_id, date);
	CREATE INDEX IF NOT EXISTS idx_transactions_transfer ON transactions (transfer_id) WHERE transfer_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_transactions_series ON transactions (series_id) WHERE series_id IS NOT NULL;`

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ошибка инициализации схемы БД: %v", err)
	}
	return nil
}
