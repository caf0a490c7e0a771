package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки несут машиночитаемый ключ и параметры: клиент локализует
// сообщение сам, сервер не формирует текст для пользователя.

type ValidationError struct {
	Key    string
	Params map[string]any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("некорректный запрос: %s %v", e.Key, e.Params)
}

func NewValidationError(key string, params map[string]any) *ValidationError {
	return &ValidationError{Key: key, Params: params}
}

type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v не найдено", e.Entity, e.ID)
}

type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("настройка %s не задана", e.Key)
}

type ConflictError struct {
	Key    string
	Params map[string]any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("конфликт: %s %v", e.Key, e.Params)
}

type StorageUnavailableError struct {
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("хранилище недоступно: %v", e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

const pgUniqueViolation = "23505"

// translateStoreError переводит ошибки слоя хранилища в типизированные:
// отсутствие строки, нарушение уникальности и таймаут различаются здесь,
// в одном месте, а не в каждом вызове.
func translateStoreError(err error, entity string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &ConflictError{Key: "duplicate_name", Params: map[string]any{"entity": entity}}
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return &StorageUnavailableError{Err: err}
	}
	return err
}
