package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateStoreErrorNoRows(t *testing.T) {
	err := translateStoreError(fmt.Errorf("транзакция не найдена: %w", pgx.ErrNoRows), "transaction", 42)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "transaction", notFound.Entity)
	assert.Equal(t, 42, notFound.ID)
}

func TestTranslateStoreErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "accounts_user_id_name_key"}
	err := translateStoreError(fmt.Errorf("ошибка при добавлении счёта: %w", pgErr), "account", 1)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "duplicate_name", conflict.Key)
	assert.Equal(t, "account", conflict.Params["entity"])
}

func TestTranslateStoreErrorTimeout(t *testing.T) {
	err := translateStoreError(context.DeadlineExceeded, "transaction", 1)

	var unavailable *StorageUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTranslateStoreErrorPassthrough(t *testing.T) {
	original := errors.New("что-то совсем другое")
	assert.Equal(t, original, translateStoreError(original, "transaction", 1))
	assert.NoError(t, translateStoreError(nil, "transaction", 1))
}
