package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// validateInstruction проверяет форму инструкции до обращения к хранилищу.
func validateInstruction(in models.BatchInstruction) error {
	switch in.Action {
	case models.BatchDelete:
		return nil
	case models.BatchRecategorize:
		if in.TargetCategoryID == nil {
			return NewValidationError("batch_target_category_required",
				map[string]any{"transaction_id": in.TransactionID})
		}
		return nil
	default:
		return NewValidationError("batch_unknown_action",
			map[string]any{"transaction_id": in.TransactionID, "action": in.Action})
	}
}

// ProcessBatch применяет список инструкций как одно целое: любая ошибка
// откатывает весь пакет, частичных результатов не остаётся.
func ProcessBatch(ctx context.Context, pool *pgxpool.Pool, userID int, instructions []models.BatchInstruction) error {
	if len(instructions) == 0 {
		return NewValidationError("batch_empty", nil)
	}
	for _, in := range instructions {
		if err := validateInstruction(in); err != nil {
			return err
		}
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return translateStoreError(err, "пакет", nil)
	}
	defer tx.Rollback(ctx)

	for _, in := range instructions {
		current, err := database.GetTransactionByID(ctx, tx, in.TransactionID, userID)
		if err != nil {
			return translateStoreError(err, "транзакция", in.TransactionID)
		}

		switch in.Action {
		case models.BatchDelete:
			// Строка перевода уводит за собой вторую сторону и внутри пакета.
			if current.TransferID != nil {
				if err := database.DeleteTransferPair(ctx, tx, *current.TransferID, userID); err != nil {
					return translateStoreError(err, "перевод", *current.TransferID)
				}
			} else if err := database.DeleteTransactionRow(ctx, tx, in.TransactionID, userID); err != nil {
				return translateStoreError(err, "транзакция", in.TransactionID)
			}

		case models.BatchRecategorize:
			patch := models.TransactionPatch{CategoryID: in.TargetCategoryID}
			if err := database.UpdateTransactionFields(ctx, tx, in.TransactionID, userID, patch); err != nil {
				return translateStoreError(err, "транзакция", in.TransactionID)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return translateStoreError(err, "пакет", nil)
	}
	return nil
}
