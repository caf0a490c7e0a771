package service

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) error {
	if err := database.CreateCategory(ctx, pool, category); err != nil {
		return translateStoreError(err, "категория", category.Name)
	}
	return nil
}

func UpdateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) error {
	if err := database.UpdateCategory(ctx, pool, category); err != nil {
		return translateStoreError(err, "категория", category.ID)
	}
	return nil
}

// DeleteCategoryWithStrategy удаляет категорию. Активную категорию переводов
// нельзя удалить без замены; для категории с транзакциями обязательна
// стратегия recategorize или delete_transactions.
func DeleteCategoryWithStrategy(ctx context.Context, pool *pgxpool.Pool, categoryID, userID int, strategy string, targetCategoryID, newTransferCategoryID *int) error {
	currentTransferID, err := transferCategoryID(ctx, pool, userID)
	isTransferCategory := err == nil && currentTransferID == categoryID

	if isTransferCategory {
		if newTransferCategoryID == nil {
			return NewValidationError("category_transfer_replacement_required", map[string]any{"category_id": categoryID})
		}
		if *newTransferCategoryID == categoryID {
			return NewValidationError("category_transfer_replacement_same", map[string]any{"category_id": categoryID})
		}
	}

	count, err := database.CountTransactionsByCategory(ctx, pool, categoryID, userID)
	if err != nil {
		return translateStoreError(err, "категория", categoryID)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return translateStoreError(err, "категория", categoryID)
	}
	defer tx.Rollback(ctx)

	if isTransferCategory {
		err := database.SetSetting(ctx, tx, userID, models.SettingTransferCategoryID, strconv.Itoa(*newTransferCategoryID))
		if err != nil {
			return translateStoreError(err, "настройка", models.SettingTransferCategoryID)
		}
	}

	if count > 0 {
		switch strategy {
		case "recategorize":
			if targetCategoryID == nil {
				return NewValidationError("category_target_required", map[string]any{"category_id": categoryID})
			}
			if *targetCategoryID == categoryID {
				return NewValidationError("category_target_same", map[string]any{"category_id": categoryID})
			}
			if err := database.RecategorizeTransactions(ctx, tx, categoryID, *targetCategoryID, userID); err != nil {
				return translateStoreError(err, "категория", categoryID)
			}
		case "delete_transactions":
			if err := database.DeleteTransactionsByCategory(ctx, tx, categoryID, userID); err != nil {
				return translateStoreError(err, "категория", categoryID)
			}
		case "":
			return NewValidationError("category_strategy_required", map[string]any{"category_id": categoryID, "count": count})
		default:
			return NewValidationError("category_strategy_unknown", map[string]any{"strategy": strategy})
		}
	}

	if err := database.DeleteCategory(ctx, tx, categoryID, userID); err != nil {
		return translateStoreError(err, "категория", categoryID)
	}

	if err := tx.Commit(ctx); err != nil {
		return translateStoreError(err, "категория", categoryID)
	}
	return nil
}

// UpdateTransferCategorySetting меняет категорию переводов; стратегия
// move_all переносит в новую категорию все строки прежней.
func UpdateTransferCategorySetting(ctx context.Context, pool *pgxpool.Pool, userID, newCategoryID int, migrationStrategy string) error {
	if _, err := database.GetCategoryByID(ctx, pool, newCategoryID, userID); err != nil {
		return translateStoreError(err, "категория", newCategoryID)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return translateStoreError(err, "настройка", models.SettingTransferCategoryID)
	}
	defer tx.Rollback(ctx)

	if migrationStrategy == "move_all" {
		oldID, err := transferCategoryID(ctx, pool, userID)
		if err == nil && oldID != newCategoryID {
			if err := database.RecategorizeTransactions(ctx, tx, oldID, newCategoryID, userID); err != nil {
				return translateStoreError(err, "категория", oldID)
			}
		}
	}

	err = database.SetSetting(ctx, tx, userID, models.SettingTransferCategoryID, strconv.Itoa(newCategoryID))
	if err != nil {
		return translateStoreError(err, "настройка", models.SettingTransferCategoryID)
	}

	if err := tx.Commit(ctx); err != nil {
		return translateStoreError(err, "настройка", models.SettingTransferCategoryID)
	}
	return nil
}
