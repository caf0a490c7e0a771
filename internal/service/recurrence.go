package service

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

// Движок повторяющихся транзакций. Мастер-строка серии хранит правило
// (интервал, единица, дата окончания); будущие строки создаются заранее
// в статусе pending и подтверждаются пользователем по одной.

const DefaultHorizonYears = 5

// HorizonYears — горизонт генерации, когда правило не содержит даты окончания.
func HorizonYears() int {
	if v := os.Getenv("RECURRENCE_HORIZON_YEARS"); v != "" {
		if years, err := strconv.Atoi(v); err == nil && years > 0 {
			return years
		}
		log.Printf("Некорректное значение RECURRENCE_HORIZON_YEARS=%q, используется %d", v, DefaultHorizonYears)
	}
	return DefaultHorizonYears
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// stepFrom возвращает n-й шаг от начальной даты. Месячные и годовые шаги
// считаются от исходного дня месяца с прижатием к концу короткого месяца:
// 31 января + 1 месяц = 29 февраля (в високосный год), + 2 месяца = 31 марта.
func stepFrom(start time.Time, n, interval int, unit models.IntervalUnit) time.Time {
	switch unit {
	case models.UnitDay:
		return start.AddDate(0, 0, n*interval)
	case models.UnitWeek:
		return start.AddDate(0, 0, n*interval*7)
	case models.UnitMonth, models.UnitYear:
		months := n * interval
		if unit == models.UnitYear {
			months = n * interval * 12
		}
		year, month := start.Year(), int(start.Month())-1+months
		year += month / 12
		month = month % 12
		if month < 0 {
			month += 12
			year--
		}
		day := start.Day()
		if lastDay := daysIn(year, time.Month(month+1)); day > lastDay {
			day = lastDay
		}
		return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, start.Location())
	}
	return start
}

// Occurrences возвращает даты будущих экземпляров серии: строго после
// стартовой даты, включительно до даты окончания. Без даты окончания
// действует горизонт horizonYears от старта. Результат детерминирован:
// перегенерация с теми же аргументами даёт тот же набор дат.
func Occurrences(start time.Time, interval int, unit models.IntervalUnit, end *time.Time, horizonYears int) []time.Time {
	if interval <= 0 || !unit.Valid() {
		return nil
	}
	last := start.AddDate(horizonYears, 0, 0)
	if end != nil {
		last = *end
	}

	var dates []time.Time
	for n := 1; ; n++ {
		d := stepFrom(start, n, interval, unit)
		if d.After(last) {
			break
		}
		dates = append(dates, d)
	}
	return dates
}

// CreateTransaction создаёт одиночную строку либо мастер серии с хвостом
// ожидающих экземпляров. Неполное правило (нет единицы интервала) — не
// ошибка: серия получает идентификатор, но экземпляры не создаются.
func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, t *models.Transaction) error {
	if t.Currency == "" {
		t.Currency = "EUR"
	}
	t.Status = models.StatusConfirmed

	if !t.IsRecurrent {
		t.SeriesID = nil
		t.RecurInterval = nil
		t.RecurUnit = nil
		t.RecurEndDate = nil
		if err := database.InsertTransaction(ctx, pool, t); err != nil {
			return translateStoreError(err, "транзакция", nil)
		}
		return nil
	}

	seriesID := uuid.New()
	t.SeriesID = &seriesID
	if t.RecurInterval == nil {
		one := 1
		t.RecurInterval = &one
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return translateStoreError(err, "транзакция", nil)
	}
	defer tx.Rollback(ctx)

	if err := database.InsertTransaction(ctx, tx, t); err != nil {
		return translateStoreError(err, "транзакция", nil)
	}

	if t.RecurUnit != nil && t.RecurUnit.Valid() {
		for _, date := range Occurrences(t.Date, *t.RecurInterval, *t.RecurUnit, t.RecurEndDate, HorizonYears()) {
			instance := &models.Transaction{
				UserID:      t.UserID,
				Date:        date,
				Description: t.Description,
				Amount:      t.Amount,
				Currency:    t.Currency,
				AccountID:   t.AccountID,
				CategoryID:  t.CategoryID,
				IsRecurrent: true,
				Status:      models.StatusPending,
				SeriesID:    &seriesID,
			}
			if err := database.InsertTransaction(ctx, tx, instance); err != nil {
				return translateStoreError(err, "транзакция", nil)
			}
		}
	} else {
		log.Printf("Серия %s создана без правила повторения, экземпляры не сгенерированы", seriesID)
	}

	if err := tx.Commit(ctx); err != nil {
		return translateStoreError(err, "транзакция", nil)
	}
	return nil
}

// fieldsOnly отбрасывает из патча признак повторения и поля правила:
// ими движок распоряжается отдельно через SetSeries/DetachFromSeries.
func fieldsOnly(patch models.TransactionPatch) models.TransactionPatch {
	patch.IsRecurrent = nil
	patch.RecurInterval = nil
	patch.RecurUnit = nil
	patch.RecurEndDate = nil
	return patch
}

// UpdateTransaction применяет патч с учётом состояния серии.
//
// Переходы:
//   - редактирование ожидающего экземпляра подтверждает его;
//   - выключение повторения отвязывает строку; если она была последней
//     подтверждённой в серии, ожидающий хвост удаляется;
//   - включение повторения или смена правила перегенерируют хвост, но только
//     пока в серии не больше одной подтверждённой строки — дальше серия
//     считается материализованной историей и не перестраивается.
func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, id, userID int, patch models.TransactionPatch) (*models.Transaction, error) {
	current, err := database.GetTransactionByID(ctx, pool, id, userID)
	if err != nil {
		return nil, translateStoreError(err, "транзакция", id)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, translateStoreError(err, "транзакция", id)
	}
	defer tx.Rollback(ctx)

	// Включением повторения считается только фактическая смена состояния:
	// клиент присылает is_recurrent=true и в обычной правке уже повторяющейся
	// строки, в том числе ожидающего экземпляра.
	turnOff := patch.IsRecurrent != nil && !*patch.IsRecurrent && current.SeriesID != nil
	turnOn := patch.IsRecurrent != nil && *patch.IsRecurrent && !current.IsRecurrent
	ruleChange := current.IsRecurrent && current.SeriesID != nil && patch.TouchesRule()

	switch {
	case turnOff:
		seriesID := *current.SeriesID
		confirmed, err := database.CountConfirmedInSeries(ctx, tx, seriesID, userID)
		if err != nil {
			return nil, translateStoreError(err, "серия", seriesID)
		}
		if err := database.DetachFromSeries(ctx, tx, id, userID); err != nil {
			return nil, translateStoreError(err, "транзакция", id)
		}
		fieldPatch := fieldsOnly(patch)
		if current.Status == models.StatusPending {
			// Отвязанная строка больше не экземпляр серии: подтверждаем её,
			// иначе она навсегда выпадет из агрегатов.
			confirmedStatus := models.StatusConfirmed
			fieldPatch.Status = &confirmedStatus
		}
		if err := database.UpdateTransactionFields(ctx, tx, id, userID, fieldPatch); err != nil {
			return nil, translateStoreError(err, "транзакция", id)
		}
		// Серия схлопывается, только когда отвязана её последняя
		// подтверждённая строка; отвязка ожидающего экземпляра хвост не трогает.
		if current.Status == models.StatusConfirmed && confirmed <= 1 {
			if err := database.DeletePendingInSeries(ctx, tx, seriesID, userID); err != nil {
				return nil, translateStoreError(err, "серия", seriesID)
			}
		}

	case current.Status == models.StatusPending:
		// Правка ожидающего экземпляра подтверждает его; серия не трогается,
		// правило остаётся только на мастере.
		confirmedStatus := models.StatusConfirmed
		fieldPatch := fieldsOnly(patch)
		fieldPatch.Status = &confirmedStatus
		if err := database.UpdateTransactionFields(ctx, tx, id, userID, fieldPatch); err != nil {
			return nil, translateStoreError(err, "транзакция", id)
		}

	case turnOn || ruleChange:
		seriesID := uuid.New()
		confirmed := 0
		if current.SeriesID != nil {
			seriesID = *current.SeriesID
			confirmed, err = database.CountConfirmedInSeries(ctx, tx, seriesID, userID)
			if err != nil {
				return nil, translateStoreError(err, "серия", seriesID)
			}
		}

		if err := database.UpdateTransactionFields(ctx, tx, id, userID, fieldsOnly(patch)); err != nil {
			return nil, translateStoreError(err, "транзакция", id)
		}

		interval := current.RecurInterval
		unit := current.RecurUnit
		endDate := current.RecurEndDate
		if patch.RecurInterval != nil {
			interval = patch.RecurInterval
		}
		if patch.RecurUnit != nil {
			unit = patch.RecurUnit
		}
		if patch.RecurEndDate != nil {
			endDate = patch.RecurEndDate
		}
		if interval == nil {
			one := 1
			interval = &one
		}

		if err := database.SetSeries(ctx, tx, id, userID, seriesID, interval, unit, endDate); err != nil {
			return nil, translateStoreError(err, "транзакция", id)
		}

		if confirmed <= 1 {
			if err := database.DeletePendingInSeries(ctx, tx, seriesID, userID); err != nil {
				return nil, translateStoreError(err, "серия", seriesID)
			}

			master, err := database.GetTransactionByID(ctx, tx, id, userID)
			if err != nil {
				return nil, translateStoreError(err, "транзакция", id)
			}
			if unit != nil && unit.Valid() {
				for _, date := range Occurrences(master.Date, *interval, *unit, endDate, HorizonYears()) {
					instance := &models.Transaction{
						UserID:      userID,
						Date:        date,
						Description: master.Description,
						Amount:      master.Amount,
						Currency:    master.Currency,
						AccountID:   master.AccountID,
						CategoryID:  master.CategoryID,
						IsRecurrent: true,
						Status:      models.StatusPending,
						SeriesID:    &seriesID,
					}
					if err := database.InsertTransaction(ctx, tx, instance); err != nil {
						return nil, translateStoreError(err, "транзакция", nil)
					}
				}
			} else {
				log.Printf("Серия %s осталась без правила повторения, экземпляры не сгенерированы", seriesID)
			}
		}

	default:
		if err := database.UpdateTransactionFields(ctx, tx, id, userID, fieldsOnly(patch)); err != nil {
			return nil, translateStoreError(err, "транзакция", id)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateStoreError(err, "транзакция", id)
	}

	updated, err := database.GetTransactionByID(ctx, pool, id, userID)
	if err != nil {
		return nil, translateStoreError(err, "транзакция", id)
	}
	return updated, nil
}

// DeleteTransaction удаляет строку по правилам её состояния: перевод уходит
// обеими сторонами, последняя подтверждённая строка серии забирает с собой
// весь ожидающий хвост, остальные случаи затрагивают только одну строку.
func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, id, userID int) error {
	current, err := database.GetTransactionByID(ctx, pool, id, userID)
	if err != nil {
		return translateStoreError(err, "транзакция", id)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return translateStoreError(err, "транзакция", id)
	}
	defer tx.Rollback(ctx)

	switch {
	case current.TransferID != nil:
		if err := database.DeleteTransferPair(ctx, tx, *current.TransferID, userID); err != nil {
			return translateStoreError(err, "перевод", *current.TransferID)
		}

	case current.SeriesID != nil && current.Status == models.StatusConfirmed:
		confirmed, err := database.CountConfirmedInSeries(ctx, tx, *current.SeriesID, userID)
		if err != nil {
			return translateStoreError(err, "серия", *current.SeriesID)
		}
		if confirmed <= 1 {
			if err := database.DeleteSeriesRows(ctx, tx, *current.SeriesID, userID); err != nil {
				return translateStoreError(err, "серия", *current.SeriesID)
			}
		} else {
			if err := database.DeleteTransactionRow(ctx, tx, id, userID); err != nil {
				return translateStoreError(err, "транзакция", id)
			}
		}

	default:
		if err := database.DeleteTransactionRow(ctx, tx, id, userID); err != nil {
			return translateStoreError(err, "транзакция", id)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return translateStoreError(err, "транзакция", id)
	}
	return nil
}
