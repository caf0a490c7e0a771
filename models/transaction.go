package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusConfirmed TransactionStatus = "confirmed"
	StatusPending   TransactionStatus = "pending"
)

func (s TransactionStatus) Valid() bool {
	return s == StatusConfirmed || s == StatusPending
}

type IntervalUnit string

const (
	UnitDay   IntervalUnit = "day"
	UnitWeek  IntervalUnit = "week"
	UnitMonth IntervalUnit = "month"
	UnitYear  IntervalUnit = "year"
)

func (u IntervalUnit) Valid() bool {
	switch u {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return true
	}
	return false
}

type TransferRole string

const (
	RoleDebit  TransferRole = "debit"
	RoleCredit TransferRole = "credit"
)

type Transaction struct {
	ID            int               `json:"id" db:"id"`
	UserID        int               `json:"user_id" db:"user_id"`
	Date          time.Time         `json:"date" db:"date"`
	Description   string            `json:"description" db:"description"`
	Amount        decimal.Decimal   `json:"amount" db:"amount"`
	Currency      string            `json:"currency" db:"currency"`
	AccountID     int               `json:"account_id" db:"account_id"`
	CategoryID    int               `json:"category_id" db:"category_id"`
	IsRecurrent   bool              `json:"is_recurrent" db:"is_recurrent"`
	Status        TransactionStatus `json:"status" db:"status"`
	TransferID    *uuid.UUID        `json:"transfer_id,omitempty" db:"transfer_id"`
	TransferRole  *TransferRole     `json:"transfer_role,omitempty" db:"transfer_role"`
	SeriesID      *uuid.UUID        `json:"series_id,omitempty" db:"series_id"`
	RecurInterval *int              `json:"recur_interval,omitempty" db:"recur_interval"`
	RecurUnit     *IntervalUnit     `json:"recur_unit,omitempty" db:"recur_unit"`
	RecurEndDate  *time.Time        `json:"recur_end_date,omitempty" db:"recur_end_date"`
}

// TransactionPatch перечисляет только изменяемые поля: nil-поле не попадает
// в UPDATE и не затирает текущее значение.
type TransactionPatch struct {
	Date          *time.Time
	Description   *string
	Amount        *decimal.Decimal
	Currency      *string
	AccountID     *int
	CategoryID    *int
	Status        *TransactionStatus
	IsRecurrent   *bool
	RecurInterval *int
	RecurUnit     *IntervalUnit
	RecurEndDate  *time.Time
}

func (p TransactionPatch) Empty() bool {
	return p.Date == nil && p.Description == nil && p.Amount == nil &&
		p.Currency == nil && p.AccountID == nil && p.CategoryID == nil &&
		p.Status == nil && p.IsRecurrent == nil && p.RecurInterval == nil &&
		p.RecurUnit == nil && p.RecurEndDate == nil
}

// TouchesRule сообщает, меняет ли патч параметры повторения.
func (p TransactionPatch) TouchesRule() bool {
	return p.RecurInterval != nil || p.RecurUnit != nil || p.RecurEndDate != nil
}

type TransactionFilter struct {
	AccountIDs  []int
	CategoryIDs []int
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *TransactionStatus
	Search      string
	Page        int
	PageSize    int
}

type TransactionPage struct {
	Items      []Transaction `json:"items"`
	TotalCount int           `json:"total_count"`
}

type BatchAction string

const (
	BatchDelete       BatchAction = "delete"
	BatchRecategorize BatchAction = "recategorize"
)

type BatchInstruction struct {
	TransactionID    int         `json:"transaction_id"`
	Action           BatchAction `json:"action"`
	TargetCategoryID *int        `json:"target_category_id,omitempty"`
}
