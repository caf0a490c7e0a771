package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer — восстановленное представление пары транзакций с общим transfer_id.
type Transfer struct {
	TransferID    uuid.UUID       `json:"transfer_id"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	FromAccountID int             `json:"from_account_id"`
	ToAccountID   int             `json:"to_account_id"`
}
