package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func transferPair(transferID uuid.UUID, amount decimal.Decimal) []models.Transaction {
	debit := models.RoleDebit
	credit := models.RoleCredit
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []models.Transaction{
		{
			ID:           10,
			Date:         date,
			Description:  "Перевод в накопления",
			Amount:       amount.Neg(),
			Currency:     "EUR",
			AccountID:    1,
			TransferID:   &transferID,
			TransferRole: &debit,
		},
		{
			ID:           11,
			Date:         date,
			Description:  "Перевод в накопления",
			Amount:       amount,
			Currency:     "EUR",
			AccountID:    2,
			TransferID:   &transferID,
			TransferRole: &credit,
		},
	}
}

func TestTransferViewFromStoredRoles(t *testing.T) {
	transferID := uuid.New()
	view, err := transferView(transferPair(transferID, decimal.NewFromInt(200)), transferID)

	require.NoError(t, err)
	assert.Equal(t, transferID, view.TransferID)
	assert.Equal(t, 1, view.FromAccountID)
	assert.Equal(t, 2, view.ToAccountID)
	assert.True(t, view.Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "Перевод в накопления", view.Description)
}

func TestTransferViewRejectsBrokenPair(t *testing.T) {
	transferID := uuid.New()
	pair := transferPair(transferID, decimal.NewFromInt(50))

	_, err := transferView(pair[:1], transferID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	pair[1].TransferRole = nil
	_, err = transferView(pair, transferID)
	require.ErrorAs(t, err, &notFound)
}

func TestTransferViewRejectsSameRoleTwice(t *testing.T) {
	transferID := uuid.New()
	pair := transferPair(transferID, decimal.NewFromInt(50))
	debit := models.RoleDebit
	pair[1].TransferRole = &debit

	_, err := transferView(pair, transferID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestZeroSum(t *testing.T) {
	transferID := uuid.New()
	pair := transferPair(transferID, decimal.NewFromFloat(123.45))
	assert.True(t, ZeroSum(pair))

	pair[0].Amount = pair[0].Amount.Add(decimal.NewFromFloat(0.01))
	assert.False(t, ZeroSum(pair))
}
