package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func TestValidateInstruction(t *testing.T) {
	target := 7

	assert.NoError(t, validateInstruction(models.BatchInstruction{
		TransactionID: 1,
		Action:        models.BatchDelete,
	}))
	assert.NoError(t, validateInstruction(models.BatchInstruction{
		TransactionID:    2,
		Action:           models.BatchRecategorize,
		TargetCategoryID: &target,
	}))
}

func TestValidateInstructionRecategorizeWithoutTarget(t *testing.T) {
	err := validateInstruction(models.BatchInstruction{
		TransactionID: 3,
		Action:        models.BatchRecategorize,
	})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "batch_target_category_required", validation.Key)
	assert.Equal(t, 3, validation.Params["transaction_id"])
}

func TestValidateInstructionUnknownAction(t *testing.T) {
	err := validateInstruction(models.BatchInstruction{
		TransactionID: 4,
		Action:        models.BatchAction("archive"),
	})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "batch_unknown_action", validation.Key)
}
