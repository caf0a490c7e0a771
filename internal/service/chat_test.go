package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func TestSanitizeSQLStripsMarkdownFence(t *testing.T) {
	raw := "```sql\nSELECT SUM(amount) FROM transactions WHERE user_id = 7;\n```"
	sql, err := sanitizeSQL(raw, 7)

	require.NoError(t, err)
	assert.Equal(t, "SELECT SUM(amount) FROM transactions WHERE user_id = 7", sql)
}

func TestSanitizeSQLRejectsNonSelect(t *testing.T) {
	cases := []string{
		"DELETE FROM transactions WHERE user_id = 7",
		"UPDATE transactions SET amount = 0 WHERE user_id = 7",
		"Я не могу ответить на этот вопрос.",
	}
	for _, raw := range cases {
		_, err := sanitizeSQL(raw, 7)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation, "raw=%q", raw)
		assert.Equal(t, "chat_not_answerable", validation.Key)
	}
}

func TestSanitizeSQLRejectsStackedStatements(t *testing.T) {
	_, err := sanitizeSQL("SELECT 1 WHERE user_id = 7; DROP TABLE transactions", 7)
	assert.Error(t, err)
}

func TestSanitizeSQLRequiresOwnerPredicate(t *testing.T) {
	_, err := sanitizeSQL("SELECT SUM(amount) FROM transactions", 7)
	assert.Error(t, err)

	// Предикат с чужим идентификатором не проходит.
	_, err = sanitizeSQL("SELECT SUM(amount) FROM transactions WHERE user_id = 8", 7)
	assert.Error(t, err)
}

func TestHistoryBlock(t *testing.T) {
	assert.Empty(t, historyBlock(nil))

	block := historyBlock([]models.ChatMessage{
		{Role: "user", Content: "Сколько я потратил в марте?"},
		{Role: "assistant", Content: "В марте вы потратили 420 EUR."},
	})
	assert.Contains(t, block, "[user] Сколько я потратил в марте?")
	assert.Contains(t, block, "[assistant] В марте вы потратили 420 EUR.")
}
