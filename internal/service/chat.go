package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
	"google.golang.org/api/option"
)

// Чат-мост: вопрос на естественном языке превращается в один SELECT по
// таблице транзакций, выполняется только на чтение и пересказывается
// пользователю. Модель не получает доступа к чужим данным: запрос обязан
// фильтровать по user_id, это проверяется и в промпте, и после генерации.

const chatSchema = `
Таблица transactions:
  id INT, user_id INT, date DATE, description TEXT, amount NUMERIC,
  currency TEXT, account_id INT, category_id INT, is_recurrent BOOLEAN,
  status TEXT ('confirmed'|'pending'), transfer_id UUID, series_id UUID
Таблица accounts: id INT, user_id INT, name TEXT
Таблица categories: id INT, user_id INT, name TEXT`

type ChatClient struct {
	model *genai.GenerativeModel
}

func NewChatClient(ctx context.Context) (*ChatClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, &ConfigurationError{Key: "GEMINI_API_KEY"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("не удалось создать клиент Gemini: %v", err)
	}

	modelName := os.Getenv("GEMINI_MODEL")
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	log.Printf("Клиент Gemini инициализирован, модель %s", modelName)
	return &ChatClient{model: client.GenerativeModel(modelName)}, nil
}

func (c *ChatClient) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("ошибка обращения к Gemini: %v", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini вернул пустой ответ")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("не удалось прочитать текст ответа Gemini")
	}
	return string(text), nil
}

func historyBlock(history []models.ChatMessage) string {
	if len(history) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Предыдущие сообщения диалога:\n")
	for _, m := range history {
		fmt.Fprintf(&b, "[%s] %s\n", m.Role, m.Content)
	}
	return b.String()
}

// sanitizeSQL снимает markdown-обёртку и проверяет, что это один
// owner-scoped SELECT без дополнительных операторов.
func sanitizeSQL(raw string, userID int) (string, error) {
	sql := strings.TrimSpace(raw)
	sql = strings.TrimPrefix(sql, "```sql")
	sql = strings.TrimPrefix(sql, "```")
	sql = strings.TrimSuffix(sql, "```")
	sql = strings.TrimSpace(sql)
	sql = strings.TrimSuffix(sql, ";")

	upper := strings.ToUpper(sql)
	if !strings.HasPrefix(upper, "SELECT") {
		return "", NewValidationError("chat_not_answerable", nil)
	}
	if strings.Contains(sql, ";") {
		return "", NewValidationError("chat_not_answerable", nil)
	}
	if !strings.Contains(sql, fmt.Sprintf("user_id = %d", userID)) {
		return "", NewValidationError("chat_not_answerable", nil)
	}
	return sql, nil
}

func (c *ChatClient) Answer(ctx context.Context, pool *pgxpool.Pool, userID int, query string, history []models.ChatMessage) (string, error) {
	today := time.Now().Format("2006-01-02")

	sqlPrompt := fmt.Sprintf(`Ты — инженер по базам данных PostgreSQL. По схеме ниже напиши один точный SQL-запрос, отвечающий на вопрос пользователя.

Схема базы данных:
%s

%s
Вопрос пользователя:
"%s"

Правила:
- Сегодняшняя дата: %s.
- Каждая таблица фильтруется условием user_id = %d — без исключений.
- "Баланс" — это SUM(amount) подтверждённых транзакций (status = 'confirmed').
- "Доход" — SUM(amount) WHERE amount > 0, "расход" — SUM(ABS(amount)) WHERE amount < 0.
- Для периодов используй to_char(date, 'YYYY-MM').
- Выведи только один валидный SELECT без пояснений и без markdown.
- Если на вопрос нельзя ответить, выведи ровно: "Я не могу ответить на этот вопрос."`,
		chatSchema, historyBlock(history), query, today, userID)

	generatedSQL, err := c.generate(ctx, sqlPrompt)
	if err != nil {
		return "", err
	}
	if strings.Contains(generatedSQL, "Я не могу ответить") {
		return "К сожалению, я не могу ответить на этот вопрос по имеющимся данным.", nil
	}

	cleanSQL, err := sanitizeSQL(generatedSQL, userID)
	if err != nil {
		return "К сожалению, я не могу ответить на этот вопрос по имеющимся данным.", nil
	}

	result, err := runReadOnlyQuery(ctx, pool, cleanSQL)
	if err != nil {
		log.Printf("Сгенерированный запрос не выполнился: %v", err)
		return "Я попробовал выполнить запрос, но он завершился ошибкой.", nil
	}

	answerPrompt := fmt.Sprintf(`Ты — дружелюбный финансовый ассистент. По вопросу пользователя и данным ниже дай краткий ответ на естественном языке. Суммы форматируй в евро (например, 1 234,56 €).

Вопрос пользователя: "%s"
Данные:
%s

Ответ:`, query, result)

	return c.generate(ctx, answerPrompt)
}

// runReadOnlyQuery выполняет запрос в транзакции только для чтения и
// сводит результат в текстовую таблицу для второго промпта.
func runReadOnlyQuery(ctx context.Context, pool *pgxpool.Pool, sql string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, sql)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var b strings.Builder
	for i, fd := range rows.FieldDescriptions() {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(fd.Name)
	}
	b.WriteString("\n")

	count := 0
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return "", err
		}
		for i, v := range values {
			if i > 0 {
				b.WriteString(" | ")
			}
			fmt.Fprintf(&b, "%v", v)
		}
		b.WriteString("\n")
		count++
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if count == 0 {
		return "Данных не найдено.", nil
	}
	return b.String(), nil
}
