package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/service"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
	"github.com/valeriaulyamaeva/finance-tracker-api/utils"
)

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "http://localhost:3000" || origin == "http://localhost:5173" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// UserIDMiddleware извлекает владельца из обязательного заголовка X-User-ID:
// все данные изолированы по пользователю.
func UserIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.GetHeader("X-User-ID"))
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"key": "user_header_required"},
			})
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int {
	return c.GetInt("user_id")
}

// respondError переводит типизированные ошибки сервисного слоя в HTTP-статусы.
// Ключ и параметры уходят клиенту как есть — текст локализуется на фронте.
func respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError
	var configErr *service.ConfigurationError
	var conflictErr *service.ConflictError
	var storageErr *service.StorageUnavailableError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": validationErr.Key, "params": validationErr.Params}})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"key": "not_found", "params": gin.H{"entity": notFoundErr.Entity}}})
	case errors.As(err, &configErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "setting_not_configured", "params": gin.H{"setting": configErr.Key}}})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"key": conflictErr.Key, "params": conflictErr.Params}})
	case errors.As(err, &storageErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": gin.H{"key": "storage_unavailable"}})
	default:
		log.Printf("Необработанная ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"key": "internal_error"}})
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func parseIntList(value string) []int {
	if value == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, id)
		}
	}
	return out
}

type createTransactionRequest struct {
	Date          string          `json:"date" binding:"required"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	AccountID     int             `json:"account_id" binding:"required"`
	CategoryID    int             `json:"category_id" binding:"required"`
	IsRecurrent   bool            `json:"is_recurrent"`
	RecurInterval *int            `json:"recur_interval"`
	RecurUnit     *string         `json:"recur_unit"`
	RecurEndDate  *string         `json:"recur_end_date"`
}

type transactionPatchRequest struct {
	Date          *string          `json:"date"`
	Description   *string          `json:"description"`
	Amount        *decimal.Decimal `json:"amount"`
	Currency      *string          `json:"currency"`
	AccountID     *int             `json:"account_id"`
	CategoryID    *int             `json:"category_id"`
	IsRecurrent   *bool            `json:"is_recurrent"`
	RecurInterval *int             `json:"recur_interval"`
	RecurUnit     *string          `json:"recur_unit"`
	RecurEndDate  *string          `json:"recur_end_date"`
}

func (r transactionPatchRequest) toPatch() (models.TransactionPatch, error) {
	patch := models.TransactionPatch{
		Description:   r.Description,
		Amount:        r.Amount,
		Currency:      r.Currency,
		AccountID:     r.AccountID,
		CategoryID:    r.CategoryID,
		IsRecurrent:   r.IsRecurrent,
		RecurInterval: r.RecurInterval,
	}
	if r.Date != nil {
		date, err := parseDate(*r.Date)
		if err != nil {
			return patch, service.NewValidationError("date_invalid", map[string]any{"date": *r.Date})
		}
		patch.Date = &date
	}
	if r.RecurUnit != nil {
		unit := models.IntervalUnit(*r.RecurUnit)
		if !unit.Valid() {
			return patch, service.NewValidationError("recur_unit_invalid", map[string]any{"unit": *r.RecurUnit})
		}
		patch.RecurUnit = &unit
	}
	if r.RecurEndDate != nil {
		endDate, err := parseDate(*r.RecurEndDate)
		if err != nil {
			return patch, service.NewValidationError("date_invalid", map[string]any{"date": *r.RecurEndDate})
		}
		patch.RecurEndDate = &endDate
	}
	return patch, nil
}

type transferRequest struct {
	Date          string          `json:"date" binding:"required"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	FromAccountID int             `json:"from_account_id" binding:"required"`
	ToAccountID   int             `json:"to_account_id" binding:"required"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatalf("Ошибка загрузки .env файла: %v", err)
	}

	pool, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	if err := database.InitSchema(context.Background(), pool); err != nil {
		log.Fatalf("Ошибка инициализации схемы: %v", err)
	}

	chatClient, err := service.NewChatClient(context.Background())
	if err != nil {
		log.Printf("Чат отключён: %v", err)
	}

	c := cron.New()
	_, err = c.AddFunc("@hourly", func() {
		if err := utils.RefreshRates(); err != nil {
			log.Printf("Ошибка обновления курсов валют: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Ошибка добавления задачи в cron: %v", err)
	}
	c.Start()

	r := gin.Default()
	r.Use(CORSMiddleware())

	r.GET("/users/", func(c *gin.Context) {
		users, err := database.GetUsers(c.Request.Context(), pool)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	})

	r.POST("/users/", func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "invalid_body"}})
			return
		}
		if err := database.CreateUser(c.Request.Context(), pool, &user); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	})

	api := r.Group("/", UserIDMiddleware())

	registerAccountRoutes(api, pool)
	registerCategoryRoutes(api, pool)
	registerSettingRoutes(api, pool)
	registerTransactionRoutes(api, pool)
	registerTransferRoutes(api, pool)
	registerReportRoutes(api, pool)

	api.POST("/chat/", func(c *gin.Context) {
		if chatClient == nil {
			respondError(c, &service.ConfigurationError{Key: "GEMINI_API_KEY"})
			return
		}
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "invalid_body"}})
			return
		}
		answer, err := chatClient.Answer(c.Request.Context(), pool, currentUserID(c), req.Query, req.History)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ChatResponse{Answer: answer})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Printf("Сервер запущен на порту %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}

func registerAccountRoutes(api *gin.RouterGroup, pool *pgxpool.Pool) {
	api.GET("/accounts/", func(c *gin.Context) {
		accounts, err := database.GetAccounts(c.Request.Context(), pool, currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, accounts)
	})

	api.POST("/accounts/", func(c *gin.Context) {
		var account models.Account
		if err := c.ShouldBindJSON(&account); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "invalid_body"}})
			return
		}
		account.UserID = currentUserID(c)
		if err := service.CreateAccount(c.Request.Context(), pool, &account); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, account)
	})

	api.PUT("/accounts/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "id_invalid"}})
			return
		}
		var account models.Account
		if err := c.ShouldBindJSON(&account); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "invalid_body"}})
			return
		}
		account.ID = id
		account.UserID = currentUserID(c)
		if err := service.UpdateAccount(c.Request.Context(), pool, &account); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, account)
	})

	api.DELETE("/accounts/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "id_invalid"}})
			return
		}
		var target *int
		if v := c.Query("target_account_id"); v != "" {
			if t, err := strconv.Atoi(v); err == nil {
				target = &t
			}
		}
		err = service.DeleteAccountWithStrategy(c.Request.Context(), pool, id, currentUserID(c), c.Query("strategy"), target)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.GET("/accounts/:id/transaction_count", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "id_invalid"}})
			return
		}
		count, err := database.CountTransactionsByAccount(c.Request.Context(), pool, id, currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	})
}

func registerCategoryRoutes(api *gin.RouterGroup, pool *pgxpool.Pool) {
	api.GET("/categories/", func(c *gin.Context) {
		categories, err := database.GetCategories(c.Request.Context(), pool, currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	})

	api.POST("/categories/", func(c *gin.Context) {
		var category models.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "invalid_body"}})
			return
		}
		category.UserID = currentUserID(c)
		if err := service.CreateCategory(c.Request.Context(), pool, &category); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	})

	api.PUT("/categories/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "id_invalid"}})
			return
		}
		var category models.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "invalid_body"}})
			return
		}
		category.ID = id
		category.UserID = currentUserID(c)
		if err := service.UpdateCategory(c.Request.Context(), pool, &category); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	})

	api.DELETE("/categories/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "id_invalid"}})
			return
		}
		var target, newTransfer *int
		if v := c.Query("target_category_id"); v != "" {
			if t, err := strconv.Atoi(v); err == nil {
				target = &t
			}
		}
		if v := c.Query("new_transfer_category_id"); v != "" {
			if t, err := strconv.Atoi(v); err == nil {
				newTransfer = &t
			}
		}
		err = service.DeleteCategoryWithStrategy(c.Request.Context(), pool, id, currentUserID(c), c.Query("strategy"), target, newTransfer)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.GET("/categories/:id/transaction_count", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "id_invalid"}})
			return
		}
		count, err := database.CountTransactionsByCategory(c.Request.Context(), pool, id, currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	})
}

func registerSettingRoutes(api *gin.RouterGroup, pool *pgxpool.Pool) {
	api.GET("/settings/transfer-category", func(c *gin.Context) {
		value, err := database.GetSetting(c.Request.Context(), pool, currentUserID(c), models.SettingTransferCategoryID)
		if err != nil {
			respondError(c, &service.ConfigurationError{Key: models.SettingTransferCategoryID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"value": value})
	})

	api.PUT("/settings/transfer-category", func(c *gin.Context) {
		var req struct {
			Value             int    `json:"value" binding:"required"`
			MigrationStrategy string `json:"migration_strategy"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "invalid_body"}})
			return
		}
		err := service.UpdateTransferCategorySetting(c.Request.Context(), pool, currentUserID(c), req.Value, req.MigrationStrategy)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"value": strconv.Itoa(req.Value)})
	})
}

func registerTransactionRoutes(api *gin.RouterGroup, pool *pgxpool.Pool) {
	api.GET("/transactions/", func(c *gin.Context) {
		filter := models.TransactionFilter{
			AccountIDs:  parseIntList(c.Query("account_ids")),
			CategoryIDs: parseIntList(c.Query("category_ids")),
			Search:      c.Query("search"),
		}
		if v := c.Query("start_date"); v != "" {
			if date, err := parseDate(v); err == nil {
				filter.StartDate = &date
			}
		}
		if v := c.Query("end_date"); v != "" {
			if date, err := parseDate(v); err == nil {
				filter.EndDate = &date
			}
		}
		if v := c.Query("status"); v != "" {
			status := models.TransactionStatus(v)
			if !status.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "status_invalid"}})
				return
			}
			filter.Status = &status
		}
		filter.Page, _ = strconv.Atoi(c.Query("page"))
		filter.PageSize, _ = strconv.Atoi(c.Query("page_size"))

		page, err := database.QueryTransactions(c.Request.Context(), pool, currentUserID(c), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	})

	api.GET("/transactions/pending", func(c *gin.Context) {
		pending, err := database.GetPendingTransactions(c.Request.Context(), pool, currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if pending == nil {
			pending = []models.Transaction{}
		}
		c.JSON(http.StatusOK, pending)
	})

	api.POST("/transactions/", func(c *gin.Context) {
		var req createTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "invalid_body"}})
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "date_invalid", "params": gin.H{"date": req.Date}}})
			return
		}

		t := &models.Transaction{
			UserID:        currentUserID(c),
			Date:          date,
			Description:   req.Description,
			Amount:        req.Amount,
			Currency:      req.Currency,
			AccountID:     req.AccountID,
			CategoryID:    req.CategoryID,
			IsRecurrent:   req.IsRecurrent,
			RecurInterval: req.RecurInterval,
		}
		if req.RecurUnit != nil {
			unit := models.IntervalUnit(*req.RecurUnit)
			if !unit.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "recur_unit_invalid", "params": gin.H{"unit": *req.RecurUnit}}})
				return
			}
			t.RecurUnit = &unit
		}
		if req.RecurEndDate != nil {
			endDate, err := parseDate(*req.RecurEndDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "date_invalid", "params": gin.H{"date": *req.RecurEndDate}}})
				return
			}
			t.RecurEndDate = &endDate
		}

		if err := service.CreateTransaction(c.Request.Context(), pool, t); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	})

	api.PUT("/transactions/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "id_invalid"}})
			return
		}
		var req transactionPatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "invalid_body"}})
			return
		}
		patch, err := req.toPatch()
		if err != nil {
			respondError(c, err)
			return
		}
		updated, err := service.UpdateTransaction(c.Request.Context(), pool, id, currentUserID(c), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	api.DELETE("/transactions/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "id_invalid"}})
			return
		}
		if err := service.DeleteTransaction(c.Request.Context(), pool, id, currentUserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.POST("/transactions/batch-process", func(c *gin.Context) {
		var req struct {
			Instructions []models.BatchInstruction `json:"instructions"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "invalid_body"}})
			return
		}
		if err := service.ProcessBatch(c.Request.Context(), pool, currentUserID(c), req.Instructions); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"processed": len(req.Instructions)})
	})
}

func registerTransferRoutes(api *gin.RouterGroup, pool *pgxpool.Pool) {
	api.POST("/transfers/", func(c *gin.Context) {
		var req transferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "invalid_body"}})
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "date_invalid", "params": gin.H{"date": req.Date}}})
			return
		}
		userID := currentUserID(c)

		description := req.Description
		if description == "" {
			from, err := database.GetAccountByID(c.Request.Context(), pool, req.FromAccountID, userID)
			if err != nil {
				respondError(c, &service.NotFoundError{Entity: "account", ID: req.FromAccountID})
				return
			}
			to, err := database.GetAccountByID(c.Request.Context(), pool, req.ToAccountID, userID)
			if err != nil {
				respondError(c, &service.NotFoundError{Entity: "account", ID: req.ToAccountID})
				return
			}
			description = "Перевод: " + from.Name + " → " + to.Name
		}

		transfer, err := service.CreateTransfer(c.Request.Context(), pool, userID, models.Transfer{
			Date:          date,
			Description:   description,
			Amount:        req.Amount,
			FromAccountID: req.FromAccountID,
			ToAccountID:   req.ToAccountID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, transfer)
	})

	api.GET("/transfers/:transfer_id", func(c *gin.Context) {
		transferID, err := uuid.Parse(c.Param("transfer_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "id_invalid"}})
			return
		}
		transfer, err := service.GetTransfer(c.Request.Context(), pool, currentUserID(c), transferID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, transfer)
	})

	api.PUT("/transfers/:transfer_id", func(c *gin.Context) {
		transferID, err := uuid.Parse(c.Param("transfer_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "id_invalid"}})
			return
		}
		var req transferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "invalid_body"}})
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "date_invalid", "params": gin.H{"date": req.Date}}})
			return
		}
		transfer, err := service.UpdateTransfer(c.Request.Context(), pool, currentUserID(c), transferID, models.Transfer{
			Date:          date,
			Description:   req.Description,
			Amount:        req.Amount,
			FromAccountID: req.FromAccountID,
			ToAccountID:   req.ToAccountID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, transfer)
	})

	api.DELETE("/transfers/:transfer_id", func(c *gin.Context) {
		transferID, err := uuid.Parse(c.Param("transfer_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"key": "id_invalid"}})
			return
		}
		if err := service.DeleteTransfer(c.Request.Context(), pool, currentUserID(c), transferID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func registerReportRoutes(api *gin.RouterGroup, pool *pgxpool.Pool) {
	// Период по умолчанию — последний год.
	reportRange := func(c *gin.Context) (time.Time, time.Time) {
		start := time.Now().AddDate(-1, 0, 0)
		end := time.Now()
		if v := c.Query("start_date"); v != "" {
			if date, err := parseDate(v); err == nil {
				start = date
			}
		}
		if v := c.Query("end_date"); v != "" {
			if date, err := parseDate(v); err == nil {
				end = date
			}
		}
		return start, end
	}

	transferCategory := func(c *gin.Context) *int {
		value, err := database.GetSetting(c.Request.Context(), pool, currentUserID(c), models.SettingTransferCategoryID)
		if err != nil {
			return nil
		}
		if id, err := strconv.Atoi(value); err == nil {
			return &id
		}
		return nil
	}

	api.GET("/reports/balance/", func(c *gin.Context) {
		report, err := database.GetBalanceReport(c.Request.Context(), pool, currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if currency := c.Query("currency"); currency != "" && currency != "EUR" {
			rate, err := utils.GetCurrencyRate(currency)
			if err != nil {
				respondError(c, service.NewValidationError("currency_unknown", map[string]any{"currency": currency}))
				return
			}
			factor := decimal.NewFromFloat(rate)
			for i := range report.BalancesByAccount {
				report.BalancesByAccount[i].Balance = report.BalancesByAccount[i].Balance.Mul(factor).Round(2)
			}
			report.TotalBalance = report.TotalBalance.Mul(factor).Round(2)
			report.Currency = currency
		}
		c.JSON(http.StatusOK, report)
	})

	api.GET("/reports/balance-evolution/", func(c *gin.Context) {
		points, err := database.GetBalanceEvolution(c.Request.Context(), pool, currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, points)
	})

	api.GET("/reports/category-summary/", func(c *gin.Context) {
		start, end := reportRange(c)
		transactionType := c.Query("type")
		if transactionType == "" {
			transactionType = "expense"
		}
		rows, err := database.GetCategorySummary(c.Request.Context(), pool, currentUserID(c), start, end, transactionType, transferCategory(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	api.GET("/reports/monthly-summary/", func(c *gin.Context) {
		start, end := reportRange(c)
		rows, err := database.GetMonthlySummary(c.Request.Context(), pool, currentUserID(c), start, end, transferCategory(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	api.GET("/reports/recurrent-summary/", func(c *gin.Context) {
		start, end := reportRange(c)
		rows, err := database.GetRecurrentSummary(c.Request.Context(), pool, currentUserID(c), start, end)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})
}
