package models

// Setting — пара ключ/значение в рамках одного пользователя.
// Ключ transfer_category_id хранит категорию для переводов между счетами.
type Setting struct {
	UserID int    `json:"user_id" db:"user_id"`
	Key    string `json:"key" db:"key"`
	Value  string `json:"value" db:"value"`
}

const SettingTransferCategoryID = "transfer_category_id"
