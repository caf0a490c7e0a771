package models

import "github.com/shopspring/decimal"

type AccountBalance struct {
	AccountID int             `json:"account_id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

type BalanceReport struct {
	BalancesByAccount []AccountBalance `json:"balances_by_account"`
	TotalBalance      decimal.Decimal  `json:"total_balance"`
	Currency          string           `json:"currency"`
}

type BalanceEvolutionPoint struct {
	Month   string          `json:"month"`
	Balance decimal.Decimal `json:"balance"`
}

type CategorySummaryRow struct {
	CategoryID int             `json:"category_id"`
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
}

type MonthlySummaryRow struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type RecurrentSummaryRow struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}
