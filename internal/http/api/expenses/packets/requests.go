package packets

import (
	"github.com/shopspring/decimal"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// @ CATEGORIES
type CreateCategoryRequest struct {
	Name          string           `json:"name" binding:"required,max=100"`
	Icon          *string          `json:"icon" binding:"omitempty,max=50"`
	Color         *string          `json:"color" binding:"omitempty,max=20"`
	ExpenseType   string           `json:"expense_type" binding:"omitempty,oneof=personal company"`
	DefaultAmount *decimal.Decimal `json:"default_amount"`
	IsRecurring   *bool            `json:"is_recurring"`
}

type UpdateCategoryRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=100"`
	Icon          *string          `json:"icon" binding:"omitempty,max=50"`
	Color         *string          `json:"color" binding:"omitempty,max=20"`
	ExpenseType   *string          `json:"expense_type" binding:"omitempty,oneof=personal company"`
	DefaultAmount *decimal.Decimal `json:"default_amount"`
	IsRecurring   *bool            `json:"is_recurring"`
}

// @ EXPENSES
type CreateExpenseRequest struct {
	CategoryID  *int            `json:"category_id"`
	Year        int             `json:"year" binding:"required,min=2000,max=2100"`
	Month       int             `json:"month" binding:"required,min=1,max=12"`
	ExpenseType string          `json:"expense_type" binding:"omitempty,oneof=personal company"`
	Title       string          `json:"title" binding:"required,max=200"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *model.Date     `json:"date"`
	Notes       *string         `json:"notes"`
	IsPaid      bool            `json:"is_paid"`
}

type UpdateExpenseRequest struct {
	CategoryID *int             `json:"category_id"`
	Title      *string          `json:"title" binding:"omitempty,max=200"`
	Amount     *decimal.Decimal `json:"amount"`
	Date       *model.Date      `json:"date"`
	Notes      *string          `json:"notes"`
	IsPaid     *bool            `json:"is_paid"`
}

type InitMonthResponse struct {
	Message string                 `json:"message"`
	Created []model.MonthlyExpense `json:"created"`
}
