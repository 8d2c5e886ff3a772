package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ExpensePersonal = "personal"
	ExpenseCompany  = "company"
)

type ExpenseCategory struct {
	ID            int              `db:"id" json:"id"`
	UserID        int              `db:"user_id" json:"user_id"`
	Name          string           `db:"name" json:"name"`
	Icon          *string          `db:"icon" json:"icon"`
	Color         *string          `db:"color" json:"color"`
	ExpenseType   string           `db:"expense_type" json:"expense_type"`
	DefaultAmount *decimal.Decimal `db:"default_amount" json:"default_amount"`
	IsRecurring   bool             `db:"is_recurring" json:"is_recurring"`
	IsActive      bool             `db:"is_active" json:"is_active"`
}

type MonthlyExpense struct {
	ID          int             `db:"id" json:"id"`
	UserID      int             `db:"user_id" json:"user_id"`
	CategoryID  *int            `db:"category_id" json:"category_id"`
	Year        int             `db:"year" json:"year"`
	Month       int             `db:"month" json:"month"`
	ExpenseType string          `db:"expense_type" json:"expense_type"`
	Title       string          `db:"title" json:"title"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Date        *Date           `db:"date" json:"date"`
	Notes       *string         `db:"notes" json:"notes"`
	IsPaid      bool            `db:"is_paid" json:"is_paid"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`

	CategoryName *string `db:"category_name" json:"category_name"`
}

type ExpenseTotals struct {
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
	Pending decimal.Decimal `json:"pending"`
	Count   int             `json:"count"`
}

type ExpenseSummary struct {
	Year     int           `json:"year"`
	Month    int           `json:"month"`
	Personal ExpenseTotals `json:"personal"`
	Company  ExpenseTotals `json:"company"`
}

// Summarize totals a month of expenses by expense type.
func Summarize(year, month int, expenses []MonthlyExpense) ExpenseSummary {
	s := ExpenseSummary{Year: year, Month: month}
	for _, e := range expenses {
		t := &s.Personal
		if e.ExpenseType == ExpenseCompany {
			t = &s.Company
		}
		t.Total = t.Total.Add(e.Amount)
		if e.IsPaid {
			t.Paid = t.Paid.Add(e.Amount)
		} else {
			t.Pending = t.Pending.Add(e.Amount)
		}
		t.Count++
	}
	return s
}
