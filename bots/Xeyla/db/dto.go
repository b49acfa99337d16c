package db

import (
	"github.com/shopspring/decimal"
)

// FinanceType tells whether money came in or went out.
type FinanceType string

const (
	Expense FinanceType = "expense"
	Income  FinanceType = "income"
)

func (t FinanceType) Valid() bool {
	return t == Expense || t == Income
}

// Schedule is a task the user wants to be reminded about. Time is a civil
// timestamp (YYYY-MM-DD HH:mm:ss) of the reference time zone.
type Schedule struct {
	ID         int64
	Task       string
	Time       string
	UserID     int64
	IsReminded bool // set once by the reminder, never reset
}

// Finance is a recorded income or expense.
type Finance struct {
	ID              int64
	UserID          int64
	Amount          decimal.Decimal // always positive
	Type            FinanceType
	Category        string
	Description     string
	TransactionTime string // civil timestamp
	CreatedAt       string // civil timestamp
}

// Totals keeps all-time sums per finance type.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

func (t Totals) IsZero() bool {
	return t.Income.IsZero() && t.Expense.IsZero()
}

// CategoryTotal is the sum of expenses of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}
