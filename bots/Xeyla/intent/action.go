package intent

import (
	"time"

	"botfarm/bots/Xeyla/db"

	"github.com/shopspring/decimal"
)

// Verb names the kind of mutation or lookup an action asks for.
type Verb string

const (
	VerbCreate Verb = "create"
	VerbDelete Verb = "delete"
	VerbEdit   Verb = "edit"
	VerbRecord Verb = "record"
	VerbQuery  Verb = "query"
	VerbReport Verb = "report"
)

// Action is the result of an extractor. A nil Action means the message
// carries no actionable intent.
type Action interface {
	Verb() Verb
}

// Item is a single task to be scheduled; Time is YYYY-MM-DD HH:mm:ss.
type Item struct {
	Task string
	Time string
}

type Create struct {
	Items []Item
}

type Delete struct {
	ID int64
}

// Edit changes the task, the time or both. Empty fields stay as they are.
type Edit struct {
	ID      int64
	NewTask string
	NewTime string
}

// NeedsConfirmation is returned instead of guessing when the request is
// ambiguous. Details goes to the user as is.
type NeedsConfirmation struct {
	For     Verb
	Details string
}

type FinanceRecord struct {
	Amount      decimal.Decimal
	Type        db.FinanceType
	Category    string
	Description string
}

// QueryType selects a finance lookup.
type QueryType string

const (
	QueryBalance       QueryType = "balance"
	QueryTodayExpenses QueryType = "today_expenses"
	QueryTodayIncome   QueryType = "today_income"
	QuerySummary       QueryType = "summary"
)

func (q QueryType) Valid() bool {
	switch q {
	case QueryBalance, QueryTodayExpenses, QueryTodayIncome, QuerySummary:
		return true
	}
	return false
}

type FinanceQuery struct {
	Query QueryType
}

// FinanceReport asks for the monthly report.
type FinanceReport struct {
	Year  int
	Month time.Month
}

func (Create) Verb() Verb              { return VerbCreate }
func (Delete) Verb() Verb              { return VerbDelete }
func (Edit) Verb() Verb                { return VerbEdit }
func (a NeedsConfirmation) Verb() Verb { return a.For }
func (FinanceRecord) Verb() Verb       { return VerbRecord }
func (FinanceQuery) Verb() Verb        { return VerbQuery }
func (FinanceReport) Verb() Verb       { return VerbReport }
