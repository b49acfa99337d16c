package intent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"botfarm/bots/Xeyla/db"

	"github.com/goccy/go-json"
)

type financeResponse struct {
	Action            string          `json:"action"`
	Amount            json.RawMessage `json:"amount"`
	Type              string          `json:"type"`
	Category          string          `json:"category"`
	Description       string          `json:"description"`
	QueryType         string          `json:"queryType"`
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	NeedsConfirmation bool            `json:"needsConfirmation"`
	Details           string          `json:"details"`
}

// ParseFinanceType maps English and Indonesian spellings to a FinanceType.
func ParseFinanceType(s string) (db.FinanceType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "pengeluaran", "keluar", "spend":
		return db.Expense, true
	case "income", "pemasukan", "masuk", "earn":
		return db.Income, true
	}
	return "", false
}

// ExtractFinance returns FinanceRecord, FinanceQuery, FinanceReport,
// NeedsConfirmation or nil.
func (e *Extractor) ExtractFinance(ctx context.Context, msg string) Action {
	cctx := e.clock.Context()

	out, ok := e.complete(ctx, financeInstruction(cctx), msg, extractTemperature)
	if !ok {
		return nil
	}

	var resp financeResponse
	if err := decode(out, &resp); err != nil {
		e.logger.Debugw("no finance intent", "err", err)
		return nil
	}

	if resp.NeedsConfirmation {
		return confirm(VerbRecord, resp.Details, txtAmountUnclear)
	}

	switch Verb(strings.ToLower(strings.TrimSpace(resp.Action))) {
	case VerbRecord:
		return e.financeRecord(resp, msg)
	case VerbQuery:
		q := QueryType(strings.ToLower(strings.TrimSpace(resp.QueryType)))
		if !q.Valid() {
			q = QuerySummary
		}
		return FinanceQuery{Query: q}
	case VerbReport:
		year, month := resp.Year, time.Month(resp.Month)
		if month < time.January || month > time.December {
			month = cctx.Now.Month()
		}
		if year < 2000 || year > cctx.Now.Year()+1 {
			year = cctx.Now.Year()
		}
		return FinanceReport{Year: year, Month: month}
	}
	return nil
}

func (e *Extractor) financeRecord(resp financeResponse, msg string) Action {
	typ, ok := ParseFinanceType(resp.Type)
	if !ok {
		e.logger.Debugw("unknown finance type", "type", resp.Type)
		return nil
	}

	amount, err := amountFromJSON(resp.Amount)
	if err == nil {
		amount = amount.Round(2)
	}
	if err != nil || !amount.IsPositive() {
		return confirm(VerbRecord, "", txtAmountUnclear)
	}

	category := strings.ToLower(strings.TrimSpace(resp.Category))
	if category == "" {
		category = defaultCategory
	}
	description := strings.TrimSpace(resp.Description)
	if description == "" {
		description = strings.TrimSpace(msg)
	}

	return FinanceRecord{
		Amount:      amount,
		Type:        typ,
		Category:    category,
		Description: description,
	}
}

// Suggest asks for saving tips for a month. An empty string means no
// suggestion could be produced.
func (e *Extractor) Suggest(ctx context.Context, period string, totals db.Totals, categories []db.CategoryTotal) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Periode: %s\n", period)
	fmt.Fprintf(&sb, "Pemasukan: %s\n", totals.Income.StringFixed(0))
	fmt.Fprintf(&sb, "Pengeluaran: %s\n", totals.Expense.StringFixed(0))
	fmt.Fprintf(&sb, "Saldo: %s\n", totals.Net().StringFixed(0))
	if len(categories) > 0 {
		sb.WriteString("Pengeluaran per kategori:\n")
		for _, c := range categories {
			fmt.Fprintf(&sb, "- %s: %s (%d transaksi)\n", c.Category, c.Total.StringFixed(0), c.Count)
		}
	}

	out, ok := e.complete(ctx, suggestInstruction(), sb.String(), replyTemperature)
	if !ok {
		return ""
	}
	return strings.TrimSpace(clean(out))
}
