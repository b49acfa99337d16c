package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"botfarm/bots/Xeyla/db"
	"botfarm/bots/Xeyla/intent"
	"botfarm/bots/Xeyla/report"
	"botfarm/bots/Xeyla/timezone"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (d *Dispatcher) handleFinance(ctx context.Context, l *zap.SugaredLogger, msg Message) (string, string) {
	act := d.extractor.ExtractFinance(ctx, msg.Text)

	switch a := act.(type) {
	case nil:
		return txtFinanceNotUnderstood, outcome(act)
	case intent.NeedsConfirmation:
		return clarify(a), outcome(act)
	case intent.FinanceRecord:
		return d.record(ctx, l, msg.UserID, a), outcome(act)
	case intent.FinanceQuery:
		text, err := d.query(ctx, msg.UserID, a.Query)
		if err != nil {
			l.Errorw("failed querying finances", "query", a.Query, "err", err)
			return txtFailedFetch, outcomeFailed
		}
		return text, outcome(act)
	case intent.FinanceReport:
		// the report is a document of its own, only failures come back as text
		if err := d.sendReport(ctx, l, msg.UserID, a.Year, a.Month); err != nil {
			return txtFailedReport, outcomeFailed
		}
		return "", outcome(act)
	}

	l.Errorw("unexpected finance action", "action", fmt.Sprintf("%#v", act))
	return txtFinanceNotUnderstood, outcomeFailed
}

func (d *Dispatcher) record(ctx context.Context, l *zap.SugaredLogger, usr int64, a intent.FinanceRecord) string {
	id, err := d.store.InsertFinance(ctx, usr, a.Amount, a.Type, a.Category, a.Description)
	if err != nil {
		l.Errorw("failed recording transaction", "err", err)
		return txtFailedRecord
	}
	l.Infow("transaction recorded", "id", id, "type", a.Type)

	format := fmtRecordedExpense
	if a.Type == db.Income {
		format = fmtRecordedIncome
	}
	return fmt.Sprintf(format, report.Rupiah(a.Amount), a.Category, a.Description)
}

func (d *Dispatcher) query(ctx context.Context, usr int64, q intent.QueryType) (string, error) {
	switch q {
	case intent.QueryBalance:
		totals, err := d.store.AggregateFinanceTotalsByType(ctx, usr)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(fmtBalance, report.Rupiah(totals.Income), report.Rupiah(totals.Expense), report.Rupiah(totals.Net())), nil

	case intent.QueryTodayExpenses, intent.QueryTodayIncome:
		rows, err := d.todayRows(ctx, usr)
		if err != nil {
			return "", err
		}
		if q == intent.QueryTodayIncome {
			return listing(rows, db.Income, txtIncomeToday, txtNoIncomeToday), nil
		}
		return listing(rows, db.Expense, txtExpensesToday, txtNoExpensesToday), nil
	}

	return d.summary(ctx, usr)
}

func (d *Dispatcher) todayRows(ctx context.Context, usr int64) ([]db.Finance, error) {
	from, to := d.today()
	return d.store.ListFinanceByDateRange(ctx, usr, from, to)
}

func filter(rows []db.Finance, typ db.FinanceType) []db.Finance {
	var out []db.Finance
	for _, f := range rows {
		if f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

func sum(rows []db.Finance) decimal.Decimal {
	total := decimal.Zero
	for _, f := range rows {
		total = total.Add(f.Amount)
	}
	return total
}

func listing(rows []db.Finance, typ db.FinanceType, header, empty string) string {
	rows = filter(rows, typ)
	if len(rows) == 0 {
		return empty
	}

	var sb strings.Builder
	sb.WriteString(header)
	writeTransactions(&sb, rows)
	fmt.Fprintf(&sb, fmtTotal, report.Rupiah(sum(rows)))
	return sb.String()
}

func writeTransactions(sb *strings.Builder, rows []db.Finance) {
	for i, f := range rows {
		fmt.Fprintf(sb, fmtTransactionLine, i+1, f.Description, f.Category, report.Rupiah(f.Amount))
	}
}

func (d *Dispatcher) summary(ctx context.Context, usr int64) (string, error) {
	totals, err := d.store.AggregateFinanceTotalsByType(ctx, usr)
	if err != nil {
		return "", err
	}

	rows, err := d.todayRows(ctx, usr)
	if err != nil {
		return "", err
	}
	today := db.Totals{Income: sum(filter(rows, db.Income)), Expense: sum(filter(rows, db.Expense))}

	var sb strings.Builder
	fmt.Fprintf(&sb, fmtSummary,
		report.Rupiah(totals.Income), report.Rupiah(totals.Expense), report.Rupiah(totals.Net()),
		timezone.DayMonth(d.clock.Now()),
		report.Rupiah(today.Income), report.Rupiah(today.Expense), report.Rupiah(today.Net()))

	recent, err := d.store.ListFinanceByUser(ctx, usr)
	if err != nil {
		return "", err
	}
	if len(recent) > 0 {
		sb.WriteString(txtRecentTransactions)
		writeTransactions(&sb, recent[:min(len(recent), recentTransactions)])
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// MonthlyReport builds the month's report and sends it as a PDF document.
// A month without transactions gets a short text instead.
func (d *Dispatcher) MonthlyReport(ctx context.Context, usr int64, year int, month time.Month) error {
	l := d.logger.With("usr", usr)
	if err := d.sendReport(ctx, l, usr, year, month); err != nil {
		d.metrics.MessageHandled(string(intent.DomainFinance), outcomeFailed)
		return d.reply(ctx, usr, txtFailedReport)
	}
	d.metrics.MessageHandled(string(intent.DomainFinance), string(intent.VerbReport))
	return nil
}

func (d *Dispatcher) sendReport(ctx context.Context, l *zap.SugaredLogger, usr int64, year int, month time.Month) error {
	from, to := timezone.MonthRange(year, month)
	rows, err := d.store.ListFinanceByDateRange(ctx, usr, from, to)
	if err != nil {
		l.Errorw("failed fetching month", "year", year, "month", month, "err", err)
		return err
	}

	r := report.Build(year, month, rows, nil)
	if r.Empty() {
		return d.reply(ctx, usr, fmt.Sprintf(fmtNoReportData, r.Period()))
	}

	r.Categories, err = d.store.AggregateFinanceByCategoryForMonth(ctx, usr, year, month)
	if err != nil {
		l.Errorw("failed aggregating month", "year", year, "month", month, "err", err)
		return err
	}

	r.Suggestion = d.extractor.Suggest(ctx, r.Period(), r.Totals, r.Categories)
	r.GeneratedAt = d.clock.Now()

	pdf, err := report.Render(r)
	if err != nil {
		l.Errorw("failed rendering report", "err", err)
		return err
	}

	if err := d.notifier.SendDocument(ctx, usr, r.FileName(), mimePDF, pdf, r.Caption()); err != nil {
		l.Errorw("failed sending report", "err", err)
		return err
	}

	l.Infow("report sent", "period", r.Period(), "bytes", len(pdf))
	return nil
}
