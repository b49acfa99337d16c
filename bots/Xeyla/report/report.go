package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"botfarm/bots/Xeyla/db"
	"botfarm/bots/Xeyla/timezone"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	fmtFileName = "laporan-keuangan-%04d-%02d.pdf"
	fmtCaption  = "📊 Laporan keuangan %s\n\n💰 Pemasukan: %s\n💸 Pengeluaran: %s\n📈 Saldo: %s"

	maxDescription = 45
)

// Monthly is the financial summary of one month.
type Monthly struct {
	Year         int
	Month        time.Month
	Totals       db.Totals
	Categories   []db.CategoryTotal
	Transactions []db.Finance
	Suggestion   string
	GeneratedAt  time.Time
}

// Build sums transactions of the month. Categories are expected sorted
// biggest first.
func Build(year int, month time.Month, transactions []db.Finance, categories []db.CategoryTotal) Monthly {
	r := Monthly{
		Year:         year,
		Month:        month,
		Categories:   categories,
		Transactions: transactions,
		Totals:       db.Totals{Income: decimal.Zero, Expense: decimal.Zero},
	}

	for _, f := range transactions {
		switch f.Type {
		case db.Income:
			r.Totals.Income = r.Totals.Income.Add(f.Amount)
		case db.Expense:
			r.Totals.Expense = r.Totals.Expense.Add(f.Amount)
		}
	}
	return r
}

func (r Monthly) Period() string {
	return fmt.Sprintf("%s %d", timezone.MonthName(r.Month), r.Year)
}

func (r Monthly) Net() decimal.Decimal {
	return r.Totals.Net()
}

// Share returns the category's part of the month's expenses in percent,
// e.g. "42.5".
func (r Monthly) Share(c db.CategoryTotal) string {
	if !r.Totals.Expense.IsPositive() {
		return "0.0"
	}
	return c.Total.Mul(decimal.NewFromInt(100)).Div(r.Totals.Expense).StringFixed(1)
}

func (r Monthly) Empty() bool {
	return len(r.Transactions) == 0
}

func (r Monthly) FileName() string {
	return fmt.Sprintf(fmtFileName, r.Year, int(r.Month))
}

func (r Monthly) Caption() string {
	return fmt.Sprintf(fmtCaption, r.Period(), Rupiah(r.Totals.Income), Rupiah(r.Totals.Expense), Rupiah(r.Net()))
}

// Rupiah formats d as "Rp 1.250.000", rounded to whole rupiah.
func Rupiah(d decimal.Decimal) string {
	d = d.Round(0)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	digits := d.StringFixed(0)
	var sb strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(c)
	}
	return sign + "Rp " + sb.String()
}

// Render lays r out as a single PDF document.
func Render(r Monthly) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Laporan Keuangan "+r.Period(), true)
	pdf.SetAuthor("XeylaBot", true)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr("Laporan Keuangan"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr(r.Period()), "", 1, "C", false, 0, "")
	if !r.GeneratedAt.IsZero() {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 6, tr("Dibuat "+timezone.LongDate(r.GeneratedAt)+" "+r.GeneratedAt.Format(timezone.TimeLayout)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	section(pdf, tr, "Ringkasan")
	summaryRow(pdf, tr, "Pemasukan", Rupiah(r.Totals.Income), "")
	summaryRow(pdf, tr, "Pengeluaran", Rupiah(r.Totals.Expense), "")
	summaryRow(pdf, tr, "Saldo", Rupiah(r.Net()), "B")
	pdf.Ln(4)

	if len(r.Categories) > 0 {
		section(pdf, tr, "Pengeluaran per Kategori")
		header(pdf, tr, []string{"Kategori", "Transaksi", "Porsi", "Total"}, []float64{70, 30, 30, 50})
		pdf.SetFont("Helvetica", "", 10)
		for _, c := range r.Categories {
			pdf.CellFormat(70, 7, tr(c.Category), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, fmt.Sprint(c.Count), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 7, r.Share(c)+"%", "1", 0, "R", false, 0, "")
			pdf.CellFormat(50, 7, tr(Rupiah(c.Total)), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	section(pdf, tr, "Transaksi")
	if r.Empty() {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 7, tr("Belum ada transaksi bulan ini."), "", 1, "L", false, 0, "")
	} else {
		widths := []float64{25, 25, 30, 60, 40}
		header(pdf, tr, []string{"Tanggal", "Jenis", "Kategori", "Keterangan", "Jumlah"}, widths)
		pdf.SetFont("Helvetica", "", 9)
		for _, f := range r.Transactions {
			pdf.CellFormat(widths[0], 6, tr(civilDay(f.TransactionTime)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 6, tr(typeName(f.Type)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 6, tr(f.Category), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[3], 6, tr(truncate(f.Description, maxDescription)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[4], 6, tr(Rupiah(f.Amount)), "1", 1, "R", false, 0, "")
		}
	}
	pdf.Ln(4)

	if r.Suggestion != "" {
		section(pdf, tr, "Saran")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, tr(r.Suggestion), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed rendering report")
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(title), "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func summaryRow(pdf *fpdf.Fpdf, tr func(string) string, label, value, style string) {
	pdf.SetFont("Helvetica", style, 11)
	pdf.CellFormat(60, 7, tr(label), "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, tr(value), "", 1, "R", false, 0, "")
}

func header(pdf *fpdf.Fpdf, tr func(string) string, cols []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, tr(c), "1", ln, "C", true, 0, "")
	}
}

func typeName(t db.FinanceType) string {
	if t == db.Income {
		return "Pemasukan"
	}
	return "Pengeluaran"
}

// civilDay turns "2026-01-13 09:30:00" into "13 Jan"
func civilDay(civil string) string {
	t, err := time.Parse(timezone.DateLayout, civil[:min(len(civil), len(timezone.DateLayout))])
	if err != nil {
		return civil
	}
	return timezone.DayMonth(t)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
