package timezone

import (
	"fmt"
	"time"
)

const (
	LabelToday    = "HARI INI"
	LabelTomorrow = "BESOK"
)

var weekdays = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

var months = [...]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember"}

var shortMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

func Weekday(d time.Weekday) string {
	return weekdays[d]
}

func MonthName(m time.Month) string {
	return months[m-1]
}

// LongDate formats t in Indonesian, e.g. "Selasa, 13 Januari 2026".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d", Weekday(t.Weekday()), t.Day(), MonthName(t.Month()), t.Year())
}

// ShortDate formats t as "Selasa, 13 Jan".
func ShortDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s", Weekday(t.Weekday()), t.Day(), shortMonths[t.Month()-1])
}

// DayMonth formats t as "13 Jan".
func DayMonth(t time.Time) string {
	return fmt.Sprintf("%02d %s", t.Day(), shortMonths[t.Month()-1])
}
