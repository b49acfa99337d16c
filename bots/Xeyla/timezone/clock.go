package timezone

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
)

// DefaultZone is the reference time zone all civil times are interpreted in.
const DefaultZone = "Asia/Jakarta"

// Layouts of civil timestamps. Civil timestamps carry no UTC offset.
const (
	CivilLayout  = "2006-01-02 15:04:05"
	MinuteLayout = "2006-01-02 15:04"
	DateLayout   = "2006-01-02"
	TimeLayout   = "15:04"
)

// earlyMorningEnd is the hour until which "tomorrow" still means the next
// calendar day rather than the day that has just started.
const earlyMorningEnd = 4

var civilLayouts = []string{
	CivilLayout,
	MinuteLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var errUnknownFormat = errors.New("unknown civil time format")

// Clock produces civil times in the reference time zone.
type Clock struct {
	loc *time.Location
	clk clock.Clock
}

// Context is the set of strings describing "now" that are embedded into
// instructions for the language service.
type Context struct {
	Now           time.Time // now in the reference time zone
	Today         string    // Selasa, 13 Januari 2026
	Tomorrow      string    // Rabu, 14 Januari 2026
	TodayShort    string    // 2026-01-13
	TomorrowShort string    // 2026-01-14
	Time          string    // 09:30
}

// New loads the named time zone. clk may be nil, the wall clock is used then.
func New(name string, clk clock.Clock) (*Clock, error) {
	if name == "" {
		name = DefaultZone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed loading location %q", name)
	}

	if clk == nil {
		clk = clock.New()
	}

	return &Clock{loc: loc, clk: clk}, nil
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the reference time zone.
func (c *Clock) Now() time.Time {
	return c.clk.Now().In(c.loc)
}

// Context describes the current instant.
func (c *Clock) Context() Context {
	return c.ContextAt(c.clk.Now())
}

// ContextAt describes t. Day boundaries are those of the reference time
// zone, never UTC's or the process' local ones.
func (c *Clock) ContextAt(t time.Time) Context {
	now := t.In(c.loc)
	tomorrow := c.NextDay(now)

	return Context{
		Now:           now,
		Today:         LongDate(now),
		Tomorrow:      LongDate(tomorrow),
		TodayShort:    now.Format(DateLayout),
		TomorrowShort: tomorrow.Format(DateLayout),
		Time:          now.Format(TimeLayout),
	}
}

// NextDay returns midnight of the calendar day following t's day.
func (c *Clock) NextDay(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, c.loc)
}

// StartOfDay returns midnight of t's day.
func (c *Clock) StartOfDay(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// DateKey returns t's date as YYYY-MM-DD.
func (c *Clock) DateKey(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// MinuteKey returns t truncated to minutes as YYYY-MM-DD HH:mm.
func (c *Clock) MinuteKey(t time.Time) string {
	return t.In(c.loc).Format(MinuteLayout)
}

// Civil formats t as a civil timestamp of the reference time zone.
func (c *Clock) Civil(t time.Time) string {
	return t.In(c.loc).Format(CivilLayout)
}

// ParseCivil reads a civil timestamp in the reference time zone. Seconds and
// the 'T' separator are optional.
func (c *Clock) ParseCivil(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range civilLayouts {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(errUnknownFormat, "%q", s)
}

// NormalizeCivil parses s and formats it back as YYYY-MM-DD HH:mm:ss.
func (c *Clock) NormalizeCivil(s string) (string, error) {
	t, err := c.ParseCivil(s)
	if err != nil {
		return "", err
	}
	return t.Format(CivilLayout), nil
}

// Label tags a stored civil time relative to ctx: "HARI INI", "BESOK" or a
// short weekday and date such as "Kamis, 15 Jan".
func (c *Clock) Label(civil string, ctx Context) string {
	t, err := c.ParseCivil(civil)
	if err != nil {
		return civil
	}

	switch t.Format(DateLayout) {
	case ctx.TodayShort:
		return LabelToday
	case ctx.TomorrowShort:
		return LabelTomorrow
	}
	return ShortDate(t)
}

// TimeOfDay returns HH:mm of a stored civil time.
func (c *Clock) TimeOfDay(civil string) string {
	t, err := c.ParseCivil(civil)
	if err != nil {
		return civil
	}
	return t.Format(TimeLayout)
}

// EarlyMorning reports whether ctx falls into 00:00-04:00, when people tend to
// call the day that has just started "today" and mean the next one by
// "tomorrow".
func (ctx Context) EarlyMorning() bool {
	return ctx.Now.Hour() < earlyMorningEnd
}

// MonthRange returns civil bounds [first day of month, first day of next month).
func MonthRange(year int, month time.Month) (string, string) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	return from.Format(CivilLayout), to.Format(CivilLayout)
}

func (ctx Context) String() string {
	return fmt.Sprintf("%s %s", ctx.TodayShort, ctx.Time)
}
