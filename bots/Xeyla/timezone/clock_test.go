package timezone

import (
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClock(t *testing.T) (*Clock, clock.FakeClock) {
	t.Helper()
	fake := clock.NewFake()
	c, err := New(DefaultZone, fake)
	require.NoError(t, err)
	return c, fake
}

func TestContextAtEarlyMorningTomorrowIsNextCalendarDay(t *testing.T) {
	c, _ := newTestClock(t)

	days := []time.Time{
		time.Date(2026, 1, 13, 0, 0, 0, 0, c.Location()),
		time.Date(2026, 1, 31, 0, 0, 0, 0, c.Location()),
		time.Date(2026, 2, 28, 0, 0, 0, 0, c.Location()),
		time.Date(2026, 12, 31, 0, 0, 0, 0, c.Location()),
	}

	for _, day := range days {
		for offset := time.Duration(0); offset < 4*time.Hour; offset += 7 * time.Minute {
			now := day.Add(offset)
			ctx := c.ContextAt(now)

			require.True(t, ctx.EarlyMorning(), now)
			assert.Equal(t, day.Format(DateLayout), ctx.TodayShort, now)
			assert.Equal(t, day.AddDate(0, 0, 1).Format(DateLayout), ctx.TomorrowShort, now)
		}
	}
}

func TestContextAtUsesReferenceDayNotUTC(t *testing.T) {
	c, _ := newTestClock(t)

	// 2026-01-12 18:30 UTC is already 2026-01-13 01:30 in Jakarta
	now := time.Date(2026, 1, 12, 18, 30, 0, 0, time.UTC)
	ctx := c.ContextAt(now)

	assert.Equal(t, "2026-01-13", ctx.TodayShort)
	assert.Equal(t, "2026-01-14", ctx.TomorrowShort)
	assert.Equal(t, "01:30", ctx.Time)
	assert.Equal(t, "Selasa, 13 Januari 2026", ctx.Today)
	assert.Equal(t, "Rabu, 14 Januari 2026", ctx.Tomorrow)
}

func TestDateKeyMatchesLongDateRegardlessOfProcessZone(t *testing.T) {
	c, _ := newTestClock(t)

	saved := time.Local
	defer func() { time.Local = saved }()

	zones := []string{"UTC", "America/Los_Angeles", "Pacific/Kiritimati"}
	for _, name := range zones {
		loc, err := time.LoadLocation(name)
		require.NoError(t, err)
		time.Local = loc

		for h := 0; h < 24; h++ {
			now := time.Date(2026, 3, 1, h, 15, 0, 0, time.UTC)
			ctx := c.ContextAt(now)

			key, err := time.ParseInLocation(DateLayout, ctx.TodayShort, c.Location())
			require.NoError(t, err)
			assert.Equal(t, LongDate(key), ctx.Today, "%s %v", name, now)
			assert.Equal(t, c.DateKey(now), ctx.TodayShort)
		}
	}
}

func TestContextUsesInjectedClock(t *testing.T) {
	c, fake := newTestClock(t)
	fake.Set(time.Date(2026, 1, 13, 2, 30, 0, 0, time.UTC))

	ctx := c.Context()

	assert.Equal(t, "2026-01-13", ctx.TodayShort)
	assert.Equal(t, "09:30", ctx.Time)
	assert.False(t, ctx.EarlyMorning())
}

func TestMinuteKey(t *testing.T) {
	c, _ := newTestClock(t)

	now := time.Date(2026, 1, 13, 2, 30, 59, 999, time.UTC)
	assert.Equal(t, "2026-01-13 09:30", c.MinuteKey(now))
}

func TestParseCivil(t *testing.T) {
	c, _ := newTestClock(t)

	for _, s := range []string{"2026-01-13 09:30:00", "2026-01-13 09:30", "2026-01-13T09:30:00", " 2026-01-13T09:30 "} {
		got, err := c.NormalizeCivil(s)
		require.NoError(t, err, s)
		assert.Equal(t, "2026-01-13 09:30:00", got)
	}

	_, err := c.ParseCivil("besok jam 2")
	require.Error(t, err)
}

func TestLabel(t *testing.T) {
	c, _ := newTestClock(t)
	ctx := c.ContextAt(time.Date(2026, 1, 13, 9, 0, 0, 0, c.Location()))

	assert.Equal(t, LabelToday, c.Label("2026-01-13 23:59:00", ctx))
	assert.Equal(t, LabelTomorrow, c.Label("2026-01-14 00:00:00", ctx))
	assert.Equal(t, "Kamis, 15 Jan", c.Label("2026-01-15 08:00:00", ctx))
	assert.Equal(t, "08:00", c.TimeOfDay("2026-01-15 08:00:00"))
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(2026, time.December)
	assert.Equal(t, "2026-12-01 00:00:00", from)
	assert.Equal(t, "2027-01-01 00:00:00", to)
}
