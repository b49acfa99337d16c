package db

import (
	"context"
	"time"

	"botfarm/bots/Xeyla/timezone"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const scheduleColumns = `id, task, to_char("time", 'YYYY-MM-DD HH24:MI:SS'), user_id, is_reminded`

const financeColumns = `id, user_id, amount::text, type, category, description,
to_char(transaction_time, 'YYYY-MM-DD HH24:MI:SS'), to_char(created_at, 'YYYY-MM-DD HH24:MI:SS')`

const (
	sqlInsertSchedule = `INSERT INTO schedules(task, "time", user_id)
VALUES($1, $2::timestamp, $3) RETURNING id`
	sqlListUpcomingSchedules = `SELECT ` + scheduleColumns + `
FROM schedules
WHERE user_id=$1 AND "time">=$2::timestamp
ORDER BY "time" ASC, id ASC`
	sqlGetSchedule    = `SELECT ` + scheduleColumns + ` FROM schedules WHERE id=$1`
	sqlUpdateSchedule = `UPDATE schedules SET task=$1, "time"=$2::timestamp WHERE id=$3`
	sqlDeleteSchedule = `DELETE FROM schedules WHERE id=$1`
	sqlDueSchedules   = `SELECT ` + scheduleColumns + `
FROM schedules
WHERE is_reminded=FALSE AND to_char("time", 'YYYY-MM-DD HH24:MI')=$1
ORDER BY id ASC`
	sqlMarkReminded = `UPDATE schedules SET is_reminded=TRUE WHERE id=$1 AND is_reminded=FALSE`

	sqlInsertFinance = `INSERT INTO finances(user_id, amount, type, category, description, transaction_time, created_at)
VALUES($1, $2::numeric, $3, $4, $5, $6::timestamp, $6::timestamp) RETURNING id`
	sqlListFinanceByUser = `SELECT ` + financeColumns + `
FROM finances
WHERE user_id=$1
ORDER BY transaction_time DESC, id DESC`
	sqlListFinanceByDateRange = `SELECT ` + financeColumns + `
FROM finances
WHERE user_id=$1 AND transaction_time>=$2::timestamp AND transaction_time<$3::timestamp
ORDER BY transaction_time DESC, id DESC`
	sqlFinanceTotalsByType = `SELECT type, SUM(amount)::text
FROM finances
WHERE user_id=$1
GROUP BY type`
	sqlFinanceByCategory = `SELECT category, SUM(amount)::text, COUNT(*)
FROM finances
WHERE user_id=$1 AND type=$2 AND transaction_time>=$3::timestamp AND transaction_time<$4::timestamp
GROUP BY category
ORDER BY SUM(amount) DESC, category ASC`
)

// InsertSchedule adds a pending schedule and returns its ID.
func (d *Database) InsertSchedule(ctx context.Context, task, civil string, usr int64) (int64, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var id int64
	if err := d.conn.QueryRow(ctx, sqlInsertSchedule, task, civil, usr).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "failed inserting schedule")
	}
	return id, nil
}

// InsertSchedules adds several schedules at once. Either all of them are
// stored or none.
func (d *Database) InsertSchedules(ctx context.Context, usr int64, schedules []Schedule) ([]int64, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	ids := make([]int64, 0, len(schedules))
	for _, s := range schedules {
		var id int64
		if err := tx.QueryRow(ctx, sqlInsertSchedule, s.Task, s.Time, usr).Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed inserting schedule")
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit")
	}
	return ids, nil
}

// ListUpcomingSchedules returns the user's schedules from the given civil
// time on, ordered by time.
func (d *Database) ListUpcomingSchedules(ctx context.Context, usr int64, from string) ([]Schedule, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	rows, err := d.conn.Query(ctx, sqlListUpcomingSchedules, usr, from)
	if err != nil {
		return nil, errors.Wrap(err, "failed querying schedules")
	}
	return extractSchedules(rows)
}

// GetScheduleByID returns ErrNotFound when there's no such schedule.
func (d *Database) GetScheduleByID(ctx context.Context, id int64) (*Schedule, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var s Schedule
	err := d.conn.QueryRow(ctx, sqlGetSchedule, id).Scan(&s.ID, &s.Task, &s.Time, &s.UserID, &s.IsReminded)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, ErrNotFound
	case err != nil:
		return nil, errors.Wrap(err, "failed fetching schedule")
	}
	return &s, nil
}

// UpdateSchedule changes task and time. It reports whether the schedule
// existed.
func (d *Database) UpdateSchedule(ctx context.Context, id int64, task, civil string) (bool, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	tag, err := d.conn.Exec(ctx, sqlUpdateSchedule, task, civil, id)
	if err != nil {
		return false, errors.Wrap(err, "failed updating schedule")
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteSchedule reports whether the schedule existed.
func (d *Database) DeleteSchedule(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	tag, err := d.conn.Exec(ctx, sqlDeleteSchedule, id)
	if err != nil {
		return false, errors.Wrap(err, "failed deleting schedule")
	}
	return tag.RowsAffected() > 0, nil
}

// DueSchedules returns pending schedules whose time truncated to minutes is
// exactly minuteKey (YYYY-MM-DD HH:mm).
func (d *Database) DueSchedules(ctx context.Context, minuteKey string) ([]Schedule, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	rows, err := d.conn.Query(ctx, sqlDueSchedules, minuteKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed querying due schedules")
	}
	return extractSchedules(rows)
}

// MarkReminded flips is_reminded of a pending schedule. It returns false if
// the schedule is gone or has already been reminded about, so concurrent
// callers can't both claim it.
func (d *Database) MarkReminded(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	tag, err := d.conn.Exec(ctx, sqlMarkReminded, id)
	if err != nil {
		return false, errors.Wrap(err, "failed marking schedule as reminded")
	}
	return tag.RowsAffected() == 1, nil
}

// extractSchedules reads and closes rows
func extractSchedules(rows pgx.Rows) ([]Schedule, error) {
	defer rows.Close()

	var schedules []Schedule
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(&s.ID, &s.Task, &s.Time, &s.UserID, &s.IsReminded); err != nil {
			return nil, errors.Wrap(err, "failed scanning schedule")
		}
		schedules = append(schedules, s)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed reading schedules")
	}
	return schedules, nil
}

// InsertFinance records a transaction happening now and returns its ID.
func (d *Database) InsertFinance(ctx context.Context, usr int64, amount decimal.Decimal, typ FinanceType,
	category, description string) (int64, error) {
	if !amount.IsPositive() {
		return 0, errors.Errorf("amount must be positive, got %s", amount)
	}
	if !typ.Valid() {
		return 0, errors.Errorf("unknown finance type %q", typ)
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	now := d.clock.Civil(d.clock.Now())

	var id int64
	err := d.conn.QueryRow(ctx, sqlInsertFinance, usr, amount.StringFixed(2), string(typ), category, description, now).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "failed inserting finance")
	}
	return id, nil
}

// ListFinanceByUser returns all the user's records, newest first.
func (d *Database) ListFinanceByUser(ctx context.Context, usr int64) ([]Finance, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	rows, err := d.conn.Query(ctx, sqlListFinanceByUser, usr)
	if err != nil {
		return nil, errors.Wrap(err, "failed querying finances")
	}
	return extractFinances(rows)
}

// ListFinanceByDateRange returns records with transaction time in [from, to),
// newest first. Bounds are civil timestamps.
func (d *Database) ListFinanceByDateRange(ctx context.Context, usr int64, from, to string) ([]Finance, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	rows, err := d.conn.Query(ctx, sqlListFinanceByDateRange, usr, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed querying finances by date")
	}
	return extractFinances(rows)
}

// AggregateFinanceTotalsByType sums all the user's records per type.
func (d *Database) AggregateFinanceTotalsByType(ctx context.Context, usr int64) (Totals, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var totals Totals
	rows, err := d.conn.Query(ctx, sqlFinanceTotalsByType, usr)
	if err != nil {
		return totals, errors.Wrap(err, "failed querying finance totals")
	}
	defer rows.Close()

	for rows.Next() {
		var typ, sum string
		if err := rows.Scan(&typ, &sum); err != nil {
			return totals, errors.Wrap(err, "failed scanning finance totals")
		}

		amount, err := parseAmount(sum)
		if err != nil {
			return totals, err
		}

		switch FinanceType(typ) {
		case Income:
			totals.Income = amount
		case Expense:
			totals.Expense = amount
		}
	}

	if err := rows.Err(); err != nil {
		return totals, errors.Wrap(err, "failed reading finance totals")
	}
	return totals, nil
}

// AggregateFinanceByCategoryForMonth sums the month's expenses per category,
// biggest first.
func (d *Database) AggregateFinanceByCategoryForMonth(ctx context.Context, usr int64, year int, month time.Month) ([]CategoryTotal, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	from, to := timezone.MonthRange(year, month)
	rows, err := d.conn.Query(ctx, sqlFinanceByCategory, usr, string(Expense), from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed querying expenses by category")
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		var sum string
		if err := rows.Scan(&ct.Category, &sum, &ct.Count); err != nil {
			return nil, errors.Wrap(err, "failed scanning category total")
		}

		if ct.Total, err = parseAmount(sum); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed reading category totals")
	}
	return totals, nil
}

// extractFinances reads and closes rows
func extractFinances(rows pgx.Rows) ([]Finance, error) {
	defer rows.Close()

	var finances []Finance
	for rows.Next() {
		var f Finance
		var amount, typ string
		err := rows.Scan(&f.ID, &f.UserID, &amount, &typ, &f.Category, &f.Description, &f.TransactionTime, &f.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "failed scanning finance")
		}

		if f.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		f.Type = FinanceType(typ)
		finances = append(finances, f)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed reading finances")
	}
	return finances, nil
}
