package db

import (
	"context"
	"time"

	"botfarm/bot"
	"botfarm/bots/Xeyla/timezone"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

/**
DB tables:
- schedules:
	- id: bigserial - schedule ID
	- task: text - what to remind about
	- time: timestamp - civil time in the reference time zone
	- user_id: bigint - chat the schedule belongs to
	- is_reminded: boolean - set once the reminder has been sent

- finances:
	- id: bigserial - record ID
	- user_id: bigint - chat the record belongs to
	- amount: numeric(14,2) - positive amount of money
	- type: text - 'expense' or 'income'
	- category: text - short label
	- description: text - what the money was spent on or came from
	- transaction_time: timestamp - civil time of the transaction
	- created_at: timestamp - civil time of insertion
*/

var schema = []string{
	`CREATE TABLE IF NOT EXISTS schedules (
	id BIGSERIAL PRIMARY KEY,
	task TEXT NOT NULL,
	"time" TIMESTAMP NOT NULL,
	user_id BIGINT NOT NULL,
	is_reminded BOOLEAN NOT NULL DEFAULT FALSE
)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_user_time ON schedules(user_id, "time")`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_reminded ON schedules(is_reminded, "time")`,
	`CREATE TABLE IF NOT EXISTS finances (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	amount NUMERIC(14, 2) NOT NULL CHECK (amount > 0),
	type TEXT NOT NULL CHECK (type IN ('expense', 'income')),
	category TEXT NOT NULL,
	description TEXT NOT NULL,
	transaction_time TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_finances_user_time ON finances(user_id, transaction_time)`,
}

// ErrNotFound is returned when a record doesn't exist.
var ErrNotFound = errors.New("record not found")

// pgxIface is the subset of *pgxpool.Pool the database uses
type pgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Options tune connection handling.
type Options struct {
	RetryAttempts int
	RetryDelay    time.Duration
	Timeout       time.Duration // deadline of a single operation
}

// Database is the record store of schedules and finances.
type Database struct {
	conn    pgxIface
	clock   *timezone.Clock
	timeout time.Duration
}

// NewDatabase connects to PostgreSQL. The connection is retried
// opts.RetryAttempts times.
func NewDatabase(ctx context.Context, connStr string, clk *timezone.Clock, opts Options) (*Database, error) {
	// connection string should look like postgresql://localhost:5432/xeyla?user=admn&password=passwd
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating connection pool")
	}

	err = bot.RobustExecute(ctx, opts.RetryAttempts, opts.RetryDelay, func() error {
		pctx, cancel := context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
		return pool.Ping(pctx)
	})
	if err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed connecting to database")
	}

	return &Database{conn: pool, clock: clk, timeout: opts.Timeout}, nil
}

func (d *Database) Close() {
	d.conn.Close()
}

// Migrate creates tables and indexes if they don't exist.
func (d *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		ctx, cancel := d.withTimeout(ctx)
		_, err := d.conn.Exec(ctx, stmt)
		cancel()
		if err != nil {
			return errors.Wrap(err, "failed migrating schema")
		}
	}
	return nil
}

func (d *Database) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}

// parseAmount reads numeric columns selected as text
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "failed parsing amount %q", s)
	}
	return v, nil
}
