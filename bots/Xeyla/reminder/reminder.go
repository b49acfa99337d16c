package reminder

import (
	"context"
	"fmt"
	"time"

	"botfarm/bot"
	"botfarm/bots/Xeyla/db"
	"botfarm/bots/Xeyla/timezone"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultInterval   = 20 * time.Second
	defaultRetryDelay = 2 * time.Second

	fmtReminder = "🔔 PENGINGAT!\n\nHalo kak! Jangan lupa: %s sekarang ya!\n(Waktu: %s)"
)

// Store is the part of the database reminders need.
type Store interface {
	DueSchedules(ctx context.Context, minuteKey string) ([]db.Schedule, error)
	MarkReminded(ctx context.Context, id int64) (bool, error)
}

// Notifier delivers a text to a user.
type Notifier interface {
	Send(ctx context.Context, usr int64, text string) error
}

type Options struct {
	Interval     time.Duration
	SendAttempts int
	RetryDelay   time.Duration
}

// Manager sends a reminder for every schedule whose time falls into the
// current minute. A schedule is marked reminded before it is sent, so it
// is never delivered twice; a delivery that keeps failing is lost.
type Manager struct {
	store    Store
	notifier Notifier
	clock    *timezone.Clock
	opts     Options
	logger   *zap.SugaredLogger
	metrics  *bot.Metrics
}

func NewManager(s Store, n Notifier, clk *timezone.Clock, opts Options, l *zap.SugaredLogger, m *bot.Metrics) *Manager {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.SendAttempts <= 0 {
		opts.SendAttempts = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}

	return &Manager{
		store:    s,
		notifier: n,
		clock:    clk,
		opts:     opts,
		logger:   l,
		metrics:  m,
	}
}

// Run sweeps immediately and then every interval until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	m.logger.Infow("starting reminders", "interval", m.opts.Interval)

	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()

	for {
		if _, err := m.Sweep(ctx); err != nil {
			m.logger.Errorw("reminder sweep failed", "err", err)
		}

		select {
		case <-ctx.Done():
			m.logger.Info("reminders stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Sweep delivers reminders due in the current minute and returns how many
// were sent.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	key := m.clock.MinuteKey(m.clock.Now())

	due, err := m.store.DueSchedules(ctx, key)
	if err != nil {
		return 0, errors.Wrapf(err, "failed getting schedules due at %s", key)
	}

	sent := 0
	for _, s := range due {
		if ctx.Err() != nil {
			return sent, nil
		}
		if m.remind(ctx, s) {
			sent++
		}
	}
	return sent, nil
}

func (m *Manager) remind(ctx context.Context, s db.Schedule) bool {
	l := m.logger.With("usr", s.UserID, "schedule", s.ID)

	claimed, err := m.store.MarkReminded(ctx, s.ID)
	if err != nil {
		l.Errorw("failed marking schedule as reminded", "err", err)
		m.metrics.Reminder("claim_failed")
		return false
	}
	if !claimed {
		// deleted or reminded by an earlier sweep in the meantime
		l.Debug("schedule already claimed")
		m.metrics.Reminder("skipped")
		return false
	}

	text := fmt.Sprintf(fmtReminder, s.Task, m.clock.TimeOfDay(s.Time))
	err = bot.RobustExecute(ctx, m.opts.SendAttempts, m.opts.RetryDelay, func() error {
		return m.notifier.Send(ctx, s.UserID, text)
	})
	if err != nil {
		l.Errorw("reminder lost", "err", err, "task", s.Task, "time", s.Time)
		m.metrics.Reminder("lost")
		return false
	}

	l.Infow("reminder sent", "time", s.Time)
	m.metrics.Reminder("sent")
	return true
}
