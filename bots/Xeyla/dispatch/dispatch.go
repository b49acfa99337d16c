package dispatch

import (
	"context"
	"time"

	"botfarm/bot"
	"botfarm/bots/Xeyla/db"
	"botfarm/bots/Xeyla/intent"
	"botfarm/bots/Xeyla/timezone"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const mimePDF = "application/pdf"

// Store is the record store as seen by the dispatcher.
type Store interface {
	InsertSchedules(ctx context.Context, usr int64, schedules []db.Schedule) ([]int64, error)
	ListUpcomingSchedules(ctx context.Context, usr int64, from string) ([]db.Schedule, error)
	GetScheduleByID(ctx context.Context, id int64) (*db.Schedule, error)
	UpdateSchedule(ctx context.Context, id int64, task, civil string) (bool, error)
	DeleteSchedule(ctx context.Context, id int64) (bool, error)

	InsertFinance(ctx context.Context, usr int64, amount decimal.Decimal, typ db.FinanceType, category, description string) (int64, error)
	ListFinanceByUser(ctx context.Context, usr int64) ([]db.Finance, error)
	ListFinanceByDateRange(ctx context.Context, usr int64, from, to string) ([]db.Finance, error)
	AggregateFinanceTotalsByType(ctx context.Context, usr int64) (db.Totals, error)
	AggregateFinanceByCategoryForMonth(ctx context.Context, usr int64, year int, month time.Month) ([]db.CategoryTotal, error)
}

// Notifier delivers replies to a user.
type Notifier interface {
	Send(ctx context.Context, usr int64, text string) error
	SendDocument(ctx context.Context, usr int64, fileName, mimeType string, data []byte, caption string) error
}

type Classifier interface {
	Classify(ctx context.Context, msg string) intent.Domain
}

type Extractor interface {
	ExtractCreate(ctx context.Context, msg string) intent.Action
	ExtractDelete(ctx context.Context, msg string, schedules []db.Schedule) intent.Action
	ExtractEdit(ctx context.Context, msg string, schedules []db.Schedule) intent.Action
	ExtractFinance(ctx context.Context, msg string) intent.Action
	Answer(ctx context.Context, msg string, schedules []db.Schedule) (string, error)
	Suggest(ctx context.Context, period string, totals db.Totals, categories []db.CategoryTotal) string
}

// Message is an inbound chat message.
type Message struct {
	UserID int64
	Text   string
}

// Dispatcher routes messages to extractors, applies the resulting actions
// to the store and replies. Store failures become short notices to the
// user; nothing is returned to the caller except a failed reply.
type Dispatcher struct {
	store      Store
	notifier   Notifier
	classifier Classifier
	extractor  Extractor
	clock      *timezone.Clock
	logger     *zap.SugaredLogger
	metrics    *bot.Metrics
}

func New(s Store, n Notifier, c Classifier, e Extractor, clk *timezone.Clock, l *zap.SugaredLogger, m *bot.Metrics) *Dispatcher {
	return &Dispatcher{
		store:      s,
		notifier:   n,
		classifier: c,
		extractor:  e,
		clock:      clk,
		logger:     l,
		metrics:    m,
	}
}

// Handle processes a single message and sends one reply, either a text or
// a document.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) error {
	l := d.logger.With("usr", msg.UserID)

	domain := d.classifier.Classify(ctx, msg.Text)
	l.Debugw("message classified", "domain", domain)

	var text, result string
	switch domain {
	case intent.DomainFinance:
		text, result = d.handleFinance(ctx, l, msg)
	default:
		text, result = d.handleSchedule(ctx, l, msg)
	}

	d.metrics.MessageHandled(string(domain), result)
	if text == "" {
		return nil
	}
	return d.reply(ctx, msg.UserID, text)
}

func (d *Dispatcher) reply(ctx context.Context, usr int64, text string) error {
	if err := d.notifier.Send(ctx, usr, text); err != nil {
		d.logger.Errorw("failed sending reply", "usr", usr, "err", err)
		return err
	}
	return nil
}

// today returns civil bounds of the current reference day
func (d *Dispatcher) today() (string, string) {
	now := d.clock.Now()
	return d.clock.Civil(d.clock.StartOfDay(now)), d.clock.Civil(d.clock.NextDay(now))
}

func outcome(act intent.Action) string {
	switch a := act.(type) {
	case nil:
		return "none"
	case intent.NeedsConfirmation:
		return "confirm_" + string(a.For)
	default:
		return string(a.Verb())
	}
}
