package dispatch

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"botfarm/bots/Xeyla/db"
	"botfarm/bots/Xeyla/intent"
	"botfarm/bots/Xeyla/timezone"

	"github.com/jmhodges/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var noCtx = context.Background()

const usr = int64(42)

// memStore keeps records in memory with the same semantics as the database
type memStore struct {
	mu        sync.Mutex
	clock     *timezone.Clock
	nextID    int64
	schedules []db.Schedule
	finances  []db.Finance
	err       error
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) InsertSchedules(_ context.Context, usr int64, schedules []db.Schedule) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	var ids []int64
	for _, sc := range schedules {
		sc.ID, sc.UserID = s.id(), usr
		s.schedules = append(s.schedules, sc)
		ids = append(ids, sc.ID)
	}
	return ids, nil
}

func (s *memStore) ListUpcomingSchedules(_ context.Context, usr int64, from string) ([]db.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	var out []db.Schedule
	for _, sc := range s.schedules {
		if sc.UserID == usr && sc.Time >= from {
			out = append(out, sc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (s *memStore) GetScheduleByID(_ context.Context, id int64) (*db.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	for _, sc := range s.schedules {
		if sc.ID == id {
			sc := sc
			return &sc, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *memStore) UpdateSchedule(_ context.Context, id int64, task, civil string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.schedules {
		if s.schedules[i].ID == id {
			s.schedules[i].Task, s.schedules[i].Time = task, civil
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) DeleteSchedule(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.schedules {
		if s.schedules[i].ID == id {
			s.schedules = append(s.schedules[:i], s.schedules[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) InsertFinance(_ context.Context, usr int64, amount decimal.Decimal, typ db.FinanceType, category, description string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return 0, s.err
	}

	now := s.clock.Civil(s.clock.Now())
	f := db.Finance{
		ID:              s.id(),
		UserID:          usr,
		Amount:          amount,
		Type:            typ,
		Category:        category,
		Description:     description,
		TransactionTime: now,
		CreatedAt:       now,
	}
	s.finances = append(s.finances, f)
	return f.ID, nil
}

func (s *memStore) ListFinanceByUser(_ context.Context, usr int64) ([]db.Finance, error) {
	return s.financesIn(usr, "", "\xff")
}

func (s *memStore) ListFinanceByDateRange(_ context.Context, usr int64, from, to string) ([]db.Finance, error) {
	return s.financesIn(usr, from, to)
}

// financesIn returns the user's records in [from, to), newest first
func (s *memStore) financesIn(usr int64, from, to string) ([]db.Finance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	var out []db.Finance
	for _, f := range s.finances {
		if f.UserID == usr && f.TransactionTime >= from && f.TransactionTime < to {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TransactionTime > out[j].TransactionTime })
	return out, nil
}

func (s *memStore) AggregateFinanceTotalsByType(ctx context.Context, usr int64) (db.Totals, error) {
	rows, err := s.ListFinanceByUser(ctx, usr)
	if err != nil {
		return db.Totals{}, err
	}
	return db.Totals{Income: sum(filter(rows, db.Income)), Expense: sum(filter(rows, db.Expense))}, nil
}

func (s *memStore) AggregateFinanceByCategoryForMonth(ctx context.Context, usr int64, year int, month time.Month) ([]db.CategoryTotal, error) {
	from, to := timezone.MonthRange(year, month)
	rows, err := s.ListFinanceByDateRange(ctx, usr, from, to)
	if err != nil {
		return nil, err
	}

	byCategory := map[string]*db.CategoryTotal{}
	var out []*db.CategoryTotal
	for _, f := range filter(rows, db.Expense) {
		ct, ok := byCategory[f.Category]
		if !ok {
			ct = &db.CategoryTotal{Category: f.Category, Total: decimal.Zero}
			byCategory[f.Category] = ct
			out = append(out, ct)
		}
		ct.Total = ct.Total.Add(f.Amount)
		ct.Count++
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	totals := make([]db.CategoryTotal, 0, len(out))
	for _, ct := range out {
		totals = append(totals, *ct)
	}
	return totals, nil
}

type document struct {
	usr      int64
	fileName string
	mimeType string
	data     []byte
	caption  string
}

type fakeNotifier struct {
	texts     []string
	documents []document
	err       error
}

func (n *fakeNotifier) Send(_ context.Context, _ int64, text string) error {
	if n.err != nil {
		return n.err
	}
	n.texts = append(n.texts, text)
	return nil
}

func (n *fakeNotifier) SendDocument(_ context.Context, usr int64, fileName, mimeType string, data []byte, caption string) error {
	if n.err != nil {
		return n.err
	}
	n.documents = append(n.documents, document{usr, fileName, mimeType, data, caption})
	return nil
}

func (n *fakeNotifier) last() string {
	if len(n.texts) == 0 {
		return ""
	}
	return n.texts[len(n.texts)-1]
}

type fakeClassifier intent.Domain

func (c fakeClassifier) Classify(context.Context, string) intent.Domain {
	return intent.Domain(c)
}

type fakeExtractor struct {
	create, del, edit, finance intent.Action

	answer     string
	answerErr  error
	suggestion string

	calls     []string
	schedules []db.Schedule
}

func (e *fakeExtractor) ExtractCreate(context.Context, string) intent.Action {
	e.calls = append(e.calls, "create")
	return e.create
}

func (e *fakeExtractor) ExtractDelete(_ context.Context, _ string, schedules []db.Schedule) intent.Action {
	e.calls = append(e.calls, "delete")
	e.schedules = schedules
	return e.del
}

func (e *fakeExtractor) ExtractEdit(_ context.Context, _ string, schedules []db.Schedule) intent.Action {
	e.calls = append(e.calls, "edit")
	return e.edit
}

func (e *fakeExtractor) ExtractFinance(context.Context, string) intent.Action {
	e.calls = append(e.calls, "finance")
	return e.finance
}

func (e *fakeExtractor) Answer(_ context.Context, _ string, schedules []db.Schedule) (string, error) {
	e.calls = append(e.calls, "answer")
	e.schedules = schedules
	return e.answer, e.answerErr
}

func (e *fakeExtractor) Suggest(context.Context, string, db.Totals, []db.CategoryTotal) string {
	e.calls = append(e.calls, "suggest")
	return e.suggestion
}

type fixture struct {
	d        *Dispatcher
	store    *memStore
	notifier *fakeNotifier
	ext      *fakeExtractor
	clock    clock.FakeClock
}

func newFixture(t *testing.T, domain intent.Domain) *fixture {
	t.Helper()

	fake := clock.NewFake()
	fake.Set(time.Date(2026, 1, 13, 2, 30, 0, 0, time.UTC)) // Selasa 09:30 in Jakarta
	clk, err := timezone.New(timezone.DefaultZone, fake)
	require.NoError(t, err)

	f := &fixture{
		store:    &memStore{clock: clk},
		notifier: &fakeNotifier{},
		ext:      &fakeExtractor{},
		clock:    fake,
	}
	f.d = New(f.store, f.notifier, fakeClassifier(domain), f.ext, clk, zap.NewNop().Sugar(), nil)
	return f
}

func (f *fixture) handle(t *testing.T, text string) string {
	t.Helper()
	require.NoError(t, f.d.Handle(noCtx, Message{UserID: usr, Text: text}))
	return f.notifier.last()
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
