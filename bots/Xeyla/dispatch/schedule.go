package dispatch

import (
	"context"
	"fmt"
	"strings"

	"botfarm/bots/Xeyla/db"
	"botfarm/bots/Xeyla/intent"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const outcomeFailed = "failed"

// handleSchedule tries create, delete and edit in this order and answers the
// message as a question when none of them applies.
func (d *Dispatcher) handleSchedule(ctx context.Context, l *zap.SugaredLogger, msg Message) (string, string) {
	if act := d.extractor.ExtractCreate(ctx, msg.Text); act != nil {
		return d.apply(ctx, l, msg.UserID, act)
	}

	schedules, err := d.upcoming(ctx, msg.UserID)
	if err != nil {
		l.Errorw("failed listing schedules", "err", err)
		return txtFailedFetch, outcomeFailed
	}

	if act := d.extractor.ExtractDelete(ctx, msg.Text, schedules); act != nil {
		return d.apply(ctx, l, msg.UserID, act)
	}

	if act := d.extractor.ExtractEdit(ctx, msg.Text, schedules); act != nil {
		return d.apply(ctx, l, msg.UserID, act)
	}

	answer, err := d.extractor.Answer(ctx, msg.Text, schedules)
	if err != nil || answer == "" {
		l.Warnw("failed answering", "err", err)
		return txtCannotAnswer, outcomeFailed
	}
	return answer, "answer"
}

func (d *Dispatcher) upcoming(ctx context.Context, usr int64) ([]db.Schedule, error) {
	return d.store.ListUpcomingSchedules(ctx, usr, d.clock.Civil(d.clock.StartOfDay(d.clock.Now())))
}

func (d *Dispatcher) apply(ctx context.Context, l *zap.SugaredLogger, usr int64, act intent.Action) (string, string) {
	switch a := act.(type) {
	case intent.Create:
		return d.create(ctx, l, usr, a), outcome(act)
	case intent.Delete:
		return d.delete(ctx, l, usr, a), outcome(act)
	case intent.Edit:
		return d.edit(ctx, l, usr, a), outcome(act)
	case intent.NeedsConfirmation:
		return clarify(a), outcome(act)
	}

	l.Errorw("unexpected schedule action", "action", fmt.Sprintf("%#v", act))
	return txtCannotAnswer, outcomeFailed
}

func clarify(a intent.NeedsConfirmation) string {
	switch a.For {
	case intent.VerbDelete:
		return fmt.Sprintf(fmtUnclearDelete, a.Details)
	case intent.VerbEdit:
		return fmt.Sprintf(fmtUnclearEdit, a.Details)
	default:
		return fmt.Sprintf(fmtUnclearRecord, a.Details)
	}
}

func (d *Dispatcher) when(civil string) string {
	return fmt.Sprintf(fmtWhen, d.clock.Label(civil, d.clock.Context()), d.clock.TimeOfDay(civil))
}

func (d *Dispatcher) create(ctx context.Context, l *zap.SugaredLogger, usr int64, a intent.Create) string {
	schedules := make([]db.Schedule, 0, len(a.Items))
	for _, it := range a.Items {
		schedules = append(schedules, db.Schedule{Task: it.Task, Time: it.Time, UserID: usr})
	}

	ids, err := d.store.InsertSchedules(ctx, usr, schedules)
	if err != nil {
		l.Errorw("failed saving schedules", "err", err)
		return txtFailedSaveSchedule
	}
	l.Infow("schedules created", "ids", ids)

	var sb strings.Builder
	sb.WriteString(txtCreated)
	for _, s := range schedules {
		fmt.Fprintf(&sb, fmtCreatedItem, s.Task, d.when(s.Time))
	}
	return sb.String()
}

// owned fetches a schedule and hides other users' schedules
func (d *Dispatcher) owned(ctx context.Context, usr, id int64) (*db.Schedule, error) {
	s, err := d.store.GetScheduleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.UserID != usr {
		return nil, db.ErrNotFound
	}
	return s, nil
}

func (d *Dispatcher) delete(ctx context.Context, l *zap.SugaredLogger, usr int64, a intent.Delete) string {
	s, err := d.owned(ctx, usr, a.ID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return txtScheduleNotFound
	case err != nil:
		l.Errorw("failed fetching schedule", "id", a.ID, "err", err)
		return txtFailedDelete
	}

	ok, err := d.store.DeleteSchedule(ctx, a.ID)
	switch {
	case err != nil:
		l.Errorw("failed deleting schedule", "id", a.ID, "err", err)
		return txtFailedDelete
	case !ok:
		return txtScheduleNotFound
	}

	l.Infow("schedule deleted", "id", a.ID)
	return fmt.Sprintf(fmtDeleted, s.Task, d.when(s.Time))
}

func (d *Dispatcher) edit(ctx context.Context, l *zap.SugaredLogger, usr int64, a intent.Edit) string {
	old, err := d.owned(ctx, usr, a.ID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return txtScheduleNotFound
	case err != nil:
		l.Errorw("failed fetching schedule", "id", a.ID, "err", err)
		return txtFailedEdit
	}

	task, civil := old.Task, old.Time
	if a.NewTask != "" {
		task = a.NewTask
	}
	if a.NewTime != "" {
		civil = a.NewTime
	}

	ok, err := d.store.UpdateSchedule(ctx, a.ID, task, civil)
	switch {
	case err != nil:
		l.Errorw("failed updating schedule", "id", a.ID, "err", err)
		return txtFailedEdit
	case !ok:
		return txtScheduleNotFound
	}

	l.Infow("schedule updated", "id", a.ID)
	return fmt.Sprintf(fmtEdited, old.Task, d.when(old.Time), task, d.when(civil))
}

// ListSchedules replies with the user's upcoming schedules without asking
// the language service.
func (d *Dispatcher) ListSchedules(ctx context.Context, usr int64) error {
	schedules, err := d.upcoming(ctx, usr)
	if err != nil {
		d.logger.Errorw("failed listing schedules", "usr", usr, "err", err)
		return d.reply(ctx, usr, txtFailedFetch)
	}

	if len(schedules) == 0 {
		return d.reply(ctx, usr, txtNoSchedules)
	}
	return d.reply(ctx, usr, txtYourSchedules+intent.RenderSchedules(d.clock, d.clock.Context(), schedules, false))
}
