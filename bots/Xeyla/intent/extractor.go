package intent

import (
	"context"
	"strings"

	"botfarm/bots/Xeyla/db"
	"botfarm/bots/Xeyla/timezone"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	txtUnknownSchedule = "Jadwal yang kamu maksud nggak ada di daftar."
	txtEditWhat        = "Mau diubah jadi apa? Sebutin task atau jam barunya ya."
	txtEditBadTime     = "Jam barunya belum jelas."
	txtDeleteUnclear   = "Jadwal mana yang mau dihapus?"
	txtEditUnclear     = "Jadwal mana yang mau diubah?"
	txtAmountUnclear   = "Nominalnya berapa?"
	defaultCategory    = "lainnya"
)

// Extractor turns free text into actions with the help of a language service.
// Everything the service returns is validated before it becomes an action.
type Extractor struct {
	c      Completer
	clock  *timezone.Clock
	logger *zap.SugaredLogger
}

func NewExtractor(c Completer, clk *timezone.Clock, logger *zap.SugaredLogger) *Extractor {
	return &Extractor{c: c, clock: clk, logger: logger}
}

func (e *Extractor) complete(ctx context.Context, instruction, msg string, temperature float64) (string, bool) {
	out, err := e.c.Complete(ctx, instruction, msg, temperature)
	if err != nil {
		e.logger.Warnw("language service failed", "err", err)
		return "", false
	}
	return out, true
}

type createItem struct {
	Task string `json:"task"`
	Time string `json:"time"`
}

// ExtractCreate returns Create when msg asks for one or more new schedules.
// Items without a task or with an unreadable time are dropped.
func (e *Extractor) ExtractCreate(ctx context.Context, msg string) Action {
	out, ok := e.complete(ctx, createInstruction(e.clock.Context()), msg, extractTemperature)
	if !ok {
		return nil
	}

	var raw json.RawMessage
	if err := decode(out, &raw); err != nil {
		e.logger.Debugw("no create intent", "err", err)
		return nil
	}

	var items []createItem
	switch trimmed := strings.TrimSpace(string(raw)); {
	case strings.HasPrefix(trimmed, "["):
		if err := json.Unmarshal(raw, &items); err != nil {
			e.logger.Debugw("invalid create list", "err", err)
			return nil
		}
	case strings.HasPrefix(trimmed, "{"):
		var item createItem
		if err := json.Unmarshal(raw, &item); err != nil {
			e.logger.Debugw("invalid create item", "err", err)
			return nil
		}
		items = append(items, item)
	default:
		return nil
	}

	var act Create
	for _, it := range items {
		task := strings.TrimSpace(it.Task)
		if task == "" {
			continue
		}
		civil, err := e.clock.NormalizeCivil(it.Time)
		if err != nil {
			e.logger.Debugw("dropping item with bad time", "task", task, "time", it.Time)
			continue
		}
		act.Items = append(act.Items, Item{Task: task, Time: civil})
	}

	if len(act.Items) == 0 {
		return nil
	}
	return act
}

type targetResponse struct {
	ID                flexID  `json:"id"`
	NewTask           *string `json:"newTask"`
	NewTime           *string `json:"newTime"`
	NeedsConfirmation bool    `json:"needsConfirmation"`
	Details           string  `json:"details"`
}

func (e *Extractor) resolveTarget(ctx context.Context, instruction, msg string) (targetResponse, bool) {
	var resp targetResponse

	out, ok := e.complete(ctx, instruction, msg, extractTemperature)
	if !ok {
		return resp, false
	}

	if err := decode(out, &resp); err != nil {
		e.logger.Debugw("no target", "err", err)
		return resp, false
	}
	return resp, true
}

func confirm(verb Verb, details, fallback string) NeedsConfirmation {
	details = strings.TrimSpace(details)
	if details == "" {
		details = fallback
	}
	return NeedsConfirmation{For: verb, Details: details}
}

// ExtractDelete resolves a deletion against schedules. It never returns an
// ID missing from schedules.
func (e *Extractor) ExtractDelete(ctx context.Context, msg string, schedules []db.Schedule) Action {
	if len(schedules) == 0 {
		return nil
	}

	cctx := e.clock.Context()
	list := RenderSchedules(e.clock, cctx, schedules, true)
	resp, ok := e.resolveTarget(ctx, deleteInstruction(cctx, list), msg)
	if !ok {
		return nil
	}

	switch id := int64(resp.ID); {
	case resp.NeedsConfirmation:
		return confirm(VerbDelete, resp.Details, txtDeleteUnclear)
	case id == 0:
		return nil
	case !containsID(schedules, id):
		e.logger.Infow("delete target not in list", "id", id)
		return confirm(VerbDelete, "", txtUnknownSchedule)
	default:
		return Delete{ID: id}
	}
}

// ExtractEdit resolves a change against schedules. At least one of the new
// task and the new time is set in a returned Edit.
func (e *Extractor) ExtractEdit(ctx context.Context, msg string, schedules []db.Schedule) Action {
	if len(schedules) == 0 {
		return nil
	}

	cctx := e.clock.Context()
	list := RenderSchedules(e.clock, cctx, schedules, true)
	resp, ok := e.resolveTarget(ctx, editInstruction(cctx, list), msg)
	if !ok {
		return nil
	}

	id := int64(resp.ID)
	switch {
	case resp.NeedsConfirmation:
		return confirm(VerbEdit, resp.Details, txtEditUnclear)
	case id == 0:
		return nil
	case !containsID(schedules, id):
		e.logger.Infow("edit target not in list", "id", id)
		return confirm(VerbEdit, "", txtUnknownSchedule)
	}

	act := Edit{ID: id}
	if resp.NewTask != nil && !isNull(*resp.NewTask) {
		act.NewTask = strings.TrimSpace(*resp.NewTask)
	}
	if resp.NewTime != nil && !isNull(*resp.NewTime) {
		civil, err := e.clock.NormalizeCivil(*resp.NewTime)
		if err != nil {
			return confirm(VerbEdit, "", txtEditBadTime)
		}
		act.NewTime = civil
	}

	if act.NewTask == "" && act.NewTime == "" {
		return confirm(VerbEdit, "", txtEditWhat)
	}
	return act
}

// Answer replies to a question about schedules using only the given list.
func (e *Extractor) Answer(ctx context.Context, msg string, schedules []db.Schedule) (string, error) {
	cctx := e.clock.Context()
	list := RenderSchedules(e.clock, cctx, schedules, false)

	out, err := e.c.Complete(ctx, answerInstruction(cctx, list), msg, replyTemperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
