package intent

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Domain is the top-level intent of a message.
type Domain string

const (
	DomainSchedule Domain = "schedule"
	DomainFinance  Domain = "finance"
)

const (
	extractTemperature = 0.1
	replyTemperature   = 0.5
)

// Completer is a language service taking an instruction and a user message.
type Completer interface {
	Complete(ctx context.Context, instruction, message string, temperature float64) (string, error)
}

type Classifier struct {
	c      Completer
	logger *zap.SugaredLogger
}

func NewClassifier(c Completer, logger *zap.SugaredLogger) *Classifier {
	return &Classifier{c: c, logger: logger}
}

// Classify never fails. Anything that is not clearly finance is treated as
// schedule.
func (c *Classifier) Classify(ctx context.Context, msg string) Domain {
	out, err := c.c.Complete(ctx, classifierInstruction, msg, extractTemperature)
	if err != nil {
		c.logger.Warnw("classification failed, assuming schedule", "err", err)
		return DomainSchedule
	}

	var resp struct {
		Domain string `json:"domain"`
	}
	if err := decode(out, &resp); err != nil {
		// a bare word is fine too
		resp.Domain = strings.Trim(clean(out), " \"'.")
	}

	switch Domain(strings.ToLower(strings.TrimSpace(resp.Domain))) {
	case DomainFinance:
		return DomainFinance
	case DomainSchedule:
	default:
		c.logger.Debugw("unknown domain, assuming schedule", "out", out)
	}
	return DomainSchedule
}
