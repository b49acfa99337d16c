package intent

import (
	"context"
	"strings"
	"testing"
	"time"

	"botfarm/bots/Xeyla/timezone"

	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	markerClassifier = "Role: Domain Classifier"
	markerCreate     = "Role: Strict Schedule Extractor"
	markerDelete     = "Role: Schedule Delete Resolver"
	markerEdit       = "Role: Schedule Edit Resolver"
	markerFinance    = "Role: Strict Finance Parser"
	markerAnswer     = "a friendly personal assistant"
	markerSuggest    = "a personal finance assistant"
)

var noCtx = context.Background()

type call struct {
	instruction string
	message     string
	temperature float64
}

// fakeCompleter answers by the role marker found in the instruction
type fakeCompleter struct {
	replies map[string]string
	err     error
	calls   []call
}

func (f *fakeCompleter) Complete(_ context.Context, instruction, message string, temperature float64) (string, error) {
	f.calls = append(f.calls, call{instruction, message, temperature})
	if f.err != nil {
		return "", f.err
	}
	for marker, reply := range f.replies {
		if strings.Contains(instruction, marker) {
			return reply, nil
		}
	}
	return "", errors.New("unexpected instruction")
}

func newTestExtractor(t *testing.T, replies map[string]string) (*Extractor, *fakeCompleter, clock.FakeClock) {
	t.Helper()

	fake := clock.NewFake()
	fake.Set(time.Date(2026, 1, 13, 2, 30, 0, 0, time.UTC)) // Selasa 09:30 in Jakarta
	clk, err := timezone.New(timezone.DefaultZone, fake)
	require.NoError(t, err)

	fc := &fakeCompleter{replies: replies}
	return NewExtractor(fc, clk, zap.NewNop().Sugar()), fc, fake
}
