package intent

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestClassify(t *testing.T) {
	for reply, want := range map[string]Domain{
		`{"domain":"finance"}`:                    DomainFinance,
		"```json\n{\"domain\": \"FINANCE\"}\n```": DomainFinance,
		`{"domain":"schedule"}`:                   DomainSchedule,
		"finance":                                 DomainFinance,
		`{"domain":"weather"}`:                    DomainSchedule,
		"hmm":                                     DomainSchedule,
		"null":                                    DomainSchedule,
	} {
		fc := &fakeCompleter{replies: map[string]string{markerClassifier: reply}}
		c := NewClassifier(fc, zap.NewNop().Sugar())

		assert.Equal(t, want, c.Classify(noCtx, "makan siang 25rb"), reply)
		assert.InDelta(t, extractTemperature, fc.calls[0].temperature, 1e-9)
	}
}

func TestClassifyFailsOpenToSchedule(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("service down")}
	c := NewClassifier(fc, zap.NewNop().Sugar())

	assert.Equal(t, DomainSchedule, c.Classify(noCtx, "saldo berapa?"))
}
