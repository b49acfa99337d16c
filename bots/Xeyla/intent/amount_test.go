package intent

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]string{
		"25000":     "25000",
		"25.000":    "25000",
		"Rp 25.000": "25000",
		"rp25rb":    "25000",
		"25 ribu":   "25000",
		"2k":        "2000",
		"1,5jt":     "1500000",
		"1.5jt":     "1500000",
		"2 juta":    "2000000",
		"1.250.000": "1250000",
		"2.000,50":  "2000.5",
		"12.5":      "12.5",
		"3 miliar":  "3000000000",
	} {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "%s: got %s", in, got)
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, in := range []string{"", "rp", "banyak", "k"} {
		_, err := ParseAmount(in)
		assert.Error(t, err, in)
	}
}

func TestAmountFromJSON(t *testing.T) {
	d, err := amountFromJSON([]byte(`25000`))
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(25000)))

	d, err = amountFromJSON([]byte(`"25rb"`))
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(25000)))

	_, err = amountFromJSON([]byte(`null`))
	assert.Error(t, err)

	_, err = amountFromJSON(nil)
	assert.Error(t, err)
}
