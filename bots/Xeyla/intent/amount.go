package intent

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)

	// longest suffixes first
	amountSuffixes = []struct {
		suffix string
		mult   decimal.Decimal
	}{
		{"miliar", billion},
		{"milyar", billion},
		{"juta", million},
		{"ribu", thousand},
		{"jt", million},
		{"rb", thousand},
		{"k", thousand},
	}

	groupedThousands = regexp.MustCompile(`^\d{1,3}([.,]\d{3})+$`)
	europeanDecimal  = regexp.MustCompile(`^\d{1,3}(\.\d{3})*,\d+$`)
)

// ParseAmount reads rupiah amounts the way people type them: "25000",
// "25.000", "Rp 25.000", "25rb", "25k", "1,5jt", "2 juta".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "idr")
	s = strings.TrimPrefix(s, "rp.")
	s = strings.TrimPrefix(s, "rp")
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}

	mult := decimal.NewFromInt(1)
	for _, suf := range amountSuffixes {
		if strings.HasSuffix(s, suf.suffix) {
			s = strings.TrimSuffix(s, suf.suffix)
			mult = suf.mult
			// "1,5jt"
			s = strings.ReplaceAll(s, ",", ".")
			break
		}
	}

	switch {
	case europeanDecimal.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case groupedThousands.MatchString(s) && mult.Equal(decimal.NewFromInt(1)):
		s = strings.NewReplacer(".", "", ",", "").Replace(s)
	default:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "invalid amount %q", s)
	}
	return d.Mul(mult), nil
}

// amountFromJSON accepts both a number and a string holding an amount
func amountFromJSON(raw json.RawMessage) (decimal.Decimal, error) {
	v := strings.TrimSpace(string(raw))
	if v == "" || v == "null" {
		return decimal.Zero, errors.New("missing amount")
	}

	if strings.HasPrefix(v, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, errors.Wrap(err, "invalid amount")
		}
		return ParseAmount(s)
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "invalid amount %s", v)
	}
	return d, nil
}
