package intent

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/kaptinlin/jsonrepair"
	"github.com/pkg/errors"
)

var errNoIntent = errors.New("no actionable intent")

// clean strips code fences models like to wrap JSON into
func clean(s string) string {
	s = strings.TrimSpace(s)
	for _, fence := range []string{"```json", "```JSON", "```"} {
		s = strings.ReplaceAll(s, fence, "")
	}
	return strings.TrimSpace(s)
}

func isNull(s string) bool {
	s = strings.Trim(s, " \t\r\n.\"'`")
	return s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none")
}

// jsonBody cuts the outermost JSON value out of text with a prose prefix or
// suffix.
func jsonBody(s string) string {
	start := strings.IndexAny(s, "{[")
	end := strings.LastIndexAny(s, "}]")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// decode unmarshals model output into v. Fences are removed and broken JSON
// is repaired before giving up. A null answer yields errNoIntent.
func decode(raw string, v any) error {
	s := clean(raw)
	if isNull(s) {
		return errNoIntent
	}

	s = jsonBody(s)
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	fixed, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return errors.Wrap(err, "failed repairing model output")
	}

	if err := json.Unmarshal([]byte(fixed), v); err != nil {
		return errors.Wrap(err, "failed decoding model output")
	}
	return nil
}

// flexID accepts 12, "12" and null
type flexID int64

func (id *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid id %s", b)
	}
	*id = flexID(v)
	return nil
}
