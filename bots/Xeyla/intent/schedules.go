package intent

import (
	"fmt"
	"strings"

	"botfarm/bots/Xeyla/db"
	"botfarm/bots/Xeyla/timezone"
)

const txtNoSchedules = "(tidak ada jadwal)"

// RenderSchedules formats schedules as a numbered list, one line each:
// "1. [ID: 12] [HARI INI pukul 14:00] meeting". IDs are left out when
// withID is false.
func RenderSchedules(clk *timezone.Clock, ctx timezone.Context, schedules []db.Schedule, withID bool) string {
	if len(schedules) == 0 {
		return txtNoSchedules
	}

	var sb strings.Builder
	for i, s := range schedules {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. ", i+1)
		if withID {
			fmt.Fprintf(&sb, "[ID: %d] ", s.ID)
		}
		fmt.Fprintf(&sb, "[%s pukul %s] %s", clk.Label(s.Time, ctx), clk.TimeOfDay(s.Time), s.Task)
	}
	return sb.String()
}

func containsID(schedules []db.Schedule, id int64) bool {
	for _, s := range schedules {
		if s.ID == id {
			return true
		}
	}
	return false
}
