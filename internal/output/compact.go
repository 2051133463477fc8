package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/twiced-technology-gmbh/quadono/internal/alarm"
	"github.com/twiced-technology-gmbh/quadono/internal/focus"
	"github.com/twiced-technology-gmbh/quadono/internal/task"
)

// GroupedCompact renders pending tasks one per line, prefixed by quadrant.
func GroupedCompact(w io.Writer, groups []task.Group) {
	for _, g := range groups {
		for _, t := range g.Tasks {
			fmt.Fprintln(w, formatTaskLine(t))
		}
	}
}

// TaskDetailCompact renders a single task on one line.
func TaskDetailCompact(w io.Writer, t task.Task) {
	line := formatTaskLine(t)
	if t.Done {
		line += " done"
		if t.Completed != nil {
			line += ":" + t.Completed.Format("2006-01-02")
		}
	}
	fmt.Fprintln(w, line)
}

// AlarmsCompact renders alarms as their storage lines.
func AlarmsCompact(w io.Writer, alarms []alarm.Alarm) {
	for _, a := range alarms {
		fmt.Fprintln(w, a.String())
	}
}

// HistoryCompact renders one session per line.
func HistoryCompact(w io.Writer, records []focus.Record) {
	for _, r := range records {
		fmt.Fprintf(w, "%s %s %dm\n", r.Timestamp.Format("2006-01-02 15:04"), r.Task, r.WorkMinutes)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t task.Task) string {
	return "Q" + strconv.Itoa(t.Quadrant) + " " + t.ShortID() + " " + t.Title + " " + estimate(t.EstimateMinutes)
}
