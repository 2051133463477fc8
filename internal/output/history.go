package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/twiced-technology-gmbh/quadono/internal/focus"
)

const historyWrap = 80

// HistoryMarkdown builds a markdown report of focus sessions, newest day
// first, with a total per day.
func HistoryMarkdown(records []focus.Record) string {
	var b strings.Builder
	b.WriteString("# Focus history\n\n")
	if len(records) == 0 {
		b.WriteString("_No completed sessions yet._\n")
		return b.String()
	}

	type day struct {
		date    string
		records []focus.Record
		minutes int
	}
	var days []*day
	index := map[string]*day{}
	for _, r := range records {
		key := r.Timestamp.Format("2006-01-02")
		d, ok := index[key]
		if !ok {
			d = &day{date: key}
			index[key] = d
			days = append(days, d)
		}
		d.records = append(d.records, r)
		d.minutes += r.WorkMinutes
	}

	total := 0
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		total += d.minutes
		fmt.Fprintf(&b, "## %s (%d sessions, %d min)\n\n", d.date, len(d.records), d.minutes)
		b.WriteString("| Time | Task | Minutes |\n|---|---|---|\n")
		for _, r := range d.records {
			fmt.Fprintf(&b, "| %s | %s | %d |\n", r.Timestamp.Format("15:04"), escapeCell(r.Task), r.WorkMinutes)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "**Total:** %d sessions, %d min\n", len(records), total)
	return b.String()
}

// HistoryTable renders the history report through glamour.
func HistoryTable(w io.Writer, records []focus.Record) error {
	md := HistoryMarkdown(records)

	style := glamour.WithAutoStyle()
	if plain {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(historyWrap))
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering history: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
