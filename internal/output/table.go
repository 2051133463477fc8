package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/quadono/internal/alarm"
	"github.com/twiced-technology-gmbh/quadono/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))

	// Quadrant colors shared with the matrix TUI.
	quadrantStyles = map[int]lipgloss.Style{
		1: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		2: lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
		3: lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		4: lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Bold(true),
	}

	plain bool
)

// DisableColor strips all styling from output, including rendered markdown.
func DisableColor() {
	plain = true
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	idStyle = lipgloss.NewStyle()
	doneStyle = lipgloss.NewStyle()
	quadrantStyles = map[int]lipgloss.Style{}
}

// QuadrantStyle returns the display style of quadrant q.
func QuadrantStyle(q int) lipgloss.Style {
	if st, ok := quadrantStyles[q]; ok {
		return st
	}
	return lipgloss.NewStyle().Bold(true)
}

// GroupedTable renders pending tasks under one heading per quadrant.
func GroupedTable(w io.Writer, groups []task.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No pending tasks."))
		return
	}

	const pad = 2
	titleW := 5
	for _, g := range groups {
		for _, t := range g.Tasks {
			titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
		}
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		heading := fmt.Sprintf("Q%d %s (%d)", g.Quadrant, task.QuadrantLabel(g.Quadrant), len(g.Tasks))
		fmt.Fprintln(w, QuadrantStyle(g.Quadrant).Render(heading))

		for _, t := range g.Tasks {
			title := truncate(t.Title, titleW-pad)
			row := fmt.Sprintf("  %s %s %s",
				idStyle.Render(t.ShortID()),
				padRight(title, titleW),
				dimStyle.Render(estimate(t.EstimateMinutes)))
			fmt.Fprintln(w, strings.TrimRight(row, " "))
		}
	}
}

// TaskDetail renders a single task with full detail.
func TaskDetail(w io.Writer, t task.Task) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(t.Title))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(t.Title)))

	printField(w, "ID", idStyle.Render(t.ID))
	printField(w, "Quadrant", QuadrantStyle(t.Quadrant).Render(
		fmt.Sprintf("%d %s", t.Quadrant, task.QuadrantLabel(t.Quadrant))))
	printField(w, "Estimate", estimate(t.EstimateMinutes))
	if t.Done {
		printField(w, "Status", doneStyle.Render("done"))
	} else {
		printField(w, "Status", "pending")
	}
	if !t.Created.IsZero() {
		printField(w, "Created", t.Created.Format("2006-01-02 15:04"))
	}
	if t.Completed != nil {
		printField(w, "Completed", t.Completed.Format("2006-01-02 15:04"))
		if !t.Created.IsZero() {
			printField(w, "Lead time", FormatDuration(t.Completed.Sub(t.Created)))
		}
	}
}

// AlarmTable renders stored alarms in file order.
func AlarmTable(w io.Writer, alarms []alarm.Alarm) {
	if len(alarms) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No alarms set."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render("TIME   NOTE"))
	for _, a := range alarms {
		fmt.Fprintf(w, "%s  %s\n", idStyle.Render(a.Time.String()), a.Note)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// FormatDuration renders a duration as human-readable "Xd Yh" or "Xh Ym".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	}
	minutes := int(d.Minutes()) % 60 //nolint:mnd // 60 minutes per hour
	return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
}

func estimate(minutes int) string {
	return strconv.Itoa(minutes) + "m"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 { //nolint:mnd // room for the ellipsis
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
