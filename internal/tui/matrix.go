// Package tui implements the Eisenhower matrix board: the four quadrants of
// pending tasks laid out as a 2x2 grid.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/quadono/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewMatrix view = iota
	viewConfirmDelete
)

// Layout constants.
const (
	keyEsc = "esc"

	gridCols      = 2
	quadrantCount = task.MaxQuadrant - task.MinQuadrant + 1
	matrixChrome  = 2 // blank line + status bar below the grid
	cellChrome    = 3 // border top/bottom + header line
	estimateWidth = 5
)

// Store is the subset of the task store the matrix needs.
type Store interface {
	List() []task.Group
	Done(ref string) (task.Task, bool, error)
	Del(ref string) ([]task.Task, error)
}

// Matrix is the top-level bubbletea model.
type Matrix struct {
	store  Store
	keys   keyMap
	help   help.Model
	cells  [quadrantCount]cell
	other  int // pending tasks outside quadrants 1-4
	active int // index into cells
	view   view
	width  int
	height int
	err    error

	// Delete confirmation.
	deleteID    string
	deleteTitle string
}

// cell is one quadrant of the grid.
type cell struct {
	quadrant  int
	tasks     []task.Task
	row       int
	scrollOff int
}

// NewMatrix creates a Matrix over store and loads the current tasks.
func NewMatrix(store Store) *Matrix {
	m := &Matrix{store: store, keys: defaultKeyMap(), help: help.New()}
	for i := range m.cells {
		m.cells[i].quadrant = task.MinQuadrant + i
	}
	m.loadTasks()
	return m
}

// Init implements tea.Model.
func (m *Matrix) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Matrix) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil
	case ReloadMsg:
		m.loadTasks()
		return m, nil
	case ErrMsg:
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m *Matrix) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.view == viewConfirmDelete {
		return m.viewDeleteConfirm()
	}
	return m.viewMatrix()
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a refresh.
type ReloadMsg struct{}

// ErrMsg surfaces a background error (e.g. from the watcher) in the status bar.
type ErrMsg struct{ Err error }

// --- Key handling ---

func (m *Matrix) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.view == viewConfirmDelete {
		return m.handleDeleteKey(msg)
	}

	c := &m.cells[m.active]
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if c.row > 0 {
			c.row--
		}
	case key.Matches(msg, m.keys.Down):
		if c.row < len(c.tasks)-1 {
			c.row++
		}
	case key.Matches(msg, m.keys.Left):
		if m.active%gridCols > 0 {
			m.active--
		}
	case key.Matches(msg, m.keys.Right):
		if m.active%gridCols < gridCols-1 {
			m.active++
		}
	case key.Matches(msg, m.keys.Next):
		m.active = (m.active + 1) % quadrantCount
	case key.Matches(msg, m.keys.Prev):
		m.active = (m.active + quadrantCount - 1) % quadrantCount
	case key.Matches(msg, m.keys.Jump):
		q, _ := strconv.Atoi(msg.String())
		m.active = q - task.MinQuadrant
	case key.Matches(msg, m.keys.Done):
		m.markDone()
	case key.Matches(msg, m.keys.Delete):
		if t := m.selectedTask(); t != nil {
			m.deleteID = t.ID
			m.deleteTitle = t.Title
			m.view = viewConfirmDelete
		}
	case key.Matches(msg, m.keys.Reload):
		m.loadTasks()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.ensureVisible()
	return m, nil
}

func (m *Matrix) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.executeDelete()
	case "n", "N", keyEsc, "q":
		m.view = viewMatrix
	}
	return m, nil
}

// markDone completes the selected task by full id, so a duplicate title
// elsewhere is never hit.
func (m *Matrix) markDone() {
	t := m.selectedTask()
	if t == nil {
		return
	}
	if _, _, err := m.store.Done(t.ID); err != nil {
		m.err = fmt.Errorf("completing %s: %w", t.ShortID(), err)
		return
	}
	m.err = nil
	m.loadTasks()
}

func (m *Matrix) executeDelete() {
	if _, err := m.store.Del(m.deleteID); err != nil {
		m.err = fmt.Errorf("deleting %q: %w", m.deleteTitle, err)
	} else {
		m.err = nil
	}
	m.view = viewMatrix
	m.loadTasks()
}

// loadTasks reloads pending tasks from the store into the four cells,
// keeping each cell's selection in range.
func (m *Matrix) loadTasks() {
	for i := range m.cells {
		m.cells[i].tasks = nil
	}
	m.other = 0
	for _, g := range m.store.List() {
		idx := g.Quadrant - task.MinQuadrant
		if idx < 0 || idx >= quadrantCount {
			m.other += len(g.Tasks)
			continue
		}
		m.cells[idx].tasks = g.Tasks
	}
	for i := range m.cells {
		c := &m.cells[i]
		if c.row >= len(c.tasks) {
			c.row = max(len(c.tasks)-1, 0)
		}
	}
	m.ensureVisible()
}

func (m *Matrix) selectedTask() *task.Task {
	c := &m.cells[m.active]
	if c.row >= 0 && c.row < len(c.tasks) {
		return &c.tasks[c.row]
	}
	return nil
}

// visibleRows is how many task lines fit in one cell.
func (m *Matrix) visibleRows() int {
	if m.height == 0 {
		return 1
	}
	rows := (m.height-matrixChrome-m.helpHeight())/gridCols - cellChrome
	return max(rows, 1)
}

func (m *Matrix) helpHeight() int {
	if !m.help.ShowAll {
		return 0
	}
	return lipgloss.Height(m.help.View(m.keys))
}

func (m *Matrix) ensureVisible() {
	rows := m.visibleRows()
	for i := range m.cells {
		c := &m.cells[i]
		if c.row < c.scrollOff {
			c.scrollOff = c.row
		}
		if c.row >= c.scrollOff+rows {
			c.scrollOff = c.row - rows + 1
		}
		if c.scrollOff < 0 {
			c.scrollOff = 0
		}
	}
}

// --- Styles ---

var (
	quadrantColors = [quadrantCount]lipgloss.Color{"196", "33", "208", "242"}

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// --- View rendering ---

func (m *Matrix) viewMatrix() string {
	cellW := m.width / gridCols
	innerH := m.visibleRows() + 1 // header + rows

	rendered := make([]string, quadrantCount)
	for i := range m.cells {
		rendered[i] = m.renderCell(i, cellW, innerH)
	}
	grid := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], rendered[1]),
		lipgloss.JoinHorizontal(lipgloss.Top, rendered[2], rendered[3]),
	)

	parts := []string{grid, "", m.renderStatusBar()}
	if m.help.ShowAll {
		parts = append(parts, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Matrix) renderCell(idx, width, innerH int) string {
	c := m.cells[idx]
	color := quadrantColors[idx]

	style := cellStyle.Width(width - 2).Height(innerH) //nolint:mnd // left+right border
	if idx == m.active {
		style = style.BorderForeground(color)
	}

	contentW := width - 4 //nolint:mnd // border + padding
	header := lipgloss.NewStyle().Bold(true).Foreground(color).Render(
		truncate(fmt.Sprintf("Q%d %s (%d)", c.quadrant, task.QuadrantLabel(c.quadrant), len(c.tasks)), contentW))

	lines := []string{header}
	if len(c.tasks) == 0 {
		lines = append(lines, dimStyle.Render("nothing here"))
	}
	end := min(c.scrollOff+m.visibleRows(), len(c.tasks))
	for i := c.scrollOff; i < end; i++ {
		t := c.tasks[i]
		est := fmt.Sprintf("%*s", estimateWidth, strconv.Itoa(t.EstimateMinutes)+"m")
		title := truncate(t.Title, contentW-estimateWidth-1)
		line := title + strings.Repeat(" ", max(contentW-estimateWidth-lipgloss.Width(title), 1)) + dimStyle.Render(est)
		if idx == m.active && i == c.row {
			line = selectedStyle.Render(title + strings.Repeat(" ", max(contentW-estimateWidth-lipgloss.Width(title), 1)) + est)
		}
		lines = append(lines, line)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *Matrix) renderStatusBar() string {
	total := m.other
	for _, c := range m.cells {
		total += len(c.tasks)
	}
	status := fmt.Sprintf(" quadono | %d pending", total)
	if m.other > 0 {
		status += fmt.Sprintf(" (%d outside 1-4)", m.other)
	}
	status += " | " + m.help.ShortHelpView(m.keys.ShortHelp())
	status = truncate(status, m.width)

	if m.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+m.err.Error(), m.width))
		return errStr + "\n" + statusBarStyle.Render(status)
	}
	return statusBarStyle.Render(status)
}

func (m *Matrix) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  %s: %s", shortID(m.deleteID), m.deleteTitle) + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

func shortID(id string) string {
	return task.Task{ID: id}.ShortID()
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := maxLen - 3 //nolint:mnd // room for "..."
	if target > len(runes) {
		target = len(runes)
	}
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
