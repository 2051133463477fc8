package alarm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/twiced-technology-gmbh/quadono/internal/bell"
	"github.com/twiced-technology-gmbh/quadono/internal/clock"
)

// DefaultPollInterval is how long the loop waits between ticks.
const DefaultPollInterval = time.Second

// State is the lifecycle of a Monitor.
type State int32

// Monitor states. A monitor moves Idle -> Running -> Stopped exactly once.
const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// MaxNoteBytes caps the note stored with an alarm.
const MaxNoteBytes = 1024

// ErrAlreadyStarted is returned by Run on a monitor that has run before.
var ErrAlreadyStarted = errors.New("alarm monitor already started")

// ErrNoteTooLong is returned by Set for notes over MaxNoteBytes.
var ErrNoteTooLong = fmt.Errorf("alarm note longer than %d bytes", MaxNoteBytes)

// Monitor owns the alarm file. Set appends to it, Tick consumes matching
// entries, and Run calls Tick until its context is cancelled.
type Monitor struct {
	path     string
	clock    clock.Clock
	ringer   bell.Ringer
	out      io.Writer
	interval time.Duration
	logger   *log.Logger

	mu    sync.Mutex // serializes file read-modify-write
	state atomic.Int32
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(m *Monitor) { m.clock = c }
}

// WithRinger sets the bell rung for each fired alarm.
func WithRinger(r bell.Ringer) Option {
	return func(m *Monitor) { m.ringer = r }
}

// WithOutput sets where fired alarms are announced.
func WithOutput(w io.Writer) Option {
	return func(m *Monitor) { m.out = w }
}

// WithPollInterval sets the wait between ticks. Non-positive values keep
// the default.
func WithPollInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithLogger sets the logger for loop diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMonitor returns an idle monitor for the alarm file at path.
func NewMonitor(path string, opts ...Option) *Monitor {
	m := &Monitor{
		path:     path,
		clock:    clock.System{},
		ringer:   bell.Silent{},
		out:      io.Discard,
		interval: DefaultPollInterval,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Path returns the backing file path.
func (m *Monitor) Path() string { return m.path }

// State reports the current lifecycle state.
func (m *Monitor) State() State { return State(m.state.Load()) }

// Set appends an alarm to the file. Line breaks in note are flattened so
// the record stays on one line. Notes over MaxNoteBytes are rejected.
func (m *Monitor) Set(t clock.TimeOfDay, note string) (Alarm, error) {
	if len(note) > MaxNoteBytes {
		return Alarm{}, ErrNoteTooLong
	}
	a := Alarm{Time: t, Note: flatten(note)}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := appendLine(m.path, a.String()); err != nil {
		return Alarm{}, err
	}
	m.logger.Debug("alarm set", "time", a.Time, "note", a.Note)
	return a, nil
}

// Pending returns the stored alarms in file order. Unparseable lines are
// skipped here but left in the file.
func (m *Monitor) Pending() ([]Alarm, error) {
	m.mu.Lock()
	lines, err := readLines(m.path)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	alarms := make([]Alarm, 0, len(lines))
	for _, line := range lines {
		a, err := ParseLine(line)
		if err != nil {
			m.logger.Debug("skipping alarm line", "err", err)
			continue
		}
		alarms = append(alarms, a)
	}
	return alarms, nil
}

// Run ensures the alarm file exists and polls it until ctx is cancelled.
// Cancellation is checked once per iteration, so a tick already in progress
// finishes. Run returns nil on cancellation.
func (m *Monitor) Run(ctx context.Context) error {
	if !m.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return ErrAlreadyStarted
	}
	defer m.state.Store(int32(Stopped))

	m.mu.Lock()
	err := ensureFile(m.path)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.logger.Debug("alarm monitor running", "path", m.path, "interval", m.interval)
	for {
		if ctx.Err() != nil {
			m.logger.Debug("alarm monitor stopped")
			return nil
		}

		if _, err := m.Tick(); err != nil {
			m.logger.Warn("alarm check failed", "err", err)
		}

		select {
		case <-ctx.Done():
		case <-m.clock.After(m.interval):
		}
	}
}

// Tick fires and removes every alarm due at the current minute, in file
// order, and returns them. The file is rewritten only when something fired.
func (m *Monitor) Tick() ([]Alarm, error) {
	now := clock.At(m.clock.Now())

	m.mu.Lock()
	lines, err := readLines(m.path)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	var fired []Alarm
	kept := lines[:0:0]
	for _, line := range lines {
		a, err := ParseLine(line)
		if err == nil && a.Time == now {
			fired = append(fired, a)
			continue
		}
		kept = append(kept, line)
	}

	if len(fired) > 0 {
		if err := writeLines(m.path, kept); err != nil {
			m.mu.Unlock()
			return nil, err
		}
	}
	m.mu.Unlock()

	for _, a := range fired {
		m.announce(a)
	}
	return fired, nil
}

func (m *Monitor) announce(a Alarm) {
	_, _ = fmt.Fprintf(m.out, "\n[alarm %s] %s\n", a.Time, a.Note)
	_ = m.ringer.Ring(bell.Alarm...)
	m.logger.Info("alarm fired", "time", a.Time, "note", a.Note)
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func flatten(s string) string { return lineBreaks.Replace(s) }
