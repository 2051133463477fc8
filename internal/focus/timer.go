// Package focus runs pomodoro sessions: one work countdown followed by one
// break countdown, optionally bound to a task that is completed at the end.
package focus

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/twiced-technology-gmbh/quadono/internal/bell"
	"github.com/twiced-technology-gmbh/quadono/internal/clock"
	"github.com/twiced-technology-gmbh/quadono/internal/task"
)

// Default phase lengths and display refresh.
const (
	DefaultWork  = 25 * time.Minute
	DefaultBreak = 5 * time.Minute
	DefaultTick  = time.Second
)

// Outcome is how a countdown ended.
type Outcome int

// Countdown outcomes. NotRun marks a phase that never started.
const (
	NotRun Outcome = iota
	Completed
	Interrupted
	Canceled
)

func (o Outcome) String() string {
	switch o {
	case NotRun:
		return "not_run"
	case Completed:
		return "completed"
	case Interrupted:
		return "interrupted"
	case Canceled:
		return "canceled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// MarshalText renders the outcome by name in JSON output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Tasks is the part of the task store a session needs.
type Tasks interface {
	Find(ref string) (task.Task, error)
	Done(ref string) (task.Task, bool, error)
}

// Result summarizes a session.
type Result struct {
	Task      *task.Task `json:"task,omitempty"`
	Work      Outcome    `json:"work"`
	Break     Outcome    `json:"break"`
	Completed bool       `json:"completed"`
	Record    *Record    `json:"record,omitempty"`
}

// Timer runs focus sessions.
type Timer struct {
	tasks     Tasks
	history   *History
	clock     clock.Clock
	ringer    bell.Ringer
	interrupt Interrupter
	out       io.Writer
	logger    *log.Logger

	work      time.Duration
	breakTime time.Duration
	tick      time.Duration
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option { return func(t *Timer) { t.clock = c } }

// WithRinger sets the bell rung at the end of each phase.
func WithRinger(r bell.Ringer) Option { return func(t *Timer) { t.ringer = r } }

// WithInterrupter sets the source of early-stop requests.
func WithInterrupter(i Interrupter) Option { return func(t *Timer) { t.interrupt = i } }

// WithOutput sets where announcements and the countdown line are written.
func WithOutput(w io.Writer) Option { return func(t *Timer) { t.out = w } }

// WithLogger sets the diagnostics logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Timer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithDurations overrides the phase lengths. Non-positive values keep the
// defaults.
func WithDurations(work, breakTime time.Duration) Option {
	return func(t *Timer) {
		if work > 0 {
			t.work = work
		}
		if breakTime > 0 {
			t.breakTime = breakTime
		}
	}
}

// WithTick sets the countdown refresh interval.
func WithTick(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.tick = d
		}
	}
}

// NewTimer returns a Timer that resolves tasks in tasks and logs completed
// sessions to history.
func NewTimer(tasks Tasks, history *History, opts ...Option) *Timer {
	t := &Timer{
		tasks:     tasks,
		history:   history,
		clock:     clock.System{},
		ringer:    bell.Silent{},
		interrupt: Never,
		out:       io.Discard,
		logger:    log.New(io.Discard),
		work:      DefaultWork,
		breakTime: DefaultBreak,
		tick:      DefaultTick,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start runs one session. A non-empty ref must resolve to a task, otherwise
// a TASK_NOT_FOUND error is returned before any countdown starts. The bound
// task is marked done and a history record is written only when both phases
// complete.
func (t *Timer) Start(ctx context.Context, ref string) (Result, error) {
	var res Result
	if ref != "" {
		found, err := t.tasks.Find(ref)
		if err != nil {
			return res, err
		}
		res.Task = &found
	}

	title := NoTask
	if res.Task != nil {
		title = res.Task.Title
	}

	t.printf("[focus] work %s, task: %s (press Enter to stop early)\n", minutes(t.work), title)
	res.Work = t.Countdown(ctx, t.work, "work")
	if res.Work != Completed {
		return res, t.stopped(ctx, res.Work)
	}

	t.printf("[focus] break %s\n", minutes(t.breakTime))
	res.Break = t.Countdown(ctx, t.breakTime, "break")
	if res.Break != Completed {
		return res, t.stopped(ctx, res.Break)
	}

	if res.Task != nil {
		done, ok, err := t.tasks.Done(res.Task.ID)
		if err != nil {
			return res, fmt.Errorf("completing task: %w", err)
		}
		if ok {
			res.Task = &done
			t.printf("[focus] task %s marked done\n", done.ShortID())
		} else {
			t.logger.Warn("bound task removed during session", "id", res.Task.ID)
		}
	}

	rec := Record{
		Timestamp:   t.clock.Now(),
		Task:        title,
		WorkMinutes: int(t.work / time.Minute),
	}
	if err := t.history.Append(rec); err != nil {
		return res, err
	}
	res.Record = &rec
	res.Completed = true
	t.logger.Info("focus session completed", "task", title, "minutes", rec.WorkMinutes)
	return res, nil
}

// Countdown waits for d, redrawing a single "label mm:ss" line every tick.
// It returns Interrupted if an interrupt is pending at a tick and Canceled
// if ctx ends first. On completion it rings the phase-end bell.
func (t *Timer) Countdown(ctx context.Context, d time.Duration, label string) Outcome {
	end := t.clock.Now().Add(d)
	for {
		left := end.Sub(t.clock.Now())
		if left <= 0 {
			break
		}
		if ctx.Err() != nil {
			t.printf("\n")
			return Canceled
		}
		if t.interrupt.Pending() {
			t.printf("\n[focus] %s stopped early\n", label)
			return Interrupted
		}

		t.printf("\r%s %s  ", label, formatLeft(left))

		select {
		case <-ctx.Done():
		case <-t.clock.After(min(t.tick, left)):
		}
	}

	t.printf("\r%s 00:00  \n", label)
	_ = t.ringer.Ring(bell.PhaseEnd...)
	return Completed
}

func (t *Timer) stopped(ctx context.Context, o Outcome) error {
	t.logger.Debug("focus session ended early", "outcome", o)
	if o == Canceled {
		return ctx.Err()
	}
	return nil
}

func (t *Timer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(t.out, format, args...)
}

// formatLeft renders a remaining duration as mm:ss, rounding partial
// seconds up so the display never shows 00:00 before the end.
func formatLeft(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func minutes(d time.Duration) string {
	if d%time.Minute == 0 {
		return fmt.Sprintf("%dm", int(d/time.Minute))
	}
	return d.String()
}
