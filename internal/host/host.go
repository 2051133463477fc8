// Package host runs one foreground unit of work next to the alarm monitor
// loop until the process is told to stop.
//
// The foreground runs to its own natural end: it gets a context that is not
// cancelled by the host. On stop the host cancels the monitor, waits for it
// to exit and returns; a still-running foreground is abandoned with the
// process.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrAlreadyStarted is returned when Run is called more than once.
var ErrAlreadyStarted = errors.New("host: already started")

// Foreground is the unit of work the host starts once.
type Foreground func(ctx context.Context) error

// Runner is a background loop that runs until its context is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// Host coordinates a Foreground and a background Runner.
type Host struct {
	foreground Foreground
	background Runner
	logger     *log.Logger
	errOut     io.Writer
	signals    []os.Signal
	noSignals  bool

	mu      sync.Mutex
	started bool

	stopCh   chan struct{}
	stopOnce sync.Once
	fgDone   chan struct{}
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger for lifecycle and foreground failures.
func WithLogger(l *log.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithErrorOutput sets where foreground failures are printed for the user.
func WithErrorOutput(w io.Writer) Option {
	return func(h *Host) { h.errOut = w }
}

// WithSignals replaces the default stop signals.
func WithSignals(sigs ...os.Signal) Option {
	return func(h *Host) { h.signals = sigs }
}

// WithoutSignals disables OS signal handling; only ctx and Stop end Run.
func WithoutSignals() Option {
	return func(h *Host) { h.noSignals = true }
}

// New returns a host for foreground and background. A nil foreground is
// allowed and does nothing.
func New(foreground Foreground, background Runner, opts ...Option) *Host {
	h := &Host{
		foreground: foreground,
		background: background,
		logger:     log.New(io.Discard),
		errOut:     os.Stderr,
		stopCh:     make(chan struct{}),
		fgDone:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run starts the foreground and the background loop and blocks until a stop
// signal arrives, ctx is done, Stop is called, or the background loop exits
// on its own. It then cancels the background loop and waits for it. Run is
// NOT idempotent.
func (h *Host) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return ErrAlreadyStarted
	}
	h.started = true
	h.mu.Unlock()

	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bgDone := make(chan error, 1)
	go func() {
		bgDone <- safeCall(bgCtx, h.background.Run)
	}()

	go func() {
		defer close(h.fgDone)
		if h.foreground == nil {
			return
		}
		if err := safeCall(context.WithoutCancel(ctx), h.foreground); err != nil {
			h.report(err)
		}
	}()

	sigCh, stopSignals := h.runSignalWatcher()
	defer stopSignals()

	select {
	case <-ctx.Done():
		h.logger.Debug("host context done")
	case sig := <-sigCh:
		h.logger.Debug("host received signal", "signal", sig)
	case <-h.stopCh:
		h.logger.Debug("host stop requested")
	case err := <-bgDone:
		if err != nil {
			return fmt.Errorf("alarm monitor: %w", err)
		}
		return nil
	}

	cancel()
	if err := <-bgDone; err != nil {
		return fmt.Errorf("alarm monitor: %w", err)
	}
	return nil
}

// Stop asks Run to return. It is idempotent and safe before Run.
func (h *Host) Stop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
}

// ForegroundDone is closed when the foreground returns.
func (h *Host) ForegroundDone() <-chan struct{} { return h.fgDone }

func (h *Host) report(err error) {
	h.logger.Error("foreground failed", "err", err)
	if h.errOut != nil {
		_, _ = fmt.Fprintf(h.errOut, "Error: %v\n", err)
	}
}

func (h *Host) runSignalWatcher() (<-chan os.Signal, func()) {
	if h.noSignals {
		return nil, func() {}
	}
	sigs := h.signals
	if len(sigs) == 0 {
		sigs = defaultSignals()
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	return ch, func() { signal.Stop(ch) }
}

func safeCall(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v\n%s", p, debug.Stack())
		}
	}()
	return fn(ctx)
}
