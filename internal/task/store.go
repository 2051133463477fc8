package task

import (
	"errors"
	"io"
	"io/fs"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Store owns the task list: an in-memory cache kept in step with one YAML
// file. Every operation reloads the file first, and mutations hold mu across
// load, mutate and write, so two mutations from the same process never
// interleave. There is no cross-process locking; the last writer wins.
type Store struct {
	path string

	mu    sync.Mutex
	cache []Task

	newID  func() string
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDFunc overrides id generation (tests).
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithNow overrides the clock used for Created/Completed stamps.
func WithNow(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// NewStore opens the task list at path. A missing or corrupt file yields an
// empty list; the first mutation re-creates it.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		newID:  uuid.NewString,
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	s.loadLocked()
	s.mu.Unlock()
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Add appends a new task and persists the list.
func (s *Store) Add(title string, quadrant, estimateMinutes int) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	t := Task{
		ID:              s.newID(),
		Title:           title,
		Quadrant:        quadrant,
		EstimateMinutes: estimateMinutes,
		Created:         s.now(),
	}
	s.cache = append(s.cache, t)
	if err := s.saveLocked(); err != nil {
		s.cache = s.cache[:len(s.cache)-1]
		return Task{}, err
	}
	s.logger.Debug("task added", "id", t.ID, "quadrant", quadrant)
	return t, nil
}

// List reloads the file and returns the pending tasks grouped by quadrant.
func (s *Store) List() []Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return GroupByQuadrant(Pending(s.cache))
}

// All reloads the file and returns every task, done ones included.
func (s *Store) All() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return append([]Task(nil), s.cache...)
}

// Done marks the first task matched by ref as done. It reports false and
// writes nothing when no task matches.
func (s *Store) Done(ref string) (Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	idx := IndexOf(s.cache, ref)
	if idx < 0 {
		return Task{}, false, nil
	}

	prev := s.cache[idx]
	s.cache[idx].markDone(s.now())
	if err := s.saveLocked(); err != nil {
		s.cache[idx] = prev
		return Task{}, false, err
	}
	s.logger.Debug("task done", "id", prev.ID)
	return s.cache[idx], true, nil
}

// Del removes every task matched by ref and persists the list, even when
// nothing matched. It returns the removed tasks.
func (s *Store) Del(ref string) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	kept := make([]Task, 0, len(s.cache))
	var removed []Task
	for _, t := range s.cache {
		if t.Matches(ref) {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}

	prev := s.cache
	s.cache = kept
	if err := s.saveLocked(); err != nil {
		s.cache = prev
		return nil, err
	}
	s.logger.Debug("tasks deleted", "ref", ref, "count", len(removed))
	return removed, nil
}

// Find returns the first task matched by ref.
func (s *Store) Find(ref string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	idx := IndexOf(s.cache, ref)
	if idx < 0 {
		return Task{}, NotFound(ref)
	}
	return s.cache[idx], nil
}

// loadLocked replaces the cache with the file contents. Unreadable files
// count as empty.
func (s *Store) loadLocked() {
	tasks, err := ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("task file unreadable, treating as empty", "path", s.path, "err", err)
		}
		tasks = nil
	}
	s.cache = tasks
}

func (s *Store) saveLocked() error {
	return WriteFile(s.path, s.cache)
}
