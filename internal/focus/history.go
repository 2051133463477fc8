package focus

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	historyFileMode = 0o600
	historyDirMode  = 0o750
	maxHistory      = 10000 // truncate oldest records when the log exceeds this size
)

// NoTask is recorded as the task title of an unbound session.
const NoTask = "none"

// Record is one completed focus session.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	Task        string    `json:"task"`
	WorkMinutes int       `json:"work_minutes"`
}

// History is the append-only JSONL log of completed sessions.
type History struct {
	path string
}

// NewHistory returns the history log stored at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Path returns the backing file path.
func (h *History) Path() string { return h.path }

// Append writes rec as one JSON line. If the log exceeds maxHistory records,
// the oldest are truncated.
func (h *History) Append(rec Record) error {
	if err := os.MkdirAll(filepath.Dir(h.path), historyDirMode); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, historyFileMode) //nolint:gosec // history path from trusted config
	if err != nil {
		return fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling history record: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing history record: %w", err)
	}

	// Best-effort; a failed truncation leaves a longer log, not a broken one.
	_ = truncateIfNeeded(h.path)

	return nil
}

// Read returns every record in the log, oldest first. Lines that are not
// valid records are skipped. A missing log has no records.
func (h *History) Read() ([]Record, error) {
	f, err := os.Open(h.path) //nolint:gosec // trusted path
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}
	return records, nil
}

func truncateIfNeeded(path string) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()

	if err := scanner.Err(); err != nil {
		return err
	}
	if len(lines) <= maxHistory {
		return nil
	}

	lines = lines[len(lines)-maxHistory:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(buf.String()), historyFileMode)
}
