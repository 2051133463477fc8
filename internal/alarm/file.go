package alarm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// ensureFile creates an empty alarm file at path when none exists.
func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking alarm file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("creating alarm directory: %w", err)
	}
	if err := os.WriteFile(path, nil, fileMode); err != nil {
		return fmt.Errorf("creating alarm file: %w", err)
	}
	return nil
}

// readLines returns the raw lines of the alarm file, blank lines dropped.
// A missing file has no lines.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // alarm path from trusted config
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading alarm file: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// writeLines replaces the alarm file with lines.
func writeLines(path string, lines []string) error {
	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(buf.String()), fileMode); err != nil {
		return fmt.Errorf("writing alarm file: %w", err)
	}
	return nil
}

// appendLine adds one line at the end of the alarm file, creating it if needed.
func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("creating alarm directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode) //nolint:gosec // trusted path
	if err != nil {
		return fmt.Errorf("opening alarm file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("writing alarm: %w", err)
	}
	return nil
}
