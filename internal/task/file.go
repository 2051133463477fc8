package task

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// ReadFile parses the task file at path. A missing file returns an error
// satisfying errors.Is(err, fs.ErrNotExist).
func ReadFile(path string) ([]Task, error) {
	data, err := os.ReadFile(path) //nolint:gosec // task path from trusted config
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}

	var tasks []Task
	if err := yaml.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tasks, nil
}

// WriteFile replaces the task file at path with tasks.
func WriteFile(path string, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := yaml.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshaling tasks: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("creating task directory: %w", err)
	}
	if err := os.WriteFile(path, data, fileMode); err != nil {
		return fmt.Errorf("writing task file: %w", err)
	}
	return nil
}
