// Package task handles the quadrant task list and its backing file.
package task

import "time"

// Quadrant bounds. Quadrants are a display grouping only.
const (
	MinQuadrant = 1
	MaxQuadrant = 4
)

// Task is one entry of the task list.
type Task struct {
	ID              string     `yaml:"id" json:"id"`
	Title           string     `yaml:"title" json:"title"`
	Quadrant        int        `yaml:"quadrant" json:"quadrant"`
	EstimateMinutes int        `yaml:"estimate_minutes" json:"estimate_minutes"`
	Done            bool       `yaml:"done" json:"done"`
	Created         time.Time  `yaml:"created,omitempty" json:"created,omitempty"`
	Completed       *time.Time `yaml:"completed,omitempty" json:"completed,omitempty"`
}

const shortIDLen = 8

// ShortID returns the id prefix shown in listings.
func (t Task) ShortID() string {
	if len(t.ID) <= shortIDLen {
		return t.ID
	}
	return t.ID[:shortIDLen]
}

// markDone flips the task to done and stamps Completed on the first transition.
func (t *Task) markDone(now time.Time) {
	if !t.Done || t.Completed == nil {
		t.Completed = &now
	}
	t.Done = true
}
