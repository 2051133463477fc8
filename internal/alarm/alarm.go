// Package alarm stores time-of-day reminders and fires them from a
// polling loop.
package alarm

import (
	"fmt"
	"strings"

	"github.com/twiced-technology-gmbh/quadono/internal/clock"
)

const sep = "|"

// Alarm is one stored reminder. It has no date: it fires the next time the
// wall clock shows Time, then is removed.
type Alarm struct {
	Time clock.TimeOfDay `json:"time"`
	Note string          `json:"note"`
}

// String renders the alarm as its storage line.
func (a Alarm) String() string {
	return a.Time.String() + sep + a.Note
}

// ParseLine decodes "HH:MM|note". The note is everything after the first
// separator and may itself contain '|'.
func ParseLine(line string) (Alarm, error) {
	ts, note, ok := strings.Cut(line, sep)
	if !ok {
		return Alarm{}, fmt.Errorf("alarm line %q: missing %q separator", line, sep)
	}
	t, err := clock.ParseTimeOfDay(ts)
	if err != nil {
		return Alarm{}, fmt.Errorf("alarm line %q: %w", line, err)
	}
	return Alarm{Time: t, Note: note}, nil
}
