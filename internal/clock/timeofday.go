// Package clock provides a wall-clock time-of-day type that marshals as HH:MM
// and an injectable Clock for polling loops and countdowns.
package clock

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

const layout = "15:04"

// TimeOfDay is a minute of the day without a date component.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// At returns the TimeOfDay of t in t's location.
func At(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseTimeOfDay parses "H:MM" or "HH:MM" (24h clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(m) != 2 || len(h) == 0 || len(h) > 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: hour must be 00-23", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: minute must be 00-59", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// String returns the time as zero-padded HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalYAML implements yaml.Marshaler.
func (t TimeOfDay) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML implements yaml.v3 Unmarshaler.
func (t *TimeOfDay) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseTimeOfDay(value.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
