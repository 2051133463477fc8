package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
)

// ValidateTitle rejects blank titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return clierr.New(clierr.InvalidInput, "title must not be empty")
	}
	return nil
}

// ValidateQuadrant checks that q is within 1-4.
func ValidateQuadrant(q int) error {
	if q < MinQuadrant || q > MaxQuadrant {
		return clierr.Newf(clierr.InvalidQuadrant, "invalid quadrant %d (must be %d-%d)", q, MinQuadrant, MaxQuadrant).
			WithDetails(map[string]any{
				"quadrant": q,
				"min":      MinQuadrant,
				"max":      MaxQuadrant,
			})
	}
	return nil
}

// ValidateEstimate rejects negative estimates.
func ValidateEstimate(minutes int) error {
	if minutes < 0 {
		return clierr.Newf(clierr.InvalidInput, "estimate must be >= 0 minutes, got %d", minutes).
			WithDetails(map[string]any{"estimate_minutes": minutes})
	}
	return nil
}

// ValidateRef rejects blank task references.
func ValidateRef(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return clierr.New(clierr.InvalidInput, "task reference must not be empty")
	}
	return nil
}
