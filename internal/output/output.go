// Package output renders command results as styled tables, compact lines or
// JSON.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
)

// FormatEnv selects the output format when no flag does.
const FormatEnv = "QUADONO_OUTPUT"

// Format represents an output format.
type Format int

const (
	// FormatTable is styled human-readable output, the default.
	FormatTable Format = iota
	// FormatJSON outputs indented JSON on stdout.
	FormatJSON
	// FormatCompact outputs one line per record.
	FormatCompact
)

// Detect picks the format: --json, then --compact, then $QUADONO_OUTPUT
// ("json", "compact" or "oneline"), then table.
func Detect(jsonFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	}
	switch os.Getenv(FormatEnv) {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	}
	return FormatTable
}

// JSON writes data as indented JSON.
func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorEnvelope is the JSON shape of a failed command.
type ErrorEnvelope struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes err as an ErrorEnvelope. Errors without a clierr code are
// reported as INTERNAL_ERROR.
func JSONError(w io.Writer, err error) {
	env := ErrorEnvelope{Error: err.Error(), Code: clierr.InternalError}
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		env.Code = cliErr.Code
		env.Details = cliErr.Details
	}
	_ = JSON(w, env)
}
