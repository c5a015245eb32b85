// Package errors holds the planner's CLI-facing diagnostics: malformed
// input, bad target strings, unreadable files — conditions a user can
// hit and fix, as opposed to internal invariant violations, which panic
// instead of producing a Diagnostic.
package errors

import (
	"fmt"
)

// MaxDiagnostics caps how many Diagnostics PlannerError.Error() prints
// before collapsing the rest into a count, set by the CLI from
// CLASSPLAN_MAX_DIAGNOSTICS. Zero (the
// zero-value default) means unlimited.
var MaxDiagnostics int

// Category classifies the kind of CLI-facing problem.
type Category int

const (
	CategoryInput Category = iota
	CategoryTarget
	CategoryIO
)

func (c Category) String() string {
	switch c {
	case CategoryInput:
		return "input"
	case CategoryTarget:
		return "target"
	case CategoryIO:
		return "io"
	default:
		return "unknown"
	}
}

// SourceLocation pinpoints where in the input a Diagnostic applies. File
// alone is common (a whole malformed JSON document); Path narrows it to a
// specific field when the input was already parsed far enough to know.
type SourceLocation struct {
	File string
	Path string // e.g. "classes[3].fields[1].type"
}

func (loc SourceLocation) String() string {
	switch {
	case loc.File == "" && loc.Path == "":
		return ""
	case loc.Path == "":
		return loc.File
	case loc.File == "":
		return loc.Path
	default:
		return fmt.Sprintf("%s: %s", loc.File, loc.Path)
	}
}

// Diagnostic is a single CLI-facing problem report.
type Diagnostic struct {
	Category Category
	Message  string
	Location SourceLocation
	Help     string
}

// PlannerError wraps one or more Diagnostics as a Go error.
type PlannerError struct {
	Diagnostics []Diagnostic
}

func (e *PlannerError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].Format()
	}

	shown := e.Diagnostics
	truncated := 0
	if MaxDiagnostics > 0 && len(shown) > MaxDiagnostics {
		truncated = len(shown) - MaxDiagnostics
		shown = shown[:MaxDiagnostics]
	}

	msg := fmt.Sprintf("%d problems found:\n", len(e.Diagnostics))
	for _, d := range shown {
		msg += "  " + d.Format() + "\n"
	}
	if truncated > 0 {
		msg += fmt.Sprintf("  ... %d more\n", truncated)
	}
	return msg
}

// Format renders a Diagnostic as a single human-readable line, matching
// the "category: message (location) — help" shape used across the CLI.
func (d Diagnostic) Format() string {
	s := fmt.Sprintf("%s: %s", d.Category, d.Message)
	if loc := d.Location.String(); loc != "" {
		s += fmt.Sprintf(" (%s)", loc)
	}
	if d.Help != "" {
		s += fmt.Sprintf(" — %s", d.Help)
	}
	return s
}

// New wraps a single Diagnostic in a PlannerError.
func New(d Diagnostic) *PlannerError {
	return &PlannerError{Diagnostics: []Diagnostic{d}}
}

// MalformedInput reports a MIR document that failed to parse or
// validate.
func MalformedInput(file, path, message string) *PlannerError {
	return New(Diagnostic{
		Category: CategoryInput,
		Message:  message,
		Location: SourceLocation{File: file, Path: path},
		Help:     "check that the MIR document matches the expected schema",
	})
}

// BadTarget reports an unparseable "ARCH-OS" target string.
func BadTarget(target, message string) *PlannerError {
	return New(Diagnostic{
		Category: CategoryTarget,
		Message:  message,
		Location: SourceLocation{Path: target},
		Help:     "expected a string like arm64-darwin or x86_64-linux",
	})
}

// IOFailure reports a filesystem-level failure reading or writing a file.
func IOFailure(file string, cause error) *PlannerError {
	return New(Diagnostic{
		Category: CategoryIO,
		Message:  cause.Error(),
		Location: SourceLocation{File: file},
	})
}
