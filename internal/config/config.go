// Package config resolves the planner CLI's settings from environment
// variables first, then lets explicit CLI flags override them — the
// same precedence the rest of the ecosystem's tools use env/v2 for.
package config

import (
	"github.com/xyproto/env/v2"
)

// Config holds every setting the CLI driver needs, after environment
// defaults and flag overrides have both been applied.
type Config struct {
	Target        string
	Verbose       bool
	Watch         bool
	OutputIsJSON  bool
	MaxDiagnostics int

	// ProcessSizeOverride replaces the target's default process-struct
	// size (in bytes) when set to a non-zero value, for runtimes whose
	// mutex implementation changes that layout. Zero means "use the
	// target's own default".
	ProcessSizeOverride int
}

// Defaults reads CLASSPLAN_* environment variables, falling back to the
// package's built-in defaults for anything unset.
func Defaults() Config {
	return Config{
		Target:              env.Str("CLASSPLAN_TARGET", ""),
		Verbose:             env.Bool("CLASSPLAN_VERBOSE"),
		Watch:               env.Bool("CLASSPLAN_WATCH"),
		OutputIsJSON:        env.Bool("CLASSPLAN_JSON"),
		MaxDiagnostics:      env.Int("CLASSPLAN_MAX_DIAGNOSTICS", 10),
		ProcessSizeOverride: env.Int("CLASSPLAN_PROCESS_SIZE", 0),
	}
}

// ApplyTarget and the other Apply* methods override a single field when
// the corresponding CLI flag was explicitly provided (the caller decides
// "provided" via flag.Visit).
func (c *Config) ApplyTarget(target string, provided bool) {
	if provided {
		c.Target = target
	}
}

func (c *Config) ApplyVerbose(verbose bool, provided bool) {
	if provided {
		c.Verbose = verbose
	}
}

func (c *Config) ApplyWatch(watch bool, provided bool) {
	if provided {
		c.Watch = watch
	}
}

func (c *Config) ApplyJSON(json bool, provided bool) {
	if provided {
		c.OutputIsJSON = json
	}
}

func (c *Config) ApplyProcessSizeOverride(size int, provided bool) {
	if provided {
		c.ProcessSizeOverride = size
	}
}
