// Package trace provides signal and exchange recording for bench-run
// analysis. This package has no dependencies on sim/ or sim/bench/ — it
// stores pure data types.
package trace

import "time"

// TransitionRecord captures a single signal line level change.
type TransitionRecord struct {
	At    time.Duration `yaml:"at"`
	Line  string        `yaml:"line"`
	Level bool          `yaml:"level"`
}

// ExchangeRecord captures a single command/response exchange outcome.
type ExchangeRecord struct {
	Command byte          `yaml:"command"`
	Reply   string        `yaml:"reply"`
	Matched bool          `yaml:"matched"`
	Start   time.Duration `yaml:"start"`
	End     time.Duration `yaml:"end"`
}
