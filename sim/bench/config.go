// sim/bench/config.go
package bench

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/uartsim/uartsim/sim/dut"
	"github.com/uartsim/uartsim/sim/uart"
)

// Reference timings from the board's bring-up procedure.
const (
	DefaultResetHold   = 1 * time.Microsecond
	DefaultResetSettle = 5 * time.Microsecond
)

// Exchange is one scripted command/response step.
type Exchange struct {
	Command byte `yaml:"command"`
	// Expect is the exact reply required for the exchange to pass. Empty
	// means the reply is informational only.
	Expect string `yaml:"expect,omitempty"`
	// RequireData fails the exchange if the collected reply is empty.
	RequireData bool `yaml:"require_data,omitempty"`
	// SettleUs is an inter-command settle delay inserted before sending.
	SettleUs int64 `yaml:"settle_us,omitempty"`
}

// Script is a loadable bench scenario.
type Script struct {
	Baud             int        `yaml:"baud,omitempty"`
	IdleTimeoutUnits int        `yaml:"idle_timeout_units,omitempty"`
	Exchanges        []Exchange `yaml:"exchanges"`
}

// Validate checks the script for values the bench cannot run with.
func (s *Script) Validate() error {
	if s.Baud < 0 {
		return fmt.Errorf("baud must be non-negative, got %d", s.Baud)
	}
	if s.IdleTimeoutUnits < 0 {
		return fmt.Errorf("idle_timeout_units must be non-negative, got %d", s.IdleTimeoutUnits)
	}
	if len(s.Exchanges) == 0 {
		return fmt.Errorf("script has no exchanges")
	}
	for i, ex := range s.Exchanges {
		if ex.SettleUs < 0 {
			return fmt.Errorf("exchange %d: settle_us must be non-negative, got %d", i, ex.SettleUs)
		}
	}
	return nil
}

// LoadScript reads and validates a Script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bench script: %w", err)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing bench script %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bench script %s: %w", path, err)
	}
	return &s, nil
}

// DefaultScript is the board's power-on scenario: a carriage return that
// must produce the exact init banner, then a 0.7 ms settle followed by a
// randomize command whose board dump just has to be non-empty.
func DefaultScript() *Script {
	return &Script{
		Baud:             uart.DefaultBaud,
		IdleTimeoutUnits: uart.DefaultIdleTimeoutUnits,
		Exchanges: []Exchange{
			{Command: dut.CmdBanner, Expect: dut.InitString},
			{Command: dut.CmdRandomize, RequireData: true, SettleUs: 700},
		},
	}
}
