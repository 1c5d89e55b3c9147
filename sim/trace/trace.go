package trace

import "time"

// TraceLevel controls the verbosity of signal tracing.
type TraceLevel string

const (
	// TraceLevelNone disables transition recording (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTransitions captures every signal line level change.
	TraceLevelTransitions TraceLevel = "transitions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:        true,
	TraceLevelTransitions: true,
	"":                    true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects signal transitions and exchange outcomes during a
// bench run. It satisfies sim.TraceRecorder.
type SimulationTrace struct {
	Config      TraceConfig
	Transitions []TransitionRecord
	Exchanges   []ExchangeRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Transitions: make([]TransitionRecord, 0),
		Exchanges:   make([]ExchangeRecord, 0),
	}
}

// RecordTransition appends a line level change when transition tracing is on.
func (st *SimulationTrace) RecordTransition(at time.Duration, line string, level bool) {
	if st.Config.Level != TraceLevelTransitions {
		return
	}
	st.Transitions = append(st.Transitions, TransitionRecord{At: at, Line: line, Level: level})
}

// RecordExchange appends a command/response outcome record.
func (st *SimulationTrace) RecordExchange(record ExchangeRecord) {
	st.Exchanges = append(st.Exchanges, record)
}
