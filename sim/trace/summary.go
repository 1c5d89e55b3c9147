package trace

import "time"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTransitions  int            `yaml:"total_transitions"`
	TransitionsByLine map[string]int `yaml:"transitions_by_line"` // line name → level changes
	Exchanges         int            `yaml:"exchanges"`
	Mismatches        int            `yaml:"mismatches"`
	BytesReceived     int            `yaml:"bytes_received"`
	LastActivity      time.Duration  `yaml:"last_activity"`
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TransitionsByLine: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalTransitions = len(st.Transitions)
	for _, tr := range st.Transitions {
		summary.TransitionsByLine[tr.Line]++
		if tr.At > summary.LastActivity {
			summary.LastActivity = tr.At
		}
	}

	summary.Exchanges = len(st.Exchanges)
	for _, ex := range st.Exchanges {
		if !ex.Matched {
			summary.Mismatches++
		}
		summary.BytesReceived += len(ex.Reply)
		if ex.End > summary.LastActivity {
			summary.LastActivity = ex.End
		}
	}

	return summary
}
