package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uartsim/uartsim/sim/bench"
	"github.com/uartsim/uartsim/sim/trace"
)

func TestRunCommandRegistered(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "run")
}

func TestRunCommand_FlagDefaults(t *testing.T) {
	flags := runCmd.Flags()
	cases := map[string]string{
		"baud":         "115200",
		"idle-timeout": "100",
		"horizon":      "20ms",
		"seed":         "42",
		"log":          "info",
		"trace":        "none",
	}
	for name, want := range cases {
		f := flags.Lookup(name)
		require.NotNil(t, f, "flag %s not registered", name)
		assert.Equal(t, want, f.DefValue, "flag %s default", name)
	}
}

func TestWriteSummaryToStdout_EmitsYAML(t *testing.T) {
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelTransitions})
	st.RecordTransition(10*time.Nanosecond, "uo_out[4]", true)
	st.RecordExchange(trace.ExchangeRecord{Command: 13, Reply: "ok", Matched: true})

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	writeSummaryToStdout(trace.Summarize(st))

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	assert.Contains(t, output, "total_transitions: 1")
	assert.Contains(t, output, "exchanges: 1")
}

func TestMetricsPrint_WritesToStdout(t *testing.T) {
	m := bench.Metrics{Exchanges: 2, BytesReceived: 137, SimTime: 12 * time.Millisecond}

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	m.Print()

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	assert.Contains(t, output, "Bench Metrics")
	assert.Contains(t, output, "Exchanges       : 2")
}
