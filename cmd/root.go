package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/uartsim/uartsim/sim"
	"github.com/uartsim/uartsim/sim/bench"
	"github.com/uartsim/uartsim/sim/dut"
	"github.com/uartsim/uartsim/sim/trace"
	"github.com/uartsim/uartsim/sim/uart"
)

var (
	// CLI flags for the bench session
	baud        int           // UART rate for both directions
	idleTimeout int           // end-of-message idle gap in 1us polling units
	horizon     time.Duration // virtual-time budget for the whole run
	scriptPath  string        // YAML bench script; empty = built-in power-on script
	logLevel    string        // log verbosity level
	traceLevel  string        // signal trace level

	// CLI flags for the device model
	replyDelay  time.Duration // device latency from command receipt to first response bit
	clockPeriod time.Duration // system clock period; 0 disables the clock task
	seed        int64         // seed for the device's board randomization
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "uartsim",
	Short: "Discrete-event simulator for UART device bring-up benches",
}

// runCmd executes the bench session using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scripted bench against the simulated device",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		script := bench.DefaultScript()
		if scriptPath != "" {
			script, err = bench.LoadScript(scriptPath)
			if err != nil {
				logrus.Fatalf("Failed to load script: %v", err)
			}
		}
		// Flags fill whatever the script leaves unset
		if script.Baud == 0 {
			script.Baud = baud
		}
		if script.IdleTimeoutUnits == 0 {
			script.IdleTimeoutUnits = idleTimeout
		}

		logrus.Infof("Starting bench: baud=%d, idle-timeout=%d units, horizon=%v, %d exchange(s)",
			script.Baud, script.IdleTimeoutUnits, horizon, len(script.Exchanges))

		sched := sim.NewScheduler(sim.Config{Horizon: horizon})
		bus := sim.NewBus(sched)
		tr := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})
		if tr.Config.Level == trace.TraceLevelTransitions {
			bus.SetRecorder(tr)
		}

		pins := dut.NewPins(bus)
		if clockPeriod > 0 {
			sim.StartClock(sched, pins.Clk, clockPeriod)
		}
		device := dut.NewDevice(pins, dut.Config{Baud: script.Baud, ReplyDelay: replyDelay, Seed: seed})
		device.Start(sched)

		b := bench.New(sched, pins, bench.Config{Baud: script.Baud, IdleTimeoutUnits: script.IdleTimeoutUnits}, script)
		b.SetTrace(tr)

		if err := sched.Run(b.Start()); err != nil {
			logrus.Fatalf("Bench failed: %v", err)
		}
		b.Metrics.Print()
		if tr.Config.Level == trace.TraceLevelTransitions {
			writeSummaryToStdout(trace.Summarize(tr))
		}

		logrus.Info("Bench complete.")
	},
}

// writeSummaryToStdout marshals a TraceSummary to YAML and writes to stdout.
func writeSummaryToStdout(summary *trace.TraceSummary) {
	data, err := yaml.Marshal(summary)
	if err != nil {
		logrus.Fatalf("YAML marshal failed: %v", err)
	}
	fmt.Print(string(data))
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().IntVar(&baud, "baud", uart.DefaultBaud, "UART baud rate")
	runCmd.Flags().IntVar(&idleTimeout, "idle-timeout", uart.DefaultIdleTimeoutUnits, "End-of-message idle gap in 1us polling units")
	runCmd.Flags().DurationVar(&horizon, "horizon", sim.DefaultHorizon, "Virtual-time budget for the whole run")
	runCmd.Flags().StringVar(&scriptPath, "script", "", "Path to a YAML bench script (empty = built-in power-on script)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Trace level (none, transitions)")

	// Device model configs
	runCmd.Flags().DurationVar(&replyDelay, "reply-delay", dut.DefaultReplyDelay, "Device latency between command receipt and first response bit")
	runCmd.Flags().DurationVar(&clockPeriod, "clock-period", dut.DefaultClockPeriod, "System clock period (0 disables the clock task)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the device's board randomization")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
