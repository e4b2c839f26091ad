package cmd

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/procsim/sim"
	"github.com/inference-sim/procsim/sim/trace"
	"github.com/inference-sim/procsim/sim/workload"
)

var (
	// CLI flags shared by run and compare
	inputPath    string // Process list file
	configPath   string // Optional YAML SimConfig
	policyName   string // ep, ep-rr or rr
	quantum      int64  // Round-robin slice (in ticks)
	overhead     int64  // Context-switch overhead (in ticks)
	horizon      int64  // Stop the simulation after this tick
	logLevel     string // Log verbosity level
	outDir       string // Directory for execution/memory logs
	metricsPath  string // Optional metrics JSON output
	promTextfile string // Optional Prometheus text-format output
	exportCSV    bool   // Also write the logs as CSV
	strictInput  bool   // Abort on the first malformed input record
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "procsim",
	Short: "Discrete-event simulator for CPU scheduling and fixed-partition memory",
}

// runCmd simulates one policy and writes its logs
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling simulation for one policy",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, err := buildConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		specs, err := loadSpecs(inputPath, strictInput)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Starting simulation with policy=%s, partitions=%v, quantum=%d, overhead=%d",
			cfg.Policy, cfg.Partitions, cfg.Quantum, cfg.ContextSwitchOverhead)

		res, err := simulate(cfg, specs)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := writeOutputs(res, outDir, exportCSV); err != nil {
			logrus.Fatalf("%v", err)
		}
		res.Metrics.Print(os.Stdout, policyTag(res.Policy))
		RenderSummary(os.Stdout, trace.Summarize(res.Trace))
		if logrus.IsLevelEnabled(logrus.InfoLevel) {
			RenderProcesses(os.Stdout, res.Processes)
		}
		reportRejected(res)

		if metricsPath != "" {
			if err := res.Metrics.SaveResults(res.RunID, res.Policy, metricsPath); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		if promTextfile != "" {
			if err := ExportPrometheusTextfile(promTextfile, res); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		logrus.Info("Simulation complete.")
	},
}

// compareCmd runs every policy on the same input and tabulates their metrics
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run ep, ep-rr and rr on the same input and compare their metrics",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		specs, err := loadSpecs(inputPath, strictInput)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		results, err := compareAll(cmd, specs)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		RenderComparison(os.Stdout, results)

		if promTextfile != "" {
			if err := ExportPrometheusTextfile(promTextfile, results...); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
	},
}

// validateCmd parses the input and reports malformed or unadmittable records
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a process list without simulating it",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, err := buildConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		valid, tooLarge, err := validateInput(inputPath, cfg.Partitions)
		if err != nil && !errors.Is(err, workload.ErrMalformedRecord) {
			logrus.Fatalf("%v", err)
		}
		RenderPartitions(os.Stdout, sim.NewPartitionTable(cfg.Partitions).Snapshot())
		if err != nil {
			fmt.Println(err)
		}
		fmt.Printf("%d valid records, %d too large for memory\n", valid, tooLarge)
		if err != nil || tooLarge > 0 {
			os.Exit(1)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// buildConfig layers the config file (if any) under explicitly set flags.
func buildConfig(cmd *cobra.Command) (sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig(policyName)
	if configPath != "" {
		loaded, err := sim.LoadSimConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
		if cmd.Flags().Changed("policy") || cmd.Name() == "compare" {
			cfg.Policy = policyName
		}
	}
	if cmd.Flags().Changed("quantum") {
		cfg.Quantum = quantum
	}
	if cmd.Flags().Changed("overhead") {
		cfg.ContextSwitchOverhead = overhead
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Horizon = horizon
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadSpecs reads the process list. Malformed records are skipped with a
// warning unless strict is set.
func loadSpecs(path string, strict bool) ([]sim.ProcessSpec, error) {
	specs, err := workload.LoadProcessList(path)
	if err != nil {
		if !errors.Is(err, workload.ErrMalformedRecord) {
			return nil, err
		}
		if strict {
			return nil, fmt.Errorf("malformed input: %w", err)
		}
		logrus.Warnf("Ignoring malformed records in %s:\n%v", path, err)
	}
	return specs, nil
}

// simulate runs one configured simulation to completion.
func simulate(cfg sim.SimConfig, specs []sim.ProcessSpec) (*sim.Result, error) {
	s, err := sim.NewSimulator(cfg, specs)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}

// comparePolicies is the order in which compare runs and reports policies.
var comparePolicies = []string{"ep", "ep-rr", "rr"}

// compareAll runs every policy on specs, writing per-policy logs to outDir
// when it is set. policyName is restored before returning.
func compareAll(cmd *cobra.Command, specs []sim.ProcessSpec) ([]*sim.Result, error) {
	defer func(name string) { policyName = name }(policyName)

	results := make([]*sim.Result, 0, len(comparePolicies))
	for _, name := range comparePolicies {
		policyName = name
		cfg, err := buildConfig(cmd)
		if err != nil {
			return nil, err
		}
		res, err := simulate(cfg, specs)
		if err != nil {
			return nil, err
		}
		if outDir != "" {
			if err := writeOutputs(res, outDir, exportCSV); err != nil {
				return nil, err
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// validateInput parses the process list at path and counts the records no
// partition can hold. err is either an open failure or the joined malformed
// records, in which case valid and tooLarge still describe the good records.
func validateInput(path string, partitions []int64) (valid, tooLarge int, err error) {
	specs, err := workload.LoadProcessList(path)
	if err != nil && !errors.Is(err, workload.ErrMalformedRecord) {
		return 0, 0, err
	}
	memory := sim.NewPartitionTable(partitions)
	for _, spec := range specs {
		if !memory.Fits(spec.Size) {
			logrus.Warnf("Process %d: size %d KB exceeds every partition", spec.ID, spec.Size)
			tooLarge++
		}
	}
	return len(specs), tooLarge, err
}

// policyTag turns a policy name into the suffix used by output files, e.g. "ep-rr" -> "EP_RR".
func policyTag(policy string) string {
	return strings.ToUpper(strings.ReplaceAll(policy, "-", "_"))
}

// writeOutputs writes execution_<TAG>.txt and memory_<TAG>.txt (plus CSV copies) to dir.
func writeOutputs(res *sim.Result, dir string, withCSV bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tag := policyTag(res.Policy)

	var execution strings.Builder
	RenderExecution(&execution, res.Trace.Transitions)
	execution.WriteString("\n")
	res.Metrics.Print(&execution, tag)
	execution.WriteString("\n")
	RenderSummary(&execution, trace.Summarize(res.Trace))
	if err := os.WriteFile(filepath.Join(dir, "execution_"+tag+".txt"), []byte(execution.String()), 0644); err != nil {
		return fmt.Errorf("writing execution log: %w", err)
	}

	var memory strings.Builder
	RenderMemory(&memory, res.Trace.Memory)
	if err := os.WriteFile(filepath.Join(dir, "memory_"+tag+".txt"), []byte(memory.String()), 0644); err != nil {
		return fmt.Errorf("writing memory log: %w", err)
	}

	if withCSV {
		if err := trace.ExportCSV(res.Trace,
			filepath.Join(dir, "execution_"+tag+".csv"),
			filepath.Join(dir, "memory_"+tag+".csv")); err != nil {
			return err
		}
	}
	logrus.Infof("Wrote %s logs for run %s to %s", tag, res.RunID, dir)
	return nil
}

func reportRejected(res *sim.Result) {
	for _, spec := range res.Rejected {
		logrus.Warnf("Process %d (%d KB) was never admitted: no partition is large enough", spec.ID, spec.Size)
	}
	if len(res.Unfinished) > 0 {
		logrus.Warnf("Processes still unfinished at horizon: %v", res.Unfinished)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, compareCmd, validateCmd} {
		c.Flags().StringVar(&inputPath, "input", "", "Path to the process list file")
		c.Flags().StringVar(&configPath, "config", "", "Path to a YAML simulation config")
		c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().Int64Var(&quantum, "quantum", sim.DefaultQuantum, "Round-robin time quantum (in ticks)")
		c.Flags().Int64Var(&overhead, "overhead", sim.DefaultContextSwitchOverhead, "Context-switch overhead per transition (in ticks)")
		c.Flags().Int64Var(&horizon, "horizon", math.MaxInt64, "Total simulation horizon (in ticks)")
		_ = c.MarkFlagRequired("input")
	}
	runCmd.Flags().StringVar(&policyName, "policy", "ep", "Scheduling policy: ep, ep-rr or rr")
	validateCmd.Flags().StringVar(&policyName, "policy", "ep", "Scheduling policy: ep, ep-rr or rr")

	for _, c := range []*cobra.Command{runCmd, compareCmd} {
		c.Flags().StringVar(&promTextfile, "prom-textfile", "", "Write metrics in Prometheus text format to this file")
		c.Flags().BoolVar(&exportCSV, "csv", false, "Also write execution and memory logs as CSV")
		c.Flags().BoolVar(&strictInput, "strict", false, "Fail on malformed input records instead of skipping them")
	}
	runCmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory for execution and memory logs")
	compareCmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for per-policy logs (empty = none)")
	runCmd.Flags().StringVar(&metricsPath, "metrics-out", "", "Write metrics JSON to this file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(validateCmd)
}
