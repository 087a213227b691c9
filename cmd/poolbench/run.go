package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	runEntries int
	runObjects int
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().IntVar(&runEntries, "entries", 512, "Slots per block in dynamic pools")
	cmd.Flags().IntVar(&runObjects, "objects", 4096, "Live objects per benchmark iteration")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [workload...]",
		Short: "Run benchmark workloads",
		Long: `The run command executes the named benchmark workloads, or all of them
when none are given.

Example:
  poolbench run
  poolbench run dynamic_alloc_free_64 heap_alloc_free_64
  poolbench run --entries 256 --objects 16384 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmarks(args)
		},
	}
}

// benchResult is one benchmark's reported outcome.
type benchResult struct {
	Name    string  `json:"name"`
	Summary summary `json:"summary"`
	MBPerS  uint64  `json:"mb_per_s,omitempty"`
}

func runBenchmarks(names []string) error {
	cfg := benchConfig{Entries: runEntries, Objects: runObjects}
	if cfg.Entries < 1 || cfg.Objects < 1 {
		return fmt.Errorf("entries and objects must be positive")
	}

	workloads, err := selectWorkloads(names, cfg)
	if err != nil {
		return err
	}

	results := make([]benchResult, 0, len(workloads))
	maxNameLen := 20
	for _, w := range workloads {
		if len(w.name) > maxNameLen {
			maxNameLen = len(w.name)
		}
	}

	for _, w := range workloads {
		printVerbose("running %s...\n", w.name)
		res, err := runOne(w, cfg)
		if err != nil {
			return fmt.Errorf("workload %s: %w", w.name, err)
		}
		results = append(results, res)
		if !jsonOut {
			fmt.Printf("%-*s %s\n", maxNameLen, res.Name, formatResult(res))
		}
	}

	if jsonOut {
		return printJSON(results)
	}
	return nil
}

func selectWorkloads(names []string, cfg benchConfig) ([]workload, error) {
	all := allWorkloads(cfg)
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]workload, len(all))
	for _, w := range all {
		byName[w.name] = w
	}
	selected := make([]workload, 0, len(names))
	for _, name := range names {
		w, ok := byName[name]
		if !ok {
			known := make([]string, 0, len(all))
			for _, w := range all {
				known = append(known, w.name)
			}
			return nil, fmt.Errorf("unknown workload %q (known: %s)",
				name, strings.Join(known, ", "))
		}
		selected = append(selected, w)
	}
	return selected, nil
}

func runOne(w workload, cfg benchConfig) (benchResult, error) {
	fn, teardown, err := w.setup(cfg)
	if err != nil {
		return benchResult{}, err
	}
	defer teardown()

	var b bencher
	summ, err := b.autoBench(fn)
	if err != nil {
		return benchResult{}, err
	}

	res := benchResult{Name: w.name, Summary: summ}
	if w.bytes > 0 && summ.Median >= 1 {
		iterPerS := 1e9 / summ.Median
		res.MBPerS = uint64(float64(w.bytes) * iterPerS / 1e6)
	}
	return res, nil
}

func formatResult(res benchResult) string {
	s := res.Summary
	if res.MBPerS > 0 {
		return fmt.Sprintf("%9d ns/iter (+/- %d) = %d MB/s",
			int64(s.Median), int64(s.Max-s.Min), res.MBPerS)
	}
	return fmt.Sprintf("%9d ns/iter (+/- %d)", int64(s.Median), int64(s.Max-s.Min))
}
