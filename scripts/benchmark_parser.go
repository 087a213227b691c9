// Command benchmark_parser turns `go test -bench` output from the pool
// package into a markdown report comparing pooled allocation against the
// heap baseline.
//
// Usage:
//
//	go test -bench . -benchmem ./pool | go run scripts/benchmark_parser.go
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// benchResult is one parsed benchmark line.
type benchResult struct {
	Name        string
	Impl        string // "Fixed", "Dynamic" or "Heap"
	Operation   string // "AllocFree", "FillDrain", ...
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// comparison pairs a pool benchmark with the heap baseline for the same
// operation, when one exists.
type comparison struct {
	Impl      string
	Operation string
	PoolNs    float64
	HeapNs    float64
	Speedup   float64
	PoolMem   int64
	HeapMem   int64
	PoolOnly  bool
}

var (
	inputFile  = flag.String("input", "", "Input file with benchmark output (stdin if not specified)")
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	scanner := bufio.NewScanner(os.Stdin)
	var inputF *os.File
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		inputF = f
		scanner = bufio.NewScanner(f)
	}

	results := parseBenchmarks(scanner)
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	report := generateMarkdownReport(generateComparisons(results))

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(report), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			if inputF != nil {
				inputF.Close()
			}
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}

	if inputF != nil {
		inputF.Close()
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []benchResult {
	var results []benchResult

	// Benchmark_Dynamic_AllocFree-8    10000    124.5 ns/op    0 B/op    0 allocs/op
	benchmarkRegex := regexp.MustCompile(
		`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+B/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
	)

	for scanner.Scan() {
		line := scanner.Text()

		// Accept `go test -json` streams too.
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		name := matches[1]
		impl, operation := splitBenchName(name)
		if impl == "" {
			continue
		}

		iterations, _ := strconv.Atoi(matches[2])
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)
		var bytesPerOp, allocsPerOp int64
		if matches[4] != "" {
			bytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			allocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}

		results = append(results, benchResult{
			Name:        name,
			Impl:        impl,
			Operation:   operation,
			Iterations:  iterations,
			NsPerOp:     nsPerOp,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}

	return results
}

// splitBenchName breaks Benchmark_<Impl>_<Operation>[-procs] into its parts.
func splitBenchName(name string) (impl, operation string) {
	trimmed := strings.TrimPrefix(name, "Benchmark_")
	if dash := strings.LastIndex(trimmed, "-"); dash > 0 {
		trimmed = trimmed[:dash]
	}
	parts := strings.SplitN(trimmed, "_", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

func generateComparisons(results []benchResult) []comparison {
	heap := make(map[string]benchResult)
	for _, r := range results {
		if r.Impl == "Heap" {
			heap[r.Operation] = r
		}
	}

	var comparisons []comparison
	for _, r := range results {
		if r.Impl == "Heap" {
			continue
		}
		base, ok := heap[r.Operation]
		if ok {
			comparisons = append(comparisons, comparison{
				Impl:      r.Impl,
				Operation: r.Operation,
				PoolNs:    r.NsPerOp,
				HeapNs:    base.NsPerOp,
				Speedup:   base.NsPerOp / r.NsPerOp,
				PoolMem:   r.BytesPerOp,
				HeapMem:   base.BytesPerOp,
			})
		} else {
			comparisons = append(comparisons, comparison{
				Impl:      r.Impl,
				Operation: r.Operation,
				PoolNs:    r.NsPerOp,
				PoolMem:   r.BytesPerOp,
				PoolOnly:  true,
			})
		}
	}

	sort.Slice(comparisons, func(i, j int) bool {
		if comparisons[i].Operation != comparisons[j].Operation {
			return comparisons[i].Operation < comparisons[j].Operation
		}
		return comparisons[i].Impl < comparisons[j].Impl
	})

	return comparisons
}

func generateMarkdownReport(comparisons []comparison) string {
	var sb strings.Builder

	sb.WriteString("# Pool Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	poolFaster := 0
	comparable := 0
	totalSpeedup := 0.0
	for _, comp := range comparisons {
		if comp.PoolOnly {
			continue
		}
		comparable++
		totalSpeedup += comp.Speedup
		if comp.Speedup > 1.0 {
			poolFaster++
		}
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total benchmarks**: %d\n", len(comparisons)))
	sb.WriteString(fmt.Sprintf("- **Compared against heap baseline**: %d\n", comparable))
	if comparable > 0 {
		sb.WriteString(fmt.Sprintf("  - pool faster: %d (%.1f%%)\n",
			poolFaster, float64(poolFaster)/float64(comparable)*100))
		sb.WriteString(fmt.Sprintf("  - Average speedup: **%.2fx**\n", totalSpeedup/float64(comparable)))
	}
	sb.WriteString("\n")

	sb.WriteString("## Detailed Results\n\n")
	sb.WriteString("| Pool | Operation | pool (ns/op) | heap (ns/op) | Speedup | Memory (B/op) |\n")
	sb.WriteString("|------|-----------|--------------|--------------|---------|---------------|\n")

	for _, comp := range comparisons {
		if comp.PoolOnly {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | *N/A* | *pool only* | %s |\n",
				comp.Impl, comp.Operation,
				formatNumber(comp.PoolNs), formatBytes(comp.PoolMem)))
			continue
		}
		style := "**"
		if comp.Speedup < 1.0 {
			style = ""
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s%.2fx%s | %s vs %s |\n",
			comp.Impl, comp.Operation,
			formatNumber(comp.PoolNs), formatNumber(comp.HeapNs),
			style, comp.Speedup, style,
			formatBytes(comp.PoolMem), formatBytes(comp.HeapMem)))
	}

	sb.WriteString("\n## Notes\n\n")
	sb.WriteString("- **Speedup > 1.0**: the pool beats per-object heap allocation\n")
	sb.WriteString("- **Memory**: steady-state pools should report 0 B/op\n")
	sb.WriteString("- **pool only**: operations with no heap equivalent, e.g. bulk iteration\n")

	return sb.String()
}

func formatNumber(n float64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.2fM", n/1000000)
	} else if n >= 1000 {
		return fmt.Sprintf("%.1fK", n/1000)
	}
	return fmt.Sprintf("%.0f", n)
}

func formatBytes(b int64) string {
	if b >= 1024*1024 {
		return fmt.Sprintf("%.2fMB", float64(b)/(1024*1024))
	} else if b >= 1024 {
		return fmt.Sprintf("%.1fKB", float64(b)/1024)
	}
	return fmt.Sprintf("%dB", b)
}
