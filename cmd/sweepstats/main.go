// Command sweepstats extracts cycle counts, IPC and scaling metrics from a
// gem5 configuration sweep and writes CSV, text, JSON, Excel and chart
// reports.
//
// Usage:
//
//	go run ./cmd/sweepstats <command> [flags]
//
// Commands:
//
//	speedup  Speedup, efficiency and local metrics per width
//	cycles   Cycle counts per configuration
//	ipc      Global and maximum IPC across simulations
//
// Example:
//
//	# Scaling report of a width sweep, with charts
//	go run ./cmd/sweepstats speedup --input-root results/m16 --charts
//
//	# IPC comparison of two matrix sizes
//	go run ./cmd/sweepstats ipc --input m16=results/m16 --input m128=results/m128
//
// Settings can also come from a YAML or JSON file passed with --config;
// flags override the file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
