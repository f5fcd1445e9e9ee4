// Package stats extracts scalar quantities from simulator statistics dumps
// (gem5 style "label value # description" lines).
package stats

import "slices"

// Cycle sources reported in Record.CycleSource.
const (
	SourceNumCycles = "max(system.cpu*.numCycles)"
	SourceSimTicks  = "sim_ticks / clock_period"
)

// Record holds the quantities extracted from one statistics file.
type Record struct {
	// CycleCounts are the per-core cycle counts in file order. When the
	// file has no numCycles lines, it holds a single count derived from
	// sim_ticks and the clock period.
	CycleCounts []uint64

	// Instructions is the total retired instruction count (sim_insts). The
	// last occurrence in the file wins.
	Instructions uint64

	// IPCSamples are the per-core IPC readings in file order.
	IPCSamples []float64

	// Ticks is the simulated time in ticks, zero when absent.
	Ticks uint64

	// ClockPeriod is the clock period used to convert Ticks into cycles,
	// zero when absent.
	ClockPeriod uint64

	// CycleSource names the rule that produced the cycle counts.
	CycleSource string
}

// Cycles returns the effective cycle count, the maximum over all cores.
func (r *Record) Cycles() uint64 {
	if len(r.CycleCounts) == 0 {
		return 0
	}
	return slices.Max(r.CycleCounts)
}

// HasInstructions reports whether a positive instruction count was found.
func (r *Record) HasInstructions() bool {
	return r.Instructions > 0
}

// HasIPCSamples reports whether per-core IPC readings were found.
func (r *Record) HasIPCSamples() bool {
	return len(r.IPCSamples) > 0
}

// UsedFallback reports whether cycles were derived from simulated ticks.
func (r *Record) UsedFallback() bool {
	return r.CycleSource == SourceSimTicks
}
