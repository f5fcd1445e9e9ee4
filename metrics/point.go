// Package metrics derives throughput and scaling metrics from extracted
// statistics records.
package metrics

import (
	"github.com/sarchlab/simsweep/stats"
	"github.com/sarchlab/simsweep/sweep"
)

// Sample is one parsed configuration, the input of Compute.
type Sample struct {
	// Label is the configuration directory name.
	Label string

	// Key holds the configuration coordinates.
	Key sweep.Key

	// Record is the statistics extracted for the configuration.
	Record *stats.Record
}

// Point is one configuration together with its derived metrics.
type Point struct {
	Label string    `json:"label"`
	Key   sweep.Key `json:"key"`

	// Cycles is the effective cycle count of the run.
	Cycles uint64 `json:"cycles"`

	// Instructions is the retired instruction count, zero when unknown.
	Instructions uint64 `json:"instructions,omitempty"`

	// CycleSource names how Cycles was obtained.
	CycleSource string `json:"cycle_source"`

	// IPCGlobal is Instructions / Cycles. Nil when Instructions is unknown.
	IPCGlobal *float64 `json:"ipc_global,omitempty"`

	// IPCMax is the highest per-core IPC reading. Nil without readings.
	IPCMax *float64 `json:"ipc_max,omitempty"`

	// Speedup is baseline cycles over Cycles.
	Speedup float64 `json:"speedup"`

	// Efficiency is Speedup divided by the thread count.
	Efficiency float64 `json:"efficiency"`

	// LocalSpeedup, LocalEfficiency and MarginalEfficiency compare the
	// point with the previous one in thread order. They are nil for the
	// first point of a series.
	LocalSpeedup       *float64 `json:"local_speedup,omitempty"`
	LocalEfficiency    *float64 `json:"local_efficiency,omitempty"`
	MarginalEfficiency *float64 `json:"marginal_efficiency,omitempty"`
}

// Threads returns the thread count of the point.
func (p Point) Threads() int {
	return p.Key.Threads
}

// Series is an ordered run of points sharing a simulation and a width.
type Series struct {
	// Simulation names the sweep the series comes from.
	Simulation string `json:"simulation"`

	// Width is the shared pipeline width, zero when the sweep has none.
	Width int `json:"width,omitempty"`

	// Points are sorted ascending by thread count.
	Points []Point `json:"points"`

	// Baseline is the index of the baseline point in Points.
	Baseline int `json:"baseline"`
}

// BaselinePoint returns the point speedups are relative to.
func (s Series) BaselinePoint() Point {
	return s.Points[s.Baseline]
}

// Threads returns the thread counts of the series in order.
func (s Series) Threads() []int {
	out := make([]int, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Threads()
	}
	return out
}

func ptr(v float64) *float64 {
	return &v
}
