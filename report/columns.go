// Package report renders computed metric series as CSV, text, JSON, Excel
// workbooks and charts.
package report

import (
	"fmt"

	"github.com/sarchlab/simsweep/metrics"
)

// Column is one field of a tabular report.
type Column struct {
	// Header is the column name.
	Header string

	// Value extracts the cell from a point. A nil result is an empty cell.
	Value func(s metrics.Series, p metrics.Point) any
}

// Columns is an ordered set of report columns.
type Columns []Column

// Headers returns the column names.
func (c Columns) Headers() []string {
	out := make([]string, len(c))
	for i, col := range c {
		out[i] = col.Header
	}
	return out
}

// Row returns the raw cell values of a point. Optional metrics that are
// absent come back as nil.
func (c Columns) Row(s metrics.Series, p metrics.Point) []any {
	out := make([]any, len(c))
	for i, col := range c {
		out[i] = deref(col.Value(s, p))
	}
	return out
}

// Format returns the textual cells of a point, ratios with six decimals.
func (c Columns) Format(s metrics.Series, p metrics.Point) []string {
	row := c.Row(s, p)
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = formatCell(v)
	}
	return out
}

var (
	colSimulation = Column{"simulation", func(s metrics.Series, _ metrics.Point) any { return s.Simulation }}
	colWidth      = Column{"width", func(s metrics.Series, _ metrics.Point) any { return s.Width }}
	colThreads    = Column{"threads", func(_ metrics.Series, p metrics.Point) any { return p.Threads() }}
	colCycles     = Column{"cycles_max", func(_ metrics.Series, p metrics.Point) any { return p.Cycles }}
	colSource     = Column{"cycle_source", func(_ metrics.Series, p metrics.Point) any { return p.CycleSource }}
	colSpeedup    = Column{"speedup_vs_base", func(_ metrics.Series, p metrics.Point) any { return p.Speedup }}
	colEfficiency = Column{"efficiency", func(_ metrics.Series, p metrics.Point) any { return p.Efficiency }}
	colLocal      = Column{"local_speedup", func(_ metrics.Series, p metrics.Point) any { return p.LocalSpeedup }}
	colLocalEff   = Column{"local_efficiency", func(_ metrics.Series, p metrics.Point) any { return p.LocalEfficiency }}
	colMarginal   = Column{"marginal_efficiency", func(_ metrics.Series, p metrics.Point) any { return p.MarginalEfficiency }}
	colIPCMax     = Column{"ipc_max", func(_ metrics.Series, p metrics.Point) any { return p.IPCMax }}
	colIPCGlobal  = Column{"ipc_global", func(_ metrics.Series, p metrics.Point) any { return p.IPCGlobal }}
	colInsts      = Column{"sim_insts", func(_ metrics.Series, p metrics.Point) any { return p.Instructions }}
	colFolder     = Column{"folder", func(_ metrics.Series, p metrics.Point) any { return p.Label }}
)

// SpeedupColumns describe the scaling report of a width sweep.
func SpeedupColumns() Columns {
	return Columns{
		colWidth, colThreads, colCycles, colSpeedup, colEfficiency,
		colLocal, colLocalEff, colMarginal, colFolder,
	}
}

// CyclesColumns describe the raw cycle counts.
func CyclesColumns() Columns {
	return Columns{colSimulation, colWidth, colThreads, colCycles, colSource, colFolder}
}

// IPCColumns describe the throughput comparison across simulations.
func IPCColumns() Columns {
	return Columns{
		colSimulation, colWidth, colThreads, colIPCMax, colIPCGlobal,
		colInsts, colCycles, colFolder,
	}
}

func deref(v any) any {
	if p, ok := v.(*float64); ok {
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%.6f", v)
	default:
		return fmt.Sprint(v)
	}
}
