package metrics

import (
	"cmp"
	"math"
	"slices"

	mstats "github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Metric names used in MetricError.
const (
	MetricCycles             = "cycles"
	MetricIPCGlobal          = "ipc_global"
	MetricIPCMax             = "ipc_max"
	MetricSpeedup            = "speedup"
	MetricEfficiency         = "efficiency"
	MetricLocalSpeedup       = "local_speedup"
	MetricLocalEfficiency    = "local_efficiency"
	MetricMarginalEfficiency = "marginal_efficiency"
)

// Compute derives the metrics of one series. Samples may come in any order;
// the returned points are sorted ascending by thread count.
//
// The baseline is the point with one thread if present, otherwise the point
// with the fewest threads. Any division by zero fails the whole series with
// a *MetricError.
func Compute(simulation string, width int, samples []Sample) (Series, error) {
	if len(samples) == 0 {
		return Series{}, errors.New("cannot compute metrics of an empty series")
	}

	sorted := slices.Clone(samples)
	slices.SortStableFunc(sorted, func(a, b Sample) int {
		if c := cmp.Compare(a.Key.Threads, b.Key.Threads); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})

	points := make([]Point, len(sorted))
	for i, s := range sorted {
		p, err := newPoint(s)
		if err != nil {
			return Series{}, err
		}
		points[i] = p
	}

	baseline := slices.IndexFunc(points, func(p Point) bool { return p.Threads() == 1 })
	if baseline < 0 {
		baseline = 0
	}
	baseCycles := float64(points[baseline].Cycles)

	for i := range points {
		p := &points[i]

		speedup, err := divide(MetricSpeedup, p.Label, baseCycles, float64(p.Cycles))
		if err != nil {
			return Series{}, err
		}
		p.Speedup = speedup

		p.Efficiency, err = divide(MetricEfficiency, p.Label, p.Speedup, float64(p.Threads()))
		if err != nil {
			return Series{}, err
		}

		if i == 0 {
			continue
		}
		if err := computeAdjacent(&points[i-1], p); err != nil {
			return Series{}, err
		}
	}

	return Series{
		Simulation: simulation,
		Width:      width,
		Points:     points,
		Baseline:   baseline,
	}, nil
}

func newPoint(s Sample) (Point, error) {
	if s.Record == nil {
		return Point{}, &MetricError{Metric: MetricCycles, Label: s.Label, Reason: "no statistics record"}
	}
	if s.Key.Threads <= 0 {
		return Point{}, &MetricError{Metric: MetricEfficiency, Label: s.Label, Reason: "thread count is not positive"}
	}

	p := Point{
		Label:        s.Label,
		Key:          s.Key,
		Cycles:       s.Record.Cycles(),
		Instructions: s.Record.Instructions,
		CycleSource:  s.Record.CycleSource,
	}
	if p.Cycles == 0 {
		return Point{}, &MetricError{Metric: MetricCycles, Label: s.Label, Reason: "zero cycles"}
	}

	if s.Record.HasInstructions() {
		ipc, err := divide(MetricIPCGlobal, s.Label, float64(p.Instructions), float64(p.Cycles))
		if err != nil {
			return Point{}, err
		}
		p.IPCGlobal = ptr(ipc)
	}

	if s.Record.HasIPCSamples() {
		best, err := mstats.Max(s.Record.IPCSamples)
		if err != nil {
			return Point{}, &MetricError{Metric: MetricIPCMax, Label: s.Label, Reason: err.Error()}
		}
		p.IPCMax = ptr(best)
	}

	return p, nil
}

func computeAdjacent(prev, p *Point) error {
	local, err := divide(MetricLocalSpeedup, p.Label, float64(prev.Cycles), float64(p.Cycles))
	if err != nil {
		return err
	}

	threadRatio, err := divide(MetricLocalEfficiency, p.Label, float64(p.Threads()), float64(prev.Threads()))
	if err != nil {
		return err
	}
	localEff, err := divide(MetricLocalEfficiency, p.Label, local, threadRatio)
	if err != nil {
		return err
	}

	delta := p.Threads() - prev.Threads()
	if delta == 0 {
		return &MetricError{
			Metric: MetricMarginalEfficiency,
			Label:  p.Label,
			Reason: "duplicate thread count with " + prev.Label,
		}
	}
	marginal, err := divide(MetricMarginalEfficiency, p.Label, p.Speedup-prev.Speedup, float64(delta))
	if err != nil {
		return err
	}

	p.LocalSpeedup = ptr(local)
	p.LocalEfficiency = ptr(localEff)
	p.MarginalEfficiency = ptr(marginal)
	return nil
}

func divide(metric, label string, num, den float64) (float64, error) {
	if den == 0 {
		return 0, &MetricError{Metric: metric, Label: label, Reason: "division by zero"}
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &MetricError{Metric: metric, Label: label, Reason: "result is not finite"}
	}
	return v, nil
}
