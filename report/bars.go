package report

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/sarchlab/simsweep/metrics"
)

// BarChart groups one bar per series at each thread count.
type BarChart struct {
	Title  string
	YLabel string
	Series []metrics.Series

	// Value extracts the bar height. A point it rejects is drawn as an
	// empty slot.
	Value func(metrics.Point) (float64, bool)

	// Format labels every non-zero bar. Nil draws no labels.
	Format func(y float64) string
}

// CyclesBarChart plots the cycle count of each configuration as grouped
// bars.
func CyclesBarChart(title string, series []metrics.Series) BarChart {
	return BarChart{
		Title:  title + " (cycle count)",
		YLabel: "Cycles",
		Series: series,
		Value:  func(p metrics.Point) (float64, bool) { return float64(p.Cycles), true },
		Format: formatCount,
	}
}

// Save renders the chart to path.
func (c BarChart) Save(path string) error {
	return SaveBarChart(path, c)
}

const (
	maxBarWidth = 20.0
	groupWidth  = 56.0
)

// barWidth shares the group width between n bars, capped so that a single
// series does not fill the whole slot.
func barWidth(n int) vg.Length {
	return vg.Points(math.Min(groupWidth/float64(max(n, 1)), maxBarWidth))
}

// SaveBarChart renders c as a PNG at path. Thread counts become evenly
// spaced categories; a width missing a thread count leaves a gap.
func SaveBarChart(path string, c BarChart) error {
	threads := ThreadAxis(c.Series)
	if len(threads) == 0 {
		return errors.Errorf("chart %q has no data", c.Title)
	}
	slot := make(map[int]int, len(threads))
	names := make([]string, len(threads))
	for i, t := range threads {
		slot[t] = i
		names[i] = strconv.Itoa(t)
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = "Number of threads"
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	multi := simulationCount(c.Series) > 1
	w := barWidth(len(c.Series))
	center := float64(len(c.Series)-1) / 2

	for i, s := range c.Series {
		heights := make(plotter.Values, len(threads))
		var (
			xys    plotter.XYs
			labels []string
		)
		for _, pt := range s.Points {
			y, ok := c.Value(pt)
			if !ok {
				continue
			}
			x := slot[pt.Threads()]
			heights[x] = y
			if c.Format != nil && y != 0 {
				xys = append(xys, plotter.XY{X: float64(x), Y: y})
				labels = append(labels, c.Format(y))
			}
		}

		bars, err := plotter.NewBarChart(heights, w)
		if err != nil {
			return errors.Wrapf(err, "failed to build bars %s", legend(s, multi))
		}
		bars.Offset = vg.Length(float64(i)-center) * w
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(legend(s, multi), bars)

		if len(xys) > 0 {
			values, err := valueLabels(xys, labels, bars.Offset, vg.Points(3))
			if err != nil {
				return err
			}
			p.Add(values)
		}
	}

	p.NominalX(names...)

	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return errors.Wrapf(err, "failed to save chart %s", path)
	}
	return nil
}
