package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/sarchlab/simsweep/aggregate"
	"github.com/sarchlab/simsweep/metrics"
)

// Chart size, matching a 10x5.2 inch figure.
const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 5.2 * vg.Inch
)

// Chart describes a line chart with thread counts on the X axis and one
// line per series.
type Chart struct {
	Title  string
	YLabel string

	// Series are drawn in order, so legends follow ascending width.
	Series []metrics.Series

	// Value extracts the Y value of a point. Points for which it returns
	// false are not drawn.
	Value func(p metrics.Point) (float64, bool)

	// Format labels every drawn point with its value. Nil draws no
	// labels.
	Format func(y float64) string

	// Reference draws a dashed horizontal line when set, for example the
	// ideal efficiency.
	Reference      *float64
	ReferenceLabel string
}

// ChartTitle formats a title such as "Cortex-A15 (m=16): speedup".
func ChartTitle(architecture, matrixLabel, what string) string {
	if matrixLabel == "" {
		return fmt.Sprintf("%s: %s", architecture, what)
	}
	return fmt.Sprintf("%s (%s): %s", architecture, matrixLabel, what)
}

// CyclesChart plots the effective cycle count.
func CyclesChart(title string, series []metrics.Series) Chart {
	return Chart{
		Title:  title,
		YLabel: "Execution cycles",
		Series: series,
		Value:  func(p metrics.Point) (float64, bool) { return float64(p.Cycles), true },
		Format: formatCount,
	}
}

// SpeedupChart plots the speedup against the baseline.
func SpeedupChart(title string, series []metrics.Series) Chart {
	return Chart{
		Title:  title,
		YLabel: "Speedup S(p) = T1 / Tp",
		Series: series,
		Value:  func(p metrics.Point) (float64, bool) { return p.Speedup, true },
		Format: func(y float64) string { return fmt.Sprintf("%.2f", y) },
	}
}

// EfficiencyChart plots the efficiency in percent with the 100% reference.
func EfficiencyChart(title string, series []metrics.Series) Chart {
	ideal := 100.0
	return Chart{
		Title:          title,
		YLabel:         "Efficiency E(p) = S(p)/p (%)",
		Series:         series,
		Value:          func(p metrics.Point) (float64, bool) { return 100 * p.Efficiency, true },
		Format:         func(y float64) string { return fmt.Sprintf("%.1f%%", y) },
		Reference:      &ideal,
		ReferenceLabel: "Ideal efficiency (100%)",
	}
}

// IPCGlobalChart plots sim_insts over the maximum cycle count.
func IPCGlobalChart(title string, series []metrics.Series) Chart {
	return Chart{
		Title:  title,
		YLabel: "Global IPC = sim_insts / max(numCycles)",
		Series: series,
		Value:  optionalValue(func(p metrics.Point) *float64 { return p.IPCGlobal }),
		Format: formatIPC,
	}
}

// IPCMaxChart plots the highest per-core IPC reading.
func IPCMaxChart(title string, series []metrics.Series) Chart {
	return Chart{
		Title:  title,
		YLabel: "Max IPC (max system.cpu*.ipc)",
		Series: series,
		Value:  optionalValue(func(p metrics.Point) *float64 { return p.IPCMax }),
		Format: formatIPC,
	}
}

func optionalValue(get func(metrics.Point) *float64) func(metrics.Point) (float64, bool) {
	return func(p metrics.Point) (float64, bool) {
		v := get(p)
		if v == nil {
			return 0, false
		}
		return *v, true
	}
}

// Save renders the chart to path.
func (c Chart) Save(path string) error {
	return SaveChart(path, c)
}

// SaveChart renders the chart to path. The image format follows the file
// extension (png, svg, pdf).
func SaveChart(path string, c Chart) error {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = "Threads"
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	multi := simulationCount(c.Series) > 1
	minX, maxX := 0.0, 0.0
	drawn := 0

	for i, s := range c.Series {
		var (
			xys    plotter.XYs
			labels []string
		)
		for _, pt := range s.Points {
			y, ok := c.Value(pt)
			if !ok {
				continue
			}
			x := float64(pt.Threads())
			xys = append(xys, plotter.XY{X: x, Y: y})
			if c.Format != nil {
				labels = append(labels, c.Format(y))
			}
			if drawn == 0 || x < minX {
				minX = x
			}
			if drawn == 0 || x > maxX {
				maxX = x
			}
			drawn++
		}
		if len(xys) == 0 {
			continue
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return errors.Wrapf(err, "failed to build line %s", legend(s, multi))
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = plotutil.Color(i)
		points.GlyphStyle.Color = plotutil.Color(i)
		points.GlyphStyle.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(legend(s, multi), line, points)

		if c.Format != nil {
			values, err := valueLabels(xys, labels, 0, vg.Points(6))
			if err != nil {
				return err
			}
			p.Add(values)
		}
	}

	if drawn == 0 {
		return errors.Errorf("chart %q has no data", c.Title)
	}

	if c.Reference != nil {
		ref, err := plotter.NewLine(plotter.XYs{{X: minX, Y: *c.Reference}, {X: maxX, Y: *c.Reference}})
		if err != nil {
			return errors.Wrap(err, "failed to build reference line")
		}
		ref.LineStyle.Width = vg.Points(1.5)
		ref.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		ref.LineStyle.Color = plotutil.DarkColors[len(plotutil.DarkColors)-1]
		p.Add(ref)
		p.Legend.Add(c.ReferenceLabel, ref)
	}

	p.X.Tick.Marker = threadTicks(ThreadAxis(c.Series))

	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return errors.Wrapf(err, "failed to save chart %s", path)
	}
	return nil
}

func legend(s metrics.Series, multi bool) string {
	switch {
	case s.Width > 0 && multi:
		return fmt.Sprintf("%s Width=%d", s.Simulation, s.Width)
	case s.Width > 0:
		return fmt.Sprintf("Width=%d", s.Width)
	case s.Simulation != "":
		return s.Simulation
	default:
		return "observed"
	}
}

func simulationCount(series []metrics.Series) int {
	names := map[string]bool{}
	for _, s := range series {
		names[s.Simulation] = true
	}
	return len(names)
}

// ThreadAxis returns the sorted distinct thread counts of all series, the
// shared X axis of a chart.
func ThreadAxis(series []metrics.Series) []int {
	groups := make([]aggregate.Group[metrics.Point], len(series))
	for i, s := range series {
		groups[i] = aggregate.Group[metrics.Point]{Key: s.Width, Items: s.Points}
	}
	return aggregate.SecondaryValues(groups, metrics.Point.Threads)
}

// threadTicks labels exactly the given thread counts.
func threadTicks(threads []int) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, 0, len(threads))
	for _, t := range threads {
		ticks = append(ticks, plot.Tick{Value: float64(t), Label: strconv.Itoa(t)})
	}
	return ticks
}

// valueLabels centers one text label above each point, shifted by dx.
func valueLabels(xys plotter.XYs, labels []string, dx, dy vg.Length) (*plotter.Labels, error) {
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build value labels")
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = text.XCenter
		l.TextStyle[i].Font.Size = vg.Points(7)
	}
	l.Offset = vg.Point{X: dx, Y: dy}
	return l, nil
}

// formatCount writes an integer with space thousands separators, such as
// "1 250 000".
func formatCount(y float64) string {
	digits := strconv.FormatInt(int64(y+0.5), 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatIPC(y float64) string {
	return fmt.Sprintf("%.3f", y)
}
