package report

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/sarchlab/simsweep/metrics"
)

// TextReport is a human-readable scaling report.
type TextReport struct {
	// Title is the first line of the report.
	Title string

	// Source is the sweep root the series were read from.
	Source string

	// Series are reported in order.
	Series []metrics.Series

	// Threshold is the local efficiency below which a thread step is
	// listed as a degradation.
	Threshold float64
}

// WriteText writes the report. Efficiencies are shown as percentages and
// absent local metrics as "-".
func WriteText(w io.Writer, r TextReport) error {
	tw := &textWriter{w: w}

	tw.printf("%s\n", r.Title)
	tw.printf("Source: %s\n\n", r.Source)
	tw.printf("Columns: threads, cycles_max, speedup, efficiency(%%), " +
		"local_speedup, local_efficiency(%%), marginal_efficiency_per_thread(%%)\n")

	for _, s := range r.Series {
		tw.printf("\n")
		if s.Width > 0 {
			tw.printf("=== %s width=%d ===\n", s.Simulation, s.Width)
		} else {
			tw.printf("=== %s ===\n", s.Simulation)
		}
		if err := writeSeries(tw, s, r.Threshold); err != nil {
			return err
		}
	}

	return tw.err
}

func writeSeries(tw *textWriter, s metrics.Series, threshold float64) error {
	for _, p := range s.Points {
		tw.printf("t=%2d | cycles=%8d | S=%5.3f | Eglob=%6.2f%% | "+
			"LocalGain=%5s | Elocal=%6s%% | Emarg=%6s%%\n",
			p.Threads(), p.Cycles, p.Speedup, 100*p.Efficiency,
			optional(p.LocalSpeedup, 1, "%.3f"),
			optional(p.LocalEfficiency, 100, "%.1f"),
			optional(p.MarginalEfficiency, 100, "%.1f"),
		)
	}

	summary, err := metrics.Summarize(s, threshold)
	if err != nil {
		return errors.Wrapf(err, "series %s width %d", s.Simulation, s.Width)
	}

	tw.printf("\nBest observed speedup: S=%.3f with %d threads.\n",
		summary.Best.Speedup, summary.Best.Threads())

	if len(summary.Degradations) == 0 {
		tw.printf("No strong local efficiency drop (<%.0f%%) on the available points.\n", 100*threshold)
		return nil
	}

	tw.printf("Diminishing returns (local efficiency < %.0f%%):\n", 100*threshold)
	for _, p := range summary.Degradations {
		tw.printf("- Step to %d threads: %.1f%% local efficiency.\n", p.Threads(), 100*(*p.LocalEfficiency))
	}
	return nil
}

func optional(v *float64, scale float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, scale*(*v))
}

// textWriter keeps the first write error so the report body stays free of
// error checks.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}
