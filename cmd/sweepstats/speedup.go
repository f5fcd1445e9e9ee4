package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/simsweep/analysis"
	"github.com/sarchlab/simsweep/config"
	"github.com/sarchlab/simsweep/report"
)

// sweepFlags are the per-sweep options of the speedup and cycles commands.
type sweepFlags struct {
	inputRoot    string
	maxThreads   int
	matrixLabel  string
	requireWidth bool
	xlsx         bool
	charts       bool
}

func (f *sweepFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.inputRoot, "input-root", "", "sweep directory holding the configuration directories")
	flags.IntVar(&f.maxThreads, "max-threads", 0, "ignore configurations with more threads (0: no bound)")
	flags.StringVar(&f.matrixLabel, "matrix-label", "", "label shown in titles (default: inferred from the input root)")
	flags.BoolVar(&f.requireWidth, "require-width", false, "only accept directory names carrying a width")
	flags.BoolVar(&f.xlsx, "xlsx", false, "also write an Excel workbook")
	flags.BoolVar(&f.charts, "charts", false, "also render PNG charts")
}

// apply overrides cfg with the flags set on the command line.
func (f *sweepFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if f.inputRoot != "" {
		cfg.Inputs = []config.Input{{Name: sourceName(f.inputRoot), Root: f.inputRoot}}
	}
	if flags.Changed("max-threads") {
		cfg.MaxThreads = f.maxThreads
	}
	if flags.Changed("matrix-label") {
		cfg.MatrixLabel = f.matrixLabel
	}
	if flags.Changed("require-width") {
		cfg.RequireWidth = f.requireWidth
	}
	if flags.Changed("xlsx") {
		cfg.Output.XLSX = f.xlsx
	}
	if flags.Changed("charts") {
		cfg.Output.Charts = f.charts
	}
}

func newSpeedupCmd(g *globalFlags) *cobra.Command {
	f := &sweepFlags{}

	cmd := &cobra.Command{
		Use:   "speedup",
		Short: "Reports speedup and efficiency per width",
		Long:  `Computes speedup, global efficiency, local gain, local efficiency and marginal efficiency of each width series, relative to the single-thread run.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			return newSession(cmd, cfg, analysis.ModeCycles).run(writeSpeedupReports)
		},
	}
	f.register(cmd)
	return cmd
}

func writeSpeedupReports(s *session) error {
	out := s.cfg.Output
	series := s.result.Series

	if out.CSV {
		if err := s.writeFile("speedup_summary.csv", func(w io.Writer) error {
			return report.WriteCSV(w, series, report.SpeedupColumns())
		}); err != nil {
			return err
		}
	}

	if out.Text {
		roots := make([]string, len(s.cfg.Inputs))
		for i, in := range s.cfg.Inputs {
			roots[i] = in.Root
		}
		if err := s.writeFile("speedup_report.txt", func(w io.Writer) error {
			return report.WriteText(w, report.TextReport{
				Title:     fmt.Sprintf("Speedup and efficiency report (%s)", s.cfg.Architecture),
				Source:    strings.Join(roots, ", "),
				Series:    series,
				Threshold: s.cfg.DegradationThreshold,
			})
		}); err != nil {
			return err
		}
	}

	if out.JSON {
		if err := s.writeJSON("speedup.json"); err != nil {
			return err
		}
	}

	if out.XLSX {
		if err := s.writeXLSX("speedup.xlsx", report.SpeedupColumns()); err != nil {
			return err
		}
	}

	if out.Charts {
		charts := []struct {
			file  string
			chart renderer
		}{
			{"cycles_bars.png", report.CyclesBarChart(s.title("execution results"), series)},
			{"cycles.png", report.CyclesChart(s.title("execution cycles by thread count"), series)},
			{"speedup.png", report.SpeedupChart(s.title("speedup over the baseline"), series)},
			{"efficiency.png", report.EfficiencyChart(s.title("global efficiency"), series)},
		}
		for _, c := range charts {
			if err := s.writeChart(c.file, c.chart); err != nil {
				return err
			}
		}
	}

	return nil
}
