package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/simsweep/analysis"
	"github.com/sarchlab/simsweep/report"
)

func newCyclesCmd(g *globalFlags) *cobra.Command {
	f := &sweepFlags{}

	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "Reports the cycle count of each configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			return newSession(cmd, cfg, analysis.ModeCycles).run(writeCyclesReports)
		},
	}
	f.register(cmd)
	return cmd
}

func writeCyclesReports(s *session) error {
	out := s.cfg.Output
	series := s.result.Series

	if out.CSV {
		if err := s.writeFile("cycles_summary.csv", func(w io.Writer) error {
			return report.WriteCSV(w, series, report.CyclesColumns())
		}); err != nil {
			return err
		}
	}
	if out.JSON {
		if err := s.writeJSON("cycles.json"); err != nil {
			return err
		}
	}
	if out.XLSX {
		if err := s.writeXLSX("cycles.xlsx", report.CyclesColumns()); err != nil {
			return err
		}
	}
	if out.Charts {
		return s.writeChart("cycles.png", report.CyclesChart(s.title("execution cycles by thread count"), series))
	}
	return nil
}
