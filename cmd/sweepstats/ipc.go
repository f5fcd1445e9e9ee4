package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/simsweep/analysis"
	"github.com/sarchlab/simsweep/report"
)

type ipcFlags struct {
	inputs     []string
	maxIPC     bool
	maxThreads int
	xlsx       bool
	charts     bool
}

func newIPCCmd(g *globalFlags) *cobra.Command {
	f := &ipcFlags{}

	cmd := &cobra.Command{
		Use:   "ipc",
		Short: "Compares global and maximum IPC across simulations",
		Long: `Computes ipc_global = sim_insts / max(numCycles) for every configuration of
every input. With --max, the highest per-core system.cpu*.ipc reading is
reported too and configurations without ipc lines are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if len(f.inputs) > 0 {
				inputs, err := parseInputs(f.inputs)
				if err != nil {
					return err
				}
				cfg.Inputs = inputs
			}
			if flags.Changed("max-threads") {
				cfg.MaxThreads = f.maxThreads
			}
			if flags.Changed("xlsx") {
				cfg.Output.XLSX = f.xlsx
			}
			if flags.Changed("charts") {
				cfg.Output.Charts = f.charts
			}

			mode := analysis.ModeIPC
			if f.maxIPC {
				mode = analysis.ModeIPCMax
			}
			return newSession(cmd, cfg, mode).run(writeIPCReports)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&f.inputs, "input", nil, "sweep to compare, as NAME=DIR (repeatable)")
	flags.BoolVar(&f.maxIPC, "max", false, "also report the maximum per-core IPC")
	flags.IntVar(&f.maxThreads, "max-threads", 0, "ignore configurations with more threads (0: no bound)")
	flags.BoolVar(&f.xlsx, "xlsx", false, "also write an Excel workbook")
	flags.BoolVar(&f.charts, "charts", false, "also render PNG charts")
	return cmd
}

func writeIPCReports(s *session) error {
	out := s.cfg.Output
	series := s.result.Series

	if out.CSV {
		if err := s.writeFile("ipc_summary.csv", func(w io.Writer) error {
			return report.WriteCSV(w, series, report.IPCColumns())
		}); err != nil {
			return err
		}
	}
	if out.JSON {
		if err := s.writeJSON("ipc.json"); err != nil {
			return err
		}
	}
	if out.XLSX {
		if err := s.writeXLSX("ipc.xlsx", report.IPCColumns()); err != nil {
			return err
		}
	}
	if !out.Charts {
		return nil
	}

	if err := s.writeChart("ipc_global.png", report.IPCGlobalChart(s.title("global IPC by configuration"), series)); err != nil {
		return err
	}
	if s.mode == analysis.ModeIPCMax {
		return s.writeChart("ipc_max.png", report.IPCMaxChart(s.title("maximum IPC by configuration"), series))
	}
	return nil
}
