package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/simsweep/analysis"
	"github.com/sarchlab/simsweep/config"
	"github.com/sarchlab/simsweep/report"
)

// session is one analysis run of a subcommand.
type session struct {
	cfg    *config.Config
	mode   analysis.Mode
	label  string
	prefix string
	stdout io.Writer
	stderr io.Writer

	result  *analysis.Result
	written []string
}

func newSession(cmd *cobra.Command, cfg *config.Config, mode analysis.Mode) *session {
	label := cfg.MatrixLabel
	if len(cfg.Inputs) == 1 {
		label = report.InferMatrixLabel(cfg.Inputs[0].Root, cfg.MatrixLabel)
	}

	prefix := cfg.Output.Prefix
	if prefix == "" {
		prefix = report.FilePrefix(label)
	}
	if prefix == "" {
		names := make([]string, len(cfg.Inputs))
		for i, in := range cfg.Inputs {
			names[i] = report.FilePrefix(in.Name)
		}
		prefix = strings.Join(names, "_")
	}

	return &session{
		cfg:    cfg,
		mode:   mode,
		label:  label,
		prefix: prefix,
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}
}

// run collects the sweep, lets produce write the reports and prints the
// warnings. Warnings go to stderr when the run fails.
func (s *session) run(produce func(s *session) error) error {
	if err := s.cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	sources := make([]analysis.Source, len(s.cfg.Inputs))
	for i, in := range s.cfg.Inputs {
		sources[i] = analysis.Source{Name: in.Name, Root: in.Root}
	}

	collector := analysis.NewCollector(analysis.OptionsFromConfig(s.cfg, s.mode))
	result, err := collector.Collect(sources...)
	if err != nil {
		if result != nil {
			printWarnings(s.stderr, result.Warnings.All())
		}
		return err
	}
	s.result = result

	if err := os.MkdirAll(s.cfg.Output.Dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	if err := produce(s); err != nil {
		printWarnings(s.stderr, result.Warnings.All())
		return err
	}

	printWarnings(s.stdout, result.Warnings.All())
	for _, path := range s.written {
		_, _ = fmt.Fprintf(s.stdout, "Wrote %s\n", path)
	}

	if len(result.Failures) > 0 {
		for _, f := range result.Failures {
			_, _ = fmt.Fprintf(s.stderr, "Series %s width=%d dropped: %v\n", f.Simulation, f.Width, f.Err)
		}
		return errors.Errorf("%d series could not be computed", len(result.Failures))
	}
	return nil
}

func (s *session) path(suffix string) string {
	return filepath.Join(s.cfg.Output.Dir, s.prefix+"_"+suffix)
}

// writeFile creates a report file and hands it to write.
func (s *session) writeFile(suffix string, write func(w io.Writer) error) error {
	path := s.path(suffix)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create report")
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", path)
	}
	s.written = append(s.written, path)
	return nil
}

func (s *session) writeXLSX(suffix string, cols report.Columns) error {
	path := s.path(suffix)
	if err := report.WriteXLSX(path, s.result.Series, cols); err != nil {
		return err
	}
	s.written = append(s.written, path)
	return nil
}

// renderer is a chart that renders itself to a PNG file.
type renderer interface {
	Save(path string) error
}

// writeChart renders a chart. A chart without data is skipped with a log
// entry rather than failing the run.
func (s *session) writeChart(suffix string, chart renderer) error {
	if len(s.result.Series) == 0 {
		log.WithField("chart", suffix).Warn("no series to plot")
		return nil
	}
	path := s.path(suffix)
	if err := chart.Save(path); err != nil {
		return err
	}
	s.written = append(s.written, path)
	return nil
}

func (s *session) title(what string) string {
	return report.ChartTitle(s.cfg.Architecture, s.label, what)
}

func (s *session) writeJSON(suffix string) error {
	sources := make([]string, len(s.cfg.Inputs))
	for i, in := range s.cfg.Inputs {
		sources[i] = in.Root
	}

	r, err := report.NewReport(report.Metadata{
		Architecture: s.cfg.Architecture,
		MatrixLabel:  s.label,
		Mode:         string(s.mode),
		Sources:      sources,
		Version:      version,
	}, s.result.Series, s.cfg.DegradationThreshold, s.result.Warnings.All())
	if err != nil {
		return err
	}

	return s.writeFile(suffix, func(w io.Writer) error {
		return report.WriteJSON(w, r)
	})
}

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", msg)
	}
}

func sourceName(root string) string {
	return filepath.Base(filepath.Clean(root))
}
