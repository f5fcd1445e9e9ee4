// Package analysis drives a sweep analysis: it scans configuration
// directories, extracts their statistics and computes one metric series per
// simulation and width.
package analysis

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/simsweep/aggregate"
	"github.com/sarchlab/simsweep/config"
	"github.com/sarchlab/simsweep/diag"
	"github.com/sarchlab/simsweep/metrics"
	"github.com/sarchlab/simsweep/stats"
	"github.com/sarchlab/simsweep/sweep"
)

// ErrNoUsableConfigurations is returned when no configuration of any source
// yields a record.
var ErrNoUsableConfigurations = errors.New("no usable configuration found")

// Mode selects which quantities the metrics need.
type Mode string

// Analysis modes.
const (
	// ModeCycles needs cycle counts only (cycles, speedup, efficiency).
	ModeCycles Mode = "cycles"

	// ModeIPC additionally needs the instruction count.
	ModeIPC Mode = "ipc"

	// ModeIPCMax additionally needs per-core IPC readings.
	ModeIPCMax Mode = "ipc-max"
)

// Requirements returns the parser requirements of the mode.
func (m Mode) Requirements() stats.Requirements {
	switch m {
	case ModeIPC:
		return stats.Requirements{Instructions: true}
	case ModeIPCMax:
		return stats.Requirements{Instructions: true, IPCSamples: true}
	default:
		return stats.Requirements{}
	}
}

// Source is one sweep root.
type Source struct {
	// Name labels the sweep. It prefixes warnings when several sources are
	// collected together.
	Name string

	// Root is the sweep directory.
	Root string
}

// Options configures a Collector.
type Options struct {
	// Mode selects the required quantities.
	Mode Mode

	// Scan configures directory discovery.
	Scan sweep.Options

	// StatsFile is the statistics file name inside each configuration
	// directory.
	StatsFile string
}

// OptionsFromConfig builds collector options from a run configuration.
func OptionsFromConfig(c *config.Config, mode Mode) Options {
	return Options{
		Mode:      mode,
		Scan:      c.ScanOptions(),
		StatsFile: c.StatsFile,
	}
}

// Failure records a series whose metrics are undefined.
type Failure struct {
	Simulation string
	Width      int
	Err        error
}

// Result is the outcome of a collection.
type Result struct {
	// Series are ordered by source, then by ascending width.
	Series []metrics.Series

	// Samples are the parsed configurations of every source, in scan
	// order.
	Samples []Sample

	// Failures lists series dropped because of a *metrics.MetricError.
	Failures []Failure

	// Warnings are the non-fatal problems, in first-seen order.
	Warnings *diag.Warnings
}

// Sample is one parsed configuration directory.
type Sample struct {
	Source string
	metrics.Sample
}

// Collector runs the analysis pipeline.
type Collector struct {
	opts   Options
	parser *stats.Parser
}

// NewCollector creates a collector.
func NewCollector(opts Options) *Collector {
	if opts.StatsFile == "" {
		opts.StatsFile = config.DefaultStatsFile
	}
	if opts.Mode == "" {
		opts.Mode = ModeCycles
	}
	return &Collector{
		opts:   opts,
		parser: stats.NewParser(opts.Mode.Requirements()),
	}
}

// Collect processes the sources in order. A missing root aborts the run
// with sweep.ErrDirectoryNotFound. When no configuration is usable the
// returned Result still carries the warnings, together with
// ErrNoUsableConfigurations.
func (c *Collector) Collect(sources ...Source) (*Result, error) {
	result := &Result{Warnings: &diag.Warnings{}}
	prefix := len(sources) > 1

	for _, src := range sources {
		warnings := &diag.Warnings{}
		samples, err := c.collectSource(src, warnings)
		result.Warnings.Merge(prefixed(warnings, src.Name, prefix))
		if err != nil {
			return result, err
		}

		result.Samples = append(result.Samples, samples...)
		c.computeSeries(src, samples, result)
	}

	if len(result.Samples) == 0 {
		return result, ErrNoUsableConfigurations
	}

	return result, nil
}

func (c *Collector) collectSource(src Source, warnings *diag.Warnings) ([]Sample, error) {
	scanner := sweep.NewScanner(src.Root, c.opts.Scan)
	entries, err := scanner.Scan(warnings)
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for entry := range entries {
		rec, ok := c.parseEntry(entry, warnings)
		if !ok {
			continue
		}

		log.WithField("source", src.Name).
			Debugf("%s: %d cycles (%s)", entry.Name, rec.Cycles(), rec.CycleSource)

		samples = append(samples, Sample{
			Source: src.Name,
			Sample: metrics.Sample{
				Label:  entry.Name,
				Key:    entry.Key,
				Record: rec,
			},
		})
	}

	return samples, nil
}

func (c *Collector) parseEntry(entry sweep.Entry, warnings *diag.Warnings) (*stats.Record, bool) {
	path := filepath.Join(entry.Path, c.opts.StatsFile)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			warnings.Addf("%s: %s missing", entry.Name, c.opts.StatsFile)
		} else {
			warnings.Addf("%s: %v", entry.Name, err)
		}
		return nil, false
	}

	rec, err := c.parser.ParseFile(path)
	if err != nil {
		var extErr *stats.ExtractionError
		switch {
		case stats.IsEmptyFile(err):
			warnings.Addf("%s: %s empty", entry.Name, c.opts.StatsFile)
		case errors.As(err, &extErr):
			warnings.Addf("%s: %s", entry.Name, extErr.Cause())
		default:
			warnings.Addf("%s: %v", entry.Name, err)
		}
		return nil, false
	}

	return rec, true
}

func (c *Collector) computeSeries(src Source, samples []Sample, result *Result) {
	groups := aggregate.By(samples,
		func(s Sample) int { return s.Key.Width },
		func(s Sample) int { return s.Key.Threads },
	)
	log.WithField("source", src.Name).Debugf("widths %v", aggregate.Keys(groups))

	for _, g := range groups {
		inputs := make([]metrics.Sample, len(g.Items))
		for i, s := range g.Items {
			inputs[i] = s.Sample
		}

		series, err := metrics.Compute(src.Name, g.Key, inputs)
		if err != nil {
			log.WithError(err).WithField("width", g.Key).Errorf("%s: series dropped", src.Name)
			result.Failures = append(result.Failures, Failure{
				Simulation: src.Name,
				Width:      g.Key,
				Err:        err,
			})
			continue
		}
		result.Series = append(result.Series, series)
	}
}

func prefixed(w *diag.Warnings, name string, enabled bool) *diag.Warnings {
	if !enabled || name == "" {
		return w
	}
	out := &diag.Warnings{}
	for _, msg := range w.All() {
		out.Addf("%s/%s", name, msg)
	}
	return out
}
