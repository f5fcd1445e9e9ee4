// Package config holds the run configuration of the sweep analysis tools.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/simsweep/metrics"
	"github.com/sarchlab/simsweep/sweep"
)

// Input is one sweep root to analyze.
type Input struct {
	// Name labels the sweep in reports (for example "m16").
	Name string `json:"name" yaml:"name"`

	// Root is the directory holding the configuration directories.
	Root string `json:"root" yaml:"root"`
}

// OutputConfig selects the report files to produce.
type OutputConfig struct {
	// Dir is the directory the reports are written to.
	Dir string `json:"dir" yaml:"dir"`

	// Prefix is prepended to every report file name. Empty means a prefix
	// derived from the matrix label.
	Prefix string `json:"prefix" yaml:"prefix"`

	// CSV, Text and JSON toggle the tabular, human-readable and
	// machine-readable summaries.
	CSV  bool `json:"csv" yaml:"csv"`
	Text bool `json:"text" yaml:"text"`
	JSON bool `json:"json" yaml:"json"`

	// XLSX writes an Excel workbook with one sheet per series.
	XLSX bool `json:"xlsx" yaml:"xlsx"`

	// Charts renders PNG line charts.
	Charts bool `json:"charts" yaml:"charts"`
}

// Config holds the settings of an analysis run.
type Config struct {
	// Architecture is shown in report and chart titles. Default: "Cortex-A15".
	Architecture string `json:"architecture" yaml:"architecture"`

	// MatrixLabel overrides the label inferred from the input root.
	MatrixLabel string `json:"matrix_label" yaml:"matrix_label"`

	// Inputs are the sweep roots to analyze.
	Inputs []Input `json:"inputs" yaml:"inputs"`

	// MaxThreads drops configurations with more threads. Default: 0 (no
	// bound).
	MaxThreads int `json:"max_threads" yaml:"max_threads"`

	// StatsFile is the statistics file inside each configuration
	// directory. Default: "stats.txt".
	StatsFile string `json:"stats_file" yaml:"stats_file"`

	// StatusFile is the optional status marker inside each configuration
	// directory. Default: "STATUS.txt". Empty disables the check.
	StatusFile string `json:"status_file" yaml:"status_file"`

	// RequireWidth restricts directory names to the width-carrying
	// conventions. Default: false.
	RequireWidth bool `json:"require_width" yaml:"require_width"`

	// DegradationThreshold is the local efficiency below which a thread
	// step is flagged in the text report. Default: 0.8.
	DegradationThreshold float64 `json:"degradation_threshold" yaml:"degradation_threshold"`

	// Output selects the reports.
	Output OutputConfig `json:"output" yaml:"output"`
}

// DefaultStatsFile is the statistics file name written by the simulator.
const DefaultStatsFile = "stats.txt"

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Architecture:         "Cortex-A15",
		StatsFile:            DefaultStatsFile,
		StatusFile:           sweep.DefaultStatusFile,
		DegradationThreshold: metrics.DefaultDegradationThreshold,
		Output: OutputConfig{
			Dir:  ".",
			CSV:  true,
			Text: true,
			JSON: true,
		},
	}
}

// LoadConfig loads a Config from a YAML (.yaml, .yml) or JSON file. Values
// missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}

	return config, nil
}

// SaveConfig writes the Config to a file, as YAML or JSON depending on the
// extension.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "failed to serialize config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.New("at least one input root is required")
	}
	names := make(map[string]bool, len(c.Inputs))
	for i, in := range c.Inputs {
		if in.Root == "" {
			return errors.Errorf("inputs[%d]: root must not be empty", i)
		}
		if names[in.Name] {
			return errors.Errorf("inputs[%d]: duplicate name %q", i, in.Name)
		}
		names[in.Name] = true
	}
	if c.MaxThreads < 0 {
		return errors.New("max_threads must be >= 0")
	}
	if c.StatsFile == "" {
		return errors.New("stats_file must not be empty")
	}
	if c.DegradationThreshold < 0 || c.DegradationThreshold > 1 {
		return errors.New("degradation_threshold must be within [0, 1]")
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Inputs = append([]Input(nil), c.Inputs...)
	return &clone
}

// ScanOptions returns the directory scanner options.
func (c *Config) ScanOptions() sweep.Options {
	opts := sweep.Options{
		MaxThreads: c.MaxThreads,
		StatusFile: c.StatusFile,
		Grammars:   sweep.DefaultGrammars(),
	}
	if c.RequireWidth {
		opts.Grammars = sweep.WidthGrammars()
	}
	return opts
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
