package report

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/sarchlab/simsweep/metrics"
)

// Report is the machine-readable output of an analysis run.
type Report struct {
	// Metadata describes the run.
	Metadata Metadata `json:"metadata"`

	// Series are the computed series.
	Series []metrics.Series `json:"series"`

	// Summaries hold one entry per series, in the same order.
	Summaries []metrics.Summary `json:"summaries"`

	// Warnings are the non-fatal problems met while collecting.
	Warnings []string `json:"warnings,omitempty"`
}

// Metadata describes an analysis run.
type Metadata struct {
	// Architecture is the simulated core.
	Architecture string `json:"architecture"`

	// MatrixLabel is the workload label, for example "m=16".
	MatrixLabel string `json:"matrix_label,omitempty"`

	// Mode is the analysis performed.
	Mode string `json:"mode"`

	// Sources are the sweep roots, in processing order.
	Sources []string `json:"sources"`

	// Version is the tool version.
	Version string `json:"version"`
}

// NewReport builds a report and summarizes every series.
func NewReport(meta Metadata, series []metrics.Series, threshold float64, warnings []string) (Report, error) {
	r := Report{
		Metadata:  meta,
		Series:    series,
		Summaries: make([]metrics.Summary, 0, len(series)),
		Warnings:  warnings,
	}

	for _, s := range series {
		summary, err := metrics.Summarize(s, threshold)
		if err != nil {
			return Report{}, errors.Wrapf(err, "series %s width %d", s.Simulation, s.Width)
		}
		r.Summaries = append(r.Summaries, summary)
	}

	return r, nil
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(r), "failed to encode report")
}
