package metrics

import (
	mstats "github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// DefaultDegradationThreshold is the local efficiency below which a thread
// step is reported as diminishing returns.
const DefaultDegradationThreshold = 0.8

// Summary condenses a series for reports.
type Summary struct {
	// Best is the point with the highest speedup. Ties keep the point with
	// fewer threads.
	Best Point `json:"best"`

	// MeanEfficiency is the arithmetic mean of the efficiencies.
	MeanEfficiency float64 `json:"mean_efficiency"`

	// GeoMeanSpeedup is the geometric mean of the speedups.
	GeoMeanSpeedup float64 `json:"geomean_speedup"`

	// Degradations are the points whose local efficiency is below the
	// threshold, in thread order.
	Degradations []Point `json:"degradations,omitempty"`
}

// Summarize computes the summary of a series.
func Summarize(s Series, threshold float64) (Summary, error) {
	if len(s.Points) == 0 {
		return Summary{}, errors.New("cannot summarize an empty series")
	}

	speedups := make([]float64, len(s.Points))
	efficiencies := make([]float64, len(s.Points))
	best := 0
	var degradations []Point

	for i, p := range s.Points {
		speedups[i] = p.Speedup
		efficiencies[i] = p.Efficiency
		if p.Speedup > s.Points[best].Speedup {
			best = i
		}
		if p.LocalEfficiency != nil && *p.LocalEfficiency < threshold {
			degradations = append(degradations, p)
		}
	}

	meanEff, err := mstats.Mean(efficiencies)
	if err != nil {
		return Summary{}, errors.Wrap(err, "mean efficiency")
	}
	geoSpeedup, err := mstats.GeometricMean(speedups)
	if err != nil {
		return Summary{}, errors.Wrap(err, "geometric mean speedup")
	}

	return Summary{
		Best:           s.Points[best],
		MeanEfficiency: meanEff,
		GeoMeanSpeedup: geoSpeedup,
		Degradations:   degradations,
	}, nil
}
