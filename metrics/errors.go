package metrics

import "fmt"

// MetricError reports a derived metric that is mathematically undefined for
// a series, for example a zero thread delta between two points.
type MetricError struct {
	// Metric names the quantity being computed.
	Metric string

	// Label identifies the offending point.
	Label string

	// Reason explains why the metric is undefined.
	Reason string
}

func (e *MetricError) Error() string {
	return fmt.Sprintf("%s: %s undefined: %s", e.Label, e.Metric, e.Reason)
}
