package report

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"

	"github.com/sarchlab/simsweep/metrics"
)

// WriteCSV writes a header and one row per point, series in the given
// order.
func WriteCSV(w io.Writer, series []metrics.Series, cols Columns) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols.Headers()); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}

	for _, s := range series {
		for _, p := range s.Points {
			if err := cw.Write(cols.Format(s, p)); err != nil {
				return errors.Wrapf(err, "failed to write csv row %s", p.Label)
			}
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush csv")
}
