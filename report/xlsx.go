package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/sarchlab/simsweep/metrics"
)

// SummarySheet is the name of the overview sheet of a workbook.
const SummarySheet = "summary"

const maxSheetName = 31

var summaryHeaders = []any{
	"simulation", "width", "points", "baseline_threads",
	"best_threads", "best_speedup", "mean_efficiency", "geomean_speedup",
}

// WriteXLSX writes a workbook with a summary sheet and one sheet per
// series.
func WriteXLSX(path string, series []metrics.Series, cols Columns) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return errors.Wrap(err, "failed to create summary sheet")
	}
	if err := setRow(f, SummarySheet, 1, summaryHeaders); err != nil {
		return err
	}

	headers := make([]any, len(cols))
	for i, h := range cols.Headers() {
		headers[i] = h
	}

	used := map[string]bool{SummarySheet: true}
	for i, s := range series {
		summary, err := metrics.Summarize(s, metrics.DefaultDegradationThreshold)
		if err != nil {
			return errors.Wrapf(err, "series %s width %d", s.Simulation, s.Width)
		}
		if err := setRow(f, SummarySheet, i+2, []any{
			s.Simulation, s.Width, len(s.Points), s.BaselinePoint().Threads(),
			summary.Best.Threads(), summary.Best.Speedup,
			summary.MeanEfficiency, summary.GeoMeanSpeedup,
		}); err != nil {
			return err
		}

		name := sheetName(s, used)
		if _, err := f.NewSheet(name); err != nil {
			return errors.Wrapf(err, "failed to create sheet %s", name)
		}
		if err := setRow(f, name, 1, headers); err != nil {
			return err
		}
		for j, p := range s.Points {
			if err := setRow(f, name, j+2, cols.Row(s, p)); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save workbook %s", path)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "invalid cell")
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "failed to write %s!%s", sheet, cell)
	}
	return nil
}

// sheetName derives a unique, valid sheet name such as "m16_w2".
func sheetName(s metrics.Series, used map[string]bool) string {
	base := s.Simulation
	if base == "" {
		base = "series"
	}
	if s.Width > 0 {
		base = fmt.Sprintf("%s_w%d", base, s.Width)
	}
	base = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, base)
	base = truncateRunes(base, maxSheetName)

	name := base
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	used[name] = true
	return name
}

// truncateRunes keeps at most n characters of s. Sheet name limits count
// characters, not bytes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
