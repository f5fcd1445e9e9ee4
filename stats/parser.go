package stats

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// Requirements lists the quantities a downstream metric needs beyond the
// cycle count, which is always required.
type Requirements struct {
	// Instructions requires a positive sim_insts value.
	Instructions bool

	// IPCSamples requires at least one per-core ipc reading.
	IPCSamples bool
}

// Parser extracts Records from statistics files.
type Parser struct {
	rules Rules
	req   Requirements
}

// NewParser creates a parser with the default recognition rules.
func NewParser(req Requirements) *Parser {
	return &Parser{
		rules: DefaultRules(),
		req:   req,
	}
}

// Requirements returns the requirements the parser enforces.
func (p *Parser) Requirements() Requirements {
	return p.req
}

// ParseFile reads one statistics file. A zero-byte file fails without being
// scanned; the returned error then wraps ErrEmptyFile.
func (p *Parser) ParseFile(path string) (*Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	if info.Size() == 0 {
		return nil, &ExtractionError{Path: path, Reason: "empty file", Err: ErrEmptyFile}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	return p.Parse(f, path)
}

// Parse reads statistics from r. name is used in error messages. Lines have
// no length limit.
func (p *Parser) Parse(r io.Reader, name string) (*Record, error) {
	state := &scanState{fired: make(map[string]bool)}

	reader := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, &ExtractionError{Path: name, Reason: "read failed", Err: readErr}
		}
		if raw == "" && readErr == io.EOF {
			break
		}

		lineNo++
		line := strings.TrimSpace(raw)
		if line != "" {
			if _, err := p.rules.match(state, line); err != nil {
				return nil, &ExtractionError{
					Path:   name,
					Reason: fmt.Sprintf("line %d", lineNo),
					Err:    err,
				}
			}
		}
		if readErr == io.EOF {
			break
		}
	}

	rec := state.record
	if len(rec.CycleCounts) > 0 {
		rec.CycleSource = SourceNumCycles
	} else if cycles, period, ok := state.fallbackCycles(); ok {
		rec.CycleCounts = []uint64{cycles}
		rec.ClockPeriod = period
		rec.CycleSource = SourceSimTicks
	} else {
		return nil, &ExtractionError{Path: name, Reason: "cannot extract cycle count"}
	}

	if rec.Cycles() == 0 {
		return nil, &ExtractionError{Path: name, Reason: "no positive cycle count"}
	}
	if p.req.Instructions && !rec.HasInstructions() {
		return nil, &ExtractionError{Path: name, Reason: "no valid sim_insts value"}
	}
	if p.req.IPCSamples && !rec.HasIPCSamples() {
		return nil, &ExtractionError{Path: name, Reason: "no ipc lines"}
	}

	return &rec, nil
}

// fallbackCycles derives a cycle count from sim_ticks and the clock period.
// The core clock domain takes precedence over the system clock domain when
// present.
func (s *scanState) fallbackCycles() (uint64, uint64, bool) {
	if !s.fired[RuleSimTicks] {
		return 0, 0, false
	}

	var period uint64
	switch {
	case s.fired[RuleCPUClock]:
		period = s.cpuClock
	case s.fired[RuleSysClock]:
		period = s.sysClock
	}
	if period == 0 {
		return 0, 0, false
	}

	cycles := math.RoundToEven(float64(s.record.Ticks) / float64(period))
	return uint64(cycles), period, true
}
