package stats

import (
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// Rule recognizes one labelled signal. Pattern is matched against the
// trimmed line and must capture the numeric value in its first group.
type Rule struct {
	// Name identifies the rule in diagnostics.
	Name string

	// Pattern matches "label, whitespace, value" at the start of a line.
	Pattern *regexp.Regexp

	// FirstOnly makes the rule ignore repeats once it has fired.
	FirstOnly bool

	apply func(s *scanState, value string) error
}

// Rules is an ordered rule set. The first rule that matches a line consumes
// it.
type Rules []Rule

type scanState struct {
	record   Record
	cpuClock uint64
	sysClock uint64
	fired    map[string]bool
}

// Rule names.
const (
	RuleNumCycles = "numCycles"
	RuleIPC       = "ipc"
	RuleSimInsts  = "sim_insts"
	RuleSimTicks  = "sim_ticks"
	RuleCPUClock  = "cpu_clock"
	RuleSysClock  = "sys_clock"
)

// DefaultRules returns the recognition rules for gem5 statistics dumps in
// precedence order.
func DefaultRules() Rules {
	return Rules{
		{
			Name:    RuleNumCycles,
			Pattern: regexp.MustCompile(`^system\.cpu\d*\.numCycles\s+(\d+)\b`),
			apply: func(s *scanState, v string) error {
				n, err := parseUint(v)
				if err != nil {
					return err
				}
				s.record.CycleCounts = append(s.record.CycleCounts, n)
				return nil
			},
		},
		{
			Name:    RuleIPC,
			Pattern: regexp.MustCompile(`^system\.cpu\d*\.ipc\s+(\d+(?:\.\d+)?)\b`),
			apply: func(s *scanState, v string) error {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return errors.Wrapf(err, "invalid ipc value %q", v)
				}
				s.record.IPCSamples = append(s.record.IPCSamples, f)
				return nil
			},
		},
		{
			Name:    RuleSimInsts,
			Pattern: regexp.MustCompile(`^sim_insts\s+(\d+)\b`),
			apply: func(s *scanState, v string) error {
				n, err := parseUint(v)
				if err != nil {
					return err
				}
				s.record.Instructions = n
				return nil
			},
		},
		{
			Name:      RuleSimTicks,
			Pattern:   regexp.MustCompile(`^sim_ticks\s+(\d+)\b`),
			FirstOnly: true,
			apply: func(s *scanState, v string) error {
				n, err := parseUint(v)
				if err != nil {
					return err
				}
				s.record.Ticks = n
				return nil
			},
		},
		{
			Name:      RuleCPUClock,
			Pattern:   regexp.MustCompile(`^system\.cpu_clk_domain\.clock\s+(\d+)\b`),
			FirstOnly: true,
			apply: func(s *scanState, v string) error {
				n, err := parseUint(v)
				if err != nil {
					return err
				}
				s.cpuClock = n
				return nil
			},
		},
		{
			Name:      RuleSysClock,
			Pattern:   regexp.MustCompile(`^system\.clk_domain\.clock\s+(\d+)\b`),
			FirstOnly: true,
			apply: func(s *scanState, v string) error {
				n, err := parseUint(v)
				if err != nil {
					return err
				}
				s.sysClock = n
				return nil
			},
		},
	}
}

// match applies the first matching rule to line. It reports whether a rule
// consumed the line.
func (rs Rules) match(s *scanState, line string) (bool, error) {
	for _, r := range rs {
		if r.FirstOnly && s.fired[r.Name] {
			continue
		}

		m := r.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		if err := r.apply(s, m[1]); err != nil {
			return true, errors.Wrapf(err, "rule %s", r.Name)
		}
		s.fired[r.Name] = true
		return true, nil
	}
	return false, nil
}

func parseUint(v string) (uint64, error) {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid integer value %q", v)
	}
	return n, nil
}
