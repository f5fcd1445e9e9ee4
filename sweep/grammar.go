// Package sweep discovers configuration directories produced by a
// width × thread-count simulation sweep.
package sweep

import (
	"fmt"
	"regexp"
	"strconv"
)

// Key identifies one simulated run within a sweep.
type Key struct {
	// Width is the pipeline width. Zero when the directory naming grammar
	// does not carry a width.
	Width int `json:"width,omitempty"`

	// Threads is the number of threads (or simulated CPUs) of the run.
	Threads int `json:"threads"`
}

// HasWidth reports whether the key carries a pipeline width.
func (k Key) HasWidth() bool {
	return k.Width > 0
}

// String returns a compact representation such as "w4_t8" or "t8".
func (k Key) String() string {
	if k.HasWidth() {
		return fmt.Sprintf("w%d_t%d", k.Width, k.Threads)
	}
	return fmt.Sprintf("t%d", k.Threads)
}

// Grammar is one directory naming convention. Extract is called with the
// submatches of Pattern and returns false when the name must be rejected.
type Grammar struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(match []string, pattern *regexp.Regexp) (Key, bool)
}

// Match applies the grammar to a directory name.
func (g Grammar) Match(name string) (Key, bool) {
	key, _, ok := g.apply(name)
	return key, ok
}

// apply reports whether Pattern matched separately from whether the
// extracted key is valid.
func (g Grammar) apply(name string) (key Key, matched, ok bool) {
	m := g.Pattern.FindStringSubmatch(name)
	if m == nil {
		return Key{}, false, false
	}
	key, ok = g.Extract(m, g.Pattern)
	if !ok || key.Threads <= 0 {
		return Key{}, true, false
	}
	return key, true, true
}

// Grammars is an ordered list of naming conventions. The first grammar whose
// pattern matches a name decides: when its values are invalid (zero width,
// zero threads) the name is rejected, not handed to later grammars.
type Grammars []Grammar

// Match returns the key extracted by the first matching grammar together
// with that grammar's name.
func (gs Grammars) Match(name string) (Key, string, bool) {
	for _, g := range gs {
		key, matched, ok := g.apply(name)
		if !matched {
			continue
		}
		if !ok {
			return Key{}, "", false
		}
		return key, g.Name, true
	}
	return Key{}, "", false
}

var (
	widthThreadsRe = regexp.MustCompile(`^w(?P<width>\d+)_t(?P<threads>\d+)$`)
	threadsWidthRe = regexp.MustCompile(`^t(?P<threads>\d+)_w(?P<width>\d+)(?:_|$)`)
	threadsCPUsRe  = regexp.MustCompile(`^t(?P<threads>\d+)_cpus(?P<cpus>\d+)(?:_|$)`)
	threadsOnlyRe  = regexp.MustCompile(`^t(?P<threads>\d+)(?:_|$)`)
)

// DefaultGrammars returns the recognized naming conventions in priority
// order:
//
//	w<width>_t<threads>
//	t<threads>_w<width>[_...]
//	t<threads>_cpus<n>[_...]   (thread count is n)
//	t<threads>[_...]
func DefaultGrammars() Grammars {
	return Grammars{
		WidthThreadsGrammar(),
		ThreadsWidthGrammar(),
		ThreadsCPUsGrammar(),
		ThreadsOnlyGrammar(),
	}
}

// WidthGrammars returns only the conventions that carry a pipeline width.
func WidthGrammars() Grammars {
	return Grammars{
		WidthThreadsGrammar(),
		ThreadsWidthGrammar(),
	}
}

// WidthThreadsGrammar matches names like "w4_t8".
func WidthThreadsGrammar() Grammar {
	return Grammar{
		Name:    "w<width>_t<threads>",
		Pattern: widthThreadsRe,
		Extract: extractWidthThreads,
	}
}

// ThreadsWidthGrammar matches names like "t8_w4" or "t8_w4_m16".
func ThreadsWidthGrammar() Grammar {
	return Grammar{
		Name:    "t<threads>_w<width>",
		Pattern: threadsWidthRe,
		Extract: extractWidthThreads,
	}
}

// ThreadsCPUsGrammar matches historical names like "t4_cpus2_run". The
// number of CPUs is the effective thread count.
func ThreadsCPUsGrammar() Grammar {
	return Grammar{
		Name:    "t<threads>_cpus<n>",
		Pattern: threadsCPUsRe,
		Extract: func(m []string, re *regexp.Regexp) (Key, bool) {
			cpus, ok := group(m, re, "cpus")
			if !ok {
				return Key{}, false
			}
			return Key{Threads: cpus}, true
		},
	}
}

// ThreadsOnlyGrammar matches names like "t4" or "t4_m16".
func ThreadsOnlyGrammar() Grammar {
	return Grammar{
		Name:    "t<threads>",
		Pattern: threadsOnlyRe,
		Extract: func(m []string, re *regexp.Regexp) (Key, bool) {
			threads, ok := group(m, re, "threads")
			if !ok {
				return Key{}, false
			}
			return Key{Threads: threads}, true
		},
	}
}

func extractWidthThreads(m []string, re *regexp.Regexp) (Key, bool) {
	width, ok := group(m, re, "width")
	if !ok || width <= 0 {
		return Key{}, false
	}
	threads, ok := group(m, re, "threads")
	if !ok {
		return Key{}, false
	}
	return Key{Width: width, Threads: threads}, true
}

func group(m []string, re *regexp.Regexp, name string) (int, bool) {
	idx := re.SubexpIndex(name)
	if idx < 0 || idx >= len(m) || m[idx] == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m[idx])
	if err != nil {
		return 0, false
	}
	return v, true
}
