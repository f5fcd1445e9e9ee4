package report

import (
	"path/filepath"
	"regexp"
)

var matrixDirRe = regexp.MustCompile(`(?i)^m(\d+)$`)

// InferMatrixLabel returns the workload label of a sweep root. An explicit
// label wins; a root named like "m16" becomes "m=16"; any other root keeps
// its base name.
func InferMatrixLabel(root, explicit string) string {
	if explicit != "" {
		return explicit
	}

	name := filepath.Base(filepath.Clean(root))
	if m := matrixDirRe.FindStringSubmatch(name); m != nil {
		return "m=" + m[1]
	}
	return name
}

// FilePrefix turns a label into a file name prefix, "m=16" becoming "m16".
func FilePrefix(label string) string {
	out := make([]rune, 0, len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r == ' ' || r == '/':
			out = append(out, '_')
		}
	}
	return string(out)
}
