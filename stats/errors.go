package stats

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyFile is wrapped by the ExtractionError returned for zero-byte
// statistics files.
var ErrEmptyFile = errors.New("empty statistics file")

// ExtractionError reports that a statistics file cannot yield a usable
// record. Sweeps routinely contain incomplete runs, so callers usually
// turn it into a warning.
type ExtractionError struct {
	// Path is the statistics file.
	Path string

	// Reason is a human-readable cause.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Cause())
}

// Cause returns the error message without the file path.
func (e *ExtractionError) Cause() string {
	switch {
	case e.Err != nil && e.Reason == "":
		return e.Err.Error()
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	default:
		return e.Reason
	}
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsEmptyFile reports whether err was caused by a zero-byte file.
func IsEmptyFile(err error) bool {
	return errors.Is(err, ErrEmptyFile)
}
