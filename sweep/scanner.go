package sweep

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarchlab/simsweep/diag"
)

// DefaultStatusFile is the name of the per-run status marker.
const DefaultStatusFile = "STATUS.txt"

// ErrDirectoryNotFound is returned when the sweep root does not exist.
var ErrDirectoryNotFound = errors.New("directory not found")

// Entry is one accepted configuration directory.
type Entry struct {
	// Name is the directory base name.
	Name string

	// Path is the full path of the directory.
	Path string

	// Key holds the configuration coordinates parsed from Name.
	Key Key
}

// Options configures a Scanner.
type Options struct {
	// MaxThreads excludes configurations with more threads. Zero disables
	// the bound.
	MaxThreads int

	// StatusFile is the marker file checked inside each directory. An empty
	// name disables the check.
	StatusFile string

	// Grammars are the naming conventions tried in order. Nil means
	// DefaultGrammars.
	Grammars Grammars
}

// DefaultOptions returns scanner options with the status check enabled and
// no thread bound.
func DefaultOptions() Options {
	return Options{
		StatusFile: DefaultStatusFile,
		Grammars:   DefaultGrammars(),
	}
}

// Scanner lists configuration directories under a sweep root.
type Scanner struct {
	root string
	opts Options
}

// NewScanner creates a scanner for the given root.
func NewScanner(root string, opts Options) *Scanner {
	if opts.Grammars == nil {
		opts.Grammars = DefaultGrammars()
	}
	return &Scanner{
		root: root,
		opts: opts,
	}
}

// Scan lists the root and returns the accepted entries in lexicographic
// order of directory name. Status markers are read while the sequence is
// consumed; rejected runs are reported to w.
func (s *Scanner) Scan(w *diag.Warnings) (iter.Seq[Entry], error) {
	info, err := os.Stat(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(ErrDirectoryNotFound, s.root)
		}
		return nil, errors.Wrapf(err, "failed to stat sweep root %s", s.root)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(ErrDirectoryNotFound, "%s is not a directory", s.root)
	}

	// os.ReadDir sorts by file name.
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list sweep root %s", s.root)
	}

	return func(yield func(Entry) bool) {
		for _, de := range dirEntries {
			entry, ok := s.accept(de, w)
			if !ok {
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}, nil
}

// Collect is a convenience wrapper returning all accepted entries.
func (s *Scanner) Collect(w *diag.Warnings) ([]Entry, error) {
	seq, err := s.Scan(w)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for e := range seq {
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Scanner) accept(de fs.DirEntry, w *diag.Warnings) (Entry, bool) {
	path := filepath.Join(s.root, de.Name())
	if !isDir(de, path) {
		return Entry{}, false
	}

	key, _, ok := s.opts.Grammars.Match(de.Name())
	if !ok {
		return Entry{}, false
	}

	if s.opts.MaxThreads > 0 && key.Threads > s.opts.MaxThreads {
		return Entry{}, false
	}

	if s.opts.StatusFile != "" {
		status, present, err := readStatus(filepath.Join(path, s.opts.StatusFile))
		if err != nil {
			w.Addf("%s: cannot read %s (%v)", de.Name(), s.opts.StatusFile, err)
			return Entry{}, false
		}
		if present && !strings.HasPrefix(status, "OK") {
			w.Addf("%s: ignored (%s)", de.Name(), status)
			return Entry{}, false
		}
	}

	return Entry{Name: de.Name(), Path: path, Key: key}, true
}

func isDir(de fs.DirEntry, path string) bool {
	if de.IsDir() {
		return true
	}
	if de.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// readStatus returns the trimmed marker content and whether the marker
// exists.
func readStatus(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(string(data)), true, nil
}
