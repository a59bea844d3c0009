package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	DefaultSourcePatterns = []string{"**/*.swift"}
	DefaultTestPatterns   = []string{"**/*Tests/**/*.swift", "**/*Tests.swift"}
	DefaultExcludes       = []string{"**/.build/**", "**/Pods/**", "**/Carthage/**", "**/DerivedData/**"}
)

var (
	ErrNotDirectory   = errors.New("base path is not a directory")
	ErrInvalidPattern = errors.New("invalid path pattern")
)

// Option controls which files below the base directory are indexed.
type Option struct {
	SourcePatterns []string
	TestPatterns   []string
	Excludes       []string
}

// NewOption returns an Option with default values.
func NewOption() Option {
	return Option{
		SourcePatterns: DefaultSourcePatterns,
		TestPatterns:   DefaultTestPatterns,
		Excludes:       DefaultExcludes,
	}
}

func (o Option) Validate() error {
	for _, patterns := range [][]string{o.SourcePatterns, o.TestPatterns, o.Excludes} {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("%w: %s", ErrInvalidPattern, p)
			}
		}
	}
	return nil
}

// FileSystem is the index of the source files an analysis runs on.
// It is built once and read-only afterwards, so it can be shared between sensors.
type FileSystem struct {
	baseDir string
	files   []*InputFile
	byPath  map[string]*InputFile
}

// New walks baseDir and indexes every file matching the source or test patterns
// and none of the excludes. Files matching a test pattern are indexed as Test.
func New(baseDir string, o Option) (*FileSystem, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("get absolute path of %s: %w", baseDir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat base dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	fsys := os.DirFS(abs)
	index := &FileSystem{
		baseDir: abs,
		byPath:  make(map[string]*InputFile),
	}

	add := func(patterns []string, t Type) error {
		for _, pattern := range patterns {
			matches, err := doublestar.Glob(fsys, pattern)
			if err != nil {
				return fmt.Errorf("glob %s: %w", pattern, err)
			}
			for _, m := range matches {
				if excluded(o.Excludes, m) {
					continue
				}
				if f, ok := index.byPath[m]; ok {
					// test patterns are applied last and take precedence
					f.Type = t
					continue
				}
				st, err := fs.Stat(fsys, m)
				if err != nil || st.IsDir() {
					continue
				}
				f := &InputFile{
					Path:    m,
					AbsPath: filepath.Join(abs, filepath.FromSlash(m)),
					Type:    t,
				}
				index.byPath[m] = f
				index.files = append(index.files, f)
			}
		}
		return nil
	}

	if err := add(o.SourcePatterns, Main); err != nil {
		return nil, err
	}
	if err := add(o.TestPatterns, Test); err != nil {
		return nil, err
	}

	sort.Slice(index.files, func(i, j int) bool { return index.files[i].Path < index.files[j].Path })
	return index, nil
}

func excluded(excludes []string, path string) bool {
	for _, e := range excludes {
		if ok, _ := doublestar.Match(e, path); ok {
			return true
		}
	}
	return false
}

// BaseDir returns the absolute base directory of the index.
func (fs *FileSystem) BaseDir() string {
	return fs.baseDir
}

// Len returns the number of indexed files.
func (fs *FileSystem) Len() int {
	return len(fs.files)
}

// InputFile returns the indexed file for an absolute or base relative path,
// or nil when the path is not part of the index.
func (fs *FileSystem) InputFile(path string) *InputFile {
	if path == "" {
		return nil
	}

	rel := filepath.FromSlash(path)
	if filepath.IsAbs(rel) {
		r, err := filepath.Rel(fs.baseDir, rel)
		if err != nil {
			return nil
		}
		rel = r
	}
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return nil
	}
	return fs.byPath[rel]
}

// Resolve maps a filename found in a report to an indexed file.
func (fs *FileSystem) Resolve(filename string) (*InputFile, bool) {
	f := fs.InputFile(filename)
	return f, f != nil
}

// Predicate filters indexed files.
type Predicate func(f *InputFile) bool

// HasType matches files of type t.
func HasType(t Type) Predicate {
	return func(f *InputFile) bool {
		return f.Type == t
	}
}

// MatchesPathPattern matches files whose base relative path matches a doublestar pattern.
func MatchesPathPattern(pattern string) Predicate {
	return func(f *InputFile) bool {
		ok, err := doublestar.Match(pattern, f.Path)
		return err == nil && ok
	}
}

// Files returns the indexed files matching all predicates, ordered by path.
func (fs *FileSystem) Files(predicates ...Predicate) []*InputFile {
	var result []*InputFile
	for _, f := range fs.files {
		matched := true
		for _, p := range predicates {
			if !p(f) {
				matched = false
				break
			}
		}
		if matched {
			result = append(result, f)
		}
	}
	return result
}
