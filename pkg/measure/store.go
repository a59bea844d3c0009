package measure

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Azure/swiftreport/pkg/filesystem"
)

var ErrNilFile = errors.New("measure target file is nil")

// Sink persists measures computed for an indexed file.
// Each Save is independent; a failure must not affect other calls.
type Sink interface {
	Save(ctx context.Context, file *filesystem.InputFile, m Measure) error
}

// IssueSink persists issues.
type IssueSink interface {
	SaveIssue(ctx context.Context, issue Issue) error
}

// Store is an in-memory Sink and IssueSink. It serializes concurrent writes,
// so sensors running in parallel can share one Store.
// The last value saved for a (file, metric) pair wins.
type Store struct {
	mu       sync.RWMutex
	files    map[string]*filesystem.InputFile
	measures map[string]map[Metric]Measure
	issues   []Issue
}

var (
	_ Sink      = (*Store)(nil)
	_ IssueSink = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		files:    make(map[string]*filesystem.InputFile),
		measures: make(map[string]map[Metric]Measure),
	}
}

func (s *Store) Save(_ context.Context, file *filesystem.InputFile, m Measure) error {
	if file == nil {
		return ErrNilFile
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byMetric, ok := s.measures[file.Path]
	if !ok {
		byMetric = make(map[Metric]Measure)
		s.measures[file.Path] = byMetric
		s.files[file.Path] = file
	}
	byMetric[m.Metric] = m
	return nil
}

func (s *Store) SaveIssue(_ context.Context, issue Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issues = append(s.issues, issue)
	return nil
}

// Files returns the files that have at least one measure, ordered by path.
func (s *Store) Files() []*filesystem.InputFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*filesystem.InputFile, 0, len(s.files))
	for _, f := range s.files {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

// Measures returns the measures of a file ordered by metric key.
func (s *Store) Measures(path string) []Measure {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byMetric := s.measures[path]
	result := make([]Measure, 0, len(byMetric))
	for _, m := range byMetric {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Metric < result[j].Metric })
	return result
}

// Measure returns a single measure of a file.
func (s *Store) Measure(path string, metric Metric) (Measure, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.measures[path][metric]
	return m, ok
}

// Issues returns a copy of the saved issues ordered by file and line.
func (s *Store) Issues() []Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Issue, len(s.issues))
	copy(result, s.issues)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].File != result[j].File {
			return result[i].File < result[j].File
		}
		return result[i].Line < result[j].Line
	})
	return result
}
