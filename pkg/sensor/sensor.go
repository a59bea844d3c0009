package sensor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Azure/swiftreport/pkg/cobertura"
	"github.com/Azure/swiftreport/pkg/surefire"
	"github.com/Azure/swiftreport/pkg/swiftlint"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
)

// Sensor imports one kind of report into the measure store.
type Sensor interface {
	Name() string
	Run(ctx context.Context) error
}

// FindReports returns the files matching pattern, sorted.
// A relative pattern is resolved against baseDir.
func FindReports(baseDir, pattern string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		sort.Strings(matches)
		return matches, nil
	}

	matches, err := doublestar.Glob(os.DirFS(baseDir), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}

	result := make([]string, 0, len(matches))
	for _, m := range matches {
		result = append(result, filepath.Join(baseDir, filepath.FromSlash(m)))
	}
	sort.Strings(result)
	return result, nil
}

// CoverageSensor imports Cobertura coverage reports.
type CoverageSensor struct {
	baseDir string
	pattern string
	parser  *cobertura.Parser
	logger  logrus.FieldLogger
}

var _ Sensor = (*CoverageSensor)(nil)

func NewCoverageSensor(baseDir, pattern string, parser *cobertura.Parser, logger logrus.FieldLogger) *CoverageSensor {
	return &CoverageSensor{
		baseDir: baseDir,
		pattern: pattern,
		parser:  parser,
		logger:  logger.WithField("source", CoverageKind),
	}
}

func (s *CoverageSensor) Name() string {
	return string(CoverageKind)
}

func (s *CoverageSensor) Run(ctx context.Context) error {
	reports, err := FindReports(s.baseDir, s.pattern)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		s.logger.Infof("no coverage report found matching %s", s.pattern)
		return nil
	}
	return s.parser.ParseReports(ctx, reports)
}

// LintSensor imports SwiftLint reports.
type LintSensor struct {
	baseDir string
	pattern string
	parser  *swiftlint.Parser
	logger  logrus.FieldLogger
}

var _ Sensor = (*LintSensor)(nil)

func NewLintSensor(baseDir, pattern string, parser *swiftlint.Parser, logger logrus.FieldLogger) *LintSensor {
	return &LintSensor{
		baseDir: baseDir,
		pattern: pattern,
		parser:  parser,
		logger:  logger.WithField("source", LintKind),
	}
}

func (s *LintSensor) Name() string {
	return string(LintKind)
}

func (s *LintSensor) Run(ctx context.Context) error {
	reports, err := FindReports(s.baseDir, s.pattern)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		s.logger.Infof("no SwiftLint report found matching %s", s.pattern)
		return nil
	}
	return s.parser.ParseReports(ctx, reports)
}

// TestSensor imports the JUnit reports of a directory.
type TestSensor struct {
	dir    string
	parser *surefire.Parser
}

var _ Sensor = (*TestSensor)(nil)

func NewTestSensor(baseDir, dir string, parser *surefire.Parser) *TestSensor {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(baseDir, dir)
	}
	return &TestSensor{dir: dir, parser: parser}
}

func (s *TestSensor) Name() string {
	return string(TestKind)
}

func (s *TestSensor) Run(ctx context.Context) error {
	return s.parser.Collect(ctx, s.dir)
}
