package sensor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Azure/swiftreport/pkg/cobertura"
	"github.com/Azure/swiftreport/pkg/dbclient"
	"github.com/Azure/swiftreport/pkg/filesystem"
	"github.com/Azure/swiftreport/pkg/gittool"
	"github.com/Azure/swiftreport/pkg/measure"
	"github.com/Azure/swiftreport/pkg/report"
	"github.com/Azure/swiftreport/pkg/surefire"
	"github.com/Azure/swiftreport/pkg/swiftlint"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var ErrLowCoverage = errors.New("coverage is lower than the baseline")

// Analyzer runs the enabled sensors on a project and reports their measures.
type Analyzer struct {
	option          *Option
	baseDir         string
	projectName     string
	reportGenerator report.ReportGenerator
	dbClient        dbclient.DbClient
	newGitClient    func(path string) (gittool.GitClient, error)

	logger logrus.FieldLogger
}

func NewAnalyzer(o *Option) (*Analyzer, error) {
	var (
		dbClient dbclient.DbClient
		err      error
	)

	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("validate option: %w", err)
	}

	logger := o.Logger
	if logger == nil {
		logger = logrus.New()
	}

	if o.DbOption != nil && o.DbOption.DataCollectionEnabled {
		dbClient, err = o.DbOption.GetDbClient(logger)
		if err != nil {
			return nil, fmt.Errorf("get db client: %w", err)
		}
	}

	baseDir, err := filepath.Abs(o.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("get absolute path of project: %w", err)
	}

	projectName := o.ProjectName
	if projectName == "" {
		projectName = filepath.Base(baseDir)
	}

	reportGenerator, err := report.NewGenerator(report.GeneratorOption{
		Format:     o.ReportFormat,
		Style:      o.Style,
		OutputDir:  o.OutputDir,
		ReportName: o.ReportName,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create report generator: %w", err)
	}

	logger.WithField("source", "analyzer").Debugf("project: %s, base dir: %s, output dir: %s", projectName, baseDir, o.OutputDir)

	return &Analyzer{
		option:          o,
		baseDir:         baseDir,
		projectName:     projectName,
		reportGenerator: reportGenerator,
		dbClient:        dbClient,
		newGitClient:    gittool.NewGitClient,
		logger:          logger,
	}, nil
}

// Run imports the reports, writes the summary and the report, and stores the measures.
// Report failures do not stop the analysis, they are returned with ReportFailureErrorExitCode
// once everything else is done.
func (a *Analyzer) Run(ctx context.Context) error {
	logger := a.logger.WithField("source", "analyzer")

	fs, err := filesystem.New(a.baseDir, a.option.FileOption)
	if err != nil {
		return WrapError(fmt.Errorf("index source files: %w", err), "cannot index source files")
	}
	logger.Infof("%d files indexed in %s", fs.Len(), a.baseDir)

	measures := measure.NewStore()
	sensorErr := a.runSensors(ctx, a.sensors(fs, measures))

	revision := a.revision()
	statistics := report.NewStatistics(measures, a.projectName, revision, a.logger)

	if a.option.CompareBranch != "" {
		changed, err := a.changedFiles(a.option.CompareBranch)
		if err != nil {
			return WrapError(err, "cannot diff with "+a.option.CompareBranch)
		}
		statistics.Retain(func(p *report.CoverageProfile) bool { return changed[p.FileName] })
		logger.Infof("%d changed files compared to %s", len(statistics.CoverageProfile), a.option.CompareBranch)
	}

	if a.option.Summary != nil {
		report.WriteSummary(a.option.Summary, statistics)
	}

	if err := a.reportGenerator.GenerateReport(statistics); err != nil {
		return WrapError(fmt.Errorf("generate report: %w", err), "cannot generate report")
	}

	dump(report.NewCoverageTreeFromStatistics(statistics), logger)

	if a.dbClient != nil {
		if err := store(ctx, a.dbClient, measures, a.projectName, revision); err != nil {
			return WrapError(err, "cannot store measures")
		}
	}

	if sensorErr != nil {
		return WrapErrorWithCode(sensorErr, ReportFailureErrorExitCode, "some reports could not be imported")
	}

	if statistics.TotalCoveragePercent < a.option.CoverageBaseline {
		return WrapErrorWithCode(
			fmt.Errorf("%w: %.2f%% < %.2f%%", ErrLowCoverage, statistics.TotalCoveragePercent, a.option.CoverageBaseline),
			LowCoverageErrorExitCode,
			"coverage is too low",
		)
	}
	return nil
}

func (a *Analyzer) sensors(fs *filesystem.FileSystem, measures *measure.Store) []Sensor {
	var sensors []Sensor
	for _, k := range AllKinds {
		if !a.option.enabled(k) {
			continue
		}
		switch k {
		case CoverageKind:
			parser := cobertura.NewParser(fs, measures, a.logger)
			sensors = append(sensors, NewCoverageSensor(a.baseDir, a.option.CoverageReportPattern, parser, a.logger))
		case LintKind:
			parser := swiftlint.NewParser(fs, measures, a.logger)
			sensors = append(sensors, NewLintSensor(a.baseDir, a.option.LintReportPattern, parser, a.logger))
		case TestKind:
			parser := surefire.NewParser(fs, measures, a.logger)
			sensors = append(sensors, NewTestSensor(a.baseDir, a.option.TestReportsDir, parser))
		}
	}
	return sensors
}

// runSensors runs the sensors concurrently. A failing sensor never stops the others;
// the errors are returned in sensor order.
func (a *Analyzer) runSensors(ctx context.Context, sensors []Sensor) error {
	errs := make([]error, len(sensors))

	var group errgroup.Group
	for i, s := range sensors {
		i, s := i, s
		group.Go(func() error {
			logger := a.logger.WithField("source", "analyzer").WithField("sensor", s.Name())
			start := time.Now()
			if err := s.Run(ctx); err != nil {
				logger.WithError(err).Error("sensor failed")
				errs[i] = fmt.Errorf("%s: %w", s.Name(), err)
				return nil
			}
			logger.Debugf("sensor done in %s", time.Since(start))
			return nil
		})
	}
	_ = group.Wait()

	return multierr.Combine(errs...)
}

func (a *Analyzer) revision() string {
	client, err := a.newGitClient(a.baseDir)
	if err != nil {
		a.logger.WithError(err).Debug("no revision")
		return ""
	}
	revision, err := client.HeadRevision()
	if err != nil {
		a.logger.WithError(err).Debug("no revision")
		return ""
	}
	return revision
}

// changedFiles returns the paths, relative to the base directory, of the files changed
// compared to branch. Deleted files and files outside the base directory are left out.
func (a *Analyzer) changedFiles(branch string) (map[string]bool, error) {
	client, err := a.newGitClient(a.baseDir)
	if err != nil {
		return nil, err
	}
	changes, err := client.DiffChanges(branch)
	if err != nil {
		return nil, err
	}

	root := client.Root()
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	baseDir := a.baseDir
	if b, err := filepath.EvalSymlinks(baseDir); err == nil {
		baseDir = b
	}

	result := make(map[string]bool)
	for _, c := range changes {
		if c.Mode == gittool.DeleteMode {
			continue
		}
		rel, err := filepath.Rel(baseDir, filepath.Join(root, filepath.FromSlash(c.FileName)))
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			continue
		}
		result[rel] = true
	}
	return result, nil
}
