package sensor

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/Azure/swiftreport/pkg/dbclient"
	"github.com/Azure/swiftreport/pkg/filesystem"
	"github.com/Azure/swiftreport/pkg/report"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
)

// Kind names a sensor.
type Kind string

const (
	CoverageKind Kind = "coverage"
	LintKind     Kind = "lint"
	TestKind     Kind = "tests"
)

// AllKinds lists every sensor in the order they are reported.
var AllKinds = []Kind{CoverageKind, LintKind, TestKind}

const (
	DefaultCoverageReportPattern = "sonar-reports/coverage*.xml"
	DefaultLintReportPattern     = "sonar-reports/*swiftlint.txt"
	DefaultTestReportsDir        = "sonar-reports/"

	DefaultReportFormat     = report.HTMLFormat
	DefaultReportName       = "swiftreport"
	DefaultStyle            = "colorful"
	DefaultCoverageBaseline = 0.0
)

var (
	ErrUnknownSensor   = errors.New("unknown sensor")
	ErrInvalidBaseline = errors.New("coverage baseline must be within [0, 100]")
)

// Option contains the input of an analysis.
type Option struct {
	// BaseDir is the project directory, report patterns are relative to it.
	BaseDir     string
	ProjectName string
	Sensors     []Kind

	CoverageReportPattern string
	LintReportPattern     string
	TestReportsDir        string
	FileOption            filesystem.Option

	CoverageBaseline float64
	CompareBranch    string
	ReportFormat     report.Format
	ReportName       string
	OutputDir        string
	Style            string

	// Summary receives the summary table, nothing is written when nil.
	Summary io.Writer

	DbOption *dbclient.DBOption

	Logger logrus.FieldLogger
}

// NewOption returns an Option with default values.
func NewOption() *Option {
	return &Option{
		BaseDir:               ".",
		Sensors:               AllKinds,
		CoverageReportPattern: DefaultCoverageReportPattern,
		LintReportPattern:     DefaultLintReportPattern,
		TestReportsDir:        DefaultTestReportsDir,
		FileOption:            filesystem.NewOption(),
		CoverageBaseline:      DefaultCoverageBaseline,
		ReportFormat:          DefaultReportFormat,
		ReportName:            DefaultReportName,
		OutputDir:             ".",
		Style:                 DefaultStyle,
		DbOption:              &dbclient.DBOption{DbType: dbclient.None},
	}
}

func (o *Option) Validate() error {
	for _, k := range o.Sensors {
		if !slices.Contains(AllKinds, k) {
			return fmt.Errorf("%w: %s", ErrUnknownSensor, k)
		}
	}

	for _, pattern := range []string{o.CoverageReportPattern, o.LintReportPattern} {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return fmt.Errorf("%w: %s", filesystem.ErrInvalidPattern, pattern)
		}
	}

	if err := o.FileOption.Validate(); err != nil {
		return err
	}

	if o.CoverageBaseline < 0 || o.CoverageBaseline > 100 {
		return fmt.Errorf("%w: %v", ErrInvalidBaseline, o.CoverageBaseline)
	}

	if !slices.Contains(report.Formats, o.ReportFormat) {
		return fmt.Errorf("%w: %s", report.ErrUnsupportedFormat, o.ReportFormat)
	}

	if o.DbOption == nil {
		return nil
	}
	return o.DbOption.Validate()
}

func (o *Option) enabled(k Kind) bool {
	return slices.Contains(o.Sensors, k)
}
