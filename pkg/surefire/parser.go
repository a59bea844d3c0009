package surefire

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Azure/swiftreport/pkg/filesystem"
	"github.com/Azure/swiftreport/pkg/measure"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const sourceSuffix = ".swift"

// FileSystem is the part of the file index the parser needs.
type FileSystem interface {
	InputFile(path string) *filesystem.InputFile
	Files(predicates ...filesystem.Predicate) []*filesystem.InputFile
}

// Parser turns JUnit reports into test measures on the test source files.
type Parser struct {
	fs     FileSystem
	sink   measure.Sink
	logger logrus.FieldLogger
}

func NewParser(fs FileSystem, sink measure.Sink, logger logrus.FieldLogger) *Parser {
	if logger == nil {
		logger = logrus.New()
	}
	return &Parser{
		fs:     fs,
		sink:   sink,
		logger: logger.WithField("source", "surefire"),
	}
}

// FindReports lists the JUnit reports of a directory: TEST*.xml, and *.junit
// as written by fastlane. A missing directory has no reports.
func FindReports(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read reports dir %s: %w", dir, err)
	}

	var reports []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if (strings.HasPrefix(name, "TEST") && strings.HasSuffix(name, ".xml")) || strings.HasSuffix(name, ".junit") {
			reports = append(reports, filepath.Join(dir, name))
		}
	}
	return reports, nil
}

// Collect parses all reports found in dir.
func (p *Parser) Collect(ctx context.Context, dir string) error {
	p.logger.Infof("parsing %s", dir)
	reports, err := FindReports(dir)
	if err != nil {
		return err
	}
	return p.ParseReports(ctx, reports)
}

// ParseReports parses reports in order. A class already analyzed in an earlier
// report is not saved again. A failing report does not stop the others.
func (p *Parser) ParseReports(ctx context.Context, reports []string) error {
	analyzed := make(map[string]bool)

	var finalErr error
	for _, report := range reports {
		if err := p.parseReport(ctx, report, analyzed); err != nil {
			p.logger.WithError(err).Errorf("cannot parse test report %s", report)
			finalErr = multierr.Append(finalErr, fmt.Errorf("%s: %w", report, err))
		}
	}
	return finalErr
}

func (p *Parser) parseReport(ctx context.Context, report string, analyzed map[string]bool) error {
	f, err := os.Open(report)
	if err != nil {
		return err
	}
	defer f.Close()

	classReports, err := Parse(bufio.NewReader(f))
	if err != nil {
		return err
	}

	var finalErr error
	for _, r := range classReports {
		if !r.Valid() || analyzed[r.ClassKey] || r.Tests == 0 {
			continue
		}
		analyzed[r.ClassKey] = true

		file := p.Resolve(r.ClassKey)
		if file == nil {
			continue
		}
		for _, m := range Measures(r) {
			if err := p.sink.Save(ctx, file, m); err != nil {
				p.logger.WithError(err).Errorf("save %s for %s", m.Metric, file)
				finalErr = multierr.Append(finalErr, err)
			}
		}
	}
	return finalErr
}

// Measures derives the test measures of a class report.
func Measures(r *ClassReport) []measure.Measure {
	result := []measure.Measure{
		measure.NewIntMeasure(measure.SkippedTests, int64(r.Skipped)),
		measure.NewIntMeasure(measure.Tests, int64(r.Executed())),
		measure.NewIntMeasure(measure.TestErrors, int64(r.Errors)),
		measure.NewIntMeasure(measure.TestFailures, int64(r.Failures)),
		measure.NewIntMeasure(measure.TestExecutionTime, r.TimeMS),
	}
	if density, ok := r.SuccessDensity(); ok {
		result = append(result, measure.NewFloatMeasure(measure.TestSuccessDensity, density))
	}
	return append(result, measure.NewDataMeasure(measure.TestData, r.DetailsXML()))
}

// Resolve finds the source file of a test class. "Module.FooTests" maps to
// "Module/FooTests.swift"; xcodebuild reports rarely carry the real directory,
// so when that path is not indexed the test files are searched by basename and
// the first match is taken.
func (p *Parser) Resolve(classKey string) *filesystem.InputFile {
	fileName := strings.ReplaceAll(classKey, ".", "/") + sourceSuffix
	if f := p.fs.InputFile(fileName); f != nil {
		return f
	}

	files := p.fs.Files(
		filesystem.HasType(filesystem.Test),
		filesystem.MatchesPathPattern("**/"+path.Base(fileName)),
	)
	if len(files) == 0 {
		p.logger.Debugf("unable to locate test source file %s", fileName)
		return nil
	}
	return files[0]
}
