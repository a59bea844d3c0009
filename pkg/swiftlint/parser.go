package swiftlint

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/Azure/swiftreport/pkg/filesystem"
	"github.com/Azure/swiftreport/pkg/measure"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// RepositoryKey is the issue repository of SwiftLint rules.
const RepositoryKey = "swiftlint"

var ErrStreamFailure = errors.New("swiftlint report stream failure")

// issuePattern matches "<path>.swift:<line>:[<col>:] (warning|error): <message> (<rule>)".
var issuePattern = regexp.MustCompile(`(.*\.swift):(\w+):?(\w+)?: (warning|error): (.*) \((\w+)`)

// FileSystem is the part of the file index the parser needs.
type FileSystem interface {
	InputFile(path string) *filesystem.InputFile
}

// Parser turns SwiftLint text output into issues.
type Parser struct {
	fs     FileSystem
	sink   measure.IssueSink
	logger logrus.FieldLogger
}

func NewParser(fs FileSystem, sink measure.IssueSink, logger logrus.FieldLogger) *Parser {
	if logger == nil {
		logger = logrus.New()
	}
	return &Parser{
		fs:     fs,
		sink:   sink,
		logger: logger.WithField("source", "swiftlint"),
	}
}

// ParseReports parses every report; a failing report does not stop the others.
func (p *Parser) ParseReports(ctx context.Context, reports []string) error {
	var finalErr error
	for _, report := range reports {
		p.logger.Infof("processing SwiftLint report %s", report)
		if err := p.ParseReport(ctx, report); err != nil {
			p.logger.WithError(err).Error("failed to parse SwiftLint report file")
			finalErr = multierr.Append(finalErr, fmt.Errorf("%s: %w", report, err))
		}
	}
	return finalErr
}

func (p *Parser) ParseReport(ctx context.Context, report string) error {
	f, err := os.Open(report)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStreamFailure, err)
	}
	defer f.Close()

	return p.Parse(ctx, f)
}

// Parse reads issues line by line. Lines that do not match are ignored and
// issues on unknown files or lines are logged and dropped.
func (p *Parser) Parse(ctx context.Context, r io.Reader) error {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	for s.Scan() {
		for _, issue := range Match(s.Text()) {
			if err := p.record(ctx, issue); err != nil {
				p.logger.WithError(err).Error("record issue")
			}
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrStreamFailure, err)
	}
	return nil
}

func (p *Parser) record(ctx context.Context, issue measure.Issue) error {
	file := p.fs.InputFile(issue.File)
	if file == nil {
		return fmt.Errorf("%s is not an indexed file", issue.File)
	}
	if err := file.SelectLine(issue.Line); err != nil {
		return err
	}

	issue.File = file.Path
	return p.sink.SaveIssue(ctx, issue)
}

// Match extracts the issues of one report line.
func Match(line string) []measure.Issue {
	var result []measure.Issue
	for _, groups := range issuePattern.FindAllStringSubmatch(line, -1) {
		lineNumber, err := strconv.Atoi(groups[2])
		if err != nil {
			continue
		}
		result = append(result, measure.Issue{
			Repository: RepositoryKey,
			Rule:       groups[6],
			File:       groups[1],
			Line:       lineNumber,
			Severity:   measure.Severity(groups[4]),
			Message:    groups[5],
		})
	}
	return result
}
