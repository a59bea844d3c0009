package cobertura

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/Azure/swiftreport/pkg/filesystem"
	"github.com/Azure/swiftreport/pkg/measure"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// FileResolver maps a filename found in a report to an indexed source file.
type FileResolver interface {
	Resolve(filename string) (*filesystem.InputFile, bool)
}

// Parser turns Cobertura reports into coverage measures.
type Parser struct {
	resolver FileResolver
	sink     measure.Sink
	logger   logrus.FieldLogger
}

func NewParser(resolver FileResolver, sink measure.Sink, logger logrus.FieldLogger) *Parser {
	if logger == nil {
		logger = logrus.New()
	}
	return &Parser{
		resolver: resolver,
		sink:     sink,
		logger:   logger.WithField("source", "cobertura"),
	}
}

// ParseReports parses each report in turn. A report that fails does not stop
// the following ones; all failures are returned together.
func (p *Parser) ParseReports(ctx context.Context, reports []string) error {
	var finalErr error
	for _, report := range reports {
		p.logger.Infof("processing coverage report %s", report)
		if err := p.ParseReport(ctx, report); err != nil {
			p.logger.WithError(err).Errorf("process coverage report %s", report)
			finalErr = multierr.Append(finalErr, fmt.Errorf("%s: %w", report, err))
		}
	}
	return finalErr
}

// ParseReport walks a whole report before emitting anything, so a malformed
// document produces no measures at all. Measures are then emitted file by file
// in report order; a failing emit is logged and the remaining ones still run.
func (p *Parser) ParseReport(ctx context.Context, report string) error {
	f, err := os.Open(report)
	if err != nil {
		return &ReportError{Kind: ErrStreamFailure, Err: err}
	}
	defer f.Close()

	coverage, err := Walk(bufio.NewReader(f))
	if err != nil {
		return err
	}

	p.logger.Debugf("%s: %d files", report, coverage.Len())
	return p.emit(ctx, coverage)
}

func (p *Parser) emit(ctx context.Context, coverage *Coverage) error {
	var finalErr error
	for _, filename := range coverage.Files() {
		acc := coverage.Accumulator(filename)
		if acc.LinesToCover() == 0 {
			continue
		}

		file, ok := p.resolver.Resolve(filename)
		if !ok {
			p.logger.Infof("no coverage found for '%s'", filename)
			continue
		}

		for _, m := range Synthesize(acc) {
			if err := p.sink.Save(ctx, file, m); err != nil {
				p.logger.WithError(err).Errorf("save %s for %s", m.Metric, file)
				finalErr = multierr.Append(finalErr, fmt.Errorf("save %s for %s: %w", m.Metric, file, err))
			}
		}
	}
	return finalErr
}
