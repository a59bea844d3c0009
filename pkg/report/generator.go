package report

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/sirupsen/logrus"
)

// ReportGenerator represents the feature that generates the analysis report.
type ReportGenerator interface {
	GenerateReport(statistics *Statistics) error
}

type Format string

const (
	HTMLFormat     Format = "html"
	MarkdownFormat Format = "markdown"
	JSONFormat     Format = "json"
	YAMLFormat     Format = "yaml"
)

var ErrUnsupportedFormat = errors.New("unsupported report format")

// Formats lists the supported report formats.
var Formats = []Format{HTMLFormat, MarkdownFormat, JSONFormat, YAMLFormat}

// GeneratorOption configures a report generator.
type GeneratorOption struct {
	Format     Format
	Style      string
	OutputDir  string
	ReportName string
	Logger     logrus.FieldLogger
}

// NewGenerator returns the generator of the requested format.
func NewGenerator(o GeneratorOption) (ReportGenerator, error) {
	logger := o.Logger
	if logger == nil {
		logger = logrus.New()
	}
	logger = logger.WithField("source", "report")

	switch o.Format {
	case HTMLFormat, "":
		return NewReportGenerator(o.Style, o.OutputDir, o.ReportName, logger), nil
	case MarkdownFormat:
		return NewMDReportGenerator(o.OutputDir, o.ReportName, logger), nil
	case JSONFormat, YAMLFormat:
		return &structuredReportGenerator{
			format:     o.Format,
			outputPath: o.OutputDir,
			reportName: o.ReportName,
			logger:     logger,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, o.Format)
	}
}

// htmlReportGenerator implements a html style report generator.
type htmlReportGenerator struct {
	// lexer for parsing swift code
	lexer chroma.Lexer
	// style for swift code snippets
	style *chroma.Style
	// outputPath report path
	outputPath string
	// reportName report name
	reportName string
	// logger
	logger logrus.FieldLogger
}

var _ ReportGenerator = (*htmlReportGenerator)(nil)

const (
	// CodeLanguage represents the language style for report.
	CodeLanguage = "swift"
	// codeHighlightColor background color for those uncovered code lines.
	codeHighlightColor = "bg:#ffcccc"
)

// NewReportGenerator creates a html report generator to generate html analysis report.
// We will use https://pygments.org/docs/styles to style the output,
// and use https://github.com/alecthomas/chroma to help to generate code snippets.
func NewReportGenerator(
	codeStyle string,
	outputPath string,
	reportName string,
	logger logrus.FieldLogger,
) ReportGenerator {
	style := styles.Get(codeStyle)
	if style == nil {
		style = styles.Fallback
	}

	builder := style.Builder().Add(chroma.LineHighlight, codeHighlightColor)
	if s, err := builder.Build(); err == nil {
		style = s
	}

	lexer := lexers.Get(CodeLanguage)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	return &htmlReportGenerator{
		lexer:      lexer,
		style:      style,
		outputPath: outputPath,
		reportName: reportName,
		logger:     logger,
	}
}

// GenerateReport processes the statistics and generates the final html report.
func (g *htmlReportGenerator) GenerateReport(statistics *Statistics) error {
	err := g.processCodeSnippets(statistics)
	if err != nil {
		return fmt.Errorf("process code snippets: %w", err)
	}

	reportFile := filepath.Join(g.outputPath, finalName(g.reportName, HTMLFormat))
	f, err := os.Create(reportFile)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	err = htmlCoverageReportTemplate.Execute(f, statistics)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	g.logger.Debugf("generate html report to %s", reportFile)
	return nil
}

// processCodeSnippets processes the violation sections and generates the corresponding swift code snippets
// which show the concrete code lines that miss test coverage.
func (g *htmlReportGenerator) processCodeSnippets(statistics *Statistics) error {
	for _, profile := range statistics.CoverageProfile {
		profile.CodeSnippet = nil
		if profile.FullyCovered() {
			continue
		}

		for _, section := range profile.ViolationSections {
			iter, err := g.lexer.Tokenise(nil, strings.Join(section.Contents, "\n"))
			if err != nil {
				return fmt.Errorf("tokenise failed: %w", err)
			}

			var hlLines [][2]int
			for _, line := range section.ViolationLines {
				hlLines = append(hlLines, [2]int{line, line})
			}

			formatter := html.New(
				html.WithLineNumbers(true),
				html.LineNumbersInTable(true),
				html.BaseLineNumber(section.StartLine),
				html.WithLinkableLineNumbers(true, ""),
				html.HighlightLines(hlLines),
			)

			var buf bytes.Buffer
			err = formatter.Format(&buf, g.style, iter)
			if err != nil {
				return fmt.Errorf("format code snippet: %w", err)
			}

			profile.CodeSnippet = append(profile.CodeSnippet, template.HTML(buf.String()))
		}
	}

	return nil
}

func finalName(reportName string, format Format) string {
	ext := string(format)
	if format == MarkdownFormat {
		ext = "md"
	}
	return fmt.Sprintf("%s.%s", reportName, ext)
}

// htmlCoverageReportTemplate is the render engine for html analysis report.
var htmlCoverageReportTemplate = template.Must(
	template.New("htmlReportTemplate").
		Funcs(template.FuncMap{"IntsJoin": intsJoin}).
		Funcs(template.FuncMap{"NormalizeLines": normalizeLines}).
		Funcs(template.FuncMap{"PercentCovered": percentCovered}).
		Parse(htmlCoverageReport),
)

// intsJoin returns string that a int slice join with ,
func intsJoin(inputs []int) string {
	var s []string
	for _, i := range inputs {
		s = append(s, strconv.Itoa(i))
	}
	return strings.Join(s, ",")
}

// normalizeLines pluralizes the noun if number is greater than one.
func normalizeLines(lines int) string {
	if lines < 2 {
		return fmt.Sprintf("%d line", lines)
	}
	return fmt.Sprintf("%d lines", lines)
}

// percentCovered returns the covered percent rounded to two decimals, 100 when there is nothing to cover.
func percentCovered(total, covered int) float64 {
	if total == 0 {
		return 100
	}
	c := float64(covered) / float64(total) * 100
	percent, _ := strconv.ParseFloat(fmt.Sprintf("%.2f", c), 64)
	return percent
}
