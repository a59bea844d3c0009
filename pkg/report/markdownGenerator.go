package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

type MDGen struct {
	// outputPath report path
	outputPath string
	// reportName report name
	reportName string
	// logger
	logger logrus.FieldLogger
}

var _ ReportGenerator = (*MDGen)(nil)

// NewMDReportGenerator creates a markdown report generator, suited to pull request comments.
func NewMDReportGenerator(
	outputPath string,
	reportName string,
	logger logrus.FieldLogger,
) ReportGenerator {
	return &MDGen{
		outputPath: outputPath,
		reportName: reportName,
		logger:     logger,
	}
}

func (md *MDGen) GenerateReport(statistics *Statistics) error {
	reportFile := filepath.Join(md.outputPath, finalName(md.reportName, MarkdownFormat))
	if err := os.WriteFile(reportFile, []byte(md.Render(statistics)), 0644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	md.logger.Debugf("generate markdown report to %s", reportFile)
	return nil
}

// Render returns the markdown document of statistics.
func (md *MDGen) Render(statistics *Statistics) string {
	report := []string{fmt.Sprintf("### %s analysis", statistics.ProjectName)}
	if statistics.Revision != "" {
		report = append(report, fmt.Sprintf("Revision `%s`", statistics.Revision))
	}

	report = append(report,
		"",
		"| Lines to cover | Covered | Line coverage | Condition coverage | Tests | Failures | Errors | Issues |",
		"|---|---|---|---|---|---|---|---|",
		fmt.Sprintf("| %d | %d | %.1f%% | %.1f%% | %d | %d | %d | %d |",
			statistics.TotalLines,
			statistics.TotalCoveredLines,
			statistics.TotalCoveragePercent,
			statistics.TotalConditionCoveragePercent,
			statistics.Tests,
			statistics.TestFailures,
			statistics.TestErrors,
			statistics.TotalIssues,
		),
		"",
	)

	var details []string
	violatedFiles := 0
	for _, profile := range statistics.CoverageProfile {
		if profile.FullyCovered() && len(profile.Issues) == 0 {
			continue
		}
		violatedFiles++

		details = append(details, "<details>\n")
		details = append(details, fmt.Sprintf("<summary>%s %s</summary>\n", profile.FileName, summaryBadge(profile)))
		if ranges := lineRanges(profile.TotalViolationLines); len(ranges) > 0 {
			details = append(details, fmt.Sprintf("Uncovered lines: %s\n", strings.Join(ranges, ", ")))
		}
		if ranges := lineRanges(profile.PartialConditionLines); len(ranges) > 0 {
			details = append(details, fmt.Sprintf("Partially covered conditions: %s\n", strings.Join(ranges, ", ")))
		}
		for _, issue := range profile.Issues {
			details = append(details, fmt.Sprintf("- `%s` L%d %s: %s", issue.RuleKey(), issue.Line, issue.Severity, issue.Message))
		}
		details = append(details, "\n</details>\n")
	}

	if violatedFiles == 0 {
		report = append(report, "#### :+1: Congrats! All the code is covered with tests and has no issues! :green_circle:")
		return strings.Join(report, "\n")
	}

	report = append(report, "#### Missing coverage or issues for file(s) below:\n")
	return strings.Join(append(report, details...), "\n")
}

func summaryBadge(profile *CoverageProfile) string {
	if !profile.HasCoverage() {
		return fmt.Sprintf("%d issue(s)", len(profile.Issues))
	}

	coveragePercent := percentCovered(profile.TotalLines, profile.CoveredLines)
	circle := ":red_circle:"
	if coveragePercent > 50 {
		circle = ":orange_circle:"
	}
	if coveragePercent > 75 {
		circle = ":yellow_circle:"
	}
	if coveragePercent == 100 {
		circle = ":green_circle:"
	}
	return fmt.Sprintf("%.1f%% %s", coveragePercent, circle)
}

// lineRanges collapses sorted line numbers into "L1", "L3-L5" ranges.
func lineRanges(lines []int) []string {
	if len(lines) == 0 {
		return nil
	}

	var result []string
	format := func(start, end int) string {
		if start == end {
			return fmt.Sprintf("L%d", start)
		}
		return fmt.Sprintf("L%d-L%d", start, end)
	}

	uncoveredStart := lines[0]
	previousLineNumber := lines[0]
	for _, lineNumber := range lines[1:] {
		if lineNumber-previousLineNumber > 1 {
			result = append(result, format(uncoveredStart, previousLineNumber))
			uncoveredStart = lineNumber
		}
		previousLineNumber = lineNumber
	}
	return append(result, format(uncoveredStart, previousLineNumber))
}
