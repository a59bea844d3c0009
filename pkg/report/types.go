package report

import (
	"html/template"

	"github.com/Azure/swiftreport/pkg/measure"
)

// Statistics represents the analysis result of a project.
// It contains the totals and the profile of every analyzed file.
type Statistics struct {
	// ProjectName is the name shown on top of the report.
	ProjectName string `json:"projectName" yaml:"projectName"`
	// Revision is the commit the analysis ran on, empty outside a git repository.
	Revision string `json:"revision,omitempty" yaml:"revision,omitempty"`
	// TotalLines represents the total lines that count for coverage.
	TotalLines int `json:"totalLines" yaml:"totalLines"`
	// TotalCoveredLines indicates total covered lines that count for coverage.
	TotalCoveredLines int `json:"totalCoveredLines" yaml:"totalCoveredLines"`
	// TotalViolationLines represents all the lines that miss test coverage.
	TotalViolationLines int `json:"totalViolationLines" yaml:"totalViolationLines"`
	// TotalConditions indicates the branch conditions that count for coverage.
	TotalConditions int `json:"totalConditions" yaml:"totalConditions"`
	// TotalCoveredConditions indicates the branch conditions exercised by tests.
	TotalCoveredConditions int `json:"totalCoveredConditions" yaml:"totalCoveredConditions"`
	// TotalCoveragePercent represents the line coverage percent of the project.
	TotalCoveragePercent float64 `json:"totalCoveragePercent" yaml:"totalCoveragePercent"`
	// TotalConditionCoveragePercent represents the condition coverage percent of the project.
	TotalConditionCoveragePercent float64 `json:"totalConditionCoveragePercent" yaml:"totalConditionCoveragePercent"`

	Tests        int   `json:"tests" yaml:"tests"`
	SkippedTests int   `json:"skippedTests" yaml:"skippedTests"`
	TestErrors   int   `json:"testErrors" yaml:"testErrors"`
	TestFailures int   `json:"testFailures" yaml:"testFailures"`
	TestTimeMS   int64 `json:"testTimeMs" yaml:"testTimeMs"`

	// TotalIssues is the number of lint issues.
	TotalIssues int `json:"totalIssues" yaml:"totalIssues"`
	// CoverageProfile represents the profile of each analyzed file, ordered by file name.
	CoverageProfile []*CoverageProfile `json:"files" yaml:"files"`
}

// CoverageProfile represents the measures and issues of a single file.
type CoverageProfile struct {
	// FileName is the path of the file relative to the project directory.
	FileName string `json:"fileName" yaml:"fileName"`
	// Type is MAIN or TEST.
	Type string `json:"type" yaml:"type"`
	// TotalLines indicates the lines that count for coverage.
	TotalLines int `json:"totalLines" yaml:"totalLines"`
	// CoveredLines indicates covered lines of this coverage profile.
	CoveredLines int `json:"coveredLines" yaml:"coveredLines"`
	// TotalConditions indicates the branch conditions of the file.
	TotalConditions int `json:"totalConditions" yaml:"totalConditions"`
	// CoveredConditions indicates the branch conditions exercised by tests.
	CoveredConditions int `json:"coveredConditions" yaml:"coveredConditions"`
	// TotalViolationLines lists the line numbers that miss coverage.
	TotalViolationLines []int `json:"violationLines,omitempty" yaml:"violationLines,omitempty"`
	// PartialConditionLines lists the line numbers with uncovered branch conditions.
	PartialConditionLines []int `json:"partialConditionLines,omitempty" yaml:"partialConditionLines,omitempty"`

	Tests        int   `json:"tests,omitempty" yaml:"tests,omitempty"`
	SkippedTests int   `json:"skippedTests,omitempty" yaml:"skippedTests,omitempty"`
	TestErrors   int   `json:"testErrors,omitempty" yaml:"testErrors,omitempty"`
	TestFailures int   `json:"testFailures,omitempty" yaml:"testFailures,omitempty"`
	TestTimeMS   int64 `json:"testTimeMs,omitempty" yaml:"testTimeMs,omitempty"`

	// Issues are the lint issues reported on this file, ordered by line.
	Issues []measure.Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
	// ViolationSections indicates the sections that miss full coverage.
	ViolationSections []*ViolationSection `json:"-" yaml:"-"`
	// CodeSnippet represents the output of the ViolationSections, it's calculated from ViolationSections.
	CodeSnippet []template.HTML `json:"-" yaml:"-"`
}

// ViolationSection represents a portion of a file that misses unit test coverage.
type ViolationSection struct {
	// ViolationLines indicates which line miss the coverage.
	ViolationLines []int
	// StartLine indicates the start line of the section.
	StartLine int
	// EndLine indicates the end line of the section.
	EndLine int
	// Contents contains [StartLine..EndLine] lines from the source file.
	Contents []string
}

// HasCoverage reports whether coverage was imported for the file.
func (p *CoverageProfile) HasCoverage() bool {
	return p.TotalLines > 0
}

// FullyCovered reports whether every line and condition of the file is covered.
func (p *CoverageProfile) FullyCovered() bool {
	return p.CoveredLines == p.TotalLines && p.CoveredConditions == p.TotalConditions
}
