package report

import (
	"sort"

	"github.com/Azure/swiftreport/pkg/filesystem"
	"github.com/Azure/swiftreport/pkg/measure"
	"github.com/sirupsen/logrus"
)

// sectionContextLines is the number of source lines shown around uncovered lines.
const sectionContextLines = 2

// MeasureSource is the read side of the measure store.
type MeasureSource interface {
	Files() []*filesystem.InputFile
	Measures(path string) []measure.Measure
	Issues() []measure.Issue
}

// NewStatistics builds the statistics of every file that received a measure or an issue.
func NewStatistics(source MeasureSource, projectName, revision string, logger logrus.FieldLogger) *Statistics {
	if logger == nil {
		logger = logrus.New()
	}
	logger = logger.WithField("source", "statistics")

	statistics := &Statistics{
		ProjectName: projectName,
		Revision:    revision,
	}

	issues := make(map[string][]measure.Issue)
	for _, issue := range source.Issues() {
		issues[issue.File] = append(issues[issue.File], issue)
	}

	seen := make(map[string]bool)
	for _, file := range source.Files() {
		seen[file.Path] = true
		profile := &CoverageProfile{
			FileName: file.Path,
			Type:     file.Type.String(),
			Issues:   issues[file.Path],
		}
		measures := source.Measures(file.Path)
		for _, m := range measures {
			if err := profile.apply(m); err != nil {
				logger.WithError(err).Warnf("ignore %s of %s", m.Metric, file.Path)
			}
		}
		partial, err := partialConditionLines(measures)
		if err != nil {
			logger.WithError(err).Warnf("ignore condition tables of %s", file.Path)
		}
		profile.PartialConditionLines = partial

		if len(profile.TotalViolationLines) > 0 {
			contents, err := file.Lines()
			if err != nil {
				logger.WithError(err).Warnf("read %s", file.Path)
			} else {
				profile.ViolationSections = violationSections(profile.TotalViolationLines, contents)
			}
		}

		statistics.add(profile)
	}

	// files with issues only
	for file, fileIssues := range issues {
		if !seen[file] {
			statistics.add(&CoverageProfile{FileName: file, Issues: fileIssues})
		}
	}
	sort.SliceStable(statistics.CoverageProfile, func(i, j int) bool {
		return statistics.CoverageProfile[i].FileName < statistics.CoverageProfile[j].FileName
	})

	statistics.percents()
	return statistics
}

// Retain keeps the profiles for which keep returns true and recomputes the totals.
func (s *Statistics) Retain(keep func(p *CoverageProfile) bool) {
	profiles := s.CoverageProfile
	*s = Statistics{
		ProjectName: s.ProjectName,
		Revision:    s.Revision,
	}
	for _, p := range profiles {
		if keep(p) {
			s.add(p)
		}
	}
	s.percents()
}

func (s *Statistics) percents() {
	s.TotalCoveragePercent = percentCovered(s.TotalLines, s.TotalCoveredLines)
	s.TotalConditionCoveragePercent = percentCovered(s.TotalConditions, s.TotalCoveredConditions)
}

func (s *Statistics) add(p *CoverageProfile) {
	s.TotalLines += p.TotalLines
	s.TotalCoveredLines += p.CoveredLines
	s.TotalViolationLines += len(p.TotalViolationLines)
	s.TotalConditions += p.TotalConditions
	s.TotalCoveredConditions += p.CoveredConditions
	s.Tests += p.Tests
	s.SkippedTests += p.SkippedTests
	s.TestErrors += p.TestErrors
	s.TestFailures += p.TestFailures
	s.TestTimeMS += p.TestTimeMS
	s.TotalIssues += len(p.Issues)
	s.CoverageProfile = append(s.CoverageProfile, p)
}

func (p *CoverageProfile) apply(m measure.Measure) error {
	switch m.Metric {
	case measure.LinesToCover:
		p.TotalLines = int(m.Int)
	case measure.CoverageLineHitsData:
		hits, err := measure.ParseLineValues(m.Data)
		if err != nil {
			return err
		}
		p.CoveredLines = 0
		p.TotalViolationLines = nil
		for _, h := range hits {
			if h.Value > 0 {
				p.CoveredLines++
			} else {
				p.TotalViolationLines = append(p.TotalViolationLines, h.Line)
			}
		}
	case measure.ConditionsToCover:
		p.TotalConditions = int(m.Int)
	case measure.CoveredConditionsByLine:
		covered, err := measure.ParseLineValues(m.Data)
		if err != nil {
			return err
		}
		p.CoveredConditions = 0
		for _, c := range covered {
			p.CoveredConditions += c.Value
		}
	case measure.Tests:
		p.Tests = int(m.Int)
	case measure.SkippedTests:
		p.SkippedTests = int(m.Int)
	case measure.TestErrors:
		p.TestErrors = int(m.Int)
	case measure.TestFailures:
		p.TestFailures = int(m.Int)
	case measure.TestExecutionTime:
		p.TestTimeMS = m.Int
	}
	return nil
}

// partialConditionLines returns the lines where fewer conditions were covered than exist.
func partialConditionLines(measures []measure.Measure) ([]int, error) {
	var conditions, covered []measure.LineValue
	for _, m := range measures {
		var err error
		switch m.Metric {
		case measure.ConditionsByLine:
			conditions, err = measure.ParseLineValues(m.Data)
		case measure.CoveredConditionsByLine:
			covered, err = measure.ParseLineValues(m.Data)
		}
		if err != nil {
			return nil, err
		}
	}

	coveredByLine := make(map[int]int, len(covered))
	for _, c := range covered {
		coveredByLine[c.Line] = c.Value
	}

	var result []int
	for _, c := range conditions {
		if coveredByLine[c.Line] < c.Value {
			result = append(result, c.Line)
		}
	}
	return result, nil
}

// violationSections groups uncovered lines into sections of the source file,
// each line surrounded by sectionContextLines lines of context.
// Sections that touch or overlap are merged.
func violationSections(lines []int, contents []string) []*ViolationSection {
	sorted := make([]int, 0, len(lines))
	for _, l := range lines {
		if l >= 1 && l <= len(contents) {
			sorted = append(sorted, l)
		}
	}
	sort.Ints(sorted)

	var (
		result  []*ViolationSection
		current *ViolationSection
	)
	for _, l := range sorted {
		start := max(1, l-sectionContextLines)
		end := min(len(contents), l+sectionContextLines)
		if current != nil && start <= current.EndLine+1 {
			current.EndLine = max(current.EndLine, end)
			current.ViolationLines = append(current.ViolationLines, l)
			continue
		}
		current = &ViolationSection{StartLine: start, EndLine: end, ViolationLines: []int{l}}
		result = append(result, current)
	}

	for _, section := range result {
		section.Contents = append([]string(nil), contents[section.StartLine-1:section.EndLine]...)
	}
	return result
}
