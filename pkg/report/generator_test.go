package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Azure/swiftreport/pkg/measure"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func sampleStatistics() *Statistics {
	return &Statistics{
		ProjectName:          "App",
		Revision:             "0123abcd",
		TotalLines:           30,
		TotalCoveredLines:    28,
		TotalViolationLines:  2,
		TotalCoveragePercent: 93.33,
		Tests:                3,
		TotalIssues:          1,
		CoverageProfile: []*CoverageProfile{
			{
				FileName:     "Sources/Foo.swift",
				Type:         "MAIN",
				TotalLines:   20,
				CoveredLines: 20,
			},
			{
				FileName:            "Sources/Bar.swift",
				Type:                "MAIN",
				TotalLines:          10,
				CoveredLines:        8,
				TotalViolationLines: []int{2, 10},
				ViolationSections: []*ViolationSection{
					{
						ViolationLines: []int{2},
						StartLine:      1,
						EndLine:        3,
						Contents:       []string{"import Foundation", "let bar = 1", "let zoo = 2"},
					},
					{
						ViolationLines: []int{10},
						StartLine:      8,
						EndLine:        10,
						Contents:       []string{"func text1() {}", "func text2() {}", "func text3() {}"},
					},
				},
				Issues: []measure.Issue{{
					Repository: "swiftlint",
					Rule:       "force_cast",
					File:       "Sources/Bar.swift",
					Line:       3,
					Severity:   measure.SeverityError,
					Message:    "Force casts should be avoided.",
				}},
			},
		},
	}
}

func TestNewGenerator(t *testing.T) {
	for _, format := range Formats {
		g, err := NewGenerator(GeneratorOption{Format: format, Style: "colorful", Logger: quietLogger()})
		assert.NoError(t, err, format)
		assert.NotNil(t, g, format)
	}

	_, err := NewGenerator(GeneratorOption{Format: "pdf"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestGenerateReport(t *testing.T) {
	t.Run("no measures", func(t *testing.T) {
		dir := t.TempDir()
		g := NewReportGenerator("colorful", dir, "analysis", quietLogger())

		require.NoError(t, g.GenerateReport(&Statistics{ProjectName: "App"}))

		data, err := os.ReadFile(filepath.Join(dir, "analysis.html"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "No measures were imported for this project.")
		assert.Contains(t, string(data), "App Analysis")
	})

	t.Run("have coverage profiles", func(t *testing.T) {
		dir := t.TempDir()
		g := NewReportGenerator("colorful", dir, "analysis", quietLogger())

		require.NoError(t, g.GenerateReport(sampleStatistics()))

		data, err := os.ReadFile(filepath.Join(dir, "analysis.html"))
		require.NoError(t, err)

		reportString := string(data)
		for _, v := range []string{"0123abcd", "Foundation", "bar", "zoo", "text1", "text3", "Sources/Foo.swift", "Sources/Bar.swift", "swiftlint:force_cast", "Uncovered lines: 2,10"} {
			assert.Contains(t, reportString, v)
		}
	})
}

func TestProcessCodeSnippets(t *testing.T) {
	statistics := sampleStatistics()
	g := &htmlReportGenerator{
		lexer: lexers.Get(CodeLanguage),
		style: styles.Get("colorful"),
	}

	require.NoError(t, g.processCodeSnippets(statistics))
	assert.Empty(t, statistics.CoverageProfile[0].CodeSnippet, "fully covered file")
	assert.Len(t, statistics.CoverageProfile[1].CodeSnippet, 2)

	require.NoError(t, g.processCodeSnippets(statistics))
	assert.Len(t, statistics.CoverageProfile[1].CodeSnippet, 2, "snippets are rebuilt, not appended")
}

func TestStructuredReport(t *testing.T) {
	dir := t.TempDir()

	g, err := NewGenerator(GeneratorOption{Format: JSONFormat, OutputDir: dir, ReportName: "analysis", Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, g.GenerateReport(sampleStatistics()))

	data, err := os.ReadFile(filepath.Join(dir, "analysis.json"))
	require.NoError(t, err)
	var decoded Statistics
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "App", decoded.ProjectName)
	require.Len(t, decoded.CoverageProfile, 2)
	assert.Equal(t, []int{2, 10}, decoded.CoverageProfile[1].TotalViolationLines)
	assert.Empty(t, decoded.CoverageProfile[1].ViolationSections)

	g, err = NewGenerator(GeneratorOption{Format: YAMLFormat, OutputDir: dir, ReportName: "analysis", Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, g.GenerateReport(sampleStatistics()))

	data, err = os.ReadFile(filepath.Join(dir, "analysis.yaml"))
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "0123abcd", doc["revision"])
	assert.Equal(t, 30, doc["totalLines"])
}

func TestIntsJoin(t *testing.T) {
	testSuites := []struct {
		expected string
		input    []int
	}{
		{input: []int{}, expected: ""},
		{input: []int{1}, expected: "1"},
		{input: []int{1, 2, 3}, expected: "1,2,3"},
	}

	for _, testCase := range testSuites {
		assert.Equal(t, testCase.expected, intsJoin(testCase.input))
	}
}

func TestFinalName(t *testing.T) {
	assert.Equal(t, "a.html", finalName("a", HTMLFormat))
	assert.Equal(t, "a.md", finalName("a", MarkdownFormat))
	assert.Equal(t, "a.json", finalName("a", JSONFormat))
	assert.Equal(t, "a.yaml", finalName("a", YAMLFormat))
}

func TestNormalizeLines(t *testing.T) {
	assert.Equal(t, "1 line", normalizeLines(1))
	assert.Equal(t, "2 lines", normalizeLines(2))
	assert.Equal(t, "0 line", normalizeLines(0))
}

func TestPercentCovered(t *testing.T) {
	testSuites := []struct {
		expected float64
		total    int
		covered  int
	}{
		{expected: 100.0, total: 10, covered: 10},
		{expected: 50.0, total: 10, covered: 5},
		{expected: 0.0, total: 10, covered: 0},
		{expected: 100.0, total: 0, covered: 0},
		{expected: 66.67, total: 3, covered: 2},
	}

	for _, testCase := range testSuites {
		assert.Equal(t, testCase.expected, percentCovered(testCase.total, testCase.covered))
	}
}
