package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// WriteSummary writes a table with one row per analyzed file and the project totals.
func WriteSummary(w io.Writer, statistics *Statistics) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Coverage", "Lines", "Conditions", "Tests", "Issues"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, p := range statistics.CoverageProfile {
		coverage, lines, conditions, tests := "-", "-", "-", "-"
		if p.HasCoverage() {
			coverage = fmt.Sprintf("%.1f%%", percentCovered(p.TotalLines, p.CoveredLines))
			lines = fmt.Sprintf("%d/%d", p.CoveredLines, p.TotalLines)
		}
		if p.TotalConditions > 0 {
			conditions = fmt.Sprintf("%d/%d", p.CoveredConditions, p.TotalConditions)
		}
		if p.Tests > 0 || p.SkippedTests > 0 {
			tests = fmt.Sprintf("%d (%d failed)", p.Tests, p.TestFailures+p.TestErrors)
		}
		table.Append([]string{p.FileName, coverage, lines, conditions, tests, strconv.Itoa(len(p.Issues))})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(statistics.CoverageProfile)),
		fmt.Sprintf("%.1f%%", statistics.TotalCoveragePercent),
		fmt.Sprintf("%d/%d", statistics.TotalCoveredLines, statistics.TotalLines),
		fmt.Sprintf("%d/%d", statistics.TotalCoveredConditions, statistics.TotalConditions),
		strconv.Itoa(statistics.Tests),
		strconv.Itoa(statistics.TotalIssues),
	})

	table.Render()
}
