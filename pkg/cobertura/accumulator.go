package cobertura

import (
	"sort"

	"github.com/Azure/swiftreport/pkg/measure"
)

// Line is one decoded <line> entry of a class.
type Line struct {
	Number int
	Hits   int
	Branch bool
	// Covered and Total are only meaningful when Branch is true.
	Covered int
	Total   int
}

// Accumulator gathers the coverage of one source file. Several <class> entries
// may reference the same file; their lines are merged with last write wins per line.
// It is not safe for concurrent use.
type Accumulator struct {
	hitsByLine              map[int]int
	conditionsByLine        map[int]int
	coveredConditionsByLine map[int]int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		hitsByLine:              make(map[int]int),
		conditionsByLine:        make(map[int]int),
		coveredConditionsByLine: make(map[int]int),
	}
}

// Add records a decoded line.
func (a *Accumulator) Add(l Line) {
	a.RecordLine(l.Number, l.Hits)
	if l.Branch {
		a.RecordCondition(l.Number, l.Total, l.Covered)
	}
}

// RecordLine sets the hit count of a line.
func (a *Accumulator) RecordLine(line, hits int) {
	a.hitsByLine[line] = hits
}

// RecordCondition sets the total and covered condition counts of a line.
func (a *Accumulator) RecordCondition(line, total, covered int) {
	a.conditionsByLine[line] = total
	a.coveredConditionsByLine[line] = covered
}

// LinesToCover returns the number of distinct lines recorded.
func (a *Accumulator) LinesToCover() int {
	return len(a.hitsByLine)
}

// CoveredLines returns the number of lines hit at least once.
func (a *Accumulator) CoveredLines() int {
	covered := 0
	for _, hits := range a.hitsByLine {
		if hits > 0 {
			covered++
		}
	}
	return covered
}

// TotalConditions returns the sum of the condition totals of all lines.
func (a *Accumulator) TotalConditions() int {
	return sum(a.conditionsByLine)
}

// CoveredConditions returns the sum of the covered conditions of all lines.
func (a *Accumulator) CoveredConditions() int {
	return sum(a.coveredConditionsByLine)
}

// HitsByLine returns the hits of every line, by ascending line number.
func (a *Accumulator) HitsByLine() []measure.LineValue {
	return sorted(a.hitsByLine)
}

// ConditionsByLine returns the conditions of every branch line, by ascending line number.
func (a *Accumulator) ConditionsByLine() []measure.LineValue {
	return sorted(a.conditionsByLine)
}

// CoveredConditionsByLine returns the covered conditions of every branch line, by ascending line number.
func (a *Accumulator) CoveredConditionsByLine() []measure.LineValue {
	return sorted(a.coveredConditionsByLine)
}

func sum(m map[int]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

func sorted(m map[int]int) []measure.LineValue {
	result := make([]measure.LineValue, 0, len(m))
	for line, v := range m {
		result = append(result, measure.LineValue{Line: line, Value: v})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Line < result[j].Line })
	return result
}
