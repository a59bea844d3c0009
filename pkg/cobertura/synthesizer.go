package cobertura

import "github.com/Azure/swiftreport/pkg/measure"

// Synthesize derives the coverage measures of a finished accumulator.
//
// Files without lines produce nothing. Files with lines produce lines to cover,
// uncovered lines and the hits table. The four condition measures are added only
// when the file has at least one condition, so "no branches" stays distinguishable
// from "all branches covered".
func Synthesize(acc *Accumulator) []measure.Measure {
	linesToCover := acc.LinesToCover()
	if linesToCover == 0 {
		return nil
	}

	result := []measure.Measure{
		measure.NewIntMeasure(measure.LinesToCover, int64(linesToCover)),
		measure.NewIntMeasure(measure.UncoveredLines, int64(linesToCover-acc.CoveredLines())),
		measure.NewDataMeasure(measure.CoverageLineHitsData, measure.FormatLineValues(acc.HitsByLine())),
	}

	conditions := acc.TotalConditions()
	if conditions == 0 {
		return result
	}

	return append(result,
		measure.NewIntMeasure(measure.ConditionsToCover, int64(conditions)),
		measure.NewIntMeasure(measure.UncoveredConditions, int64(conditions-acc.CoveredConditions())),
		measure.NewDataMeasure(measure.ConditionsByLine, measure.FormatLineValues(acc.ConditionsByLine())),
		measure.NewDataMeasure(measure.CoveredConditionsByLine, measure.FormatLineValues(acc.CoveredConditionsByLine())),
	)
}
