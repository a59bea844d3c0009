package sensor

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/swiftreport/pkg/dbclient"
	"github.com/Azure/swiftreport/pkg/measure"
	"github.com/Azure/swiftreport/pkg/report"
	"github.com/sirupsen/logrus"
)

// calculateCoverage calculate coverage proportion
func calculateCoverage(covered int64, effectived int64) float64 {
	if effectived == 0 {
		return 100.0
	}
	return float64(covered) / float64(effectived) * 100
}

// store sends every numeric measure of the analyzed files to the db.
// Line tables and test details are not stored.
func store(ctx context.Context, dbClient dbclient.DbClient, source report.MeasureSource, projectName, revision string) error {
	now := time.Now().UTC()
	for _, file := range source.Files() {
		for _, m := range source.Measures(file.Path) {
			valueType := m.Metric.ValueType()
			if valueType == measure.Data {
				continue
			}

			err := dbClient.Store(ctx, &dbclient.Data{
				PreciseTimestamp: now,
				ProjectName:      projectName,
				Revision:         revision,
				FilePath:         file.Path,
				FileType:         file.Type.String(),
				Metric:           string(m.Metric),
				ValueType:        valueType.String(),
				Value:            m.Value(),
				NumericValue:     numericValue(m),
			})
			if err != nil {
				return fmt.Errorf("store data: %w", err)
			}
		}
	}

	return nil
}

func numericValue(m measure.Measure) float64 {
	if m.Metric.ValueType() == measure.Percent {
		return m.Float
	}
	return float64(m.Int)
}

// dump outputs the coverage of every directory and file
func dump(tree report.CoverageTree, logger logrus.FieldLogger) {
	logger.Debug("Summary of coverage:")

	for _, info := range tree.All() {
		path := info.Path
		if path == "" {
			path = "."
		}
		logger.Debugf("%s %d %d %d %.1f%%",
			path,
			info.TotalLines,
			info.TotalCoveredLines,
			info.TotalIssues,
			calculateCoverage(info.TotalCoveredLines, info.TotalLines),
		)
	}
}
