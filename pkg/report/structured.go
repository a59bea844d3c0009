package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// structuredReportGenerator writes the statistics as a json or yaml document
// for consumption by other tools.
type structuredReportGenerator struct {
	format     Format
	outputPath string
	reportName string
	logger     logrus.FieldLogger
}

var _ ReportGenerator = (*structuredReportGenerator)(nil)

func (g *structuredReportGenerator) GenerateReport(statistics *Statistics) error {
	reportFile := filepath.Join(g.outputPath, finalName(g.reportName, g.format))
	f, err := os.Create(reportFile)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, g.format, statistics); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	g.logger.Debugf("generate %s report to %s", g.format, reportFile)
	return nil
}

// Encode writes statistics to w in the json or yaml format.
func Encode(w io.Writer, format Format, statistics *Statistics) error {
	switch format {
	case JSONFormat:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(statistics)
	case YAMLFormat:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(statistics); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
