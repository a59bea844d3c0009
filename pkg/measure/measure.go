package measure

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValueType describes how the value of a measure is encoded.
type ValueType int

const (
	Int ValueType = iota
	Millisec
	Percent
	Data
)

func (t ValueType) String() string {
	switch t {
	case Int:
		return "INT"
	case Millisec:
		return "MILLISEC"
	case Percent:
		return "PERCENT"
	case Data:
		return "DATA"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// Metric is the closed set of measures this module knows how to derive.
type Metric string

const (
	LinesToCover            Metric = "lines_to_cover"
	UncoveredLines          Metric = "uncovered_lines"
	CoverageLineHitsData    Metric = "coverage_line_hits_data"
	ConditionsToCover       Metric = "conditions_to_cover"
	UncoveredConditions     Metric = "uncovered_conditions"
	ConditionsByLine        Metric = "conditions_by_line"
	CoveredConditionsByLine Metric = "covered_conditions_by_line"

	Tests              Metric = "tests"
	SkippedTests       Metric = "skipped_tests"
	TestErrors         Metric = "test_errors"
	TestFailures       Metric = "test_failures"
	TestExecutionTime  Metric = "test_execution_time"
	TestSuccessDensity Metric = "test_success_density"
	TestData           Metric = "test_data"
)

type metricInfo struct {
	name      string
	valueType ValueType
}

var metrics = map[Metric]metricInfo{
	LinesToCover:            {"Lines to Cover", Int},
	UncoveredLines:          {"Uncovered Lines", Int},
	CoverageLineHitsData:    {"Coverage Hits by Line", Data},
	ConditionsToCover:       {"Branches to Cover", Int},
	UncoveredConditions:     {"Uncovered Conditions", Int},
	ConditionsByLine:        {"Conditions by Line", Data},
	CoveredConditionsByLine: {"Covered Conditions by Line", Data},

	Tests:              {"Unit Tests", Int},
	SkippedTests:       {"Skipped Unit Tests", Int},
	TestErrors:         {"Unit Test Errors", Int},
	TestFailures:       {"Unit Test Failures", Int},
	TestExecutionTime:  {"Unit Test Duration", Millisec},
	TestSuccessDensity: {"Unit Test Success (%)", Percent},
	TestData:           {"Unit Test Details", Data},
}

// Valid reports whether m belongs to the known metric set.
func (m Metric) Valid() bool {
	_, ok := metrics[m]
	return ok
}

// Name returns the display name of the metric.
func (m Metric) Name() string {
	if info, ok := metrics[m]; ok {
		return info.name
	}
	return string(m)
}

// ValueType returns the value encoding of the metric, Data for unknown metrics.
func (m Metric) ValueType() ValueType {
	if info, ok := metrics[m]; ok {
		return info.valueType
	}
	return Data
}

// Measure is a single value computed for a source file.
// Only the field matching Metric.ValueType() is meaningful.
type Measure struct {
	Metric Metric
	Int    int64
	Float  float64
	Data   string
}

func NewIntMeasure(metric Metric, value int64) Measure {
	return Measure{Metric: metric, Int: value}
}

func NewFloatMeasure(metric Metric, value float64) Measure {
	return Measure{Metric: metric, Float: value}
}

func NewDataMeasure(metric Metric, value string) Measure {
	return Measure{Metric: metric, Data: value}
}

// Value renders the measure value according to its value type.
func (m Measure) Value() string {
	switch m.Metric.ValueType() {
	case Int, Millisec:
		return strconv.FormatInt(m.Int, 10)
	case Percent:
		return strconv.FormatFloat(m.Float, 'f', 1, 64)
	default:
		return m.Data
	}
}

func (m Measure) String() string {
	return fmt.Sprintf("%s=%s", m.Metric, m.Value())
}

// LineValue associates a value with a source line number.
type LineValue struct {
	Line  int
	Value int
}

const (
	pairSeparator  = ";"
	fieldSeparator = "="
)

var ErrInvalidLineTable = errors.New("invalid line table")

// FormatLineValues serializes values as "line=value" pairs joined with ';',
// ordered by ascending line number.
func FormatLineValues(values []LineValue) string {
	sorted := make([]LineValue, len(values))
	copy(sorted, values)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Line < sorted[j].Line })

	var b strings.Builder
	for i, v := range sorted {
		if i > 0 {
			b.WriteString(pairSeparator)
		}
		b.WriteString(strconv.Itoa(v.Line))
		b.WriteString(fieldSeparator)
		b.WriteString(strconv.Itoa(v.Value))
	}
	return b.String()
}

// ParseLineValues is the inverse of FormatLineValues.
func ParseLineValues(s string) ([]LineValue, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var result []LineValue
	for _, pair := range strings.Split(s, pairSeparator) {
		tokens := strings.Split(pair, fieldSeparator)
		if len(tokens) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLineTable, pair)
		}
		line, err := strconv.Atoi(tokens[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %q", ErrInvalidLineTable, tokens[0])
		}
		value, err := strconv.Atoi(tokens[1])
		if err != nil {
			return nil, fmt.Errorf("%w: value %q", ErrInvalidLineTable, tokens[1])
		}
		result = append(result, LineValue{Line: line, Value: value})
	}
	return result, nil
}
