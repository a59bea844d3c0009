package cobertura

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	testSuites := []struct {
		input  string
		expect int
		err    bool
	}{
		{input: "0", expect: 0},
		{input: "42", expect: 42},
		{input: " 7 ", expect: 7},
		{input: "-3", expect: -3},
		{input: "", err: true},
		{input: "1,000", err: true},
		{input: "1.5", err: true},
		{input: "ten", err: true},
	}

	for _, testCase := range testSuites {
		actual, err := ParseInt(testCase.input, Location{Element: "line", Attribute: "number"})
		if testCase.err {
			assert.ErrorIsf(t, err, ErrMalformedReport, "ParseInt(%q)", testCase.input)
			continue
		}
		require.NoErrorf(t, err, "ParseInt(%q)", testCase.input)
		assert.Equalf(t, testCase.expect, actual, "ParseInt(%q)", testCase.input)
	}
}

func TestParseNumber(t *testing.T) {
	testSuites := []struct {
		input  string
		expect float64
		err    bool
	}{
		{input: "5", expect: 5},
		{input: "5.0", expect: 5},
		{input: "0.25", expect: 0.25},
		{input: "1e3", expect: 1000},
		{input: "1,5", err: true},
		{input: "1,000.0", err: true},
		{input: "NaN", err: true},
		{input: "Inf", err: true},
		{input: "0x10", err: true},
		{input: "abc", err: true},
	}

	for _, testCase := range testSuites {
		actual, err := ParseNumber(testCase.input, Location{})
		if testCase.err {
			assert.ErrorIsf(t, err, ErrMalformedReport, "ParseNumber(%q)", testCase.input)
			continue
		}
		require.NoErrorf(t, err, "ParseNumber(%q)", testCase.input)
		assert.Equalf(t, testCase.expect, actual, "ParseNumber(%q)", testCase.input)
	}
}

func TestReportError(t *testing.T) {
	_, err := ParseInt("x1", Location{Element: "line", Attribute: "hits", Line: 12})
	require.Error(t, err)

	var reportErr *ReportError
	require.True(t, errors.As(err, &reportErr))
	assert.Equal(t, "x1", reportErr.Value)
	assert.Equal(t, 12, reportErr.Location.Line)
	assert.True(t, errors.Is(err, ErrMalformedReport))
	assert.False(t, errors.Is(err, ErrStreamFailure))
	assert.Contains(t, err.Error(), "<line>@hits line 12")
}

func TestDecodeCondition(t *testing.T) {
	testSuites := []struct {
		input   string
		covered int
		total   int
	}{
		{input: "50% (1/2)", covered: 1, total: 2},
		{input: "0% (0/4)", covered: 0, total: 4},
		{input: "100% (2/2)", covered: 2, total: 2},
		{input: "(3/6)", covered: 3, total: 6},
		{input: "33% (1/3) (9/9)", covered: 1, total: 3},
	}

	for _, testCase := range testSuites {
		t.Run(testCase.input, func(t *testing.T) {
			covered, total, err := DecodeCondition(testCase.input, Location{})
			require.NoError(t, err)
			assert.Equal(t, testCase.covered, covered)
			assert.Equal(t, testCase.total, total)
		})
	}

	for _, input := range []string{
		"not-a-condition",
		"50% (1/2",
		"50% (1)",
		"50% (1/2/3)",
		"50% (a/2)",
		"50% (1/b)",
		"150% (3/2)",
		"50% (-1/2)",
	} {
		t.Run("malformed "+input, func(t *testing.T) {
			_, _, err := DecodeCondition(input, Location{})
			assert.ErrorIs(t, err, ErrMalformedReport)
		})
	}
}

func TestHasConditions(t *testing.T) {
	assert.True(t, hasConditions("true", "50% (1/2)"))
	assert.False(t, hasConditions("false", "50% (1/2)"))
	assert.False(t, hasConditions("True", "50% (1/2)"))
	assert.False(t, hasConditions("", "50% (1/2)"))
	assert.False(t, hasConditions("true", "   "))
	assert.False(t, hasConditions("true", ""))
}

func TestAccumulator(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		acc := NewAccumulator()
		assert.Equal(t, 0, acc.LinesToCover())
		assert.Equal(t, 0, acc.CoveredLines())
		assert.Equal(t, 0, acc.TotalConditions())
		assert.Empty(t, acc.HitsByLine())
	})

	t.Run("lines and conditions", func(t *testing.T) {
		acc := NewAccumulator()
		acc.RecordLine(3, 2)
		acc.RecordLine(1, 5)
		acc.RecordLine(2, 0)
		acc.RecordCondition(3, 2, 1)

		assert.Equal(t, 3, acc.LinesToCover())
		assert.Equal(t, 2, acc.CoveredLines())
		assert.Equal(t, 2, acc.TotalConditions())
		assert.Equal(t, 1, acc.CoveredConditions())
		assert.Equal(t, 1, acc.HitsByLine()[0].Line)
		assert.Equal(t, 3, acc.HitsByLine()[2].Line)
	})

	t.Run("overwrite per line", func(t *testing.T) {
		acc := NewAccumulator()
		acc.RecordLine(10, 0)
		acc.RecordLine(10, 4)
		acc.RecordCondition(10, 4, 1)
		acc.RecordCondition(10, 2, 2)

		assert.Equal(t, 1, acc.LinesToCover())
		assert.Equal(t, 1, acc.CoveredLines())
		assert.Equal(t, 2, acc.TotalConditions())
		assert.Equal(t, 2, acc.CoveredConditions())
	})

	t.Run("covered lines never exceed lines to cover", func(t *testing.T) {
		acc := NewAccumulator()
		for i := 0; i < 200; i++ {
			acc.RecordLine(i%37+1, i%3)
			assert.LessOrEqual(t, acc.CoveredLines(), acc.LinesToCover())
		}
	})

	t.Run("add skips conditions of statement lines", func(t *testing.T) {
		acc := NewAccumulator()
		acc.Add(Line{Number: 1, Hits: 1, Covered: 1, Total: 2})
		acc.Add(Line{Number: 2, Hits: 1, Branch: true, Covered: 1, Total: 2})
		assert.Equal(t, 2, acc.LinesToCover())
		assert.Equal(t, 2, acc.TotalConditions())
		assert.Len(t, acc.ConditionsByLine(), 1)
	})
}

func TestWalkerStates(t *testing.T) {
	assert.Equal(t, "InClass", stateInClass.String())
	assert.Equal(t, "Done", stateDone.String())
	assert.Equal(t, "walkState(42)", walkState(42).String())
	assert.True(t, strings.HasPrefix(stateStart.String(), "Start"))
}
