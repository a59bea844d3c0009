package sensor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzerError(t *testing.T) {
	assertion := assert.New(t)

	err := WrapError(assert.AnError, "execute failed")
	assertion.EqualErrorf(err, assert.AnError.Error(), "error string")
	assertion.Equalf(GeneralErrorExitCode, err.ExitCode, "general error exit code")
	assertion.Equalf("execute failed", err.ErrMessage, "error message")

	err = WrapErrorWithCode(assert.AnError, LowCoverageErrorExitCode, "coverage is too low")
	assertion.EqualErrorf(err, assert.AnError.Error(), "error string")
	assertion.Equalf(LowCoverageErrorExitCode, err.ExitCode, "low coverage exit code")
	assertion.Equalf("coverage is too low", err.ErrMessage, "error message")

	var target *AnalyzerError
	wrapped := error(WrapErrorWithCode(assert.AnError, ReportFailureErrorExitCode, "report failure"))
	assertion.True(errors.As(wrapped, &target))
	assertion.Equal(ReportFailureErrorExitCode, target.ExitCode)
	assertion.ErrorIs(wrapped, assert.AnError)
}
