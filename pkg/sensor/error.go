package sensor

const (
	GeneralErrorExitCode       = 1  // bash general error exit code
	LowCoverageErrorExitCode   = 12 // coverage is lower than the coverage baseline exit code
	ReportFailureErrorExitCode = 13 // at least one report could not be imported exit code
)

// AnalyzerError carries the detail error information for an analysis error
type AnalyzerError struct {
	ExitCode   int
	Err        error
	ErrMessage string
}

func WrapErrorWithCode(err error, exitCode int, errMessage string) *AnalyzerError {
	return &AnalyzerError{
		ExitCode:   exitCode,
		Err:        err,
		ErrMessage: errMessage,
	}
}

func WrapError(err error, errMessage string) *AnalyzerError {
	return WrapErrorWithCode(err, GeneralErrorExitCode, errMessage)
}

func (e *AnalyzerError) Error() string {
	return e.Err.Error()
}

func (e *AnalyzerError) Unwrap() error {
	return e.Err
}
