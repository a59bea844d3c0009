package cobertura

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedReport is returned when the report cannot be decoded.
	// The whole report is rejected.
	ErrMalformedReport = errors.New("malformed coverage report")
	// ErrStreamFailure is returned when reading the report stream fails.
	ErrStreamFailure = errors.New("coverage report stream failure")
)

// Location points at the element of the report that is being decoded.
type Location struct {
	Element   string
	Attribute string
	Line      int
}

func (l Location) String() string {
	var parts []string
	if l.Element != "" {
		element := "<" + l.Element + ">"
		if l.Attribute != "" {
			element += "@" + l.Attribute
		}
		parts = append(parts, element)
	}
	if l.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", l.Line))
	}
	return strings.Join(parts, " ")
}

// ReportError carries the detail of a report decoding failure.
// errors.Is matches its Kind, errors.As exposes the location.
type ReportError struct {
	Kind     error
	Value    string
	Location Location
	Err      error
}

func malformed(value string, loc Location, format string, args ...interface{}) *ReportError {
	return &ReportError{
		Kind:     ErrMalformedReport,
		Value:    value,
		Location: loc,
		Err:      fmt.Errorf(format, args...),
	}
}

func (e *ReportError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if loc := e.Location.String(); loc != "" {
		b.WriteString(" at ")
		b.WriteString(loc)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

func (e *ReportError) Is(target error) bool {
	return target == e.Kind
}
