package surefire

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

var ErrMalformedReport = errors.New("malformed test report")

type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailure Status = "failure"
	StatusError   Status = "error"
)

// TestCase is the outcome of one test.
type TestCase struct {
	Name       string
	Status     Status
	TimeMS     int64
	Message    string
	StackTrace string
}

// ClassReport aggregates the test cases of one test class.
type ClassReport struct {
	ClassKey string
	Tests    int
	Skipped  int
	Errors   int
	Failures int
	TimeMS   int64
	Details  []TestCase
}

func (r *ClassReport) Valid() bool {
	return r.ClassKey != ""
}

func (r *ClassReport) add(tc TestCase) {
	r.Tests++
	r.TimeMS += tc.TimeMS
	switch tc.Status {
	case StatusSkipped:
		r.Skipped++
	case StatusFailure:
		r.Failures++
	case StatusError:
		r.Errors++
	}
	r.Details = append(r.Details, tc)
}

// Executed returns the number of tests that ran.
func (r *ClassReport) Executed() int {
	return r.Tests - r.Skipped
}

// SuccessDensity returns the percentage of executed tests that passed.
func (r *ClassReport) SuccessDensity() (float64, bool) {
	executed := r.Executed()
	if executed <= 0 {
		return 0, false
	}
	passed := executed - r.Errors - r.Failures
	return float64(passed) * 100 / float64(executed), true
}

// DetailsXML serializes the test cases as a <tests-details> document.
func (r *ClassReport) DetailsXML() string {
	var b bytes.Buffer
	b.WriteString("<tests-details>")
	for _, d := range r.Details {
		fmt.Fprintf(&b, `<testcase status="%s" time="%d" name="%s"`, d.Status, d.TimeMS, escape(d.Name))
		if d.Status != StatusError && d.Status != StatusFailure {
			b.WriteString("/>")
			continue
		}
		fmt.Fprintf(&b, `><%s message="%s">%s</%s></testcase>`, d.Status, escape(d.Message), escape(d.StackTrace), d.Status)
	}
	b.WriteString("</tests-details>")
	return b.String()
}

func escape(s string) string {
	var b bytes.Buffer
	// xml.EscapeText only fails when the writer does
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

type problem struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

type testCaseElement struct {
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr"`
	Time      string   `xml:"time,attr"`
	Skipped   *problem `xml:"skipped"`
	Failure   *problem `xml:"failure"`
	Error     *problem `xml:"error"`
}

// Parse streams a JUnit report and groups its test cases by class.
// The class of a test case is its classname, or the enclosing suite name.
// Reports are returned in the order their class first appears.
func Parse(r io.Reader) ([]*ClassReport, error) {
	source := &sourceReader{r: r}
	decoder := xml.NewDecoder(source)
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		reports []*ClassReport
		byClass = make(map[string]*ClassReport)
		suites  []string
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return reports, nil
		}
		if err != nil {
			return nil, source.classify(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "testsuite":
				suites = append(suites, attr(t, "name"))
			case "testcase":
				var element testCaseElement
				if err := decoder.DecodeElement(&element, &t); err != nil {
					return nil, fmt.Errorf("testcase: %w", source.classify(err))
				}
				tc, err := element.testCase()
				if err != nil {
					return nil, err
				}

				classKey := element.ClassName
				if classKey == "" && len(suites) > 0 {
					classKey = suites[len(suites)-1]
				}
				report, ok := byClass[classKey]
				if !ok {
					report = &ClassReport{ClassKey: classKey}
					byClass[classKey] = report
					reports = append(reports, report)
				}
				report.add(tc)
			}
		case xml.EndElement:
			if t.Name.Local == "testsuite" && len(suites) > 0 {
				suites = suites[:len(suites)-1]
			}
		}
	}
}

func (e testCaseElement) testCase() (TestCase, error) {
	tc := TestCase{Name: e.Name, Status: StatusOK}

	if t := strings.TrimSpace(e.Time); t != "" {
		seconds, err := strconv.ParseFloat(strings.ReplaceAll(t, ",", ""), 64)
		if err != nil || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return tc, fmt.Errorf("%w: testcase %q: invalid time %q", ErrMalformedReport, e.Name, e.Time)
		}
		tc.TimeMS = int64(math.Round(seconds * 1000))
	}

	switch {
	case e.Error != nil:
		tc.Status = StatusError
		tc.Message, tc.StackTrace = e.Error.Message, strings.TrimSpace(e.Error.Text)
	case e.Failure != nil:
		tc.Status = StatusFailure
		tc.Message, tc.StackTrace = e.Failure.Message, strings.TrimSpace(e.Failure.Text)
	case e.Skipped != nil:
		tc.Status = StatusSkipped
	}
	return tc, nil
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// sourceReader records the last read error of the report stream.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		s.err = err
	}
	return n, err
}

// classify returns read failures as is and any other decoding error as ErrMalformedReport.
func (s *sourceReader) classify(err error) error {
	if s.err != nil {
		return fmt.Errorf("read test report: %w", err)
	}
	return fmt.Errorf("%w: %s", ErrMalformedReport, err)
}
