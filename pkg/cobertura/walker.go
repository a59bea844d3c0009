package cobertura

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

const (
	elementPackage = "package"
	elementClass   = "class"
	elementLines   = "lines"
	elementLine    = "line"

	attrFilename          = "filename"
	attrNumber            = "number"
	attrHits              = "hits"
	attrBranch            = "branch"
	attrConditionCoverage = "condition-coverage"
)

// Coverage is the result of walking one report: one Accumulator per filename.
type Coverage struct {
	files        []string
	accumulators map[string]*Accumulator
}

func newCoverage() *Coverage {
	return &Coverage{accumulators: make(map[string]*Accumulator)}
}

// Files returns the filenames in the order they first appeared in the report.
func (c *Coverage) Files() []string {
	result := make([]string, len(c.files))
	copy(result, c.files)
	return result
}

// Accumulator returns the accumulator of filename, nil if the report never mentioned it.
func (c *Coverage) Accumulator(filename string) *Accumulator {
	return c.accumulators[filename]
}

func (c *Coverage) Len() int {
	return len(c.files)
}

func (c *Coverage) accumulator(filename string) *Accumulator {
	acc, ok := c.accumulators[filename]
	if !ok {
		acc = NewAccumulator()
		c.accumulators[filename] = acc
		c.files = append(c.files, filename)
	}
	return acc
}

type walkState int

const (
	stateStart walkState = iota
	stateInReport
	stateInPackage
	stateInClass
	stateInLines
	stateInLine
	stateDone
)

var stateNames = [...]string{"Start", "InReport", "InPackage", "InClass", "InLines", "InLine", "Done"}

func (s walkState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("walkState(%d)", int(s))
}

type frame struct {
	state walkState
	depth int
}

// walker drives the pull based traversal report -> package -> class -> lines -> line.
// Each frame remembers the element depth that opened it, so elements the walker
// does not know about are either descended (looking for packages and classes)
// or skipped entirely (anything inside a class other than its direct <lines>).
type walker struct {
	source   *sourceReader
	decoder  *xml.Decoder
	coverage *Coverage
	stack    []frame
	depth    int
	done     bool
	current  *Accumulator
}

// Walk streams a Cobertura report once and accumulates line and condition data
// per class filename. Nothing is returned when the document is not fully valid.
func Walk(r io.Reader) (*Coverage, error) {
	source := &sourceReader{r: r}
	decoder := xml.NewDecoder(source)
	decoder.CharsetReader = charset.NewReaderLabel
	w := &walker{
		source:   source,
		decoder:  decoder,
		coverage: newCoverage(),
	}
	if err := w.run(); err != nil {
		return nil, err
	}
	return w.coverage, nil
}

func (w *walker) state() walkState {
	if w.done {
		return stateDone
	}
	if len(w.stack) == 0 {
		return stateStart
	}
	return w.stack[len(w.stack)-1].state
}

func (w *walker) push(s walkState) {
	w.stack = append(w.stack, frame{state: s, depth: w.depth})
}

func (w *walker) run() error {
	for {
		tok, err := w.decoder.Token()
		if errors.Is(err, io.EOF) {
			if !w.done {
				return w.malformed("", "", "unexpected end of document in state %s", w.state())
			}
			return nil
		}
		if err != nil {
			return w.tokenError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := w.start(t); err != nil {
				return err
			}
		case xml.EndElement:
			w.end()
		}
	}
}

func (w *walker) start(t xml.StartElement) error {
	name := t.Name.Local

	switch w.state() {
	case stateStart:
		w.depth++
		w.push(stateInReport)
		return nil

	case stateDone:
		return w.malformed(name, "", "element after the document root")

	case stateInReport:
		w.depth++
		if name == elementPackage {
			w.push(stateInPackage)
		}
		return nil

	case stateInPackage:
		w.depth++
		if name == elementClass {
			filename, ok := attr(t, attrFilename)
			if !ok || filename == "" {
				return w.malformed(name, attrFilename, "class without filename")
			}
			w.current = w.coverage.accumulator(filename)
			w.push(stateInClass)
		}
		return nil

	case stateInClass:
		// only the direct <lines> of a class; <methods> repeat the same lines
		if name == elementLines && w.stack[len(w.stack)-1].depth == w.depth {
			w.depth++
			w.push(stateInLines)
			return nil
		}
		return w.skip()

	case stateInLines:
		if name != elementLine {
			return w.skip()
		}
		line, err := w.decodeLine(t)
		if err != nil {
			return err
		}
		w.current.Add(line)
		w.depth++
		w.push(stateInLine)
		return nil

	default:
		return w.skip()
	}
}

func (w *walker) end() {
	if n := len(w.stack); n > 0 && w.stack[n-1].depth == w.depth {
		popped := w.stack[n-1].state
		w.stack = w.stack[:n-1]
		switch popped {
		case stateInClass:
			w.current = nil
		case stateInReport:
			w.done = true
		}
	}
	w.depth--
}

func (w *walker) skip() error {
	if err := w.decoder.Skip(); err != nil {
		if errors.Is(err, io.EOF) {
			return w.malformed("", "", "unexpected end of document in state %s", w.state())
		}
		return w.tokenError(err)
	}
	return nil
}

func (w *walker) decodeLine(t xml.StartElement) (Line, error) {
	var l Line

	number, ok := attr(t, attrNumber)
	if !ok {
		return l, w.malformed(elementLine, attrNumber, "missing attribute")
	}
	n, err := ParseInt(number, w.location(elementLine, attrNumber))
	if err != nil {
		return l, err
	}
	if n < 1 {
		return l, malformed(number, w.location(elementLine, attrNumber), "line number %d must be positive", n)
	}
	l.Number = n

	hits, ok := attr(t, attrHits)
	if !ok {
		return l, w.malformed(elementLine, attrHits, "missing attribute")
	}
	if l.Hits, err = parseCount(hits, w.location(elementLine, attrHits)); err != nil {
		return l, err
	}

	branch, _ := attr(t, attrBranch)
	text, _ := attr(t, attrConditionCoverage)
	if hasConditions(branch, text) {
		l.Covered, l.Total, err = DecodeCondition(text, w.location(elementLine, attrConditionCoverage))
		if err != nil {
			return l, err
		}
		l.Branch = true
	}
	return l, nil
}

func (w *walker) location(element, attribute string) Location {
	line, _ := w.decoder.InputPos()
	return Location{Element: element, Attribute: attribute, Line: line}
}

func (w *walker) malformed(element, attribute, format string, args ...interface{}) error {
	return malformed("", w.location(element, attribute), format, args...)
}

// tokenError reports read failures of the underlying stream as ErrStreamFailure,
// any other decoding error as ErrMalformedReport.
func (w *walker) tokenError(err error) error {
	line, _ := w.decoder.InputPos()
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		line = syntaxErr.Line
	}

	kind := ErrMalformedReport
	if w.source.err != nil {
		kind = ErrStreamFailure
	}
	return &ReportError{
		Kind:     kind,
		Location: Location{Line: line},
		Err:      err,
	}
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

func attr(t xml.StartElement, name string) (string, bool) {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
