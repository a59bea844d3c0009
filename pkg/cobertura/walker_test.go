package cobertura

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fooReport = `<?xml version="1.0" ?>
<!DOCTYPE coverage SYSTEM "http://cobertura.sourceforge.net/xml/coverage-04.dtd">
<coverage line-rate="0.66" branch-rate="0.5" version="1.9" timestamp="1458300000">
  <sources>
    <source>/Users/ci/project</source>
  </sources>
  <packages>
    <package name="Sources" line-rate="0.66" branch-rate="0.5" complexity="0.0">
      <classes>
        <class name="Foo" filename="Foo.swift" line-rate="0.66" branch-rate="0.5" complexity="0.0">
          <methods>
            <method name="bar" signature="()V">
              <lines>
                <line number="99" hits="1"/>
              </lines>
            </method>
          </methods>
          <lines>
            <line number="1" hits="5" branch="false"/>
            <line number="2" hits="0"/>
            <line number="3" hits="2" branch="true" condition-coverage="50% (1/2)">
              <conditions>
                <condition number="0" type="jump" coverage="50%"/>
              </conditions>
            </line>
          </lines>
        </class>
      </classes>
    </package>
  </packages>
</coverage>
`

func TestWalk(t *testing.T) {
	t.Run("one package one class", func(t *testing.T) {
		coverage, err := Walk(strings.NewReader(fooReport))
		require.NoError(t, err)
		require.Equal(t, []string{"Foo.swift"}, coverage.Files())

		acc := coverage.Accumulator("Foo.swift")
		require.NotNil(t, acc)
		assert.Equal(t, 3, acc.LinesToCover())
		assert.Equal(t, 2, acc.CoveredLines())
		assert.Equal(t, 2, acc.TotalConditions())
		assert.Equal(t, 1, acc.CoveredConditions())
		assert.Nil(t, coverage.Accumulator("Bar.swift"))
	})

	t.Run("method lines are ignored", func(t *testing.T) {
		coverage, err := Walk(strings.NewReader(fooReport))
		require.NoError(t, err)
		for _, v := range coverage.Accumulator("Foo.swift").HitsByLine() {
			assert.NotEqual(t, 99, v.Line)
		}
	})

	t.Run("classes with the same filename merge", func(t *testing.T) {
		report := `<coverage>
  <packages>
    <package name="a">
      <classes>
        <class name="Foo" filename="Sources/Foo.swift">
          <lines><line number="10" hits="1"/></lines>
        </class>
      </classes>
    </package>
    <package name="b">
      <classes>
        <class name="FooExtension" filename="Sources/Foo.swift">
          <lines><line number="20" hits="0"/></lines>
        </class>
        <class name="Bar" filename="Sources/Bar.swift">
          <lines><line number="1" hits="1"/></lines>
        </class>
      </classes>
    </package>
  </packages>
</coverage>`
		coverage, err := Walk(strings.NewReader(report))
		require.NoError(t, err)
		assert.Equal(t, []string{"Sources/Foo.swift", "Sources/Bar.swift"}, coverage.Files())

		acc := coverage.Accumulator("Sources/Foo.swift")
		assert.Equal(t, 2, acc.LinesToCover())
		assert.Equal(t, 1, acc.CoveredLines())
	})

	t.Run("same line in two classes keeps the last write", func(t *testing.T) {
		report := `<coverage><packages><package>
  <class filename="Foo.swift"><lines><line number="4" hits="3"/></lines></class>
  <class filename="Foo.swift"><lines><line number="4" hits="0"/></lines></class>
</package></packages></coverage>`
		coverage, err := Walk(strings.NewReader(report))
		require.NoError(t, err)

		acc := coverage.Accumulator("Foo.swift")
		assert.Equal(t, 1, acc.LinesToCover())
		assert.Equal(t, 0, acc.CoveredLines())
	})

	t.Run("partial branch data is a statement line", func(t *testing.T) {
		report := `<coverage><packages><package><classes>
  <class filename="Foo.swift"><lines>
    <line number="1" hits="1" branch="false" condition-coverage="50% (1/2)"/>
    <line number="2" hits="1" branch="true" condition-coverage=""/>
    <line number="3" hits="1" branch="true"/>
  </lines></class>
</classes></package></packages></coverage>`
		coverage, err := Walk(strings.NewReader(report))
		require.NoError(t, err)

		acc := coverage.Accumulator("Foo.swift")
		assert.Equal(t, 3, acc.LinesToCover())
		assert.Equal(t, 0, acc.TotalConditions())
	})

	t.Run("zero packages", func(t *testing.T) {
		for _, report := range []string{
			`<coverage/>`,
			`<coverage><packages></packages></coverage>`,
			`<coverage><packages><package name="empty"><classes/></package></packages></coverage>`,
		} {
			coverage, err := Walk(strings.NewReader(report))
			require.NoError(t, err, report)
			assert.Equal(t, 0, coverage.Len(), report)
		}
	})

	t.Run("class without lines is still known", func(t *testing.T) {
		coverage, err := Walk(strings.NewReader(`<coverage><package><class filename="A.swift"/></package></coverage>`))
		require.NoError(t, err)
		assert.Equal(t, []string{"A.swift"}, coverage.Files())
		assert.Equal(t, 0, coverage.Accumulator("A.swift").LinesToCover())
	})
}

func TestWalkMalformed(t *testing.T) {
	testSuites := []struct {
		name   string
		report string
	}{
		{name: "empty document", report: ""},
		{name: "only whitespace", report: "   \n"},
		{name: "truncated", report: `<coverage><packages><package><class filename="Foo.swift"><lines><line number="1" hits="1"/>`},
		{name: "syntax error", report: `<coverage><package></coverage>`},
		{name: "bad condition", report: `<coverage><package><class filename="F.swift"><lines><line number="1" hits="1" branch="true" condition-coverage="not-a-condition"/></lines></class></package></coverage>`},
		{name: "bad hits", report: `<coverage><package><class filename="F.swift"><lines><line number="1" hits="1,5"/></lines></class></package></coverage>`},
		{name: "negative hits", report: `<coverage><package><class filename="F.swift"><lines><line number="1" hits="-1"/></lines></class></package></coverage>`},
		{name: "bad number", report: `<coverage><package><class filename="F.swift"><lines><line number="x" hits="1"/></lines></class></package></coverage>`},
		{name: "zero line number", report: `<coverage><package><class filename="F.swift"><lines><line number="0" hits="1"/></lines></class></package></coverage>`},
		{name: "missing hits", report: `<coverage><package><class filename="F.swift"><lines><line number="1"/></lines></class></package></coverage>`},
		{name: "missing number", report: `<coverage><package><class filename="F.swift"><lines><line hits="1"/></lines></class></package></coverage>`},
		{name: "missing filename", report: `<coverage><package><class name="F"><lines><line number="1" hits="1"/></lines></class></package></coverage>`},
		{name: "second root", report: `<coverage/><coverage/>`},
	}

	for _, testCase := range testSuites {
		t.Run(testCase.name, func(t *testing.T) {
			coverage, err := Walk(strings.NewReader(testCase.report))
			assert.Nil(t, coverage)
			assert.ErrorIs(t, err, ErrMalformedReport)
		})
	}

	t.Run("error carries the input line", func(t *testing.T) {
		report := "<coverage>\n<package>\n<class filename=\"F.swift\">\n<lines>\n<line number=\"1\" hits=\"abc\"/>\n</lines></class></package></coverage>"
		_, err := Walk(strings.NewReader(report))

		var reportErr *ReportError
		require.True(t, errors.As(err, &reportErr))
		assert.Equal(t, 5, reportErr.Location.Line)
		assert.Equal(t, "hits", reportErr.Location.Attribute)
		assert.Equal(t, "abc", reportErr.Value)
	})
}

func TestWalkStreamFailure(t *testing.T) {
	r := io.MultiReader(
		strings.NewReader(`<coverage><packages><package name="a">`),
		iotest.ErrReader(errors.New("connection reset")),
	)
	coverage, err := Walk(r)
	assert.Nil(t, coverage)
	assert.ErrorIs(t, err, ErrStreamFailure)
	assert.NotErrorIs(t, err, ErrMalformedReport)
}

func TestWalkDeclaredEncoding(t *testing.T) {
	t.Run("latin-1 report", func(t *testing.T) {
		report := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
			"<coverage><packages><package name=\"a\"><classes>" +
			"<class filename=\"Caf\xe9.swift\"><lines><line number=\"1\" hits=\"1\"/></lines></class>" +
			"</classes></package></packages></coverage>"

		coverage, err := Walk(strings.NewReader(report))
		require.NoError(t, err)
		assert.Equal(t, []string{"Café.swift"}, coverage.Files())
		assert.Equal(t, 1, coverage.Accumulator("Café.swift").LinesToCover())
	})

	t.Run("unknown encoding", func(t *testing.T) {
		report := `<?xml version="1.0" encoding="no-such-charset"?><coverage></coverage>`

		coverage, err := Walk(strings.NewReader(report))
		assert.Nil(t, coverage)
		assert.ErrorIs(t, err, ErrMalformedReport)
		assert.NotErrorIs(t, err, ErrStreamFailure)
	})
}
