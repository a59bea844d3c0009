package cobertura

import "strings"

const (
	branchAttrTrue = "true"
	pairSeparator  = "/"
)

// DecodeCondition extracts the covered and total condition counts from the
// condition-coverage notation "<percentage>% (<covered>/<total>)", e.g. "50% (1/2)".
// Only the parenthesized pair is read; the percentage prefix is ignored.
func DecodeCondition(text string, loc Location) (covered int, total int, err error) {
	open := strings.Index(text, "(")
	if open < 0 {
		return 0, 0, malformed(text, loc, "no condition pair in %q", text)
	}
	end := strings.Index(text[open+1:], ")")
	if end < 0 {
		return 0, 0, malformed(text, loc, "no condition pair in %q", text)
	}

	tokens := strings.Split(text[open+1:open+1+end], pairSeparator)
	if len(tokens) != 2 {
		return 0, 0, malformed(text, loc, "condition pair %q must be <covered>/<total>", text)
	}

	if covered, err = ParseInt(tokens[0], loc); err != nil {
		return 0, 0, err
	}
	if total, err = ParseInt(tokens[1], loc); err != nil {
		return 0, 0, err
	}
	if covered < 0 || total < 0 || covered > total {
		return 0, 0, malformed(text, loc, "inconsistent condition pair %d/%d", covered, total)
	}
	return covered, total, nil
}

// hasConditions reports whether a line carries branch data that must be decoded.
// Anything but branch="true" with a non blank condition text is a plain statement line.
func hasConditions(branch, conditionCoverage string) bool {
	return branch == branchAttrTrue && strings.TrimSpace(conditionCoverage) != ""
}
