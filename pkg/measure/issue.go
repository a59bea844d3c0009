package measure

import "fmt"

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is a rule violation reported by an external linter on a source line.
type Issue struct {
	Repository string   `json:"repository" yaml:"repository"`
	Rule       string   `json:"rule" yaml:"rule"`
	File       string   `json:"file" yaml:"file"`
	Line       int      `json:"line" yaml:"line"`
	Severity   Severity `json:"severity" yaml:"severity"`
	Message    string   `json:"message" yaml:"message"`
}

// RuleKey returns "<repository>:<rule>".
func (i Issue) RuleKey() string {
	return fmt.Sprintf("%s:%s", i.Repository, i.Rule)
}
