package latex

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxLineLength is the hard per-line limit ATS-safe resume templates
// are written against; the prompt template promises the same bound.
const MaxLineLength = 95

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

type Issue struct {
	Line     int    `json:"line"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type Report struct {
	Valid     bool    `json:"valid"`
	Issues    []Issue `json:"issues"`
	LineCount int     `json:"line_count"`
	CharCount int     `json:"char_count"`
}

// Validate applies the formatting rules to LaTeX source without invoking
// the engine: over-long lines are errors, likely-unescaped ampersands
// outside table environments are warnings.
func Validate(src string) Report {
	lines := strings.Split(src, "\n")

	rep := Report{
		Valid:     true,
		Issues:    []Issue{},
		LineCount: len(lines),
		CharCount: utf8.RuneCountInString(src),
	}

	tableDepth := 0
	for i, line := range lines {
		n := i + 1

		if width := utf8.RuneCountInString(line); width > MaxLineLength {
			rep.Valid = false
			rep.Issues = append(rep.Issues, Issue{
				Line:     n,
				Severity: SeverityError,
				Message:  fmt.Sprintf("line is %d characters, limit is %d", width, MaxLineLength),
			})
		}

		tableDepth += strings.Count(line, `\begin{tabular`) + strings.Count(line, `\begin{array`)

		if tableDepth == 0 && hasBareAmpersand(line) {
			rep.Issues = append(rep.Issues, Issue{
				Line:     n,
				Severity: SeverityWarning,
				Message:  `unescaped "&" outside a table environment, use "\&"`,
			})
		}

		tableDepth -= strings.Count(line, `\end{tabular`) + strings.Count(line, `\end{array`)
		if tableDepth < 0 {
			tableDepth = 0
		}
	}

	return rep
}

// hasBareAmpersand reports whether the line contains an "&" that is not
// escaped with a backslash, ignoring everything after a comment "%".
func hasBareAmpersand(line string) bool {
	runes := []rune(line)
	for i, r := range runes {
		switch r {
		case '%':
			if i == 0 || runes[i-1] != '\\' {
				return false
			}
		case '&':
			if i == 0 || runes[i-1] != '\\' {
				return true
			}
		}
	}
	return false
}
