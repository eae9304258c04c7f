package timetable

import (
	"regexp"
	"strings"
)

// \s is ASCII only in RE2; \p{Zs} adds NBSP and the other unicode spaces.
var wideSpaceRegex = regexp.MustCompile(`[\s\p{Zs}]{2,}`)

// Delimiter splits one line of input into columns.
type Delimiter struct {
	Name string
	sep  string // literal separator; empty means runs of 2+ whitespace
}

var (
	DelimTab       = Delimiter{Name: "tab", sep: "\t"}
	DelimPipe      = Delimiter{Name: "pipe", sep: "|"}
	DelimComma     = Delimiter{Name: "comma", sep: ","}
	DelimWideSpace = Delimiter{Name: "spaces"}
)

// DetectDelimiter sniffs the column separator from a single line.
// Tab wins over pipe, pipe over comma; otherwise columns are separated by 2+ whitespace.
func DetectDelimiter(line string) Delimiter {
	switch {
	case strings.Contains(line, "\t"):
		return DelimTab
	case strings.Contains(line, "|"):
		return DelimPipe
	case strings.Contains(line, ","):
		return DelimComma
	default:
		return DelimWideSpace
	}
}

func (d Delimiter) Split(line string) []string {
	if d.sep == "" {
		return wideSpaceRegex.Split(line, -1)
	}
	return strings.Split(line, d.sep)
}

func (d Delimiter) String() string {
	return d.Name
}
