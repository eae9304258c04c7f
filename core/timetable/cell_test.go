package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want *ClassInfo
	}{
		{name: "empty", cell: "", want: nil},
		{name: "blank", cell: "   \t", want: nil},
		{name: "placeholder", cell: " - ", want: nil},
		{name: "lunch", cell: "Lunch", want: nil},
		{name: "lunch lower case is a code", cell: "lunch", want: &ClassInfo{Code: "lunch"}},
		{name: "simple code", cell: "L1", want: &ClassInfo{Code: "L1"}},
		{name: "simple code trimmed", cell: "  A23 ", want: &ClassInfo{Code: "A23"}},
		{
			name: "complex cell",
			cell: "A1-BCSE305L-TH-SJT704-ALL",
			want: &ClassInfo{Code: "A1", Room: "TH", Instructor: "SJT704", Color: "hsl(-262, 70%, 80%)"},
		},
		{
			name: "complex cell without instructor",
			cell: "TA1-BCSE-LT",
			want: &ClassInfo{Code: "TA1", Room: "LT", Color: Color("TA1-BCSE-LT")},
		},
		{name: "short hyphenated cell has no color", cell: "L1-X", want: &ClassInfo{Code: "L1"}},
		{name: "leading hyphen keeps whole cell", cell: "-ABCDEF", want: &ClassInfo{Code: "-ABCDEF", Color: Color("-ABCDEF")}},
		{name: "opaque code", cell: "Seminar", want: &ClassInfo{Code: "Seminar"}},
		{name: "unicode", cell: "日本語", want: &ClassInfo{Code: "日本語"}},
		{
			name: "unicode complex",
			cell: "日本-語テスト",
			want: &ClassInfo{Code: "日本", Color: "hsl(-107, 70%, 80%)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCell(tt.cell))
		})
	}
}

func TestIsComplex(t *testing.T) {
	tests := []struct {
		cell string
		want bool
	}{
		{cell: "L1-X", want: false},
		{cell: "AB-CDE", want: true},
		{cell: "ABCDEFG", want: false},
		{cell: "日本-語テスト", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			if got := IsComplex(tt.cell); got != tt.want {
				t.Errorf("IsComplex() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		cell     string
		wantHash int64
		want     string
	}{
		{cell: "A1-BCSE305L-TH-SJT704-ALL", wantHash: -3617602462, want: "hsl(-262, 70%, 80%)"},
		{cell: "L1-X", wantHash: 2312688, want: "hsl(48, 70%, 80%)"},
		{cell: "TA1-BCSE-LT-SJT", wantHash: 8817167081, want: "hsl(281, 70%, 80%)"},
		{cell: "A2-BMAT201L-TH-MB213-ALL", wantHash: 1625072724, want: "hsl(324, 70%, 80%)"},
		{cell: "L31-BCSE305P-LO-SJT516-ALL", wantHash: 997574460, want: "hsl(60, 70%, 80%)"},
		{cell: "", wantHash: 0, want: "hsl(0, 70%, 80%)"},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.wantHash, Hash(tt.cell))
			assert.Equal(t, tt.want, Color(tt.cell))
			assert.Equal(t, Color(tt.cell), Color(tt.cell))
		})
	}
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Delimiter
		cols []string
	}{
		{name: "tab", line: "a\tb|c,d", want: DelimTab, cols: []string{"a", "b|c,d"}},
		{name: "pipe", line: "a|b,c", want: DelimPipe, cols: []string{"a", "b,c"}},
		{name: "comma", line: "a,b  c", want: DelimComma, cols: []string{"a", "b  c"}},
		{name: "spaces", line: "a  b   c d", want: DelimWideSpace, cols: []string{"a", "b", "c d"}},
		{name: "non-breaking spaces", line: "a\u00a0\u00a0b \u00a0c\u00a0d", want: DelimWideSpace, cols: []string{"a", "b", "c\u00a0d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectDelimiter(tt.line)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.cols, got.Split(tt.line))
		})
	}
}
