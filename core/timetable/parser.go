package timetable

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	headerRows     = 4
	dayLabelCols   = 2 // day name + row label
	maxHeaderLabel = 2
	minLines       = headerRows + 2
	minDayCols     = dayLabelCols + 1

	labelMinSimilarity = .7
)

var clockTimeRegex = regexp.MustCompile(`^\d{1,2}[:.]\d{2}(\s*[AaPp][Mm])?$`)

type options struct {
	checkRowLabels bool
}

// Option customizes Parse.
type Option func(*options)

// WithRowLabelCheck makes Parse reject day rows whose label column does not
// resemble THEORY (first row of a pair) or LAB (second row).
func WithRowLabelCheck() Option {
	return func(o *options) { o.checkRowLabels = true }
}

type parser struct {
	opts  options
	lines []string
	delim Delimiter

	theoryCols []int // header data column of each theory slot
	labCols    []int
	tt         *Timetable
}

// Parse converts pasted timetable text into a Timetable.
//
// The first four lines hold theory start times, theory end times, lab start
// times and lab end times. The remaining lines come in pairs (theory row,
// lab row) per day: day name, row label, then one cell per column.
// Any structural problem yields a *ParseError and no Timetable.
func Parse(input string, opts ...Option) (*Timetable, error) {
	p := &parser{}
	for _, opt := range opts {
		opt(&p.opts)
	}

	p.lines = splitLines(input)
	if len(p.lines) < minLines {
		return nil, newParseError(0, ErrInputTooShort)
	}
	p.delim = DetectDelimiter(p.lines[0])

	p.parseHeader()
	if err := p.parseDays(); err != nil {
		return nil, err
	}
	// postcondition: the line count and per-pair checks above already
	// guarantee at least one day
	if len(p.tt.Days) == 0 {
		return nil, newParseError(0, ErrNoDays)
	}
	return p.tt, nil
}

// splitLines trims the whole input (so the first line loses its indentation
// and surrounding blank lines go) and drops carriage returns.
func splitLines(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	lines := strings.Split(input, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	return lines
}

func (p *parser) parseHeader() {
	rows := make([][]string, headerRows)
	for i := range rows {
		cols := p.delim.Split(p.lines[i])
		for j := range cols {
			cols[j] = strings.TrimSpace(cols[j])
		}
		rows[i] = cols
	}

	skip := headerLabelCols(rows)
	p.tt = &Timetable{Days: make(Days, 0)}
	p.tt.TheorySlots, p.theoryCols = buildSlots(rows[0], rows[1], skip)
	p.tt.LabSlots, p.labCols = buildSlots(rows[2], rows[3], skip)
}

// headerLabelCols counts the leading label columns of the header rows:
// columns where no header row holds a clock time or the "-" placeholder.
func headerLabelCols(rows [][]string) int {
	n := 0
	for ; n < maxHeaderLabel; n++ {
		for _, row := range rows {
			if n < len(row) && (row[n] == "-" || clockTimeRegex.MatchString(row[n])) {
				return n
			}
		}
	}
	return n
}

func isSlotValue(s string) bool {
	return s != "" && s != "-"
}

func buildSlots(starts, ends []string, skip int) ([]TimeSlot, []int) {
	slots := make([]TimeSlot, 0)
	cols := make([]int, 0)
	for i := skip; i < len(starts); i++ {
		if i >= len(ends) {
			break
		}
		if isSlotValue(starts[i]) && isSlotValue(ends[i]) {
			slots = append(slots, TimeSlot{Start: starts[i], End: ends[i]})
			cols = append(cols, i-skip)
		}
	}
	return slots, cols
}

func (p *parser) parseDays() error {
	// a trailing theory row without its lab row is ignored
	for i := headerRows; i+1 < len(p.lines); i += 2 {
		theoryRow := p.delim.Split(p.lines[i])
		labRow := p.delim.Split(p.lines[i+1])

		if len(theoryRow) < minDayCols {
			return newParseError(i+1, ErrTruncatedRow, "theory row")
		}
		if len(labRow) < minDayCols {
			return newParseError(i+2, ErrTruncatedRow, "lab row")
		}

		name := strings.TrimSpace(theoryRow[0])
		if name == "" {
			return newParseError(i+1, ErrEmptyDayName)
		}

		if p.opts.checkRowLabels {
			if !labelMatches(theoryRow[1], TrackTheory) {
				return newParseError(i+1, ErrRowLabelMismatch, "expected THEORY, got "+strings.TrimSpace(theoryRow[1]))
			}
			if !labelMatches(labRow[1], TrackLab) {
				return newParseError(i+2, ErrRowLabelMismatch, "expected LAB, got "+strings.TrimSpace(labRow[1]))
			}
		}

		p.tt.Days.set(Day{
			Name:   name,
			Theory: alignCells(theoryRow[dayLabelCols:], p.theoryCols),
			Lab:    alignCells(labRow[dayLabelCols:], p.labCols),
		})
	}
	return nil
}

// alignCells keeps one cell per slot. Columns without a slot are dropped and
// missing trailing columns are empty.
func alignCells(raw []string, slotCols []int) []*ClassInfo {
	cells := make([]*ClassInfo, len(slotCols))
	for i, col := range slotCols {
		if col < len(raw) {
			cells[i] = ParseCell(raw[col])
		}
	}
	return cells
}

func labelMatches(label string, tr Track) bool {
	got := strings.ToUpper(strings.TrimSpace(label))
	want := strings.ToUpper(string(tr))
	if got == want {
		return true
	}
	matcher := difflib.NewMatcher(strings.Split(got, ""), strings.Split(want, ""))
	return matcher.Ratio() >= labelMinSimilarity
}
