package exporter

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/facsched/backend/core/timetable"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true).Padding(1, 0, 0, 0)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	slotStyle   = cellStyle.Foreground(lipgloss.Color("241"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// GridOptions controls RenderGrid.
type GridOptions struct {
	Color bool // tint complex cells with their display color
}

// RenderGrid writes one table per track: rows are slots, columns are days.
func RenderGrid(w io.Writer, tt *timetable.Timetable, opts GridOptions) error {
	for _, tr := range timetable.Tracks {
		if len(tt.Slots(tr)) == 0 {
			continue
		}
		title := strings.ToUpper(string(tr))
		if _, err := fmt.Fprintln(w, titleStyle.Render(title)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, gridTable(tt, tr, opts).String()); err != nil {
			return err
		}
	}
	return nil
}

func gridTable(tt *timetable.Timetable, tr timetable.Track, opts GridOptions) *table.Table {
	slots := tt.Slots(tr)
	grid := tt.Grid(tr)

	headers := append([]string{"Slot"}, tt.Days.Names()...)
	rows := make([][]string, 0, len(grid))
	for i, cells := range grid {
		row := make([]string, 0, len(cells)+1)
		row = append(row, slots[i].String())
		for _, c := range cells {
			row = append(row, cellText(c))
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return slotStyle
			}
			r := row - (table.HeaderRow + 1) // data rows follow the header row
			if r < 0 || r >= len(grid) || col-1 >= len(grid[r]) {
				return cellStyle
			}
			c := grid[r][col-1]
			if !opts.Color || c == nil || c.Color == "" {
				return cellStyle
			}
			if hex, ok := HSLToHex(c.Color); ok {
				return cellStyle.Background(lipgloss.Color(hex)).Foreground(lipgloss.Color("#000000"))
			}
			return cellStyle
		})
}

func cellText(c *timetable.ClassInfo) string {
	if c == nil {
		return "-"
	}
	parts := []string{c.Code}
	if c.Room != "" {
		parts = append(parts, c.Room)
	}
	if c.Instructor != "" {
		parts = append(parts, c.Instructor)
	}
	return strings.Join(parts, " ")
}

// HSLToHex converts a display color like "hsl(-262, 70%, 80%)" to "#rrggbb".
func HSLToHex(hsl string) (string, bool) {
	var h, s, l float64
	if _, err := fmt.Sscanf(hsl, "hsl(%g, %g%%, %g%%)", &h, &s, &l); err != nil {
		return "", false
	}
	h = math.Mod(math.Mod(h, 360)+360, 360) / 360
	s /= 100
	l /= 100

	var r, g, b float64
	if s == 0 {
		r, g, b = l, l, l
	} else {
		q := l * (1 + s)
		if l >= .5 {
			q = l + s - l*s
		}
		p := 2*l - q
		r = hueToRGB(p, q, h+1.0/3)
		g = hueToRGB(p, q, h)
		b = hueToRGB(p, q, h-1.0/3)
	}
	return fmt.Sprintf("#%02x%02x%02x", toByte(r), toByte(g), toByte(b)), true
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < .5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func toByte(v float64) int {
	return int(math.Round(v * 255))
}
