package timetable

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

var simpleCodeRegex = regexp.MustCompile(`^[A-Z][0-9]+$`)

// ParseCell converts one raw cell into a class, or nil for an empty cell.
// It never fails: anything unrecognized becomes an opaque code.
func ParseCell(raw string) *ClassInfo {
	cell := strings.TrimSpace(raw)
	if cell == "" || cell == "-" || cell == "Lunch" {
		return nil
	}

	if simpleCodeRegex.MatchString(cell) {
		return &ClassInfo{Code: cell}
	}

	// CODE-COURSE-ROOM-INSTRUCTOR-...; the second segment is not kept.
	parts := strings.Split(cell, "-")
	if len(parts) >= 2 {
		ci := &ClassInfo{Code: strings.TrimSpace(parts[0])}
		if ci.Code == "" {
			ci.Code = cell
		}
		if len(parts) > 2 {
			ci.Room = strings.TrimSpace(parts[2])
		}
		if len(parts) > 3 {
			ci.Instructor = strings.TrimSpace(parts[3])
		}
		if IsComplex(cell) {
			ci.Color = Color(cell)
		}
		return ci
	}

	return &ClassInfo{Code: cell}
}

// IsComplex reports whether a cell gets a display color: it holds a hyphen
// and is longer than 5 UTF-16 code units.
func IsComplex(cell string) bool {
	return strings.Contains(cell, "-") && len(utf16.Encode([]rune(cell))) > 5
}
