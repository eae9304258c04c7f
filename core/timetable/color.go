package timetable

import (
	"fmt"
	"unicode/utf16"
)

// Hash is the rolling string hash behind cell colors:
// hash = c + ((hash << 5) - hash) over UTF-16 code units, where the shift
// truncates to a signed 32-bit integer and the subtraction does not.
// Results are identical to the browser client that stores the same timetables.
func Hash(s string) int64 {
	var h int64
	for _, c := range utf16.Encode([]rune(s)) {
		shifted := int32(uint32(h) << 5)
		h = int64(c) + (int64(shifted) - h)
	}
	return h
}

// Hue reduces Hash(s) to a hue. The sign of the hash is kept.
func Hue(s string) int64 {
	return Hash(s) % 360
}

// Color returns the pastel HSL display color of a cell.
func Color(s string) string {
	return fmt.Sprintf("hsl(%d, 70%%, 80%%)", Hue(s))
}
