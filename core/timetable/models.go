package timetable

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Track is one of the two parallel scheduling dimensions of a timetable.
type Track string

const (
	TrackTheory Track = "theory"
	TrackLab    Track = "lab"
)

var Tracks = []Track{TrackTheory, TrackLab}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (s TimeSlot) String() string {
	return s.Start + " - " + s.End
}

// ClassInfo is a non-empty cell. A nil *ClassInfo is an empty cell.
type ClassInfo struct {
	Code       string `json:"code"`
	Room       string `json:"room,omitempty"`
	Instructor string `json:"instructor,omitempty"`
	Color      string `json:"color,omitempty"` // only set for complex cells
}

type Day struct {
	Name   string       `json:"-"`
	Theory []*ClassInfo `json:"theory"`
	Lab    []*ClassInfo `json:"lab"`
}

// Cells returns the day's cells for the given track.
func (d Day) Cells(tr Track) []*ClassInfo {
	if tr == TrackLab {
		return d.Lab
	}
	return d.Theory
}

// Days is an insertion-ordered day-name -> Day mapping.
// It encodes as a JSON object whose keys keep their order.
type Days []Day

func (ds Days) Get(name string) (Day, bool) {
	for _, d := range ds {
		if d.Name == name {
			return d, true
		}
	}
	return Day{}, false
}

func (ds Days) Names() []string {
	names := make([]string, 0, len(ds))
	for _, d := range ds {
		names = append(names, d.Name)
	}
	return names
}

// set replaces a day with the same name in place, or appends it.
func (ds *Days) set(day Day) {
	for i := range *ds {
		if (*ds)[i].Name == day.Name {
			(*ds)[i] = day
			return
		}
	}
	*ds = append(*ds, day)
}

type dayBody struct {
	Theory []*ClassInfo `json:"theory"`
	Lab    []*ClassInfo `json:"lab"`
}

func (ds Days) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range ds {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(d.Name)
		if err != nil {
			return nil, err
		}
		body := dayBody{Theory: d.Theory, Lab: d.Lab}
		if body.Theory == nil {
			body.Theory = []*ClassInfo{}
		}
		if body.Lab == nil {
			body.Lab = []*ClassInfo{}
		}
		val, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (ds *Days) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*ds = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("days: expected JSON object, got %v", tok)
	}

	days := make(Days, 0)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("days: expected day name, got %v", tok)
		}
		var body dayBody
		if err = dec.Decode(&body); err != nil {
			return err
		}
		days.set(Day{Name: name, Theory: body.Theory, Lab: body.Lab})
	}
	if _, err = dec.Token(); err != nil { // closing '}'
		return err
	}
	*ds = days
	return nil
}

// Timetable is the normalized result of parsing pasted schedule text.
// For every day, len(Theory) == len(TheorySlots) and len(Lab) == len(LabSlots).
type Timetable struct {
	TheorySlots []TimeSlot `json:"theory_slots"`
	LabSlots    []TimeSlot `json:"lab_slots"`
	Days        Days       `json:"days"`
}

// Slots returns the slot sequence of the given track.
func (t *Timetable) Slots(tr Track) []TimeSlot {
	if tr == TrackLab {
		return t.LabSlots
	}
	return t.TheorySlots
}

// Clone returns a deep copy of t. Nil and empty slices are kept as they are.
func (t *Timetable) Clone() *Timetable {
	if t == nil {
		return nil
	}
	c := &Timetable{
		TheorySlots: cloneSlots(t.TheorySlots),
		LabSlots:    cloneSlots(t.LabSlots),
	}
	if t.Days != nil {
		c.Days = make(Days, len(t.Days))
		for i, d := range t.Days {
			c.Days[i] = Day{Name: d.Name, Theory: cloneCells(d.Theory), Lab: cloneCells(d.Lab)}
		}
	}
	return c
}

func cloneSlots(slots []TimeSlot) []TimeSlot {
	if slots == nil {
		return nil
	}
	return append(make([]TimeSlot, 0, len(slots)), slots...)
}

func cloneCells(cells []*ClassInfo) []*ClassInfo {
	if cells == nil {
		return nil
	}
	c := make([]*ClassInfo, len(cells))
	for i, ci := range cells {
		if ci != nil {
			cp := *ci
			c[i] = &cp
		}
	}
	return c
}

// ClassCount returns the number of non-empty cells across all days and tracks.
func (t *Timetable) ClassCount() int {
	var n int
	for _, d := range t.Days {
		for _, tr := range Tracks {
			for _, c := range d.Cells(tr) {
				if c != nil {
					n++
				}
			}
		}
	}
	return n
}

// Grid returns the track as rows of slots by columns of days.
// Row i holds the cell of every day at slot i.
func (t *Timetable) Grid(tr Track) [][]*ClassInfo {
	slots := t.Slots(tr)
	grid := make([][]*ClassInfo, len(slots))
	for i := range slots {
		row := make([]*ClassInfo, len(t.Days))
		for j, d := range t.Days {
			if cells := d.Cells(tr); i < len(cells) {
				row[j] = cells[i]
			}
		}
		grid[i] = row
	}
	return grid
}
