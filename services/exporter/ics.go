package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"

	"github.com/facsched/backend/core"
	"github.com/facsched/backend/core/timetable"
)

var (
	// namespace of the event UIDs; an event keeps its UID across exports
	eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://facsched.app/events"))

	clockLayouts = []string{"15:04", "15.04", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm"}

	weekdays = []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}

	nowFunc = time.Now // mockable
)

const icsLocalLayout = "20060102T150405"

// ICSExporter writes timetables as weekly recurring iCalendar events.
type ICSExporter struct {
	appName   string
	loc       *time.Location
	termStart time.Time
	weeks     int
}

func NewICSExporter(conf *core.Config) (*ICSExporter, error) {
	loc, err := time.LoadLocation(conf.Calendar.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "loading timezone %q", conf.Calendar.Timezone)
	}
	weeks := conf.Calendar.Weeks
	if weeks <= 0 {
		weeks = 16
	}
	return &ICSExporter{
		appName:   conf.AppName,
		loc:       loc,
		termStart: conf.Calendar.TermStart,
		weeks:     weeks,
	}, nil
}

// ParseWeekday maps a day name such as "Monday", "MON" or "thurs" to its weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	fold := cases.Fold() // a Caser is not safe for concurrent use
	name = fold.String(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if len(name) < 2 {
		return 0, false
	}
	var (
		found time.Weekday
		count int
	)
	for _, wd := range weekdays {
		if strings.HasPrefix(fold.String(wd.String()), name) {
			found = wd
			count++
		}
	}
	return found, count == 1
}

func parseClock(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute(), true
		}
	}
	return 0, 0, false
}

// weekStart returns the Monday of the first week of the term.
func (e *ICSExporter) weekStart() time.Time {
	start := e.termStart
	if start.IsZero() {
		start = nowFunc()
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, e.loc)
	offset := (int(start.Weekday()) + 6) % 7 // days since Monday
	return start.AddDate(0, 0, -offset)
}

func firstOccurrence(weekStart time.Time, wd time.Weekday) time.Time {
	offset := (int(wd) + 6) % 7
	return weekStart.AddDate(0, 0, offset)
}

func eventUID(ownerID, day string, tr timetable.Track, slot int, code string) string {
	key := fmt.Sprintf("%s|%s|%s|%d|%s", ownerID, day, tr, slot, code)
	return uuid.NewSHA1(eventNamespace, []byte(key)).String()
}

// WriteICS writes one weekly event per scheduled class. Days whose name is not a weekday
// and slots whose times cannot be read are left out.
func (e *ICSExporter) WriteICS(w io.Writer, ownerID string, tt *timetable.Timetable) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + e.appName + "//Timetable//EN")
	cal.SetXWRCalName(e.appName + " timetable")
	cal.SetXWRTimezone(e.loc.String())

	weekStart := e.weekStart()
	stamp := nowFunc()

	for _, day := range tt.Days {
		wd, ok := ParseWeekday(day.Name)
		if !ok {
			continue
		}
		date := firstOccurrence(weekStart, wd)

		for _, tr := range timetable.Tracks {
			slots := tt.Slots(tr)
			for i, ci := range day.Cells(tr) {
				if ci == nil || i >= len(slots) {
					continue
				}
				sh, sm, okStart := parseClock(slots[i].Start)
				eh, em, okEnd := parseClock(slots[i].End)
				if !okStart || !okEnd {
					continue
				}
				start := time.Date(date.Year(), date.Month(), date.Day(), sh, sm, 0, 0, e.loc)
				end := time.Date(date.Year(), date.Month(), date.Day(), eh, em, 0, 0, e.loc)
				if !end.After(start) {
					continue
				}

				event := cal.AddEvent(eventUID(ownerID, day.Name, tr, i, ci.Code))
				event.SetDtStampTime(stamp)
				e.setTimes(event, start, end)
				event.SetSummary(summary(ci, tr))
				if ci.Room != "" {
					event.SetLocation(ci.Room)
				}
				event.SetDescription(description(ci, tr, slots[i]))
				event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", e.weeks))
			}
		}
	}

	return errors.Wrap(cal.SerializeTo(w), "serializing calendar")
}

// setTimes writes DTSTART/DTEND. Outside UTC they are local wall-clock times
// tagged with the zone, so the weekly recurrence keeps the hour across DST changes.
func (e *ICSExporter) setTimes(event *ics.VEvent, start, end time.Time) {
	if e.loc == time.UTC {
		event.SetStartAt(start)
		event.SetEndAt(end)
		return
	}
	tzid := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{e.loc.String()}}
	event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLocalLayout), tzid)
	event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsLocalLayout), tzid)
}

func summary(ci *timetable.ClassInfo, tr timetable.Track) string {
	if tr == timetable.TrackLab {
		return ci.Code + " (lab)"
	}
	return ci.Code
}

func description(ci *timetable.ClassInfo, tr timetable.Track, slot timetable.TimeSlot) string {
	lines := []string{
		"Track: " + string(tr),
		"Slot: " + slot.String(),
	}
	if ci.Instructor != "" {
		lines = append(lines, "Instructor: "+ci.Instructor)
	}
	return strings.Join(lines, "\n")
}
