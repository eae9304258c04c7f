package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/facsched/backend/core"
	"github.com/facsched/backend/core/faculty"
	"github.com/facsched/backend/core/timetable"
)

// Timetable is a pasted timetable with labelled header rows, one lunch column and two days.
var Timetable = strings.Join([]string{
	"THEORY\tStart\t08:00\t09:00\t-",
	"\tEnd\t08:50\t09:50\t-",
	"LAB\tStart\t08:00\t09:40\tLunch",
	"\tEnd\t09:40\t11:20\tLunch",
	"MON\tTHEORY\tA1-BCSE305L-TH-SJT704-ALL\t-\tLunch",
	"MON\tLAB\tL31-BCSE305P-LO-SJT516-ALL\t-\tLunch",
	"TUE\tTHEORY\t-\tB1\tLunch",
	"TUE\tLAB\t-\tL31-BCSE305P-LO-SJT516-ALL\tLunch",
}, "\n")

// NewValidator returns a validator set up the way the app sets it up.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

// ParseTimetable parses input (Timetable when empty) or fails the test.
func ParseTimetable(t *testing.T, input ...string) *timetable.Timetable {
	t.Helper()
	in := Timetable
	if len(input) > 0 {
		in = input[0]
	}
	tt, err := timetable.Parse(in)
	if err != nil {
		t.Fatalf("ParseTimetable() failed: %v", err)
	}
	return tt
}

// CreateProfile stores a profile holding the sample timetable.
func CreateProfile(
	t *testing.T,
	repo faculty.Repository,
	userID, name, email string,
	completed bool,
	updatedAt ...time.Time,
) faculty.Profile {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(updatedAt) > 0 {
		tstamp = updatedAt[0].UTC()
	}
	p := faculty.Profile{
		UserID:     userID,
		Name:       name,
		Department: "Computer Science",
		EmployeeID: "EMP-" + userID,
		Email:      email,
		Timetable:  ParseTimetable(t),
		UpdatedAt:  tstamp,
	}
	ctx := context.Background()
	p, err := repo.SaveProfile(ctx, p)
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	if completed {
		if p, err = repo.CompleteSignup(ctx, userID, tstamp); err != nil {
			t.Fatalf("CreateProfile() failed: %v", err)
		}
	}
	return p
}
