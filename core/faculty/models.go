package faculty

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/facsched/backend/core/timetable"
)

// Profile is a faculty member's profile, keyed by the auth provider's user id.
type Profile struct {
	UserID          string               `json:"user_id"`
	Name            string               `json:"name"`
	Department      string               `json:"department"`
	EmployeeID      string               `json:"employee_id"`
	Email           string               `json:"email,omitempty"`
	Timetable       *timetable.Timetable `json:"timetable,omitempty"`
	SignupCompleted bool                 `json:"signup_completed"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"` // UTC
	CreatedAt       time.Time            `json:"created_at"`             // UTC
	UpdatedAt       time.Time            `json:"updated_at"`             // UTC
}

func (p Profile) HasTimetable() bool {
	return p.Timetable != nil && len(p.Timetable.Days) > 0
}

// SaveProfile is the profile form: profile fields plus the raw pasted timetable.
type SaveProfile struct {
	Name       string `json:"name" validate:"notblank,max=100"`
	Department string `json:"department" validate:"notblank,max=100"`
	EmployeeID string `json:"employee_id" validate:"notblank,employeeid,max=50"`
	Email      string `json:"email" validate:"omitempty,email"`
	Timetable  string `json:"timetable" validate:"notblank"`
}

func (sp *SaveProfile) Validate(validate *validator.Validate) error {
	return validate.Struct(sp)
}

// profile returns the cleaned profile fields of the form.
func (sp SaveProfile) profile(userID string) Profile {
	return Profile{
		UserID:     userID,
		Name:       cleanString(sp.Name),
		Department: cleanString(sp.Department),
		EmployeeID: cleanString(sp.EmployeeID),
		Email:      cleanString(sp.Email, true /* lower */),
	}
}

type signupMailData struct {
	Name        string
	Days        int
	TheorySlots int
	LabSlots    int
	Classes     int
	HasCalendar bool
}
