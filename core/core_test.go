package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileForm struct {
	Name       string `json:"name" validate:"notblank"`
	EmployeeID string `json:"employee_id" validate:"required,employeeid"`
	Skip       string `json:"-" validate:"omitempty,max=1"`
}

func TestInitValidators(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)

	tests := []struct {
		name string
		form profileForm
		want map[string]string
	}{
		{name: "valid", form: profileForm{Name: "Ada", EmployeeID: "CS/2024-01"}},
		{
			name: "blank",
			form: profileForm{Name: "  "},
			want: map[string]string{"name": "this field is required", "employee_id": "this field is required"},
		},
		{
			name: "bad employee id",
			form: profileForm{Name: "Ada", EmployeeID: "-01"},
			want: map[string]string{"employee_id": "only letters, digits and . _ / - are allowed"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := TranslateValidationErrors(validate.Struct(tc.form), translator)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "got %T", err)
			assert.Equal(t, tc.want, vErr.FieldsMap())
		})
	}
}

func TestValidationError(t *testing.T) {
	base := errors.New("input too short")

	err := NewFieldValidationError("timetable", base)
	assert.Equal(t, "input too short", err.Error())
	assert.True(t, errors.Is(err, base))

	err = NewValidationError(nil, FieldError{Field: "file", Error: "this field is required"})
	assert.Equal(t, "file: this field is required", err.Error())

	assert.Equal(t, "", NewValidationError(nil).Error())
}

func TestShutdownError(t *testing.T) {
	err := NewShutdownError("integrity check failed")
	assert.True(t, IsShutdown(err))
	assert.True(t, IsShutdown(errors.Wrap(err, "saving profile")))
	assert.False(t, IsShutdown(errors.New("integrity check failed")))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Ada", CleanString("  Ada \n"))
	assert.Equal(t, "ada@uni.edu", CleanString(" Ada@Uni.EDU ", true))
}

func TestConfig_DefaultFromEmail(t *testing.T) {
	conf := NewTestConfig()
	assert.Equal(t, "noreply@localhost", conf.DefaultFromEmail().Address)
	assert.Equal(t, "FacSched", conf.DefaultFromEmail().Name)

	conf.defaultFromEmail = "not an address"
	assert.Equal(t, "FacSched", conf.DefaultFromEmail().Name)

	db := DatabaseConfig{Host: "db", Port: 5432}
	assert.Equal(t, "db:5432", db.Address())
}
