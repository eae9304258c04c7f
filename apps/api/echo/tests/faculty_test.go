package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facsched/backend/core"
	"github.com/facsched/backend/core/faculty"
	"github.com/facsched/backend/core/timetable"
	emailsvc "github.com/facsched/backend/services/email"
	testutil "github.com/facsched/backend/tests"
)

func saveBody(t *testing.T, sp faculty.SaveProfile) []byte {
	return marchallObj(t, sp)
}

func Test_facultyApi_signupFlow(t *testing.T) {
	app := setup(t)
	prn := core.Principal{ID: "auth0|42", Name: "Jane Doe", Email: "Jane.Doe@Uni.edu"}
	token := getToken(t, app.conf, prn)

	notFound := marchallObj(t, httpErr{Error: "faculty profile not found"})
	noTimetable := marchallObj(t, httpErr{Error: "no timetable data found"})

	// nothing saved yet
	tests := []httpTest{
		{
			name:     "get profile",
			method:   http.MethodGet,
			path:     "/v1/faculty/me",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "get timetable",
			method:   http.MethodGet,
			path:     "/v1/faculty/me/timetable",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: noTimetable,
		},
		{
			name:     "get classes",
			method:   http.MethodGet,
			path:     "/v1/faculty/me/classes",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: noTimetable,
		},
		{
			name:     "complete",
			method:   http.MethodPost,
			path:     "/v1/faculty/me/complete",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "timetable not saved"}),
		},
	}
	for _, tt := range tests {
		tt.run(t, app)
	}

	// save
	req, rec := newAuthRequest(http.MethodPut, "/v1/faculty/me", token, saveBody(t, faculty.SaveProfile{
		Name:       "  Jane Doe ",
		Department: "Computer Science",
		EmployeeID: "EMP-001",
		Timetable:  testutil.Timetable,
	}))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := app.repo.GetProfile(context.Background(), prn.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", stored.Name)
	assert.Equal(t, "jane.doe@uni.edu", stored.Email)
	assert.False(t, stored.SignupCompleted)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, stored)}, rec)

	want := testutil.ParseTimetable(t)
	tests = []httpTest{
		{
			name:     "get saved profile",
			method:   http.MethodGet,
			path:     "/v1/faculty/me",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, stored),
		},
		{
			name:     "get saved timetable",
			method:   http.MethodGet,
			path:     "/v1/faculty/me/timetable",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, want),
		},
		{
			name:     "get saved classes",
			method:   http.MethodGet,
			path:     "/v1/faculty/me/classes",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, timetable.ClassList{
				Theory: []timetable.ClassRef{
					{ID: "theory-A1", Code: "A1", Name: "A1", Type: timetable.TrackTheory},
					{ID: "theory-B1", Code: "B1", Name: "B1", Type: timetable.TrackTheory},
				},
				Lab: []timetable.ClassRef{
					{ID: "lab-L31", Code: "L31", Name: "L31", Type: timetable.TrackLab},
				},
			}),
		},
	}
	for _, tt := range tests {
		tt.run(t, app)
	}

	// complete
	req, rec = newAuthRequest(http.MethodPost, "/v1/faculty/me/complete", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err = app.repo.GetProfile(context.Background(), prn.ID)
	require.NoError(t, err)
	assert.True(t, stored.SignupCompleted)
	assert.NotNil(t, stored.CompletedAt)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, stored)}, rec)

	msg, ok := emailsvc.LastSentMessage()
	require.True(t, ok, "signup mail not sent")
	require.Len(t, msg.To, 1)
	assert.Equal(t, "jane.doe@uni.edu", msg.To[0].Address)
	assert.Contains(t, msg.TextContent, "Hi Jane Doe,")
	assert.Contains(t, msg.TextContent, "2 days, 2 theory slots, 3 lab slots and 4 scheduled classes")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "timetable.ics", msg.Attachments[0].Filename)

	// calendar
	req, rec = newAuthRequest(http.MethodGet, "/v1/faculty/me/timetable.ics", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "timetable.ics")
	body := rec.Body.String()
	assert.Contains(t, body, "SUMMARY:A1")
	assert.Contains(t, body, "SUMMARY:L31 (lab)")
	assert.Equal(t, 4, strings.Count(body, "BEGIN:VEVENT"))

	// re-saving resets the signup
	req, rec = newAuthRequest(http.MethodPut, "/v1/faculty/me", token, saveBody(t, faculty.SaveProfile{
		Name:       "Jane Doe",
		Department: "Mathematics",
		EmployeeID: "EMP-001",
		Timetable:  testutil.Timetable,
	}))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored, err = app.repo.GetProfile(context.Background(), prn.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", stored.Department)
	assert.False(t, stored.SignupCompleted)
}

func Test_facultyApi_save_invalid(t *testing.T) {
	app := setup(t)
	prn := core.Principal{ID: "user-7"}
	token := getToken(t, app.conf, prn)
	path := "/v1/faculty/me"

	valid := faculty.SaveProfile{
		Name:       "John Roe",
		Department: "Physics",
		EmployeeID: "P/2024.7",
		Timetable:  testutil.Timetable,
	}
	with := func(f func(sp *faculty.SaveProfile)) []byte {
		sp := valid
		f(&sp)
		return saveBody(t, sp)
	}

	tests := []httpTest{
		{
			name:     "all blank",
			method:   http.MethodPut,
			path:     path,
			body:     saveBody(t, faculty.SaveProfile{Name: " "}),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":        "this field is required",
				"department":  "this field is required",
				"employee_id": "this field is required",
				"timetable":   "this field is required",
			}),
		},
		{
			name:     "bad employee id and email",
			method:   http.MethodPut,
			path:     path,
			body:     with(func(sp *faculty.SaveProfile) { sp.EmployeeID = "EMP 1"; sp.Email = "nope" }),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"employee_id": "only letters, digits and . _ / - are allowed",
				"email":       "email must be a valid email address",
			}),
		},
		{
			name:     "unparsable timetable",
			method:   http.MethodPut,
			path:     path,
			body:     with(func(sp *faculty.SaveProfile) { sp.Timetable = "08:00\n08:50" }),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"timetable": "input too short"}),
		},
	}
	for _, tt := range tests {
		tt.run(t, app)
	}

	// nothing was saved
	_, err := app.repo.GetProfile(context.Background(), prn.ID)
	assert.Equal(t, faculty.ErrNotFound, err)
}

func Test_facultyApi_existingProfile(t *testing.T) {
	app := setup(t)
	p := testutil.CreateProfile(t, app.repo, "user-9", "Ada", "ada@uni.edu", true)
	token := getToken(t, app.conf, core.Principal{ID: p.UserID})

	tt := httpTest{
		name:     "completed profile",
		method:   http.MethodGet,
		path:     "/v1/faculty/me",
		token:    token,
		wantCode: http.StatusOK,
		wantData: marchallObj(t, p),
	}
	tt.run(t, app)

	// users only see their own profile
	other := getToken(t, app.conf, core.Principal{ID: "user-10"})
	httpTest{
		name:     "someone else",
		method:   http.MethodGet,
		path:     "/v1/faculty/me",
		token:    other,
		wantCode: http.StatusNotFound,
		wantData: marchallObj(t, httpErr{Error: "faculty profile not found"}),
	}.run(t, app)
}
