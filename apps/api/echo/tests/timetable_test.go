package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	. "github.com/facsched/backend/apps/api/echo"
	"github.com/facsched/backend/core"
	testutil "github.com/facsched/backend/tests"
)

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to FacSched API!", rec.Body.String())
}

func Test_auth(t *testing.T) {
	app := setup(t)
	path := "/v1/faculty/me/timetable"

	badConf := core.NewTestConfig()
	badConf.SecretKey = "not-the-secret"

	tests := []httpTest{
		{
			name:     "missing token",
			method:   http.MethodGet,
			path:     path,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "missing or malformed jwt"}),
		},
		{
			name:     "token signed with another key",
			method:   http.MethodGet,
			path:     path,
			token:    getToken(t, badConf, core.Principal{ID: "user-1"}),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name:     "token without subject",
			method:   http.MethodGet,
			path:     path,
			token:    getToken(t, app.conf, core.Principal{Name: "Nobody"}),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "user not authenticated"}),
		},
	}
	for _, tt := range tests {
		tt.run(t, app)
	}
}

func Test_timetableApi_parse(t *testing.T) {
	app := setup(t)
	token := getToken(t, app.conf, core.Principal{ID: "user-1"})
	path := "/v1/timetables/parse"

	tests := []httpTest{
		{
			name:     "valid input",
			method:   http.MethodPost,
			path:     path,
			body:     marchallObj(t, ParseRequest{Input: testutil.Timetable}),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, testutil.ParseTimetable(t)),
		},
		{
			name:     "blank input",
			method:   http.MethodPost,
			path:     path,
			body:     marchallObj(t, ParseRequest{Input: " \n "}),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"input": "this field is required"}),
		},
		{
			name:     "too short",
			method:   http.MethodPost,
			path:     path,
			body:     marchallObj(t, ParseRequest{Input: "08:00\t09:00\n08:50\t09:50"}),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "input too short"}),
		},
		{
			name:   "truncated lab row",
			method: http.MethodPost,
			path:   path,
			body: marchallObj(t, ParseRequest{
				Input: "08:00\t09:00\n08:50\t09:50\n08:00\t09:40\n09:40\t11:20\nMON\tTHEORY\tA1\nMON\tLAB",
			}),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "line 6: row has too few columns: lab row"}),
		},
	}
	for _, tt := range tests {
		tt.run(t, app)
	}
}

func Test_timetableApi_import(t *testing.T) {
	app := setup(t)
	token := getToken(t, app.conf, core.Principal{ID: "user-1"})
	path := "/v1/timetables/import"
	want := marchallObj(t, testutil.ParseTimetable(t))

	t.Run("text file", func(t *testing.T) {
		req, rec := newUploadRequest(t, path, token, "week.txt", []byte(testutil.Timetable), nil)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: want}, rec)
	})

	t.Run("html file with explicit format", func(t *testing.T) {
		page := "<table>" +
			"<tr><td>THEORY</td><td>Start</td><td>08:00</td><td>09:00</td><td>-</td></tr>" +
			"<tr><td></td><td>End</td><td>08:50</td><td>09:50</td><td>-</td></tr>" +
			"<tr><td>LAB</td><td>Start</td><td>08:00</td><td>09:40</td><td>Lunch</td></tr>" +
			"<tr><td></td><td>End</td><td>09:40</td><td>11:20</td><td>Lunch</td></tr>" +
			"<tr><td>MON</td><td>THEORY</td><td>A1-BCSE305L-TH-SJT704-ALL</td><td>-</td><td>Lunch</td></tr>" +
			"<tr><td>MON</td><td>LAB</td><td>L31-BCSE305P-LO-SJT516-ALL</td><td>-</td><td>Lunch</td></tr>" +
			"<tr><td>TUE</td><td>THEORY</td><td>-</td><td>B1</td><td>Lunch</td></tr>" +
			"<tr><td>TUE</td><td>LAB</td><td>-</td><td>L31-BCSE305P-LO-SJT516-ALL</td><td>Lunch</td></tr>" +
			"</table>"
		req, rec := newUploadRequest(t, path, token, "export", []byte(page), map[string]string{"format": "html"})
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: want}, rec)
	})

	t.Run("xlsx file", func(t *testing.T) {
		f := excelize.NewFile()
		defer f.Close()
		rows := [][]interface{}{
			{"THEORY", "Start", "08:00", "09:00", "-"},
			{"", "End", "08:50", "09:50", "-"},
			{"LAB", "Start", "08:00", "09:40", "Lunch"},
			{"", "End", "09:40", "11:20", "Lunch"},
			{"MON", "THEORY", "A1-BCSE305L-TH-SJT704-ALL", "-", "Lunch"},
			{"MON", "LAB", "L31-BCSE305P-LO-SJT516-ALL", "-", "Lunch"},
			{"TUE", "THEORY", "-", "B1", "Lunch"},
			{"TUE", "LAB", "-", "L31-BCSE305P-LO-SJT516-ALL", "Lunch"},
		}
		for i := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &rows[i]))
		}
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)

		req, rec := newUploadRequest(t, path, token, "week.xlsx", buf.Bytes(), nil)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: want}, rec)
	})

	t.Run("missing file", func(t *testing.T) {
		req, rec := newUploadRequest(t, path, token, "", nil, map[string]string{"format": "text"})
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"file": "this field is required"}),
		}, rec)
	})

	t.Run("unknown format", func(t *testing.T) {
		req, rec := newUploadRequest(t, path, token, "week.txt", []byte(testutil.Timetable), map[string]string{"format": "pdf"})
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "pdf: unknown import format"}),
		}, rec)
	})

	t.Run("html without table", func(t *testing.T) {
		req, rec := newUploadRequest(t, path, token, "week.html", []byte("<p>empty</p>"), nil)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "no table found"}),
		}, rec)
	})
}
