package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/facsched/backend/apps/api/echo"
	"github.com/facsched/backend/core"
	"github.com/facsched/backend/core/faculty"
	emailsvc "github.com/facsched/backend/services/email"
	"github.com/facsched/backend/services/exporter"
	logsvc "github.com/facsched/backend/services/logger"
	inmemdb "github.com/facsched/backend/storage/database/inmem"
	testutil "github.com/facsched/backend/tests"
)

type testApp struct {
	Server
	conf   *core.Config
	repo   faculty.Repository
	logger *logsvc.MemoryLogger
}

func setup(t *testing.T) *testApp {
	t.Helper()
	conf := core.NewTestConfig()
	logger := logsvc.NewMemoryLogger()

	// set up DB & repos
	repo := inmemdb.NewFacultyRepository(inmemdb.Open())

	// set up services
	core.ParseEmailTemplates(logger, true)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	emailsvc.ResetSentMessages()
	calendar, err := exporter.NewICSExporter(conf)
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	facultySvc := faculty.NewService(repo, mailSvc, calendar, logger, conf)

	validate, translator := testutil.NewValidator()

	// set up server
	server := NewServer(
		ServerDeps{
			Conf:           conf,
			Logger:         logger,
			FacultySvc:     facultySvc,
			Validate:       validate,
			Translator:     translator,
			DisableReqLogs: true,
		},
	)
	t.Cleanup(func() { _ = server.Close() })

	return &testApp{Server: server, conf: conf, repo: repo, logger: logger}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// newUploadRequest builds a multipart request holding a "file" field and the extra form fields.
func newUploadRequest(t *testing.T, path, token, filename string, content []byte, fields map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("newUploadRequest() failed: %v", err)
		}
		if _, err = fw.Write(content); err != nil {
			t.Fatalf("newUploadRequest() failed: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("newUploadRequest() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("newUploadRequest() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func getToken(t *testing.T, conf *core.Config, prn core.Principal) string {
	token, err := GenerateToken(conf, NewClaims(conf, prn))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "code")
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func (tt httpTest) run(t *testing.T, app *testApp) {
	t.Run(tt.name, func(t *testing.T) {
		req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
