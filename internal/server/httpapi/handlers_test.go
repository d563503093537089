package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sibeni-li/khronos/internal/common"
	"github.com/sibeni-li/khronos/internal/logging"
	"github.com/sibeni-li/khronos/internal/profile"
	"github.com/sibeni-li/khronos/internal/server/models"
	"github.com/sibeni-li/khronos/internal/server/services"
	"github.com/sibeni-li/khronos/internal/server/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAccounts struct {
	registerErr error
	loginErr    error
	tokenErr    error
	userID      int64
}

func (f *fakeAccounts) Register(_ context.Context, username, _, _ string) (*models.User, string, error) {
	if f.registerErr != nil {
		return nil, "", f.registerErr
	}
	return &models.User{ID: 1, UserName: username}, "tok", nil
}

func (f *fakeAccounts) Login(context.Context, string, string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "tok", nil
}

func (f *fakeAccounts) UserIDFromToken(token string) (int64, error) {
	if f.tokenErr != nil {
		return 0, f.tokenErr
	}
	return f.userID, nil
}

type fakeUploads struct {
	gotUser     int64
	gotFilename string
	gotRaw      string
	err         error
}

func (f *fakeUploads) Ingest(_ context.Context, userID int64, filename string, raw []byte) (*services.Receipt, error) {
	f.gotUser, f.gotFilename, f.gotRaw = userID, filename, string(raw)
	if f.err != nil {
		return &services.Receipt{State: services.StateRejected, Reason: f.err.Error()}, f.err
	}
	return &services.Receipt{State: services.StatePersisted, AnalysisID: 42}, nil
}

type fakeReports struct {
	summary   stats.Summary
	dashErr   error
	history   []*models.Analysis
	report    *services.AnalysisReport
	reportErr error
	gotUser   int64
}

func (f *fakeReports) Dashboard(_ context.Context, userID int64) (stats.Summary, error) {
	f.gotUser = userID
	return f.summary, f.dashErr
}

func (f *fakeReports) History(_ context.Context, userID int64) ([]*models.Analysis, error) {
	f.gotUser = userID
	return f.history, nil
}

func (f *fakeReports) Report(_ context.Context, userID, _ int64) (*services.AnalysisReport, error) {
	f.gotUser = userID
	return f.report, f.reportErr
}

type fakeLibrary struct {
	url string
	err error
}

func (f fakeLibrary) LibraryURL(context.Context) (string, error) { return f.url, f.err }

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fixture struct {
	accounts *fakeAccounts
	uploads  *fakeUploads
	reports  *fakeReports
	library  fakeLibrary
	db       fakePinger
	engine   *gin.Engine
}

func newFixture(t *testing.T, mutate ...func(*fixture)) *fixture {
	t.Helper()
	f := &fixture{
		accounts: &fakeAccounts{userID: 7},
		uploads:  &fakeUploads{},
		reports:  &fakeReports{},
		library:  fakeLibrary{url: "http://minio/khronoslib.zip?sig"},
	}
	for _, m := range mutate {
		m(f)
	}
	f.engine = NewRouter(Deps{
		Accounts:      f.accounts,
		Uploads:       f.uploads,
		Reports:       f.reports,
		Library:       f.library,
		DB:            f.db,
		Logger:        logging.NewZapLogger(zaptest.NewLogger(t)),
		MaxUploadSize: 1024,
	})
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer tok")
	return req
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "-" {
		fw, err := mw.CreateFormFile(common.UploadFormField, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return authed(req)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		code    int
		message string
	}{
		{"created", `{"username":"a","password":"p","confirmation":"p"}`, nil, http.StatusCreated, ""},
		{"bad json", `{`, nil, http.StatusBadRequest, "invalid request"},
		{"missing username", `{}`, services.ErrMissingUsername, http.StatusBadRequest, "must provide username"},
		{"mismatch", `{"username":"a","password":"p","confirmation":"q"}`, services.ErrPasswordMismatch, http.StatusBadRequest, "passwords don't match"},
		{"duplicate", `{"username":"a","password":"p","confirmation":"p"}`, errors.Join(errors.New("error creating user"), common.ErrorAlreadyExists), http.StatusConflict, "username already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(f *fixture) { f.accounts.registerErr = tt.err })
			w := f.do(jsonRequest(http.MethodPost, "/api/register", tt.body))

			assert.Equal(t, tt.code, w.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeError(t, w))
			}
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	w := f.do(jsonRequest(http.MethodPost, "/api/login", `{"username":"a","password":"p"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"access_token":"tok"}`, w.Body.String())

	f = newFixture(t, func(f *fixture) { f.accounts.loginErr = common.ErrorUnauthorized })
	w = f.do(jsonRequest(http.MethodPost, "/api/login", `{"username":"a","password":"x"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid username and/or password", decodeError(t, w))
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		tokErr  error
		message string
	}{
		{"no header", "", nil, "missing token"},
		{"wrong scheme", "Basic abc", nil, "missing token"},
		{"expired", "Bearer tok", common.ErrTokenExpired, "token expired"},
		{"invalid", "Bearer tok", errors.New("bad signature"), "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(f *fixture) { f.accounts.tokenErr = tt.tokErr })
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := f.do(req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.message, decodeError(t, w))
		})
	}
}

func TestUpload_Created(t *testing.T) {
	f := newFixture(t)
	w := f.do(uploadRequest(t, "sort.json", `{"x":1}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/analyses/42", w.Header().Get("Location"))
	assert.JSONEq(t, `{"analysis_id":42}`, w.Body.String())
	assert.Equal(t, int64(7), f.uploads.gotUser)
	assert.Equal(t, "sort.json", f.uploads.gotFilename)
	assert.Equal(t, `{"x":1}`, f.uploads.gotRaw)
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"structural", &profile.StructuralError{Reason: `missing "metadata"`}, http.StatusUnprocessableEntity, `invalid JSON structure: missing "metadata"`},
		{"value", &profile.ValueError{Path: "functions[0].call_count", Reason: "must be >= 1"}, http.StatusUnprocessableEntity, "invalid JSON value: functions[0].call_count must be >= 1"},
		{"not json", services.ErrNotJSONFile, http.StatusBadRequest, "not a JSON file"},
		{"storage", errors.Join(common.ErrorStorage, errors.New("conn reset")), http.StatusInternalServerError, "database error occurred while saving analysis"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(f *fixture) { f.uploads.err = tt.err })
			w := f.do(uploadRequest(t, "a.json", "{}"))
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.message, decodeError(t, w))
		})
	}
}

func TestUpload_MissingFile(t *testing.T) {
	f := newFixture(t)

	w := f.do(uploadRequest(t, "-", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing file", decodeError(t, w))

	w = f.do(authed(jsonRequest(http.MethodPost, "/api/upload", `{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing file", decodeError(t, w))
}

func TestUpload_TooLarge(t *testing.T) {
	f := newFixture(t)
	w := f.do(uploadRequest(t, "big.json", strings.Repeat("x", 4096)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "file too large", decodeError(t, w))
	assert.Empty(t, f.uploads.gotFilename)
}

func TestUpload_TooLargeWithoutContentLength(t *testing.T) {
	f := newFixture(t)
	req := uploadRequest(t, "big.json", strings.Repeat("x", 4096))
	// a chunked body skips the early length check and hits the read limit
	req.ContentLength = -1

	w := f.do(req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "file too large", decodeError(t, w))
	assert.Empty(t, f.uploads.gotFilename)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, func(f *fixture) { f.reports.dashErr = stats.ErrNoData })
	w := f.do(authed(httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0,"message":"no data yet"}`, w.Body.String())

	f = newFixture(t, func(f *fixture) { f.reports.summary = stats.Summary{Count: 2, TotalTime: 6, AverageTime: 3} })
	w = f.do(authed(httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":2,"total_time":6,"average_time":3}`, w.Body.String())
	assert.Equal(t, int64(7), f.reports.gotUser)
}

func TestHistory_EmptyIsList(t *testing.T) {
	f := newFixture(t)
	w := f.do(authed(httptest.NewRequest(http.MethodGet, "/api/history", nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestReport_NotFound(t *testing.T) {
	f := newFixture(t, func(f *fixture) { f.reports.reportErr = common.ErrorNotFound })

	for _, path := range []string{"/api/analyses/5", "/api/analyses/abc", "/api/analyses/-1"} {
		w := f.do(authed(httptest.NewRequest(http.MethodGet, path, nil)))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "analysis not found", decodeError(t, w), path)
	}
}

func TestDownload(t *testing.T) {
	f := newFixture(t)
	w := f.do(httptest.NewRequest(http.MethodGet, "/download", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "http://minio/khronoslib.zip?sig", w.Header().Get("Location"))

	f = newFixture(t, func(f *fixture) { f.library.err = services.ErrStorageDisabled })
	w = f.do(httptest.NewRequest(http.MethodGet, "/download", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	f = newFixture(t, func(f *fixture) { f.db.err = errors.New("down") })
	w = f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMiddleware_Headers(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
	assert.Equal(t, "0", w.Header().Get("Expires"))
	assert.NotEmpty(t, w.Header().Get(common.RequestIDHeaderName))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(common.RequestIDHeaderName, "abc-123")
	w = f.do(req)
	assert.Equal(t, "abc-123", w.Header().Get(common.RequestIDHeaderName))
}
