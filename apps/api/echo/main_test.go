package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/sesiones/core/notice"
	"github.com/trezcool/sesiones/core/user"
	"github.com/trezcool/sesiones/tests"
)

const pwd = "secreto1"

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type fixture struct {
	app        Server
	st         *testutil.Stack
	admin      user.User
	usr        user.User
	adminToken string
	usrToken   string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	st := testutil.NewStack(t)
	notices, err := notice.NewCatalog()
	require.NoError(t, err)

	f := &fixture{
		st: st,
		app: NewServer(st.Conf, nil, &Deps{
			SessionSvc: st.SessionSvc,
			UserSvc:    st.UserSvc,
			Identity:   st.Identity,
			Notices:    notices,
			Validate:   st.Validate,
			Translator: st.Translator,
			Logger:     st.Logger,
			Clock:      st.Clock,
		}),
	}
	f.admin = testutil.CreateUser(t, st, "Ana", "ana@test.local", pwd, user.RoleAdmin)
	f.usr = testutil.CreateUser(t, st, "Luis", "luis@test.local", pwd, user.RoleUser)
	f.adminToken = testutil.SignIn(t, st, f.admin.Email, pwd)
	f.usrToken = testutil.SignIn(t, st, f.usr.Email, pwd)
	return f
}

func (f *fixture) do(req *http.Request, rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	f.app.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := f.do(newAuthRequest(method, tt.path, tt.token, tt.body))
			checkCodeAndData(t, tt, rec)
		})
	}
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

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
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
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	assert.Equal(t, wantCode, rec.Code, rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func TestHome(t *testing.T) {
	f := setup(t)
	rec := f.do(newRequest(http.MethodGet, "/"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bienvenido a la API de Sesiones Formativas", rec.Body.String())
}
