package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/sesiones/core/session"
	"github.com/trezcool/sesiones/tests"
)

// seedSessions stores four sessions around testutil.Today (2025-01-15).
func seedSessions(t *testing.T, f *fixture) (s1, s2, s3, s4 session.Session) {
	t.Helper()
	s1 = testutil.CreateSession(t, f.st, session.Session{
		Title: "Antibióticos", Speaker: "Ana", Group: session.GroupFIR, Status: session.StatusCompleted,
		ScheduledDate: "2025-01-08", ExpositionDate: "2025-01-08", Time: "09:00",
	})
	s2 = testutil.CreateSession(t, f.st, session.Session{
		Title: "Anticoagulantes", Speaker: "Luis", Group: session.GroupStaff, Status: session.StatusPending,
		ScheduledDate: "2025-01-10", ExpositionDate: "2025-01-10",
	})
	s3 = testutil.CreateSession(t, f.st, session.Session{
		Title: "Nutrición", Speaker: "Ana", Group: session.GroupFIR, Status: session.StatusConfirmed,
		ScheduledDate: "2025-01-20", ExpositionDate: "2025-01-22", Time: "13:30",
	})
	s4 = testutil.CreateSession(t, f.st, session.Session{
		Title: "Sepsis", Speaker: "Bea", Group: session.GroupOther, Status: session.StatusPending,
		ScheduledDate: "2025-02-03", ExpositionDate: "2025-02-03",
	})
	return
}

func Test_sessionApi_listings(t *testing.T) {
	f := setup(t)
	s1, s2, s3, s4 := seedSessions(t, f)
	tok := f.usrToken

	f.run(t, []httpTest{
		{name: "Auth required", path: "/v1/sessions", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "all", path: "/v1/sessions", token: tok, wantData: marchallList(t, s4, s3, s2, s1)},
		{name: "scheduled", path: "/v1/sessions?mode=programadas", token: tok, wantData: marchallList(t, s2, s3, s4)},
		{name: "completed", path: "/v1/sessions?mode=realizadas", token: tok, wantData: marchallList(t, s1)},
		{name: "title", path: "/v1/sessions?titulo=ANTI", token: tok, wantData: marchallList(t, s2, s1)},
		{name: "status", path: "/v1/sessions?estado=pendiente", token: tok, wantData: marchallList(t, s4, s2)},
		{name: "speaker and group", path: "/v1/sessions?ponente=an&grupo=FIR", token: tok, wantData: marchallList(t, s3, s1)},
		{
			name: "date range", path: "/v1/sessions?fecha_desde=2025-01-09&fecha_hasta=2025-01-31", token: tok,
			wantData: marchallList(t, s3, s2),
		},
		{name: "no match", path: "/v1/sessions?titulo=cardio", token: tok, wantData: marchallList(t)},
		{
			name: "unknown mode", path: "/v1/sessions?mode=nope", token: tok, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"mode": "modo de filtro desconocido"}),
		},
		{
			name: "bad date", path: "/v1/sessions?fecha_desde=15/01/2025", token: tok, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"fecha_desde": "fecha_desde debe ser una fecha con formato AAAA-MM-DD"}),
		},
		{name: "upcoming", path: "/v1/sessions/upcoming", token: tok, wantData: marchallList(t, s2, s3, s4)},
		{name: "upcoming limit", path: "/v1/sessions/upcoming?limit=1", token: tok, wantData: marchallList(t, s2)},
		{name: "recent", path: "/v1/sessions/recent", token: tok, wantData: marchallList(t, s1)},
		{name: "overdue", path: "/v1/sessions/overdue", token: tok, wantData: marchallList(t, s2)},
		{name: "retrieve", path: "/v1/sessions/" + s3.ID, token: tok, wantData: marchallObj(t, s3)},
		{
			name: "retrieve unknown", path: "/v1/sessions/nope", token: tok, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "sesión no encontrada"}),
		},
		{name: "speakers", path: "/v1/speakers", token: tok, wantData: marchallList(t, "Ana", "Luis")},
	})
}

func Test_sessionApi_stats(t *testing.T) {
	f := setup(t)
	seedSessions(t, f)

	rec := f.do(newAuthRequest(http.MethodGet, "/v1/stats", f.usrToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stats session.Stats
	decode(t, rec, &stats)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Confirmed)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 0, stats.Cancelled)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, map[string]int{
		session.GroupFIR: 2, session.GroupStaff: 1, session.GroupExternal: 0, session.GroupOther: 1,
	}, stats.ByGroup)
	require.Len(t, stats.BySpeaker, 3)
	assert.Equal(t, session.SpeakerCount{Speaker: "Ana", Count: 2}, stats.BySpeaker[0])

	rec = f.do(newAuthRequest(http.MethodGet, "/v1/dashboard", f.usrToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var dash session.Dashboard
	decode(t, rec, &dash)
	assert.Equal(t, 4, dash.Total)
	assert.Equal(t, 1, dash.Completed)
	assert.Equal(t, 3, dash.Pending)
	assert.Equal(t, 1, dash.Overdue)
	assert.Len(t, dash.Upcoming, 3)
}

func Test_sessionApi_dashboardEmpty(t *testing.T) {
	f := setup(t)
	rec := f.do(newAuthRequest(http.MethodGet, "/v1/dashboard", f.usrToken))
	checkCodeAndData(t, httpTest{wantData: []byte(`{"total":0,"realizadas":0,"pendientes":0,"atrasadas":0,"proximas":[]}`)}, rec)
}

func Test_sessionApi_crud(t *testing.T) {
	f := setup(t)

	// any signed in user may write sessions
	rec := f.do(newAuthRequest(http.MethodPost, "/v1/sessions", f.usrToken, []byte(
		`{"titulo":" Ventilación ","ponente":"Luis","fecha_prevista":"2025-03-01","hora":"09:30","grupo":"FIR"}`,
	)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created SessionResponse
	decode(t, rec, &created)
	assert.Equal(t, "Sesión creada correctamente", created.Success)
	assert.NotEmpty(t, created.Session.ID)
	assert.Equal(t, "Ventilación", created.Session.Title)
	assert.Equal(t, session.StatusPending, created.Session.Status)
	assert.Equal(t, "2025-03-01", created.Session.ExpositionDate)

	rec = f.do(newAuthRequest(http.MethodPost, "/v1/sessions", f.usrToken, []byte(
		`{"titulo":"","ponente":"Luis","estado":"aplazada","hora":"25:00"}`,
	)))
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	var fldErrs map[string]string
	decode(t, rec, &fldErrs)
	assert.Contains(t, fldErrs, "titulo")
	assert.Contains(t, fldErrs, "estado")
	assert.Contains(t, fldErrs, "hora")
	assert.Equal(t, "este campo es obligatorio", fldErrs["titulo"])

	path := "/v1/sessions/" + created.Session.ID
	req, rec := newAuthRequest(http.MethodPut, path, f.usrToken, []byte(
		`{"titulo":"Ventilación mecánica","ponente":"Luis","estado":"realizada","fecha_prevista":"2025-03-01","fecha_exposicion":"2025-03-02"}`,
	))
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	rec = f.do(req, rec)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated SessionResponse
	decode(t, rec, &updated)
	assert.Equal(t, "Session updated", updated.Success)
	assert.Equal(t, created.Session.ID, updated.Session.ID)
	assert.Equal(t, "Ventilación mecánica", updated.Session.Title)
	assert.Equal(t, session.StatusCompleted, updated.Session.Status)
	assert.True(t, updated.Session.Rescheduled())

	f.run(t, []httpTest{
		{
			name: "update unknown", method: http.MethodPut, path: "/v1/sessions/nope", token: f.usrToken,
			body: []byte(`{"titulo":"X","ponente":"Luis"}`), wantCode: http.StatusNotFound,
		},
		{
			name: "delete", method: http.MethodDelete, path: path, token: f.usrToken,
			wantData: marchallObj(t, SuccessResponse{Success: "Sesión eliminada correctamente"}),
		},
		{
			name: "delete again", method: http.MethodDelete, path: path, token: f.usrToken, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "sesión no encontrada"}),
		},
		{name: "gone", path: path, token: f.usrToken, wantCode: http.StatusNotFound},
	})
}
