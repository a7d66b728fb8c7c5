package echoapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/sesiones/core/calendar"
)

func Test_calendarApi_month(t *testing.T) {
	f := setup(t)
	s1, s2, s3, s4 := seedSessions(t, f)

	get := func(t *testing.T, path, acceptLanguage string) CalendarResponse {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, path, f.usrToken)
		if acceptLanguage != "" {
			req.Header.Set("Accept-Language", acceptLanguage)
		}
		rec = f.do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp CalendarResponse
		decode(t, rec, &resp)
		return resp
	}
	dayCell := func(resp CalendarResponse, d int) calendar.Cell {
		return resp.Cells[resp.Leading+d-1]
	}

	jan := get(t, "/v1/calendar?year=2025&month=1", "")
	assert.Equal(t, 2025, jan.Year)
	assert.Equal(t, 1, jan.Month)
	assert.Equal(t, "Enero 2025", jan.Title)
	assert.Equal(t, MonthRef{Year: 2024, Month: 12}, jan.Prev)
	assert.Equal(t, MonthRef{Year: 2025, Month: 2}, jan.Next)
	assert.Equal(t, 2, jan.Leading) // 2025-01-01 is a Wednesday
	assert.Equal(t, 2, jan.Trailing)
	require.Len(t, jan.Cells, 35)
	assert.False(t, jan.Cells[0].InMonth)
	assert.Equal(t, 30, jan.Cells[0].Day)

	cell := dayCell(jan, 8)
	assert.Equal(t, "2025-01-08", cell.Date)
	assert.Empty(t, cell.Items, "%s is completed", s1.ID)
	require.Len(t, dayCell(jan, 10).Items, 1)
	assert.Equal(t, s2.ID, dayCell(jan, 10).Items[0].ID)
	require.Len(t, dayCell(jan, 22).Items, 1)
	assert.Equal(t, s3.ID, dayCell(jan, 22).Items[0].ID)
	assert.Empty(t, dayCell(jan, 20).Items) // scheduled, not exposed, that day
	assert.True(t, dayCell(jan, 15).IsToday)

	feb := get(t, "/v1/calendar?year=2025&month=2", "en")
	assert.Equal(t, "February 2025", feb.Title)
	assert.Equal(t, 5, feb.Leading)
	assert.Equal(t, 2, feb.Trailing)
	require.Len(t, dayCell(feb, 3).Items, 1)
	assert.Equal(t, s4.ID, dayCell(feb, 3).Items[0].ID)
	assert.False(t, dayCell(feb, 15).IsToday)

	// current month by default, overflowing months roll over
	assert.Equal(t, jan, get(t, "/v1/calendar", ""))
	assert.Equal(t, jan, get(t, "/v1/calendar?year=2024&month=13", ""))
	dec := get(t, "/v1/calendar?year=2025&month=0", "")
	assert.Equal(t, 2024, dec.Year)
	assert.Equal(t, 12, dec.Month)

	f.run(t, []httpTest{
		{name: "Auth required", path: "/v1/calendar", wantCode: http.StatusUnauthorized},
		{
			name: "bad month", path: "/v1/calendar?month=enero", token: f.usrToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"month": "el mes debe ser un número"}),
		},
		{
			name: "bad year", path: "/v1/calendar?year=dos", token: f.usrToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"year": "el año debe ser un número"}),
		},
	})
}

func Test_calendarApi_ics(t *testing.T) {
	f := setup(t)
	seedSessions(t, f)

	rec := f.do(newAuthRequest(http.MethodGet, "/v1/calendar.ics", f.usrToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sesiones.ics")

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Equal(t, 4, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "SUMMARY:Nutrición (Ana)")
	assert.Contains(t, body, "X-WR-CALNAME:Sesiones Formativas")
}
