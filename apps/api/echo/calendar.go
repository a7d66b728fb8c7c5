package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/sesiones/core/calendar"
	"github.com/trezcool/sesiones/core/session"
)

const icsContentType = "text/calendar; charset=utf-8"

type calendarApi struct {
	svc     *session.Service
	deps    *Deps
	appName string
}

func registerCalendarAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps, appName string) {
	api := calendarApi{
		svc:     deps.SessionSvc,
		deps:    deps,
		appName: appName,
	}
	g.GET("/calendar", api.month, jwt)
	g.GET("/calendar.ics", api.ics, jwt)
}

type (
	MonthRef struct {
		Year  int `json:"year"`
		Month int `json:"month"` // 1..12
	}

	CalendarResponse struct {
		Year     int             `json:"year"`
		Month    int             `json:"month"` // 1..12
		Title    string          `json:"title"`
		Prev     MonthRef        `json:"prev"`
		Next     MonthRef        `json:"next"`
		Leading  int             `json:"leading"`
		Trailing int             `json:"trailing"`
		Cells    []calendar.Cell `json:"cells"`
	}
)

func monthRef(m calendar.Month) MonthRef {
	return MonthRef{Year: m.Year, Month: m.Month + 1}
}

// month returns the Monday-first grid of ?year and ?month with the sessions exposed in it.
func (api *calendarApi) month(ctx echo.Context) error {
	m, err := bindMonth(ctx, api.deps.Clock)
	if err != nil {
		return err
	}

	grid, err := calendar.Load(ctx.Request().Context(), api.svc, m, api.deps.Clock)
	if err != nil {
		return errors.Wrap(err, "loading calendar")
	}
	return ctx.JSON(http.StatusOK, CalendarResponse{
		Year:     m.Year,
		Month:    m.Month + 1,
		Title:    m.Title(lang(ctx, api.deps.Notices)),
		Prev:     monthRef(m.Prev()),
		Next:     monthRef(m.Next()),
		Leading:  grid.Leading,
		Trailing: grid.Trailing,
		Cells:    grid.Cells,
	})
}

// ics exports every session with an exposition date as an iCalendar feed.
func (api *calendarApi) ics(ctx echo.Context) error {
	sessions, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing sessions")
	}
	data, err := calendar.EncodeICS(api.appName, sessions, api.deps.Clock.Now())
	if err != nil {
		return errors.Wrap(err, "encoding calendar")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sesiones.ics"`)
	return ctx.Blob(http.StatusOK, icsContentType, data)
}
