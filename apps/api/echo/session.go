package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/sesiones/core/notice"
	"github.com/trezcool/sesiones/core/session"
	"github.com/trezcool/sesiones/core/user"
)

type sessionApi struct {
	svc   *session.Service
	users *user.Service
	deps  *Deps
}

func registerSessionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := sessionApi{
		svc:   deps.SessionSvc,
		users: deps.UserSvc,
		deps:  deps,
	}

	sg := g.Group("/sessions", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/upcoming", api.upcoming)
	sg.GET("/recent", api.recent)
	sg.GET("/overdue", api.overdue)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)

	g.GET("/stats", api.stats, jwt)
	g.GET("/dashboard", api.dashboard, jwt)
	g.GET("/speakers", api.speakers, jwt)
}

// Handlers

// query lists sessions of ?mode (todas, programadas, realizadas) with the given filters.
func (api *sessionApi) query(ctx echo.Context) error {
	mode, err := session.ParseMode(ctx.QueryParam("mode"))
	if err != nil {
		return err
	}
	var filter session.Filter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to Filter")
	}
	filter.Clean()
	if err := api.deps.Validate.Struct(filter); err != nil {
		return err
	}

	sessions, err := api.svc.Filter(ctx.Request().Context(), filter, mode)
	if err != nil {
		return errors.Wrap(err, "filtering sessions")
	}
	return ctx.JSON(http.StatusOK, nonNil(sessions))
}

func (api *sessionApi) create(ctx echo.Context) error {
	var data session.Form
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Form")
	}
	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	return ctx.JSON(http.StatusCreated, SessionResponse{
		Session: s,
		Success: localize(ctx, api.deps.Notices, notice.SessionCreated, nil),
	})
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) update(ctx echo.Context) error {
	var data session.Form
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Form")
	}
	s, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating session")
	}
	return ctx.JSON(http.StatusOK, SessionResponse{
		Session: s,
		Success: localize(ctx, api.deps.Notices, notice.SessionUpdated, nil),
	})
}

func (api *sessionApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: localize(ctx, api.deps.Notices, notice.SessionDeleted, nil)})
}

func (api *sessionApi) upcoming(ctx echo.Context) error {
	sessions, err := api.svc.Upcoming(ctx.Request().Context(), bindLimit(ctx))
	if err != nil {
		return errors.Wrap(err, "listing upcoming sessions")
	}
	return ctx.JSON(http.StatusOK, nonNil(sessions))
}

func (api *sessionApi) recent(ctx echo.Context) error {
	sessions, err := api.svc.Recent(ctx.Request().Context(), bindLimit(ctx))
	if err != nil {
		return errors.Wrap(err, "listing recent sessions")
	}
	return ctx.JSON(http.StatusOK, nonNil(sessions))
}

func (api *sessionApi) overdue(ctx echo.Context) error {
	sessions, err := api.svc.Overdue(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing overdue sessions")
	}
	return ctx.JSON(http.StatusOK, nonNil(sessions))
}

func (api *sessionApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *sessionApi) dashboard(ctx echo.Context) error {
	dash, err := api.svc.Dashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	dash.Upcoming = nonNil(dash.Upcoming)
	return ctx.JSON(http.StatusOK, dash)
}

// speakers lists the profile names offered as session speakers.
func (api *sessionApi) speakers(ctx echo.Context) error {
	names, err := api.users.Speakers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing speakers")
	}
	if names == nil {
		names = []string{}
	}
	return ctx.JSON(http.StatusOK, names)
}

type SessionResponse struct {
	Session session.Session `json:"sesion"`
	Success string          `json:"success"`
}

func nonNil(sessions []session.Session) []session.Session {
	if sessions == nil {
		return []session.Session{}
	}
	return sessions
}
