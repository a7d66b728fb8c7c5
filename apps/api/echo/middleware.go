package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/sesiones/core/notice"
	"github.com/trezcool/sesiones/core/user"
)

// adminMiddleware only lets administrators through.
// The role is read from the profile, not from the token.
func adminMiddleware(svc *user.Service, notices *notice.Catalog) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if usr.IsAdmin() {
				return next(ctx)
			}
			return echo.NewHTTPError(http.StatusForbidden, localize(ctx, notices, notice.AdminRequired, nil))
		}
	}
}

type SuccessResponse struct {
	Success string `json:"success"`
}

// localize renders notice id in the request's Accept-Language.
func localize(ctx echo.Context, notices *notice.Catalog, id string, data map[string]interface{}) string {
	if notices == nil {
		return id
	}
	return notices.Message(ctx.Request().Header.Get("Accept-Language"), id, data)
}

// lang is the base language matched from the request's Accept-Language.
func lang(ctx echo.Context, notices *notice.Catalog) string {
	if notices == nil {
		return notice.DefaultLanguage.String()
	}
	return notices.Lang(ctx.Request().Header.Get("Accept-Language"))
}
