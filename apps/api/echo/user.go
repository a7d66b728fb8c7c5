package echoapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/sesiones/core/notice"
	"github.com/trezcool/sesiones/core/user"
)

const vcardContentType = "text/vcard; charset=utf-8"

type userApi struct {
	svc             *user.Service
	deps            *Deps
	appName         string
	frontendBaseURL string
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps, appName, frontendBaseURL string) {
	api := userApi{
		svc:             deps.UserSvc,
		deps:            deps,
		appName:         appName,
		frontendBaseURL: frontendBaseURL,
	}

	ug := g.Group("/users", jwt, adminMiddleware(deps.UserSvc, deps.Notices))
	ug.GET("", api.query)
	ug.POST("", api.create)
	ug.GET("/count", api.count)
	ug.GET("/roles", api.queryRoles)
	ug.GET("/export.vcf", api.export)

	// detail endpoints
	ug.GET("/:id", api.retrieve)
	ug.PUT("/:id", api.update)
	ug.DELETE("/:id", api.destroy)
	ug.POST("/:id/password-reset", api.resetPassword)
}

// Handlers

func (api *userApi) query(ctx echo.Context) error {
	var filter user.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []user.User{})
	}

	var users []user.User
	var err error
	if filter.IsEmpty() {
		users, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		users, err = api.svc.Filter(ctx.Request().Context(), filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return ctx.JSON(http.StatusCreated, UserResponse{
		User:    usr,
		Success: localize(ctx, api.deps.Notices, notice.UserCreated, map[string]interface{}{"Name": usr.Name}),
	})
}

func (api *userApi) count(ctx echo.Context) error {
	n, err := api.svc.Count(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting users")
	}
	return ctx.JSON(http.StatusOK, CountResponse{Count: n})
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

// export downloads the roster as vCards.
func (api *userApi) export(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	var buf bytes.Buffer
	if err := user.EncodeVCards(&buf, api.appName, users); err != nil {
		return errors.Wrap(err, "encoding vcards")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="usuarios.vcf"`)
	return ctx.Blob(http.StatusOK, vcardContentType, buf.Bytes())
}

func (api *userApi) retrieve(ctx echo.Context) error {
	usr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	usr, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, UserResponse{
		User:    usr,
		Success: localize(ctx, api.deps.Notices, notice.UserUpdated, nil),
	})
}

func (api *userApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	id := ctx.Param("id")
	if id == ctxUsr.ID {
		return echo.NewHTTPError(http.StatusForbidden, localize(ctx, api.deps.Notices, notice.CannotDeleteSelf, nil))
	}

	// 404 on unknown ids
	if _, err := api.svc.GetByID(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "getting user")
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: localize(ctx, api.deps.Notices, notice.UserDeleted, nil)})
}

// resetPassword mails a reset link to the user.
func (api *userApi) resetPassword(ctx echo.Context) error {
	usr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting user")
	}
	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), usr.ID, api.frontendBaseURL+"/reset-password"); err != nil {
		return errors.Wrap(err, "requesting password reset")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: localize(ctx, api.deps.Notices, notice.PasswordResetSent, map[string]interface{}{"Email": usr.Email}),
	})
}

type (
	UserResponse struct {
		User    user.User `json:"user"`
		Success string    `json:"success"`
	}

	CountResponse struct {
		Count int `json:"count"`
	}
)
