package echoapi

import (
	"net/http"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/auth"
	"github.com/trezcool/sesiones/core/notice"
	"github.com/trezcool/sesiones/core/user"
)

const (
	contextTokenKey = "userToken"
	contextUserKey  = "user"
)

// newJWTMiddleware accepts HS256 access tokens signed with secret.
// Tokens the identity provider reports as signed out are rejected.
func newJWTMiddleware(secret []byte, idp auth.Provider) echo.MiddlewareFunc {
	jwtMiddleware := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    secret,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(auth.Claims),
	})
	revoker, _ := idp.(auth.Revoker)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtMiddleware(func(ctx echo.Context) error {
			if revoker != nil {
				revoked, err := revoker.IsRevoked(contextToken(ctx))
				if err != nil {
					return errors.Wrap(err, "checking token revocation")
				}
				if revoked {
					return errUnauthorized
				}
			}
			return next(ctx)
		})
	}
}

// contextToken returns the raw access token of the request.
func contextToken(ctx echo.Context) string {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		return token.Raw
	}
	return ""
}

func getContextClaims(ctx echo.Context) (auth.Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*auth.Claims); ok {
			return *claims, nil
		}
	}
	return auth.Claims{}, errUnauthorized
}

// getContextUser loads the profile of the token's subject once per request.
func getContextUser(ctx echo.Context, svc *user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting context claims")
	}
	usr, err := svc.Profile(ctx.Request().Context(), auth.Identity{ID: claims.Subject, Email: claims.Email})
	if err != nil {
		return user.User{}, errors.Wrap(err, "loading profile")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

// contextUser returns the already loaded user, for logging.
// Without a loaded profile, the token's subject stands in for it.
func contextUser(ctx echo.Context) interface{} {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr
	}
	if claims, err := getContextClaims(ctx); err == nil {
		return user.User{ID: claims.Subject, Email: claims.Email}
	}
	return nil
}

type authApi struct {
	svc             *user.Service
	deps            *Deps
	frontendBaseURL string
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps, frontendBaseURL string) {
	api := authApi{
		svc:             deps.UserSvc,
		deps:            deps,
		frontendBaseURL: frontendBaseURL,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)
	ag.POST("/password-reset", api.resetPassword)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	ag.POST("/logout", api.logout, jwt)
	ag.GET("/me", api.me, jwt)
	ag.PUT("/password", api.changePassword, jwt)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	sess, usr, err := api.svc.SignIn(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "signing in")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{
		AccessToken: sess.AccessToken,
		TokenType:   sess.TokenType,
		ExpiresAt:   sess.ExpiresAt.Unix(),
		User:        usr,
	})
}

func (api *authApi) logout(ctx echo.Context) error {
	if err := api.svc.SignOut(ctx.Request().Context(), contextToken(ctx)); err != nil {
		return errors.Wrap(err, "signing out")
	}
	return api.success(ctx, notice.SignedOut, nil)
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *authApi) changePassword(ctx echo.Context) error {
	var data user.ChangePassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePassword")
	}
	if err := api.svc.ChangePassword(ctx.Request().Context(), contextToken(ctx), data); err != nil {
		return errors.Wrap(err, "changing password")
	}
	return api.success(ctx, notice.PasswordChanged, nil)
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	err := api.svc.RequestPasswordResetByEmail(ctx.Request().Context(), data.Email, api.frontendBaseURL+"/reset-password")
	if err != nil && !errors.Is(err, user.ErrNotFound) && !errors.Is(err, auth.ErrAccountNotFound) {
		// do not tell attackers which emails exist
		api.deps.Logger.Error("requesting password reset", errors.Wrap(err, "requesting password reset"))
	}
	return api.success(ctx, notice.PasswordResetSent, map[string]interface{}{"Email": data.Email})
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetPassword")
	}
	if err := api.svc.ConfirmPasswordReset(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "confirming password reset")
	}
	return api.success(ctx, notice.PasswordResetDone, nil)
}

func (api *authApi) success(ctx echo.Context, id string, data map[string]interface{}) error {
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: localize(ctx, api.deps.Notices, id, data)})
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AccessToken string    `json:"access_token"`
		TokenType   string    `json:"token_type"`
		ExpiresAt   int64     `json:"expires_at"`
		User        user.User `json:"user"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}
