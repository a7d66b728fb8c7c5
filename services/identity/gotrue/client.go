// Package gotrue talks to a hosted GoTrue (Supabase Auth) instance.
package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/auth"
)

const basePath = "/auth/v1"

type Client struct {
	baseURL string
	apiKey  string
	now     func() time.Time
}

var _ auth.Provider = (*Client)(nil)

func NewClient(conf *core.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.Identity.URL, "/") + basePath,
		apiKey:  conf.Identity.AnonKey,
		now:     time.Now,
	}
}

type (
	userResponse struct {
		ID           string                 `json:"id"`
		Email        string                 `json:"email"`
		UserMetadata map[string]interface{} `json:"user_metadata"`
	}

	tokenResponse struct {
		AccessToken string       `json:"access_token"`
		TokenType   string       `json:"token_type"`
		ExpiresIn   int64        `json:"expires_in"`
		User        userResponse `json:"user"`
	}

	// signUpResponse is either a user or, with auto confirm on, a session.
	signUpResponse struct {
		userResponse
		User *userResponse `json:"user"`
	}

	errorResponse struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
)

func (u userResponse) identity() auth.Identity {
	id := auth.Identity{ID: u.ID, Email: u.Email}
	if len(u.UserMetadata) > 0 {
		id.Metadata = make(map[string]string, len(u.UserMetadata))
		for k, v := range u.UserMetadata {
			if s, ok := v.(string); ok {
				id.Metadata[k] = s
			}
		}
	}
	return id
}

// APIError is a non 2xx answer from GoTrue.
type APIError struct {
	StatusCode int
	Message    string
}

func (e APIError) Error() string {
	return fmt.Sprintf("gotrue: %d %s", e.StatusCode, e.Message)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	var tr tokenResponse
	err := c.do(ctx, rest.Post, "/token", "", map[string]string{"grant_type": "password"},
		map[string]string{"email": email, "password": password}, &tr)
	if err != nil {
		var apiErr APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
			return auth.Session{}, auth.ErrInvalidCredentials
		}
		return auth.Session{}, err
	}
	return auth.Session{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
		ExpiresAt:   c.now().Add(time.Duration(tr.ExpiresIn) * time.Second).UTC(),
		Identity:    tr.User.identity(),
	}, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.tokenErr(c.do(ctx, rest.Post, "/logout", accessToken, nil, nil, nil))
}

func (c *Client) SignUp(ctx context.Context, acc auth.Account) (auth.Identity, error) {
	body := map[string]interface{}{
		"email":    acc.Email,
		"password": acc.Password,
		"data":     map[string]string{auth.MetaName: acc.Name, auth.MetaRole: acc.Role},
	}
	var sr signUpResponse
	if err := c.do(ctx, rest.Post, "/signup", "", nil, body, &sr); err != nil {
		var apiErr APIError
		if errors.As(err, &apiErr) && strings.Contains(strings.ToLower(apiErr.Message), "already registered") {
			return auth.Identity{}, auth.ErrEmailExists
		}
		return auth.Identity{}, err
	}
	if sr.User != nil {
		return sr.User.identity(), nil
	}
	return sr.userResponse.identity(), nil
}

func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	err := c.do(ctx, rest.Put, "/user", accessToken, nil, map[string]string{"password": newPassword}, nil)
	return c.tokenErr(err)
}

func (c *Client) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	var params map[string]string
	if redirectTo != "" {
		params = map[string]string{"redirect_to": redirectTo}
	}
	return c.do(ctx, rest.Post, "/recover", "", params, map[string]string{"email": email}, nil)
}

func (c *Client) tokenErr(err error) error {
	var apiErr APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
		return auth.ErrInvalidToken
	}
	return err
}

func (c *Client) do(ctx context.Context, method rest.Method, path, accessToken string, params map[string]string, body, dst interface{}) error {
	bearer := c.apiKey
	if accessToken != "" {
		bearer = accessToken
	}
	req := rest.Request{
		Method:  method,
		BaseURL: c.baseURL + path,
		Headers: map[string]string{
			"apikey":        c.apiKey,
			"Authorization": "Bearer " + bearer,
			"Content-Type":  "application/json",
		},
		QueryParams: params,
	}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		req.Body = b
	}

	res, err := rest.SendWithContext(ctx, req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return APIError{StatusCode: res.StatusCode, Message: errorMessage(res.Body)}
	}
	if dst == nil || res.Body == "" {
		return nil
	}
	return errors.Wrap(json.Unmarshal([]byte(res.Body), dst), "decoding response")
}

func errorMessage(body string) string {
	var er errorResponse
	if err := json.Unmarshal([]byte(body), &er); err != nil {
		return body
	}
	for _, msg := range []string{er.ErrorDescription, er.Msg, er.Message, er.Error} {
		if msg != "" {
			return msg
		}
	}
	return body
}
