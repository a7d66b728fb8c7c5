// Package auth defines the identity provider the console delegates
// authentication to, and the access token claims it issues.
package auth

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

var (
	ErrInvalidCredentials = errors.New("credenciales de acceso no válidas")
	ErrEmailExists        = errors.New("ya existe una cuenta con este email")
	ErrInvalidToken       = errors.New("token no válido o caducado")
	ErrAccountNotFound    = errors.New("cuenta no encontrada")
)

type (
	// Identity is the provider side of an account.
	Identity struct {
		ID       string            `json:"id"`
		Email    string            `json:"email"`
		Metadata map[string]string `json:"user_metadata,omitempty"`
	}

	// Session is the outcome of a successful sign in.
	Session struct {
		AccessToken string    `json:"access_token"`
		TokenType   string    `json:"token_type"`
		ExpiresAt   time.Time `json:"expires_at"`
		Identity    Identity  `json:"user"`
	}

	// Account holds what is needed to create an identity.
	// Name and Role travel as profile metadata.
	Account struct {
		Email    string
		Password string
		Name     string
		Role     string
	}

	// Provider is the hosted identity service.
	Provider interface {
		SignIn(ctx context.Context, email, password string) (Session, error)
		SignOut(ctx context.Context, accessToken string) error
		SignUp(ctx context.Context, acc Account) (Identity, error)
		UpdatePassword(ctx context.Context, accessToken, newPassword string) error
		SendPasswordReset(ctx context.Context, email, redirectTo string) error
	}

	// Revoker is implemented by providers that keep track of signed out tokens.
	Revoker interface {
		IsRevoked(accessToken string) (bool, error)
	}

	// ResetConfirmer is implemented by providers that complete password resets themselves.
	ResetConfirmer interface {
		ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error
	}
)

// Metadata keys
const (
	MetaName = "nombre"
	MetaRole = "perfil"
)

// Claims represents the authorization claims transmitted via the access token.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// NewClaims returns claims for id valid for ttl from now.
func NewClaims(issuer string, id Identity, now time.Time, ttl time.Duration) *Claims {
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    issuer,
			Subject:   id.ID,
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: id.Email,
		Role:  "authenticated",
	}
}

// SignToken generates a signed HS256 token string representing the claims.
func SignToken(claims *Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
