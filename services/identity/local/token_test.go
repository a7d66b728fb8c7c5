package local

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/sesiones/core/auth"
)

func TestMakeVerifyToken(t *testing.T) {
	timeout := 3 * 24 * time.Hour
	gen := tokenGenerator{secret: []byte("secret"), timeout: timeout, now: time.Now}

	now := time.Now()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pwd"), bcrypt.MinCost)
	acc := account{
		ID:           "7d3c5c1e-8c5e-4b0e-9d36-1f0f3a1c2b4d",
		Email:        "t@test.local",
		PasswordHash: hash,
		CreatedAt:    now,
		LastSignIn:   now,
	}

	validToken := gen.makeToken(acc)

	// generate an expired token
	dayLate := timeout + (24 * time.Hour)
	late := gen
	late.now = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken := late.makeToken(acc)

	// signing in again invalidates the token
	signedIn := acc
	signedIn.LastSignIn = now.Add(time.Minute)

	tests := []struct {
		name    string
		acc     account
		token   string
		wantErr error
	}{
		{name: "no token", acc: acc, wantErr: auth.ErrInvalidToken},
		{name: "invalid parts len", acc: acc, token: "lmaooolol", wantErr: auth.ErrInvalidToken},
		{name: "invalid base32", acc: acc, token: "hahaha-sigsig-sig", wantErr: auth.ErrInvalidToken},
		{name: "invalid timestamp", acc: acc, token: "NRXWY-sigsig-sig", wantErr: auth.ErrInvalidToken},
		{name: "invalid token", acc: acc, token: "HE4TS-sigsig-sig", wantErr: auth.ErrInvalidToken},
		{name: "expired token", acc: acc, token: expiredToken, wantErr: errTokenExpired},
		{name: "signed in since", acc: signedIn, token: validToken, wantErr: auth.ErrInvalidToken},
		{name: "valid token", acc: acc, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := gen.verifyToken(tt.acc, tt.token); err != tt.wantErr {
				t.Errorf("verifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUID(t *testing.T) {
	acc := account{ID: "7d3c5c1e-8c5e-4b0e-9d36-1f0f3a1c2b4d"}
	id, err := decodeUID(encodeUID(acc))
	if err != nil || id != acc.ID {
		t.Errorf("decodeUID() = %q, %v; want %q", id, err, acc.ID)
	}
	if _, err := decodeUID("%%%"); err == nil {
		t.Error("decodeUID() expected an error")
	}
}
