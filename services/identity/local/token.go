package local

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/sesiones/core/auth"
)

var salt = []byte("sesiones.services.identity.local.token")

// tokenGenerator makes day-stamped, single-use password reset tokens. A token
// stops verifying once the account's password or last sign in changes.
type tokenGenerator struct {
	secret  []byte
	timeout time.Duration
	now     func() time.Time // mockable
}

// encodeUID base64 encodes the account ID.
func encodeUID(acc account) string {
	return base64.RawURLEncoding.EncodeToString([]byte(acc.ID))
}

// decodeUID base64 decodes given UID
func decodeUID(uid string) (string, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", err
	}
	return string(idBytes), nil
}

// makeToken generates a password reset token for the account.
func (g tokenGenerator) makeToken(acc account) string {
	return g.makeTokenWithTimestamp(acc, numDaysSince2001(g.now()))
}

// verifyToken checks that a password reset token for the account is valid.
func (g tokenGenerator) verifyToken(acc account, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return auth.ErrInvalidToken
	}

	data, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(parts[0])
	if err != nil {
		return auth.ErrInvalidToken
	}
	ts, err := strconv.Atoi(string(data))
	if err != nil {
		return auth.ErrInvalidToken
	}

	// check that token has not been tampered with
	if subtle.ConstantTimeCompare([]byte(g.makeTokenWithTimestamp(acc, ts)), []byte(token)) == 0 {
		return auth.ErrInvalidToken
	}

	// check that the timestamp is within limit
	if (numDaysSince2001(g.now()) - ts) > int(g.timeout/(24*time.Hour)) {
		return errTokenExpired
	}
	return nil
}

func (g tokenGenerator) makeTokenWithTimestamp(acc account, ts int) string {
	tsB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.Itoa(ts)))
	return fmt.Sprintf("%s-%s", tsB32, g.sign(hashValue(acc, ts)))
}

func numDaysSince2001(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Hours() / 24))
}

func (g tokenGenerator) sign(val []byte) string {
	key := sha256.Sum256(append(append([]byte{}, salt...), g.secret...))
	h := hmac.New(sha256.New, key[:])
	h.Write(val)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func hashValue(acc account, ts int) []byte {
	var val bytes.Buffer
	val.WriteString(acc.ID)
	val.Write(acc.PasswordHash)
	if !acc.LastSignIn.IsZero() {
		val.WriteString(acc.LastSignIn.UTC().String())
	}
	val.WriteString(strconv.Itoa(ts))
	return val.Bytes()
}
