// Package local is an identity provider backed by a bbolt file. It issues the
// same HS256 access tokens a hosted GoTrue would, so the API cannot tell them apart.
package local

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/mail"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/auth"
)

var (
	bucketAccounts = []byte("accounts")
	bucketEmails   = []byte("emails")
	bucketRevoked  = []byte("revoked")

	errTokenExpired = errors.Wrap(auth.ErrInvalidToken, "token expired")
)

const resetSubject = "Restablecer contraseña"

type account struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	PasswordHash []byte            `json:"password_hash"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	LastSignIn   time.Time         `json:"last_sign_in,omitempty"`
}

func (acc account) identity() auth.Identity {
	return auth.Identity{ID: acc.ID, Email: acc.Email, Metadata: acc.Metadata}
}

type resetEmailData struct {
	Name string
	Link string
}

// Options configures a Provider.
type Options struct {
	Path            string
	Issuer          string
	Secret          []byte
	TokenTTL        time.Duration
	ResetTimeout    time.Duration
	FrontendBaseURL string
	BcryptCost      int
}

func NewOptions(conf *core.Config) Options {
	path := conf.Identity.StorePath
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(conf.WorkDir, path)
	}
	return Options{
		Path:            path,
		Issuer:          conf.AppName,
		Secret:          []byte(conf.Identity.JWTSecret),
		TokenTTL:        conf.Identity.TokenTTL,
		ResetTimeout:    conf.PasswordResetTimeoutDelta,
		FrontendBaseURL: conf.FrontendBaseURL,
		BcryptCost:      bcrypt.DefaultCost,
	}
}

type Provider struct {
	db      *bbolt.DB
	opts    Options
	tokens  tokenGenerator
	mailSvc core.EmailService
	now     func() time.Time
}

var (
	_ auth.Provider       = (*Provider)(nil)
	_ auth.Revoker        = (*Provider)(nil)
	_ auth.ResetConfirmer = (*Provider)(nil)
)

// Open opens (or creates) the account store at opts.Path.
func Open(opts Options, mailSvc core.EmailService) (*Provider, error) {
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating identity store directory")
	}
	db, err := bbolt.Open(opts.Path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening identity store %s", opts.Path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{bucketAccounts, bucketEmails, bucketRevoked} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating identity buckets")
	}

	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	p := &Provider{db: db, opts: opts, mailSvc: mailSvc, now: time.Now}
	p.tokens = tokenGenerator{
		secret:  opts.Secret,
		timeout: opts.ResetTimeout,
		now:     func() time.Time { return p.now() },
	}
	return p, nil
}

func (p *Provider) Close() error {
	return p.db.Close()
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	if err := ctx.Err(); err != nil {
		return auth.Session{}, err
	}
	acc, err := p.accountByEmail(email)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			return auth.Session{}, auth.ErrInvalidCredentials
		}
		return auth.Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return auth.Session{}, auth.ErrInvalidCredentials
	}

	now := p.now()
	acc.LastSignIn = now.UTC()
	if err := p.saveAccount(acc); err != nil {
		return auth.Session{}, err
	}

	claims := auth.NewClaims(p.opts.Issuer, acc.identity(), now, p.opts.TokenTTL)
	token, err := auth.SignToken(claims, p.opts.Secret)
	if err != nil {
		return auth.Session{}, err
	}
	return auth.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   time.Unix(claims.ExpiresAt, 0).UTC(),
		Identity:    acc.identity(),
	}, nil
}

// SignOut revokes the access token until it expires.
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	claims, err := auth.ParseToken(accessToken, p.opts.Secret)
	if err != nil {
		return err
	}
	now := p.now().Unix()
	return p.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRevoked)

		// prune tokens that expired on their own
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var exp int64
			if err := json.Unmarshal(v, &exp); err != nil || exp < now {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}

		data, err := json.Marshal(claims.ExpiresAt)
		if err != nil {
			return err
		}
		return b.Put(tokenKey(accessToken), data)
	})
}

func (p *Provider) IsRevoked(accessToken string) (bool, error) {
	var revoked bool
	err := p.db.View(func(tx *bbolt.Tx) error {
		revoked = tx.Bucket(bucketRevoked).Get(tokenKey(accessToken)) != nil
		return nil
	})
	return revoked, err
}

func (p *Provider) SignUp(ctx context.Context, a auth.Account) (auth.Identity, error) {
	if err := ctx.Err(); err != nil {
		return auth.Identity{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), p.opts.BcryptCost)
	if err != nil {
		return auth.Identity{}, errors.Wrap(err, "hashing password")
	}
	acc := account{
		ID:           uuid.New().String(),
		Email:        core.CleanString(a.Email, true /* lower */),
		PasswordHash: hash,
		Metadata:     map[string]string{auth.MetaName: a.Name, auth.MetaRole: a.Role},
		CreatedAt:    p.now().UTC(),
	}

	err = p.db.Update(func(tx *bbolt.Tx) error {
		emails := tx.Bucket(bucketEmails)
		if emails.Get([]byte(acc.Email)) != nil {
			return auth.ErrEmailExists
		}
		if err := emails.Put([]byte(acc.Email), []byte(acc.ID)); err != nil {
			return err
		}
		return putAccount(tx, acc)
	})
	if err != nil {
		return auth.Identity{}, err
	}
	return acc.identity(), nil
}

// UpdatePassword sets the password of the account the access token belongs to.
func (p *Provider) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	claims, err := auth.ParseToken(accessToken, p.opts.Secret)
	if err != nil {
		return err
	}
	if revoked, err := p.IsRevoked(accessToken); err != nil {
		return err
	} else if revoked {
		return auth.ErrInvalidToken
	}
	acc, err := p.accountByID(claims.Subject)
	if err != nil {
		return err
	}
	return p.setPassword(acc, newPassword)
}

// SendPasswordReset mails a reset link to the account's email. The link points
// to redirectTo (or the frontend's reset page) with the uid and token as query params.
func (p *Provider) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	acc, err := p.accountByEmail(email)
	if err != nil {
		return err
	}

	if redirectTo == "" {
		redirectTo = p.opts.FrontendBaseURL + "/reset-password"
	}
	link, err := url.Parse(redirectTo)
	if err != nil {
		return errors.Wrapf(err, "parsing redirect %q", redirectTo)
	}
	q := link.Query()
	q.Set("uid", encodeUID(acc))
	q.Set("token", p.tokens.makeToken(acc))
	link.RawQuery = q.Encode()

	name := acc.Metadata[auth.MetaName]
	if name == "" {
		name = acc.Email
	}
	p.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: name, Address: acc.Email}},
		Subject:      resetSubject,
		TemplateName: "password_reset",
		TemplateData: resetEmailData{Name: name, Link: link.String()},
	})
	return nil
}

func (p *Provider) ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := decodeUID(uid)
	if err != nil {
		return auth.ErrInvalidToken
	}
	acc, err := p.accountByID(id)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			return auth.ErrInvalidToken
		}
		return err
	}
	if err := p.tokens.verifyToken(acc, token); err != nil {
		return err
	}
	return p.setPassword(acc, newPassword)
}

func (p *Provider) setPassword(acc account, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.opts.BcryptCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	acc.PasswordHash = hash
	return p.saveAccount(acc)
}

func (p *Provider) accountByEmail(email string) (account, error) {
	var acc account
	err := p.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketEmails).Get([]byte(core.CleanString(email, true /* lower */)))
		if id == nil {
			return auth.ErrAccountNotFound
		}
		return getAccount(tx, string(id), &acc)
	})
	return acc, err
}

func (p *Provider) accountByID(id string) (account, error) {
	var acc account
	err := p.db.View(func(tx *bbolt.Tx) error {
		return getAccount(tx, id, &acc)
	})
	return acc, err
}

func (p *Provider) saveAccount(acc account) error {
	return p.db.Update(func(tx *bbolt.Tx) error {
		return putAccount(tx, acc)
	})
}

func getAccount(tx *bbolt.Tx, id string, acc *account) error {
	v := tx.Bucket(bucketAccounts).Get([]byte(id))
	if v == nil {
		return auth.ErrAccountNotFound
	}
	return json.Unmarshal(v, acc)
}

func putAccount(tx *bbolt.Tx, acc account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketAccounts).Put([]byte(acc.ID), data)
}

func tokenKey(accessToken string) []byte {
	sum := sha256.Sum256([]byte(accessToken))
	return []byte(hex.EncodeToString(sum[:]))
}
