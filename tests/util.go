// Package testutil builds a complete in-memory application stack for tests.
package testutil

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/sesiones/apps/shared"
	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/auth"
	"github.com/trezcool/sesiones/core/session"
	"github.com/trezcool/sesiones/core/user"
	emailsvc "github.com/trezcool/sesiones/services/email"
	"github.com/trezcool/sesiones/services/identity/local"
	logsvc "github.com/trezcool/sesiones/services/logger"
	inmemdb "github.com/trezcool/sesiones/storage/database/inmem"
)

// Today is the date every Stack clock is fixed on.
var Today = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

type Stack struct {
	Conf       *core.Config
	Clock      core.Clock
	Logger     core.Logger
	Mail       *emailsvc.ConsoleService
	Identity   *local.Provider
	Sessions   session.Repository
	Users      user.Repository
	Validate   *validator.Validate
	Translator ut.Translator
	SessionSvc *session.Service
	UserSvc    *user.Service
}

// NewStack wires the services on in-memory storage, a temporary local
// identity store and a silent mail service.
func NewStack(t *testing.T) *Stack {
	t.Helper()
	conf := core.NewTestConfig()
	conf.WorkDir = t.TempDir()

	s := &Stack{
		Conf:   conf,
		Clock:  core.FixedClock(Today),
		Logger: logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf),
	}
	s.Mail = emailsvc.NewConsoleServiceMock(conf, s.Logger)

	opts := local.NewOptions(conf)
	opts.Path = filepath.Join(conf.WorkDir, "identity.db")
	opts.BcryptCost = bcrypt.MinCost
	idp, err := local.Open(opts, s.Mail)
	if err != nil {
		t.Fatalf("local.Open(): %v", err)
	}
	t.Cleanup(func() { _ = idp.Close() })
	s.Identity = idp

	db := inmemdb.Open()
	s.Sessions = inmemdb.NewSessionRepository(db)
	s.Users = inmemdb.NewUserRepository(db)

	s.Validate, s.Translator = shared.NewValidator(conf.PasswordPolicy)
	s.SessionSvc = session.NewService(s.Sessions, s.Clock, s.Validate)
	s.UserSvc = user.NewService(s.Users, idp, s.Validate)
	return s
}

// CreateUser registers an identity account with its profile.
func CreateUser(t *testing.T, s *Stack, name, email, pwd, role string) user.User {
	t.Helper()
	ctx := context.Background()
	id, err := s.Identity.SignUp(ctx, auth.Account{Email: email, Password: pwd, Name: name, Role: role})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	usr, err := s.Users.UpsertUser(ctx, user.User{ID: id.ID, Name: name, Email: id.Email, Role: role})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// SignIn returns an access token for the account.
func SignIn(t *testing.T, s *Stack, email, pwd string) string {
	t.Helper()
	sess, err := s.Identity.SignIn(context.Background(), email, pwd)
	if err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}
	return sess.AccessToken
}

// CreateSession stores sess as is.
func CreateSession(t *testing.T, s *Stack, sess session.Session) session.Session {
	t.Helper()
	sess, err := s.Sessions.CreateSession(context.Background(), sess)
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return sess
}
