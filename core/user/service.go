package user

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/auth"
	"github.com/trezcool/sesiones/core/query"
)

var (
	// errors
	ErrNotFound = errors.New("usuario no encontrado")
)

type (
	// Repository is the "usuarios" collection of the table store.
	// Lookups by id or email return ErrNotFound when nothing matches.
	Repository interface {
		QueryUsers(ctx context.Context, q *query.Spec) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		CountUsers(ctx context.Context) (int, error)
		// UpsertUser inserts the profile or replaces the one with the same ID.
		UpsertUser(ctx context.Context, u User) (User, error)
		UpdateUser(ctx context.Context, u User) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo     Repository
		idp      auth.Provider
		validate *validator.Validate
	}
)

func NewService(repo Repository, idp auth.Provider, validate *validator.Validate) *Service {
	return &Service{repo: repo, idp: idp, validate: validate}
}

func operationErr(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return core.NewOperationError(op, err)
}

// QueryAll lists every profile ordered by name.
func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	users, err := svc.repo.QueryUsers(ctx, query.New().OrderBy(ColName, true, false))
	return users, operationErr("listando usuarios", err)
}

// Filter applies AND operation on available QueryFilter fields.
func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]User, error) {
	filter.Clean()
	q := query.New()
	if filter.Search != "" {
		q.ILike(ColName, filter.Search)
	}
	if filter.Role != "" {
		q.Eq(ColRole, filter.Role)
	}
	users, err := svc.repo.QueryUsers(ctx, q.OrderBy(ColName, true, false))
	return users, operationErr("filtrando usuarios", err)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	return usr, operationErr("obteniendo usuario", err)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	return usr, operationErr("obteniendo usuario", err)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	n, err := svc.repo.CountUsers(ctx)
	return n, operationErr("contando usuarios", err)
}

// Speakers returns the names offered when picking a session speaker.
func (svc *Service) Speakers(ctx context.Context) ([]string, error) {
	users, err := svc.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(users))
	for _, u := range users {
		if u.Name != "" {
			names = append(names, u.Name)
		}
	}
	return names, nil
}

// Profile returns the profile of a signed in identity. Identities without a
// profile row get a regular user profile built from the identity itself.
func (svc *Service) Profile(ctx context.Context, id auth.Identity) (User, error) {
	usr, err := svc.GetByID(ctx, id.ID)
	if err == nil {
		return usr, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	name := id.Metadata[auth.MetaName]
	if name == "" {
		name = id.Email
	}
	return User{ID: id.ID, Name: name, Email: id.Email, Role: RoleUser}, nil
}

// SignIn authenticates against the identity provider and loads the profile.
func (svc *Service) SignIn(ctx context.Context, email, password string) (auth.Session, User, error) {
	sess, err := svc.idp.SignIn(ctx, core.CleanString(email, true /* lower */), password)
	if err != nil {
		return auth.Session{}, User{}, core.NewOperationError("iniciando sesión", err)
	}
	usr, err := svc.Profile(ctx, sess.Identity)
	if err != nil {
		return auth.Session{}, User{}, err
	}
	return sess, usr, nil
}

func (svc *Service) SignOut(ctx context.Context, accessToken string) error {
	if err := svc.idp.SignOut(ctx, accessToken); err != nil {
		return core.NewOperationError("cerrando sesión", err)
	}
	return nil
}

// Register creates the identity account, then its profile row.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	nu.Clean()
	if err := svc.validate.Struct(nu); err != nil {
		return User{}, err
	}

	id, err := svc.idp.SignUp(ctx, auth.Account{
		Email:    nu.Email,
		Password: nu.Password,
		Name:     nu.Name,
		Role:     nu.Role,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return User{}, core.NewOperationError("creando cuenta", err)
	}

	usr, err := svc.repo.UpsertUser(ctx, User{
		ID:    id.ID,
		Name:  nu.Name,
		Email: nu.Email,
		Role:  nu.Role,
	})
	return usr, operationErr("guardando perfil", err)
}

// Update changes the name and role of the profile with the given id.
func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	orig, err := svc.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	uu.Clean(orig)
	if err := svc.validate.Struct(uu); err != nil {
		return User{}, err
	}
	orig.Name = uu.Name
	orig.Role = uu.Role
	usr, err := svc.repo.UpdateUser(ctx, orig)
	return usr, operationErr("actualizando usuario", err)
}

// Delete removes profile rows. Identity accounts are kept by the provider.
func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return operationErr("eliminando usuario", svc.repo.DeleteUsersByID(ctx, ids...))
}

// ChangePassword validates locally, then updates the password of the signed in account.
func (svc *Service) ChangePassword(ctx context.Context, accessToken string, cp ChangePassword) error {
	if err := svc.validate.Struct(cp); err != nil {
		return err
	}
	if err := svc.idp.UpdatePassword(ctx, accessToken, cp.Password); err != nil {
		return core.NewOperationError("cambiando contraseña", err)
	}
	return nil
}

// RequestPasswordReset asks the identity provider to mail a reset link to the user's email.
func (svc *Service) RequestPasswordReset(ctx context.Context, id, redirectTo string) error {
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return svc.sendPasswordReset(ctx, usr.Email, redirectTo)
}

// RequestPasswordResetByEmail is RequestPasswordReset for a known email.
func (svc *Service) RequestPasswordResetByEmail(ctx context.Context, email, redirectTo string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return svc.sendPasswordReset(ctx, usr.Email, redirectTo)
}

func (svc *Service) sendPasswordReset(ctx context.Context, email, redirectTo string) error {
	if err := svc.idp.SendPasswordReset(ctx, email, redirectTo); err != nil {
		return core.NewOperationError("enviando email de recuperación", err)
	}
	return nil
}

// ConfirmPasswordReset completes a reset when the provider supports it.
func (svc *Service) ConfirmPasswordReset(ctx context.Context, rp ResetPassword) error {
	if err := svc.validate.Struct(rp); err != nil {
		return err
	}
	rc, ok := svc.idp.(auth.ResetConfirmer)
	if !ok {
		return core.NewOperationError("confirmando recuperación", errors.New("no soportado por el proveedor de identidad"))
	}
	if err := rc.ConfirmPasswordReset(ctx, rp.UID, rp.Token, rp.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return core.NewValidationError(err, core.FieldError{Field: "token", Error: err.Error()})
		}
		return core.NewOperationError("confirmando recuperación", err)
	}
	return nil
}
