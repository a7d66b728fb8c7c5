package user

import (
	"time"

	"github.com/trezcool/sesiones/core"
)

// Roles
const (
	RoleUser  = "usuario"
	RoleAdmin = "administrador"
)

// Columns of the "usuarios" collection.
const (
	Table = "usuarios"

	ColID        = "id"
	ColName      = "nombre"
	ColEmail     = "email"
	ColRole      = "perfil"
	ColCreatedAt = "created_at"
)

var (
	AllRoles = []string{RoleUser, RoleAdmin}

	Roles = []Role{
		{Name: "Usuario", Value: RoleUser},
		{Name: "Administrador", Value: RoleAdmin},
	}

	// Columns may appear in a query.Spec over users.
	Columns = map[string]bool{ColID: true, ColName: true, ColEmail: true, ColRole: true, ColCreatedAt: true}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User is the profile row of an identity account. ID is the identity's id.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email"`
	Role      string    `json:"perfil"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Value implements query.Record.
func (u User) Value(field string) (string, bool) {
	var v string
	switch field {
	case ColID:
		v = u.ID
	case ColName:
		v = u.Name
	case ColEmail:
		v = u.Email
	case ColRole:
		v = u.Role
	case ColCreatedAt:
		if u.CreatedAt.IsZero() {
			return "", false
		}
		return u.CreatedAt.UTC().Format(time.RFC3339Nano), true
	default:
		return "", false
	}
	return v, v != ""
}

// NewUser contains information needed to register a new account and its profile.
type NewUser struct {
	Name            string `json:"nombre" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	Role            string `json:"perfil" validate:"omitempty,userrole"`
}

func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	if nu.Role == "" {
		nu.Role = RoleUser
	}
}

// UpdateUser defines what an administrator may change on a profile.
// The email belongs to the identity provider and is not editable.
type UpdateUser struct {
	Name string `json:"nombre"`
	Role string `json:"perfil" validate:"omitempty,userrole"`
}

func (uu *UpdateUser) Clean(orig User) {
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = orig.Name
	}
	if role := core.CleanString(uu.Role, true /* lower */); role != "" {
		uu.Role = role
	} else {
		uu.Role = orig.Role
	}
}

// ChangePassword is a password update for the signed in account.
type ChangePassword struct {
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// ResetPassword completes a password reset started by email.
type ResetPassword struct {
	UID             string `json:"uid" validate:"required"`
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

type QueryFilter struct {
	Search string `query:"search"` // substring of the name
	Role   string `query:"perfil"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == ""
}
