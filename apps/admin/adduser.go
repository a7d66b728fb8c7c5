package main

import (
	"context"
	"fmt"

	"github.com/trezcool/sesiones/core/user"
)

// addUser registers an identity account and its profile.
func (cli *commandLine) addUser(ctx context.Context, name, email, pwd string, isAdmin bool) error {
	role := user.RoleUser
	if isAdmin {
		role = user.RoleAdmin
	}
	usr, err := cli.usrSvc.Register(ctx, user.NewUser{
		Name:            name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Role:            role,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "created %s <%s> (%s)\n", usr.Name, usr.Email, usr.Role)
	return nil
}
