package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) resetPassword(ctx context.Context, email string) error {
	if err := cli.usrSvc.RequestPasswordResetByEmail(ctx, email, cli.frontendBaseURL+"/reset-password"); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "reset link sent to %s\n", email)
	return nil
}
