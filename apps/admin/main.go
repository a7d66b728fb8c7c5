package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/sesiones/apps/shared"
	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/session"
	"github.com/trezcool/sesiones/core/user"
	logsvc "github.com/trezcool/sesiones/services/logger"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	repos, err := shared.OpenStorage(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	mailSvc := shared.NewEmailService(conf, logger)
	idp, closeIdp, err := shared.OpenIdentity(conf, mailSvc)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up identity provider: %v", err), err)
	}
	validate, _ := shared.NewValidator(conf.PasswordPolicy)
	core.ParseEmailTemplates(logger)

	// start CLI
	cli := commandLine{
		usrSvc:          user.NewService(repos.Users, idp, validate),
		sessSvc:         session.NewService(repos.Sessions, core.RealClock{}, validate),
		frontendBaseURL: conf.FrontendBaseURL,
		out:             os.Stdout,
	}
	err = cli.run(os.Args)

	_ = closeIdp()
	_ = repos.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
