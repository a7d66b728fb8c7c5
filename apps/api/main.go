package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	echoapi "github.com/trezcool/sesiones/apps/api/echo"
	"github.com/trezcool/sesiones/apps/shared"
	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/notice"
	"github.com/trezcool/sesiones/core/session"
	"github.com/trezcool/sesiones/core/user"
	logsvc "github.com/trezcool/sesiones/services/logger"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	conf.Watch(func(c *core.Config) {
		// only runtime toggles are reloaded; everything else needs a restart
		logger.Enable(c.RollbarToken != "" && !c.Debug)
		logger.Info("configuration reloaded")
	})

	ctx := context.Background()
	repos, err := shared.OpenStorage(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing storage: %v", err), err)
		}
	}()

	mailSvc := shared.NewEmailService(conf, logger)
	idp, closeIdp, err := shared.OpenIdentity(conf, mailSvc)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up identity provider: %v", err), err)
	}
	defer func() {
		if err := closeIdp(); err != nil {
			logger.Error(fmt.Sprintf("closing identity provider: %v", err), err)
		}
	}()

	notices, err := notice.NewCatalog()
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading notices: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := shared.NewValidator(conf.PasswordPolicy)
	core.ParseEmailTemplates(logger)

	clock := core.RealClock{}
	sessSvc := session.NewService(repos.Sessions, clock, validate)
	usrSvc := user.NewService(repos.Users, idp, validate)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(conf, shutdown, &echoapi.Deps{
		SessionSvc: sessSvc,
		UserSvc:    usrSvc,
		Identity:   idp,
		Notices:    notices,
		Validate:   validate,
		Translator: translator,
		Logger:     logger,
		Clock:      clock,
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error(fmt.Sprintf("server error: %v", err), err)
		}

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}
