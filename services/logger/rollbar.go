package logsvc

import (
	"fmt"
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/user"
)

// RollbarLogger prints to a std logger and reports to Rollbar.
// A user.User argument becomes the Rollbar person of the report and its role
// travels in the custom data, so reports can be told apart per console profile.
type RollbarLogger struct {
	std     *log.Logger
	appName string
}

var _ core.Logger = (*RollbarLogger)(nil)

const (
	levelDebug = "DEBUG"
	levelInfo  = "INFO"
	levelWarn  = "WARN"
	levelError = "ERROR"
	levelFatal = "FATAL"

	customRoleKey = "perfil"
	customAppKey  = "app"
)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.Debug && !conf.TestMode)
	return &RollbarLogger{std: std, appName: conf.AppName}
}

// Enable toggles the Rollbar reports; printing is never disabled.
func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// report is a log call split into what Rollbar receives and what gets printed.
type report struct {
	args   []interface{} // msg first, then errors and the remaining args
	custom map[string]interface{}
	actor  *user.User
}

// expected args: error, map[string]interface{} (merged into the custom data), user.User (the signed in profile)
func (l RollbarLogger) newReport(msg string, args []interface{}) report {
	r := report{
		args:   make([]interface{}, 0, len(args)+2),
		custom: map[string]interface{}{},
	}
	if l.appName != "" {
		r.custom[customAppKey] = l.appName
	}
	r.args = append(r.args, msg)
	for _, arg := range args {
		switch a := arg.(type) {
		case user.User:
			if r.actor == nil { // the first profile wins
				usr := a
				r.actor = &usr
				r.custom[customRoleKey] = usr.Role
			}
		case map[string]interface{}:
			for k, v := range a {
				r.custom[k] = v
			}
		case nil:
		default:
			r.args = append(r.args, arg)
		}
	}
	r.args = append(r.args, r.custom)
	return r
}

func (r report) identify() {
	if r.actor == nil {
		rollbar.ClearPerson()
		return
	}
	name := r.actor.Name
	if name == "" {
		name = r.actor.Email
	}
	rollbar.SetPerson(r.actor.ID, name, r.actor.Email)
}

func (r report) actorLabel() string {
	if r.actor == nil {
		return ""
	}
	if r.actor.Role == "" {
		return fmt.Sprintf(" [%s]", r.actor.Email)
	}
	return fmt.Sprintf(" [%s (%s)]", r.actor.Email, r.actor.Role)
}

func (l RollbarLogger) print(level string, r report) {
	l.std.Printf("%s: %s%s", level, r.args[0], r.actorLabel())
	for _, arg := range r.args[1 : len(r.args)-1] {
		l.std.Printf("%+v", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	r := l.newReport(msg, args)
	r.identify()
	rollbar.Debug(r.args...)
	l.print(levelDebug, r)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	r := l.newReport(msg, args)
	r.identify()
	rollbar.Info(r.args...)
	l.print(levelInfo, r)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	r := l.newReport(msg, args)
	r.identify()
	rollbar.Warning(r.args...)
	l.print(levelWarn, r)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	r := l.newReport(msg, args)
	r.identify()
	rollbar.Error(r.args...)
	l.print(levelError, r)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	r := l.newReport(msg, args)
	r.identify()
	rollbar.Critical(r.args...)
	rollbar.Wait()
	l.print(levelFatal, r)
	l.std.Fatal(msg)
}
