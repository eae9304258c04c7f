package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/facsched/backend/core"
)

// RollbarLogger prints to a std logger and reports to Rollbar.
// Args may hold errors, extra data maps and a core.Principal, reported as the Rollbar person.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// split separates the Principal (first non-zero one wins) from the other args.
func split(args []interface{}) (prn core.Principal, rest []interface{}) {
	rest = make([]interface{}, 0, len(args))
	for _, arg := range args {
		if p, ok := arg.(core.Principal); ok {
			if prn.IsZero() {
				prn = p
			}
			continue
		}
		rest = append(rest, arg)
	}
	return prn, rest
}

func (l RollbarLogger) log(level string, msg string, args []interface{}) {
	prn, rest := split(args)
	if prn.IsZero() {
		rollbar.ClearPerson()
	} else {
		rollbar.SetPerson(prn.ID, prn.Name, prn.Email)
	}
	rollbar.Log(level, append([]interface{}{msg}, rest...)...)

	if prn.IsZero() {
		l.std.Println(msg)
	} else {
		l.std.Printf("%s (user: %s)\n", msg, prn.ID)
	}
	for _, arg := range rest {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }
func (l RollbarLogger) Info(msg string, args ...interface{})  { l.log(rollbar.INFO, msg, args) }
func (l RollbarLogger) Warn(msg string, args ...interface{})  { l.log(rollbar.WARN, msg, args) }
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
