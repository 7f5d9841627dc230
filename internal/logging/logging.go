// Package logging builds the zap logger shared by the server, the event
// consumer and the client CLI.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger for env "prod"/"production" and a
// human-readable development logger otherwise.  LOG_LEVEL style strings
// ("debug", "warn", ...) override the default level when level is non-empty.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}

// Must is New for process entry points, falling back to a no-op logger so
// startup never fails on a bad LOG_LEVEL.
func Must(env, level string) *zap.Logger {
	l, err := New(env, level)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
