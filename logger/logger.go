package logger

import (
	"fmt"
	"os"
	"time"

	"sonora/blueprint"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a new zap logger
func NewLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}

// New returns the sentry backed logger when a DSN is configured. Without one, production gets the
// plain production logger and every other env a development logger.
func New(env, dsn string) *zap.Logger {
	if dsn != "" {
		return NewZapSentryLogger(dsn, &blueprint.SonoraLoggerOptions{Env: env, AddTrace: env != "production"})
	}
	if env != "production" {
		return NewLoggerWithConfig(zap.NewDevelopmentConfig())
	}
	return NewLogger()
}

// NewZapSentryLogger returns a new zap logger with sentry integration
func NewZapSentryLogger(dsn string, sonoraLoggerOpts *blueprint.SonoraLoggerOptions) *zap.Logger {
	if sonoraLoggerOpts == nil {
		sonoraLoggerOpts = &blueprint.SonoraLoggerOptions{}
	}

	if sonoraLoggerOpts.Env == "" {
		sonoraLoggerOpts.Env = "not_set"
	}

	cfg := zapsentry.Configuration{
		Level:             zapcore.WarnLevel,
		BreadcrumbLevel:   zapcore.WarnLevel,
		EnableBreadcrumbs: true,
		DisableStacktrace: !sonoraLoggerOpts.AddTrace,
		Tags: map[string]string{
			"component": "system",
			"when":      time.Now().String(),
			"env":       sonoraLoggerOpts.Env,
		},
	}

	log := NewLogger()

	sentryClient, sErr := sentry.NewClient(sentry.ClientOptions{
		Dsn:              dsn,
		TracesSampleRate: 1.0,
		AttachStacktrace: sonoraLoggerOpts.AddTrace,
	})
	if sErr != nil {
		fmt.Fprintf(os.Stderr, "[logger][NewZapSentryLogger] error creating sentry client: %v\n", sErr)
		return log
	}
	defer sentryClient.Flush(2 * time.Second)

	core, zErr := zapsentry.NewCore(cfg, zapsentry.NewSentryClientFromClient(sentryClient))
	if zErr != nil {
		fmt.Fprintf(os.Stderr, "[logger][NewZapSentryLogger] error creating zap core: %v\n", zErr)
		return log
	}

	return zapsentry.AttachCoreToLogger(core, log)
}

// NewLoggerWithConfig builds a logger from a custom zap config, falling back to a no-op logger
func NewLoggerWithConfig(config zap.Config) *zap.Logger {
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
