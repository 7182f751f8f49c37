// Package fxapp exposes the application's services as go.uber.org/fx
// modules, for callers that assemble their process with fx instead of the
// framework host.
package fxapp

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/km-arc/go-hello/app/services"
	"github.com/km-arc/go-hello/framework/config"
	"github.com/km-arc/go-hello/framework/logging"
)

// Module provides services.MyService. fx constructors run once per app, so
// the binding has singleton lifetime like AppServiceProvider's.
func Module() fx.Option {
	return fx.Module("services",
		fx.Provide(services.NewMyService),
	)
}

// LoggingModule provides *zap.Logger built from *config.Config and routes
// fx's own events through it.
func LoggingModule() fx.Option {
	return fx.Module("logging",
		fx.Provide(func(cfg *config.Config) (*zap.Logger, error) {
			return logging.New(cfg.Log)
		}),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
	)
}

// New assembles a complete fx application around cfg.
func New(cfg *config.Config, opts ...fx.Option) *fx.App {
	return fx.New(append([]fx.Option{
		fx.Supply(cfg),
		LoggingModule(),
		Module(),
	}, opts...)...)
}
