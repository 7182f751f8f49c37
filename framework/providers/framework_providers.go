package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-hello/framework/config"
	"github.com/km-arc/go-hello/framework/container"
)

// Abstracts bound by the framework providers.
const (
	ConfigKey = "config"
	LoggerKey = "logger"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Bound abstracts:
//   - "config"                 → *config.Config
//   - "configuration" (alias)  → *config.Config
//   - Key[*config.Config]()    → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	cfg := p.Config
	if cfg == nil {
		cfg = config.Load()
	}
	app.Instance(ConfigKey, cfg)
	container.ProvideInstance(app, cfg)
	return app.Alias(ConfigKey, "configuration")
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the host logger.
//
// Bound abstracts:
//   - "logger"              → *zap.Logger
//   - Key[*zap.Logger]()    → *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app.Instance(LoggerKey, logger)
	container.ProvideInstance(app, logger)
	return nil
}

// Boot reports the bindings the container holds once every provider has
// registered.
func (p *LoggingServiceProvider) Boot(app container.Resolver) error {
	c, err := container.Resolve[*container.Container](app, "container")
	if err != nil {
		return err
	}
	logger, err := container.Get[*zap.Logger](app)
	if err != nil {
		return err
	}
	logger.Debug("container booted", zap.Int("bindings", len(c.Bindings())))
	return nil
}
