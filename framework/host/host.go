// Package host builds an application host: configuration, a logger and a
// service container assembled in one step, the way a default host builder
// does it.
//
//	h, err := host.CreateDefaultBuilder().
//	    ConfigureServices(func(ctx host.BuilderContext, c *container.Container) error {
//	        container.ProvideSingleton(c, func(container.Resolver) (services.MyService, error) {
//	            return services.NewMyService(), nil
//	        })
//	        return nil
//	    }).
//	    Build()
//	defer h.Close()
//
//	svc, err := container.Get[services.MyService](h.Services())
package host

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/km-arc/go-hello/framework/config"
	"github.com/km-arc/go-hello/framework/container"
	"github.com/km-arc/go-hello/framework/logging"
	"github.com/km-arc/go-hello/framework/providers"
)

// Well-known abstracts every host registers.
const (
	ConfigKey = providers.ConfigKey
	LoggerKey = providers.LoggerKey
	HostKey   = "host"
)

// BuilderContext is what ConfigureServices callbacks see of the host under
// construction.
type BuilderContext struct {
	Config *config.Config
	Logger *zap.Logger
}

// ServicesFunc registers services into the host's container.
type ServicesFunc func(ctx BuilderContext, services *container.Container) error

// Option customises a Builder.
type Option func(*Builder)

// WithEnvFiles sets the env files loaded before reading configuration.
func WithEnvFiles(files ...string) Option {
	return func(b *Builder) { b.envFiles = files }
}

// WithLogger uses logger instead of building one from configuration. The
// host does not sync a logger it did not build.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithName overrides APP_NAME.
func WithName(name string) Option {
	return func(b *Builder) { b.name = name }
}

// WithEnvironment overrides APP_ENV.
func WithEnvironment(env string) Option {
	return func(b *Builder) { b.env = env }
}

// WithConfig applies fn to the loaded configuration before anything is
// built from it.
func WithConfig(fn func(*config.Config)) Option {
	return func(b *Builder) { b.mutate = append(b.mutate, fn) }
}

// Builder collects registrations. It is not safe for concurrent use.
type Builder struct {
	envFiles  []string
	logger    *zap.Logger
	name      string
	env       string
	mutate    []func(*config.Config)
	configure []ServicesFunc
	providers []container.ServiceProvider
}

// CreateDefaultBuilder returns a builder that loads configuration from the
// environment and builds a zap logger from it.
func CreateDefaultBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ConfigureServices adds a registration callback. Callbacks run in the order
// they were added.
func (b *Builder) ConfigureServices(fn ServicesFunc) *Builder {
	b.configure = append(b.configure, fn)
	return b
}

// UseProvider adds a service provider, registered after every
// ConfigureServices callback and booted before Build returns.
func (b *Builder) UseProvider(p container.ServiceProvider) *Builder {
	b.providers = append(b.providers, p)
	return b
}

// Build assembles the host. On error nothing is returned and any logger the
// builder created is flushed.
func (b *Builder) Build() (*Host, error) {
	cfg := config.Load(b.envFiles...)
	if b.name != "" {
		cfg.App.Name = b.name
	}
	if b.env != "" {
		cfg.App.Env = b.env
	}
	for _, fn := range b.mutate {
		fn(cfg)
	}

	logger, ownsLogger := b.logger, false
	if logger == nil {
		var err error
		if logger, err = logging.New(cfg.Log); err != nil {
			return nil, fmt.Errorf("host: %w", err)
		}
		ownsLogger = true
	}

	h := &Host{
		id:         uuid.NewString(),
		cfg:        cfg,
		ownsLogger: ownsLogger,
		services:   container.New(),
	}
	h.logger = logger.With(zap.String("host_id", h.id), zap.String("app", cfg.App.Name))

	if err := b.assemble(h); err != nil {
		if ownsLogger {
			_ = logger.Sync()
		}
		return nil, err
	}

	h.logger.Debug("host built",
		zap.String("env", cfg.App.Env),
		zap.Strings("bindings", h.services.Bindings()),
	)
	return h, nil
}

func (b *Builder) assemble(h *Host) error {
	c := h.services
	h.providers = container.NewProviderRegistry(c)

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: h.cfg},
		&providers.LoggingServiceProvider{Logger: h.logger},
	}
	for _, p := range core {
		if err := h.providers.Register(p); err != nil {
			return fmt.Errorf("host: %w", err)
		}
	}
	c.Instance(HostKey, h)

	ctx := BuilderContext{Config: h.cfg, Logger: h.logger}
	for i, fn := range b.configure {
		if err := fn(ctx, c); err != nil {
			return fmt.Errorf("host: configure services #%d: %w", i, err)
		}
	}

	for _, p := range b.providers {
		if err := h.providers.Register(p); err != nil {
			return fmt.Errorf("host: %w", err)
		}
	}
	if err := h.providers.Boot(); err != nil {
		return fmt.Errorf("host: %w", err)
	}
	return nil
}

// Host owns one container and everything registered in it.
type Host struct {
	id         string
	cfg        *config.Config
	logger     *zap.Logger
	ownsLogger bool
	services   *container.Container
	providers  *container.ProviderRegistry

	mu      sync.Mutex
	onClose []func() error
	closed  bool
}

// ID is unique per built host.
func (h *Host) ID() string { return h.id }

// Name is the configured application name.
func (h *Host) Name() string { return h.cfg.App.Name }

// Services returns the resolver for the host's bindings.
func (h *Host) Services() container.Resolver { return h.services }

// Container exposes the underlying container for late registrations.
func (h *Host) Container() *container.Container { return h.services }

// Config returns the configuration the host was built from.
func (h *Host) Config() *config.Config { return h.cfg }

// Logger returns the host logger, tagged with host_id and app.
func (h *Host) Logger() *zap.Logger { return h.logger }

// Providers returns the registry that booted the host's providers.
func (h *Host) Providers() *container.ProviderRegistry { return h.providers }

// OnClose registers fn to run on Close, in reverse registration order.
func (h *Host) OnClose(fn func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClose = append(h.onClose, fn)
}

// Close runs OnClose hooks and flushes the logger the host built. Instances
// already resolved stay valid. Calling Close more than once is a no-op.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	hooks := slices.Clone(h.onClose)
	h.mu.Unlock()

	var errs []error
	for _, fn := range slices.Backward(hooks) {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}

	h.logger.Debug("host closed")
	if h.ownsLogger {
		_ = h.logger.Sync() // best-effort; fails on /dev/stderr
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("host: close: %w", err)
	}
	return nil
}
