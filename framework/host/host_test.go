package host_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-hello/framework/config"
	"github.com/km-arc/go-hello/framework/container"
	"github.com/km-arc/go-hello/framework/host"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func noEnvFile(t *testing.T) host.Option {
	t.Helper()
	return host.WithEnvFiles(filepath.Join(t.TempDir(), "none.env"))
}

type bootProvider struct {
	container.BaseProvider
	booted bool
}

func (p *bootProvider) Register(app *container.Container) error {
	app.Instance("from-provider", "yes")
	return nil
}

func (p *bootProvider) Boot(r container.Resolver) error {
	if _, err := r.Make("registered-first"); err != nil {
		return err
	}
	p.booted = true
	return nil
}

func TestBuild_RegistersWellKnownBindings(t *testing.T) {
	h, err := host.CreateDefaultBuilder(noEnvFile(t), host.WithLogger(zaptest.NewLogger(t))).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	cfg, err := container.Resolve[*config.Config](h.Services(), host.ConfigKey)
	require.NoError(t, err)
	assert.Same(t, h.Config(), cfg)

	typedCfg, err := container.Get[*config.Config](h.Services())
	require.NoError(t, err)
	assert.Same(t, cfg, typedCfg)

	logger, err := container.Get[*zap.Logger](h.Services())
	require.NoError(t, err)
	assert.Same(t, h.Logger(), logger)

	self, err := container.Resolve[*host.Host](h.Services(), host.HostKey)
	require.NoError(t, err)
	assert.Same(t, h, self)
}

func TestBuild_ConfigureServicesRunInOrderBeforeProviders(t *testing.T) {
	var order []string
	p := &bootProvider{}

	h, err := host.CreateDefaultBuilder(noEnvFile(t), host.WithLogger(zaptest.NewLogger(t))).
		ConfigureServices(func(ctx host.BuilderContext, c *container.Container) error {
			require.NotNil(t, ctx.Config)
			require.NotNil(t, ctx.Logger)
			order = append(order, "first")
			c.Instance("registered-first", 1)
			return nil
		}).
		ConfigureServices(func(_ host.BuilderContext, _ *container.Container) error {
			order = append(order, "second")
			return nil
		}).
		UseProvider(p).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	assert.Equal(t, []string{"first", "second"}, order)
	assert.True(t, p.booted, "provider should be booted by Build")
	assert.True(t, h.Providers().Booted())

	got, err := container.Resolve[string](h.Services(), "from-provider")
	require.NoError(t, err)
	assert.Equal(t, "yes", got)
}

func TestBuild_ConfigureErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	h, err := host.CreateDefaultBuilder(noEnvFile(t), host.WithLogger(zaptest.NewLogger(t))).
		ConfigureServices(func(host.BuilderContext, *container.Container) error { return boom }).
		Build()

	assert.Nil(t, h)
	assert.ErrorIs(t, err, boom)
}

func TestBuild_ProviderBootErrorAborts(t *testing.T) {
	// bootProvider needs "registered-first", which nobody registers here.
	h, err := host.CreateDefaultBuilder(noEnvFile(t), host.WithLogger(zaptest.NewLogger(t))).
		UseProvider(&bootProvider{}).
		Build()

	assert.Nil(t, h)
	assert.ErrorIs(t, err, container.ErrNotBound)
}

func TestBuild_NameAndEnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_NAME", "FromEnv")
	h, err := host.CreateDefaultBuilder(
		noEnvFile(t),
		host.WithLogger(zaptest.NewLogger(t)),
		host.WithName("Override"),
		host.WithEnvironment("testing"),
	).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	assert.Equal(t, "Override", h.Name())
	assert.True(t, h.Config().IsTesting())
}

func TestBuild_OwnLoggerFromConfig(t *testing.T) {
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("LOG_LEVEL", "error")

	h, err := host.CreateDefaultBuilder(noEnvFile(t)).Build()
	require.NoError(t, err)

	assert.False(t, h.Logger().Core().Enabled(zap.WarnLevel))
	assert.NoError(t, h.Close())
}

func TestBuild_BadLogFormatFails(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")

	_, err := host.CreateDefaultBuilder(noEnvFile(t)).Build()
	assert.Error(t, err)
}

func TestBuild_HostsAreIsolated(t *testing.T) {
	build := func() *host.Host {
		h, err := host.CreateDefaultBuilder(noEnvFile(t), host.WithLogger(zaptest.NewLogger(t))).
			ConfigureServices(func(_ host.BuilderContext, c *container.Container) error {
				c.Singleton("thing", func(container.Resolver) (any, error) { return new(int), nil })
				return nil
			}).
			Build()
		require.NoError(t, err)
		t.Cleanup(func() { _ = h.Close() })
		return h
	}
	a, b := build(), build()

	assert.NotEqual(t, a.ID(), b.ID())
	ta := container.MustResolve[*int](a.Services(), "thing")
	tb := container.MustResolve[*int](b.Services(), "thing")
	assert.NotSame(t, ta, tb)
}

func TestClose_HooksRunInReverseAndOnce(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h, err := host.CreateDefaultBuilder(noEnvFile(t), host.WithLogger(zap.New(core))).Build()
	require.NoError(t, err)

	var order []int
	h.OnClose(func() error { order = append(order, 1); return nil })
	h.OnClose(func() error { order = append(order, 2); return nil })

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	assert.Equal(t, []int{2, 1}, order)
	assert.Equal(t, 1, logs.FilterMessage("host closed").Len())
}

func TestClose_JoinsHookErrors(t *testing.T) {
	h, err := host.CreateDefaultBuilder(noEnvFile(t), host.WithLogger(zaptest.NewLogger(t))).Build()
	require.NoError(t, err)

	e1, e2 := errors.New("one"), errors.New("two")
	h.OnClose(func() error { return e1 })
	h.OnClose(func() error { return e2 })

	err = h.Close()
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
}

func TestClose_ResolvedInstancesStayValid(t *testing.T) {
	h, err := host.CreateDefaultBuilder(noEnvFile(t), host.WithLogger(zaptest.NewLogger(t))).
		ConfigureServices(func(_ host.BuilderContext, c *container.Container) error {
			c.Singleton("value", func(container.Resolver) (any, error) { return "kept", nil })
			return nil
		}).
		Build()
	require.NoError(t, err)

	before := container.MustResolve[string](h.Services(), "value")
	require.NoError(t, h.Close())
	after := container.MustResolve[string](h.Services(), "value")

	assert.Equal(t, "kept", before)
	assert.Equal(t, before, after)
}

func TestBuild_WithConfigMutatesBeforeLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	h, err := host.CreateDefaultBuilder(
		noEnvFile(t),
		host.WithConfig(func(c *config.Config) { c.Log.Level = "error" }),
	).Build()
	require.NoError(t, err)

	assert.Equal(t, "error", h.Config().Log.Level)
	assert.False(t, h.Logger().Core().Enabled(zap.InfoLevel))
	assert.NoError(t, h.Close())
}
