package providers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-hello/framework/config"
	"github.com/km-arc/go-hello/framework/container"
	"github.com/km-arc/go-hello/framework/providers"
)

func TestConfigServiceProvider_BindsConfigAndAlias(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Name: "Test"}}
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&providers.ConfigServiceProvider{Config: cfg}))

	for _, abstract := range []string{providers.ConfigKey, "configuration", container.Key[*config.Config]()} {
		got, err := container.Resolve[*config.Config](c, abstract)
		require.NoError(t, err, abstract)
		assert.Same(t, cfg, got, abstract)
	}
}

func TestLoggingServiceProvider_BindsAndBoots(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&providers.LoggingServiceProvider{Logger: logger}))
	require.NoError(t, reg.Boot())

	got, err := container.Resolve[*zap.Logger](c, providers.LoggerKey)
	require.NoError(t, err)
	assert.Same(t, logger, got)
	assert.Equal(t, 1, logs.FilterMessage("container booted").Len())
}

func TestLoggingServiceProvider_NilLoggerIsNop(t *testing.T) {
	c := container.New()
	require.NoError(t, (&providers.LoggingServiceProvider{}).Register(c))

	got, err := container.Get[*zap.Logger](c)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
