// Package hosttest provides a per-test host fixture: an isolated container
// built through the default host builder, torn down with the test.
//
//	func TestGetData(t *testing.T) {
//	    f := hosttest.New(t, providers.RegisterServices)
//	    svc := hosttest.Require[services.MyService](t, f)
//	    assert.Equal(t, "Hello, World!", svc.GetData())
//	}
package hosttest

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/km-arc/go-hello/framework/container"
	"github.com/km-arc/go-hello/framework/host"
)

// Fixture owns one host for the duration of a test. Fixtures share nothing,
// so parallel tests each get their own singletons.
type Fixture struct {
	host *host.Host
}

// New builds a host in the "testing" environment with a logger that writes
// to tb, runs configure in order, and closes the host in tb.Cleanup.
// A build failure fails the test immediately.
func New(tb testing.TB, configure ...host.ServicesFunc) *Fixture {
	tb.Helper()
	return NewWithProviders(tb, nil, configure...)
}

// NewWithProviders is New plus service providers registered after configure.
func NewWithProviders(tb testing.TB, providers []container.ServiceProvider, configure ...host.ServicesFunc) *Fixture {
	tb.Helper()

	b := host.CreateDefaultBuilder(
		// Never pick up a developer's .env.
		host.WithEnvFiles(filepath.Join(tb.TempDir(), "hosttest.env")),
		host.WithEnvironment("testing"),
		host.WithLogger(zaptest.NewLogger(tb)),
	)
	for _, fn := range configure {
		b.ConfigureServices(fn)
	}
	for _, p := range providers {
		b.UseProvider(p)
	}

	h, err := b.Build()
	if err != nil {
		tb.Fatalf("hosttest: build host: %v", err)
	}

	f := &Fixture{host: h}
	tb.Cleanup(func() {
		if err := f.Close(); err != nil {
			tb.Errorf("hosttest: close host: %v", err)
		}
	})
	return f
}

// Services returns the fixture's resolver.
func (f *Fixture) Services() container.Resolver { return f.host.Services() }

// Host returns the underlying host.
func (f *Fixture) Host() *host.Host { return f.host }

// Close disposes of the host. Values already resolved stay usable, and
// calling Close again, or letting Cleanup call it, is a no-op.
func (f *Fixture) Close() error { return f.host.Close() }

// Require resolves T from the fixture and fails the test if it cannot.
func Require[T any](tb testing.TB, f *Fixture) T {
	tb.Helper()
	v, err := container.Get[T](f.Services())
	if err != nil {
		tb.Fatalf("hosttest: resolve %s: %v", container.Key[T](), err)
	}
	return v
}
