package container

import (
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register binds services into the container. Boot is called after ALL
// providers have been registered, making it safe to resolve other bindings
// there.
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    container.ProvideSingleton(app, func(container.Resolver) (services.MyService, error) {
//	        return services.NewMyService(), nil
//	    })
//	    return nil
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here; use Boot for that.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	Boot(app Resolver) error

	// Provides returns the abstract keys this provider registers.
	// Only consulted for deferred providers.
	Provides() []string

	// IsDeferred reports whether the provider is loaded lazily, the first
	// time one of its Provides() abstracts is resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred.
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(app *container.Container) error { ... }
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ Resolver) error { return nil }
func (p *BaseProvider) Provides() []string    { return nil }
func (p *BaseProvider) IsDeferred() bool      { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred ones.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool

	// deferred providers loaded before Boot, booted by it
	pending []ServiceProvider
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register method, unless the
// provider is deferred. Registering the same provider twice is a no-op.
// A provider registered after Boot is booted immediately.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true
	booted := r.booted
	r.mu.Unlock()

	if provider.IsDeferred() {
		r.deferProvider(provider)
		return nil
	}

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("container: register %T: %w", provider, err)
	}

	r.mu.Lock()
	r.eager = append(r.eager, provider)
	r.mu.Unlock()

	if booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: boot %T: %w", provider, err)
		}
	}
	return nil
}

// deferProvider installs a loader for every abstract the provider declares.
// The first Make of any of them registers the provider. It is booted right
// away when the registry has already booted, otherwise by Boot.
func (r *ProviderRegistry) deferProvider(provider ServiceProvider) {
	var (
		once sync.Once
		err  error
	)
	provides := provider.Provides()
	load := func() error {
		once.Do(func() {
			if err = provider.Register(r.app); err != nil {
				err = fmt.Errorf("container: register deferred %T: %w", provider, err)
				return
			}
			r.app.dropLoaders(provides)

			r.mu.Lock()
			booted := r.booted
			if !booted {
				r.pending = append(r.pending, provider)
			}
			r.mu.Unlock()
			if booted {
				if bootErr := provider.Boot(r.app); bootErr != nil {
					err = fmt.Errorf("container: boot deferred %T: %w", provider, bootErr)
				}
			}
		})
		return err
	}
	for _, abstract := range provides {
		r.app.deferTo(abstract, load)
	}
}

// Boot calls Boot on every eager provider in registration order, then on
// deferred providers already loaded, and stops at the first error. Later
// calls are no-ops.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	providers := append(append([]ServiceProvider(nil), r.eager...), r.pending...)
	r.pending = nil
	r.mu.Unlock()

	for _, provider := range providers {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: boot %T: %w", provider, err)
		}
	}
	return nil
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
