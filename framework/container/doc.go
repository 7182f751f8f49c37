// Package container provides a small IoC (Inversion of Control) container
// and a Service Provider system.
//
// # Overview
//
// The container manages the construction and lifetime of an application's
// dependencies. It supports transient bindings, singletons, pre-built
// instances, aliases and deferred providers. Because Go has no runtime
// constructor reflection, auto-wiring is replaced by explicit factories.
//
// Abstracts are plain strings. Key derives one from a Go type, so binding an
// interface (the capability) to a concrete implementation needs no naming
// convention.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot(), after which everything is safe to resolve
//  4. Resolve
//
// # Bindings
//
//	// Transient: new instance every Make()
//	c.Bind("clock", func(container.Resolver) (any, error) { return time.Now, nil })
//
//	// Singleton: created once, reused
//	container.ProvideSingleton(c, func(container.Resolver) (services.MyService, error) {
//	    return services.NewMyService(), nil
//	})
//
//	// Pre-built value
//	c.Instance("config", cfg)
//
//	// Alias
//	_ = c.Alias("config", "configuration")
//
// # Resolving
//
//	raw, err := c.Make("config")                         // untyped
//	cfg, err := container.Resolve[*config.Config](c, "config")
//	svc, err := container.Get[services.MyService](c)     // keyed by type
//
// Every failure is a *ResolutionError. Use errors.Is with ErrNotBound,
// ErrCircular, ErrTypeMismatch or ErrNilFactory to tell them apart.
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool   { return true }
//	func (p *HeavyProvider) Provides() []string { return []string{"heavy"} }
//	func (p *HeavyProvider) Register(app *container.Container) error {
//	    app.Singleton("heavy", func(container.Resolver) (any, error) {
//	        return heavySetup() // only called on first app.Make("heavy")
//	    })
//	    return nil
//	}
package container
