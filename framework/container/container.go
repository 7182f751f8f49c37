package container

import (
	"maps"
	"slices"
	"sync"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value. The Resolver it receives resolves the
// factory's own dependencies and tracks the resolution chain.
type Factory func(r Resolver) (any, error)

// Resolver is the read side of the container: anything that can turn an
// abstract key into an instance.
type Resolver interface {
	Make(abstract string) (any, error)
}

// binding holds a registered factory and whether it is a singleton.
type binding struct {
	factory   Factory
	singleton bool

	// build serialises the first construction of a singleton.
	build sync.Mutex
}

// loader registers deferred bindings on first use.
type loader func() error

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container.
//
// It supports:
//   - Bind / Singleton / Instance / Alias
//   - Make / Resolve / Get (generic)
//   - Deferred registration through ProviderRegistry
//   - Resolved event callbacks
//
// All methods are safe for concurrent use. A singleton factory runs at most
// once per container, however many goroutines resolve it at the same time.
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → resolved singleton instance
	instances map[string]any

	// alias → abstract (canonical key)
	aliases map[string]string

	// abstract → loader of the deferred provider that owns it
	loaders map[string]loader

	// resolved callbacks: []func(abstract, instance)
	afterResolving []func(string, any)
}

// New creates an empty container.
func New() *Container {
	c := &Container{
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		aliases:   make(map[string]string),
		loaders:   make(map[string]loader),
	}
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory: every Make builds a new value.
//
//	c.Bind("clock", func(r container.Resolver) (any, error) {
//	    return time.Now, nil
//	})
func (c *Container) Bind(abstract string, factory Factory) {
	c.bind(abstract, factory, false)
}

// Singleton registers a factory whose result is cached after the first
// successful resolution. A failed build is not cached; the next Make retries.
//
//	c.Singleton("greeter", func(r container.Resolver) (any, error) {
//	    return services.NewMyService(), nil
//	})
func (c *Container) Singleton(abstract string, factory Factory) {
	c.bind(abstract, factory, true)
}

// Instance registers a pre-built value as a singleton.
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.loaders, key)
	c.instances[key] = instance
}

func (c *Container) bind(abstract string, factory Factory, singleton bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)

	// Drop a cached instance so the next Make uses the new factory.
	delete(c.instances, key)
	delete(c.loaders, key)
	c.bindings[key] = &binding{factory: factory, singleton: singleton}
}

// Alias registers an alternative name for an abstract.
func (c *Container) Alias(abstract, alias string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	target := c.canonical(abstract)
	if target == alias {
		return &ResolutionError{Abstract: alias, Err: ErrSelfAlias}
	}
	c.aliases[alias] = target
	return nil
}

// deferTo registers ld as the loader for abstract. Make runs it when no
// binding exists yet and retries the lookup afterwards.
func (c *Container) deferTo(abstract string, ld loader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	if _, ok := c.bindings[key]; ok {
		return
	}
	c.loaders[key] = ld
}

func (c *Container) dropLoaders(abstracts []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, abs := range abstracts {
		delete(c.loaders, c.canonical(abs))
	}
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract from the container.
//
//	raw, err := c.Make("greeter")
func (c *Container) Make(abstract string) (any, error) {
	return c.make(abstract, nil)
}

// resolution is the Resolver handed to factories. It carries the chain of
// abstracts under construction so cycles surface as ErrCircular instead of
// a deadlock.
type resolution struct {
	c     *Container
	chain []string
}

func (r *resolution) Make(abstract string) (any, error) {
	return r.c.make(abstract, r.chain)
}

func (c *Container) make(abstract string, chain []string) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	if inst, ok := c.instances[key]; ok {
		c.mu.RUnlock()
		return inst, nil
	}
	b, bound := c.bindings[key]
	ld := c.loaders[key]
	c.mu.RUnlock()

	if slices.Contains(chain, key) {
		return nil, &ResolutionError{Abstract: key, Chain: slices.Clone(chain), Err: ErrCircular}
	}

	if !bound && ld != nil {
		if err := ld(); err != nil {
			return nil, &ResolutionError{Abstract: key, Chain: slices.Clone(chain), Err: err}
		}
		c.mu.RLock()
		b, bound = c.bindings[key]
		inst, cached := c.instances[key]
		c.mu.RUnlock()
		if cached {
			return inst, nil
		}
	}

	if !bound {
		return nil, &ResolutionError{Abstract: key, Chain: slices.Clone(chain), Err: ErrNotBound}
	}

	if !b.singleton {
		return c.runFactory(key, b, chain)
	}

	b.build.Lock()
	defer b.build.Unlock()

	// Another goroutine may have finished the build, or replaced the
	// binding, while we waited.
	c.mu.RLock()
	inst, ok := c.instances[key]
	current := c.bindings[key] == b
	c.mu.RUnlock()
	if ok {
		return inst, nil
	}
	if !current {
		return c.make(abstract, chain)
	}

	inst, err := c.runFactory(key, b, chain)
	if err != nil {
		return nil, err
	}

	// A rebind during the build wins; the result then goes uncached.
	c.mu.Lock()
	if c.bindings[key] == b {
		c.instances[key] = inst
	}
	c.mu.Unlock()
	return inst, nil
}

// runFactory executes the binding's factory with key pushed onto the chain.
func (c *Container) runFactory(key string, b *binding, chain []string) (any, error) {
	if b.factory == nil {
		return nil, &ResolutionError{Abstract: key, Chain: slices.Clone(chain), Err: ErrNilFactory}
	}

	next := append(slices.Clone(chain), key)
	instance, err := b.factory(&resolution{c: c, chain: next})
	if err != nil {
		return nil, &ResolutionError{Abstract: key, Chain: slices.Clone(chain), Err: err}
	}

	c.fireAfterResolving(key, instance)
	return instance, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether an abstract has a binding, an instance, or a
// deferred provider that will register it.
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	_, hasLoader := c.loaders[key]
	return hasBinding || hasInstance || hasLoader
}

// Resolved reports whether the abstract holds a cached instance.
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[c.canonical(abstract)]
	return ok
}

// Forget removes the binding, any cached instance, and every alias
// pointing at the abstract. Forgetting an alias forgets its target.
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.instances, key)
	delete(c.loaders, key)
	for alias, target := range c.aliases {
		if target == key {
			delete(c.aliases, alias)
		}
	}
}

// Flush resets the container, keeping only its self-binding.
func (c *Container) Flush() {
	c.mu.Lock()
	c.bindings = make(map[string]*binding)
	c.instances = make(map[string]any)
	c.aliases = make(map[string]string)
	c.loaders = make(map[string]loader)
	c.afterResolving = nil
	c.mu.Unlock()

	c.Instance("container", c)
}

// Bindings returns the sorted set of registered abstract keys.
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make(map[string]struct{}, len(c.bindings)+len(c.instances)+len(c.loaders))
	for k := range c.bindings {
		keys[k] = struct{}{}
	}
	for k := range c.instances {
		keys[k] = struct{}{}
	}
	for k := range c.loaders {
		keys[k] = struct{}{}
	}
	return slices.Sorted(maps.Keys(keys))
}

// canonical resolves an alias to its canonical key. Callers hold mu.
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired each time a factory produces an
// instance. Cache hits do not fire it.
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(abstract string, instance any) {
	c.mu.RLock()
	cbs := slices.Clone(c.afterResolving)
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(abstract, instance)
	}
}
