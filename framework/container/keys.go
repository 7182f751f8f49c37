package container

import (
	"fmt"
	"reflect"
)

// Key returns the abstract key derived from T: its package-qualified type
// name. Interface types work, which makes Key the natural way to bind a
// capability to a concrete implementation.
//
//	container.Key[services.MyService]()  // "github.com/km-arc/go-hello/app/services.MyService"
//	container.Key[*zap.Logger]()         // "*go.uber.org/zap.Logger"
func Key[T any]() string {
	return typeName(reflect.TypeFor[T]())
}

// TypeKey returns the package-qualified type name of v with one pointer
// level stripped, so a typed nil interface pointer names the interface.
//
//	container.TypeKey((*services.MyService)(nil)) == container.Key[services.MyService]()
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return typeName(t)
}

func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		return "*" + typeName(t.Elem())
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// ── Typed registration ────────────────────────────────────────────────────────

// ProvideSingleton binds T, keyed by Key[T], to a factory whose result is
// shared for the lifetime of c.
//
//	container.ProvideSingleton(c, func(container.Resolver) (services.MyService, error) {
//	    return services.NewMyService(), nil
//	})
func ProvideSingleton[T any](c *Container, factory func(r Resolver) (T, error)) {
	c.Singleton(Key[T](), erase(factory))
}

// ProvideTransient binds T, keyed by Key[T], to a factory run on every Make.
func ProvideTransient[T any](c *Container, factory func(r Resolver) (T, error)) {
	c.Bind(Key[T](), erase(factory))
}

// ProvideInstance registers a pre-built T under Key[T].
func ProvideInstance[T any](c *Container, instance T) {
	c.Instance(Key[T](), instance)
}

func erase[T any](factory func(r Resolver) (T, error)) Factory {
	if factory == nil {
		return nil
	}
	return func(r Resolver) (any, error) {
		v, err := factory(r)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// ── Typed resolution ──────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	// Instead of: raw, err := c.Make("config"); cfg := raw.(*config.Config)
//	// Write:      cfg, err := container.Resolve[*config.Config](c, "config")
func Resolve[T any](r Resolver, abstract string) (T, error) {
	var zero T
	instance, err := r.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &ResolutionError{
			Abstract: abstract,
			Err:      fmt.Errorf("%w: resolved to %T, want %s", ErrTypeMismatch, instance, Key[T]()),
		}
	}
	return typed, nil
}

// Get resolves the instance bound under Key[T].
//
//	svc, err := container.Get[services.MyService](c)
func Get[T any](r Resolver) (T, error) {
	return Resolve[T](r, Key[T]())
}

// MustResolve is like Resolve but panics on failure. Use it only where a
// missing binding is a programming error, such as bootstrap code.
func MustResolve[T any](r Resolver, abstract string) T {
	typed, err := Resolve[T](r, abstract)
	if err != nil {
		panic(err)
	}
	return typed
}

// MustGet is like Get but panics on failure.
func MustGet[T any](r Resolver) T {
	return MustResolve[T](r, Key[T]())
}
