// Package app is the composition root: it wires the application's providers
// into a host.
package app

import (
	"github.com/km-arc/go-hello/app/providers"
	"github.com/km-arc/go-hello/framework/host"
)

// NewBuilder returns a default host builder with every application provider
// registered. Callers may add more before Build.
func NewBuilder(opts ...host.Option) *host.Builder {
	return host.CreateDefaultBuilder(opts...).
		UseProvider(&providers.AppServiceProvider{})
}

// New builds the application host.
//
//	h, err := app.New()
//	if err != nil { ... }
//	defer h.Close()
func New(opts ...host.Option) (*host.Host, error) {
	return NewBuilder(opts...).Build()
}
