package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-hello/app/services"
	"github.com/km-arc/go-hello/framework/container"
	"github.com/km-arc/go-hello/framework/host"
)

// AppServiceProvider registers the application's services.
//
// Bound abstracts:
//   - container.Key[services.MyService]() → services.MyService (singleton)
type AppServiceProvider struct {
	container.BaseProvider
}

func (p *AppServiceProvider) Register(app *container.Container) error {
	container.ProvideSingleton(app, func(container.Resolver) (services.MyService, error) {
		return services.NewMyService(), nil
	})
	return nil
}

// Boot logs what was registered once the logger is resolvable.
func (p *AppServiceProvider) Boot(app container.Resolver) error {
	// Containers built outside a host have no logger.
	if logger, err := container.Get[*zap.Logger](app); err == nil {
		logger.Debug("services registered", zap.String("abstract", container.Key[services.MyService]()))
	}
	return nil
}

// RegisterServices is AppServiceProvider.Register in host.ServicesFunc form,
// for builders that configure services inline.
func RegisterServices(_ host.BuilderContext, c *container.Container) error {
	return (&AppServiceProvider{}).Register(c)
}
