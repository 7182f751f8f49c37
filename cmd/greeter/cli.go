package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/fx"

	"github.com/km-arc/go-hello/app"
	"github.com/km-arc/go-hello/app/fxapp"
	"github.com/km-arc/go-hello/app/services"
	"github.com/km-arc/go-hello/framework/config"
	"github.com/km-arc/go-hello/framework/container"
	"github.com/km-arc/go-hello/framework/host"
)

var version = "dev"

// CLI is the root command configuration with subcommands.
type CLI struct {
	LogLevel string           `kong:"short='l',help='Log level (debug, info, warn, error); overrides LOG_LEVEL when set'"`
	EnvFile  []string         `kong:"name='env-file',help='Env files to load before reading configuration',default='.env'"`
	Get      GetCmd           `kong:"cmd,default='1',help='Print MyService.GetData() (default)'"`
	Bindings BindingsCmd      `kong:"cmd,help='List the abstracts registered in the host container'"`
	Version  kong.VersionFlag `kong:"short='v',help='Show version and exit.'"`
}

func (c *CLI) hostOptions() []host.Option {
	return []host.Option{
		host.WithEnvFiles(c.EnvFile...),
		host.WithConfig(c.applyFlags),
	}
}

// applyFlags overrides cfg with the flags given on the command line.
func (c *CLI) applyFlags(cfg *config.Config) {
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
}

// GetCmd resolves MyService and prints its data.
type GetCmd struct {
	Engine  string        `kong:"default='container',enum='container,fx',help='DI engine used to resolve the service'"`
	Timeout time.Duration `kong:"default='5s',help='fx start/stop timeout'"`
}

// Run executes the get command.
func (g *GetCmd) Run(cli *CLI, out io.Writer) error {
	var (
		svc services.MyService
		err error
	)
	switch g.Engine {
	case "fx":
		svc, err = g.viaFx(cli)
	default:
		svc, err = viaContainer(cli)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, svc.GetData())
	return err
}

func viaContainer(cli *CLI) (services.MyService, error) {
	h, err := app.New(cli.hostOptions()...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = h.Close() }()

	return container.Get[services.MyService](h.Services())
}

func (g *GetCmd) viaFx(cli *CLI) (services.MyService, error) {
	cfg := config.Load(cli.EnvFile...)
	cli.applyFlags(cfg)

	var svc services.MyService
	fxApp := fxapp.New(cfg, fx.Populate(&svc))

	startCtx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return nil, fmt.Errorf("fx start: %w", err)
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), g.Timeout)
	defer cancelStop()
	if err := fxApp.Stop(stopCtx); err != nil {
		return nil, fmt.Errorf("fx stop: %w", err)
	}
	return svc, nil
}

// BindingsCmd lists container bindings.
type BindingsCmd struct{}

// Run executes the bindings command.
func (b *BindingsCmd) Run(cli *CLI, out io.Writer) error {
	h, err := app.New(cli.hostOptions()...)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	for _, abstract := range h.Container().Bindings() {
		if _, err := fmt.Fprintln(out, abstract); err != nil {
			return err
		}
	}
	return nil
}
