package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("greeter"),
		kong.Description("Resolve MyService from a freshly built host and print its data."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.BindTo(os.Stdout, (*io.Writer)(nil)), // results on stdout, logs on stderr
	)
	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
