// Package main is the entry point for the hotswap tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/hotswap/cmd/hotswap/commands"
	"go.trai.ch/hotswap/internal/adapters/config"
	"go.trai.ch/hotswap/internal/app"
	_ "go.trai.ch/hotswap/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*commands.CLI)) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		_ = components.App.Close(context.WithoutCancel(ctx))
	}()

	// 2. Runtime settings from hotswap.yaml in the working directory
	settings, err := config.NewSettings(".")
	if err != nil {
		components.Logger.Error(err)
		return 1
	}

	// 3. Interface - CLI
	cli, err := commands.New(components.App, components.Logger, settings)
	if err != nil {
		components.Logger.Error(err)
		return 1
	}
	for _, opt := range opts {
		opt(cli)
	}

	// 4. Execution
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
