// Package main is the entry point for the elfrun CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/runoshun/elfrun/internal/app"
	"github.com/runoshun/elfrun/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()

	cli.PrintError(os.Stderr, err)
	os.Exit(cli.ExitCode(err))
}

func run(ctx context.Context, args []string) error {
	// Create dependency injection container
	container, err := app.NewDefault()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	// A nil slice would make cobra fall back to os.Args.
	rootCmd.SetArgs(append([]string{}, args...))
	return rootCmd.ExecuteContext(ctx)
}
