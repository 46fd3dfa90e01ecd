// Package main is the entry point for the sdnode command.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/sdnode/cmd/sdnode/commands"
	"go.trai.ch/sdnode/internal/app"
	"go.trai.ch/sdnode/internal/core/domain"
	_ "go.trai.ch/sdnode/internal/wiring"
)

// Exit codes.
const (
	exitOK                = 0
	exitError             = 1
	exitContractViolation = 2
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) (code int) {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return exitError
	}
	defer cleanup()

	for _, opt := range opts {
		opt(components.App)
	}

	// A contract violation is a bug in the backend, not a user error.
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		cv, ok := domain.AsContractViolation(r)
		if !ok {
			panic(r)
		}
		_, _ = fmt.Fprintf(stderr, "Error: contract violation in %s: %s\n", cv.NodeID, cv.Message)
		code = exitContractViolation
	}()

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return exitError
	}
	return exitOK
}
