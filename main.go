package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/atomiccms/atomic-service/internal/cmd/compact"
	"github.com/atomiccms/atomic-service/internal/cmd/migrate"
	"github.com/atomiccms/atomic-service/internal/cmd/serve"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "atomic-service",
		Usage: "Content and collaboration platform backend",
		Commands: []*cli.Command{
			serve.Command(),
			migrate.Command(),
			compact.Command(),
		},
	}
	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
