package migrate

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/atomiccms/atomic-service/internal/config"
	"github.com/atomiccms/atomic-service/internal/store/mongo"
)

// Command returns the migrate sub-command.
func Command() *cli.Command {
	cfg := config.DefaultConfig()
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create database collections and indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "db-url",
				Sources:     cli.EnvVars("ATOMIC_SERVICE_DB_URL"),
				Destination: &cfg.DBURL,
				Usage:       "MongoDB connection URL",
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "db-name",
				Sources:     cli.EnvVars("ATOMIC_SERVICE_DB_NAME"),
				Destination: &cfg.DBName,
				Value:       cfg.DBName,
				Usage:       "MongoDB database name",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := mongo.Open(ctx, &cfg)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer func() { _ = s.Close(context.Background()) }()

			if err := s.Migrate(ctx); err != nil {
				return fmt.Errorf("migrations failed: %w", err)
			}
			log.Info("Migrations complete", "db", cfg.DBName)
			return nil
		},
	}
}
