package compact

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/atomiccms/atomic-service/internal/config"
	"github.com/atomiccms/atomic-service/internal/store/mongo"
)

// Command returns the compact sub-command. It runs a single orphan sweep and
// exits; the serve command runs the same pass on an interval.
func Command() *cli.Command {
	cfg := config.DefaultConfig()
	return &cli.Command{
		Name:  "compact",
		Usage: "Remove documents whose mandatory references no longer resolve",
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

			stats, err := s.CompactOrphans(ctx)
			if err != nil {
				return fmt.Errorf("compaction failed: %w", err)
			}
			for collection, deleted := range stats {
				if deleted > 0 {
					log.Info("Removed orphans", "collection", collection, "deleted", deleted)
				}
			}
			log.Info("Compaction complete", "deleted", stats.Total())
			return nil
		},
	}
}
