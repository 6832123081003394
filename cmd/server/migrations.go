package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/directory"
	"github.com/phrazzld/tasks-api/internal/platform/redis"
	"github.com/phrazzld/tasks-api/internal/platform/sqlstore"
	"github.com/spf13/cobra"
)

var migrateCommands = []string{
	sqlstore.MigrateUp,
	sqlstore.MigrateDown,
	sqlstore.MigrateStatus,
	sqlstore.MigrateVersion,
	sqlstore.MigrateReset,
}

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version|reset]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := sqlstore.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}

			cfg, log, err := initializeApp(*configPath)
			if err != nil {
				return err
			}
			return handleMigrations(cmd.Context(), cfg, command, log)
		},
	}
}

// handleMigrations opens the configured SQL database and runs one migration command.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, log *slog.Logger) error {
	if cfg.Database.Driver == driverMemory {
		return fmt.Errorf("migrations are not applicable to the %q database driver", driverMemory)
	}

	db, dialect, err := sqlstore.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", slog.String("error", err.Error()))
		}
	}()

	log.Info("Executing migrations", slog.String("command", command))
	return sqlstore.Migrate(ctx, db, dialect, command, log)
}

func newDirectoryCommand(configPath *string) *cobra.Command {
	dir := &cobra.Command{
		Use:   "directory",
		Short: "Manage the user directory",
	}
	dir.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Write the development users into the Redis directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := initializeApp(*configPath)
			if err != nil {
				return err
			}
			return seedDirectory(cmd.Context(), cfg, log)
		},
	})
	return dir
}

func seedDirectory(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if cfg.Directory.Backend != backendRedis {
		return fmt.Errorf("directory seed requires the %q backend, configured backend is %q",
			backendRedis, cfg.Directory.Backend)
	}

	client, err := redis.NewClient(ctx, cfg.Directory.RedisURL)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	return redis.NewUserDirectory(client, log).Seed(ctx, directory.DevelopmentUsers())
}
