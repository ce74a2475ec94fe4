package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/robalyx/leo/cmd/db/commands"
	"github.com/robalyx/leo/internal/database"
	"github.com/robalyx/leo/internal/database/migrations"
	"github.com/robalyx/leo/internal/setup/config"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var ErrConfigRequired = errors.New("--config flag required")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	deps := &commands.CLIDependencies{}

	app := &cli.Command{
		Name:  "db",
		Usage: "Database management tool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the config file",
			},
		},
		Commands: withDependencies(deps, append(
			commands.MigrationCommands(deps),
			commands.TransferCommands(deps)...,
		)),
	}

	return app.Run(context.Background(), os.Args)
}

// withDependencies connects to the database before each command runs and closes it afterwards.
func withDependencies(deps *commands.CLIDependencies, cmds []*cli.Command) []*cli.Command {
	for _, cmd := range cmds {
		action := cmd.Action
		cmd.Action = func(ctx context.Context, c *cli.Command) error {
			configPath := c.String("config")
			if configPath == "" {
				return ErrConfigRequired
			}

			if err := setupDependencies(ctx, configPath, deps); err != nil {
				return err
			}
			defer deps.DB.Close()

			return action(ctx, c)
		}
	}

	return cmds
}

// setupDependencies initializes the database connection and migrator.
func setupDependencies(ctx context.Context, configPath string, deps *commands.CLIDependencies) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewConnection(ctx, &cfg.PostgreSQL, logger, false)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	deps.DB = db
	deps.Migrator = migrate.NewMigrator(db.DB(), migrations.Migrations)
	deps.Logger = logger

	return nil
}
