package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robalyx/leo/internal/bot"
	"github.com/robalyx/leo/internal/setup"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	// BotLogDir specifies where bot log files are stored.
	BotLogDir = "logs/bot_logs"

	// shutdownTimeout bounds how long pending handlers may run after a signal.
	shutdownTimeout = 30 * time.Second
)

var ErrConfigRequired = errors.New("CONFIG argument required")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:      "bot",
		Usage:     "Start the Leo Discord bot",
		ArgsUsage: "CONFIG",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-dir",
				Value: BotLogDir,
				Usage: "Directory for log sessions",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return ErrConfigRequired
			}
			return runBot(ctx, c.Args().First(), c.String("log-dir"))
		},
	}

	return app.Run(context.Background(), os.Args)
}

func runBot(ctx context.Context, configPath, logDir string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := setup.InitializeApp(ctx, configPath, "bot", logDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.Background())

	discordBot, err := bot.New(app.Config, app.DB, app.RedisManager, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	if err := discordBot.Start(ctx); err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}

	app.Logger.Info("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	discordBot.Close(shutdownCtx)
	app.Logger.Info("Bot stopped", zap.Error(context.Cause(ctx)))

	return nil
}
