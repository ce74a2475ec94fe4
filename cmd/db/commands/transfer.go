package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robalyx/leo/internal/export"
	"github.com/robalyx/leo/internal/transfer/yagpdb"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// TransferCommands returns the ledger import and export commands.
func TransferCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "import-yagpdb",
			Usage:     "Import a reputation log exported from YAGPDB.xyz",
			ArgsUsage: "FILE",
			Action:    handleImportYAGPDB(deps),
		},
		{
			Name:      "export-sqlite",
			Usage:     "Export the ledger and current scores",
			ArgsUsage: "DIR",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "csv",
					Usage: "Also write csv files",
				},
			},
			Action: handleExport(deps),
		},
	}
}

// handleImportYAGPDB handles the 'import-yagpdb' command.
func handleImportYAGPDB(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrFileRequired
		}

		file, err := os.Open(c.Args().First())
		if err != nil {
			return fmt.Errorf("failed to open export: %w", err)
		}
		defer file.Close()

		result, err := yagpdb.Import(ctx, deps.DB.Service().Ledger(), file, deps.Logger)
		if err != nil {
			return err
		}

		deps.Logger.Info("Import finished",
			zap.Int("imported", result.Imported),
			zap.Int("skipped", result.Skipped),
		)

		return nil
	}
}

// handleExport handles the 'export-sqlite' command.
func handleExport(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrDirRequired
		}

		formats := []export.Format{export.FormatSQLite}
		if c.Bool("csv") {
			formats = append(formats, export.FormatCSV)
		}

		exporter := export.New(deps.DB.Service().Ledger(), c.Args().First(), deps.Logger, formats...)

		manifest, err := exporter.ExportAll(ctx, time.Now())
		if err != nil {
			return err
		}

		deps.Logger.Info("Export finished",
			zap.Int("entries", manifest.Entries),
			zap.Int("members", manifest.Members),
			zap.String("dir", c.Args().First()),
		)

		return nil
	}
}
