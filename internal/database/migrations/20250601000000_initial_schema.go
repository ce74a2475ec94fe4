package migrations

import (
	"context"
	"fmt"

	"github.com/robalyx/leo/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			_, err := tx.NewCreateTable().
				Model((*types.LedgerEntry)(nil)).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create ledger_entries table: %w", err)
			}

			_, err = tx.NewCreateTable().
				Model((*types.Poll)(nil)).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create polls table: %w", err)
			}

			_, err = tx.NewCreateTable().
				Model((*types.PollOption)(nil)).
				IfNotExists().
				ForeignKey(`("poll_id") REFERENCES "polls" ("id") ON DELETE CASCADE`).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create poll_options table: %w", err)
			}

			_, err = tx.NewCreateTable().
				Model((*types.PollChoice)(nil)).
				IfNotExists().
				ForeignKey(`("poll_id") REFERENCES "polls" ("id") ON DELETE CASCADE`).
				ForeignKey(`("option_id") REFERENCES "poll_options" ("id") ON DELETE CASCADE`).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create poll_choices table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`DROP TABLE IF EXISTS poll_choices, poll_options, polls, ledger_entries CASCADE`).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}

		return nil
	})
}
