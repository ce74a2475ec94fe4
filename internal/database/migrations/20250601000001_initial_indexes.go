package migrations

import (
	"context"
	"fmt"

	"github.com/robalyx/leo/internal/database/types/enum"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- A giver can only credit a message once through reactions
			CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_entries_reaction_grant
			ON ledger_entries (message_id, giver_id)
			WHERE origin = ?;

			-- Score aggregation per recipient
			CREATE INDEX IF NOT EXISTS idx_ledger_entries_recipient
			ON ledger_entries (recipient_id, created_at DESC)
			INCLUDE (delta);

			CREATE INDEX IF NOT EXISTS idx_ledger_entries_giver
			ON ledger_entries (giver_id, created_at DESC)
			WHERE giver_id IS NOT NULL;

			-- Poll lookups
			CREATE INDEX IF NOT EXISTS idx_poll_options_poll
			ON poll_options (poll_id, id);

			CREATE INDEX IF NOT EXISTS idx_poll_choices_option
			ON poll_choices (option_id);

			CREATE INDEX IF NOT EXISTS idx_polls_creator
			ON polls (creator_id, created_at DESC);
		`, enum.EntryOriginReaction).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_ledger_entries_reaction_grant;
			DROP INDEX IF EXISTS idx_ledger_entries_recipient;
			DROP INDEX IF EXISTS idx_ledger_entries_giver;
			DROP INDEX IF EXISTS idx_poll_options_poll;
			DROP INDEX IF EXISTS idx_poll_choices_option;
			DROP INDEX IF EXISTS idx_polls_creator;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
