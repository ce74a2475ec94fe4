package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalyx/leo/internal/database/dbretry"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// importBatchSize bounds the number of rows sent in one bulk insert.
const importBatchSize = 1000

// LedgerModel handles database operations for the reputation ledger.
type LedgerModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewLedger creates a new ledger model.
func NewLedger(db *bun.DB, logger *zap.Logger) *LedgerModel {
	return &LedgerModel{
		db:     db,
		logger: logger.Named("db_ledger"),
	}
}

// Append writes a single entry and fills in its ID.
// A second reaction grant from the same giver on the same message returns types.ErrDuplicateGrant.
func (m *LedgerModel) Append(ctx context.Context, entry *types.LedgerEntry) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(entry).
			Returning("id").
			Exec(ctx)
		return err
	})
	if err != nil {
		if dbretry.IsUniqueViolation(err) {
			return types.ErrDuplicateGrant
		}
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

// AppendBatch writes many entries in one transaction.
func (m *LedgerModel) AppendBatch(ctx context.Context, entries []*types.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	err := dbretry.Transaction(ctx, m.db, func(ctx context.Context, tx bun.Tx) error {
		for i := 0; i < len(entries); i += importBatchSize {
			batch := entries[i:min(i+importBatchSize, len(entries))]

			if _, err := tx.NewInsert().Model(&batch).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if dbretry.IsUniqueViolation(err) {
			return fmt.Errorf("failed to append ledger batch: %w", errors.Join(types.ErrDuplicateGrant, err))
		}
		return fmt.Errorf("failed to append ledger batch: %w", err)
	}

	m.logger.Debug("Appended ledger batch", zap.Int("count", len(entries)))

	return nil
}

// Aggregates sums the ledger per recipient.
func (m *LedgerModel) Aggregates(ctx context.Context) ([]*types.ScoreAggregate, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ScoreAggregate, error) {
		var aggregates []*types.ScoreAggregate
		err := m.db.NewSelect().
			Model((*types.LedgerEntry)(nil)).
			ColumnExpr("recipient_id AS user_id").
			ColumnExpr("SUM(delta)::bigint AS score").
			ColumnExpr("MIN(created_at) AS earliest_activity").
			ColumnExpr("MAX(created_at) AS latest_activity").
			Group("recipient_id").
			Scan(ctx, &aggregates)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate ledger: %w", err)
		}

		return aggregates, nil
	})
}

// Entries returns every ledger entry in insertion order.
func (m *LedgerModel) Entries(ctx context.Context) ([]*types.LedgerEntry, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.LedgerEntry, error) {
		var entries []*types.LedgerEntry
		err := m.db.NewSelect().
			Model(&entries).
			Order("id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get ledger entries: %w", err)
		}

		return entries, nil
	})
}
