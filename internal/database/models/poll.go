package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/leo/internal/database/dbretry"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// PollModel handles database operations for polls, their options and votes.
type PollModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewPoll creates a new poll model.
func NewPoll(db *bun.DB, logger *zap.Logger) *PollModel {
	return &PollModel{
		db:     db,
		logger: logger.Named("db_poll"),
	}
}

// Create stores a poll together with its options and returns the options in display order.
func (m *PollModel) Create(ctx context.Context, poll *types.Poll, labels []string) ([]*types.PollOption, error) {
	var options []*types.PollOption

	err := dbretry.Transaction(ctx, m.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(poll).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert poll: %w", err)
		}

		options = make([]*types.PollOption, 0, len(labels))
		for _, label := range labels {
			options = append(options, &types.PollOption{PollID: poll.ID, Label: label})
		}

		if _, err := tx.NewInsert().Model(&options).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert poll options: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return options, nil
}

// Get retrieves a poll by ID.
func (m *PollModel) Get(ctx context.Context, pollID int64) (*types.Poll, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Poll, error) {
		var poll types.Poll
		err := m.db.NewSelect().
			Model(&poll).
			Where("id = ?", pollID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrPollNotFound
			}
			return nil, fmt.Errorf("failed to get poll: %w", err)
		}

		return &poll, nil
	})
}

// Options retrieves the options of a poll in display order.
func (m *PollModel) Options(ctx context.Context, pollID int64) ([]*types.PollOption, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.PollOption, error) {
		var options []*types.PollOption
		err := m.db.NewSelect().
			Model(&options).
			Where("poll_id = ?", pollID).
			Order("id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get poll options: %w", err)
		}

		return options, nil
	})
}

// Choices retrieves every current vote of a poll, oldest first.
func (m *PollModel) Choices(ctx context.Context, pollID int64) ([]*types.PollChoice, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.PollChoice, error) {
		var choices []*types.PollChoice
		err := m.db.NewSelect().
			Model(&choices).
			Where("poll_id = ?", pollID).
			Order("created_at ASC", "voter_id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get poll choices: %w", err)
		}

		return choices, nil
	})
}

// Vote records or replaces the voter's choice.
// The write only happens while the poll is open and the option belongs to it; the poll row is
// share-locked so a concurrent close either lands first and rejects the vote or waits for it.
func (m *PollModel) Vote(ctx context.Context, pollID, optionID int64, voterID uint64, now time.Time) error {
	affected, err := dbretry.Operation(ctx, func(ctx context.Context) (int64, error) {
		res, err := m.db.NewRaw(`
			INSERT INTO poll_choices (poll_id, voter_id, option_id, created_at, updated_at)
			SELECT p.id, ?, o.id, ?, ?
			FROM polls AS p
			JOIN poll_options AS o ON o.poll_id = p.id AND o.id = ?
			WHERE p.id = ? AND NOT p.closed
			FOR SHARE OF p
			ON CONFLICT (poll_id, voter_id) DO UPDATE
			SET option_id = EXCLUDED.option_id, updated_at = EXCLUDED.updated_at
		`, voterID, now, now, optionID, pollID).Exec(ctx)
		if err != nil {
			return 0, err
		}

		return res.RowsAffected()
	})
	if err != nil {
		return fmt.Errorf("failed to record vote: %w", err)
	}

	if affected > 0 {
		return nil
	}

	// Nothing was written, work out why
	poll, err := m.Get(ctx, pollID)
	if err != nil {
		return err
	}

	if poll.Closed {
		return types.ErrPollClosed
	}

	return types.ErrOptionNotFound
}

// Close marks a poll as closed.
func (m *PollModel) Close(ctx context.Context, pollID int64) error {
	affected, err := dbretry.Operation(ctx, func(ctx context.Context) (int64, error) {
		res, err := m.db.NewUpdate().
			Model((*types.Poll)(nil)).
			Set("closed = true").
			Where("id = ?", pollID).
			Exec(ctx)
		if err != nil {
			return 0, err
		}

		return res.RowsAffected()
	})
	if err != nil {
		return fmt.Errorf("failed to close poll: %w", err)
	}

	if affected == 0 {
		return types.ErrPollNotFound
	}

	return nil
}

// SetMessage points the poll at the message that currently renders it.
// Zero IDs clear the reference.
func (m *PollModel) SetMessage(ctx context.Context, pollID int64, channelID, messageID uint64) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model((*types.Poll)(nil)).
			Set("channel_id = NULLIF(?, 0)", channelID).
			Set("message_id = NULLIF(?, 0)", messageID).
			Where("id = ?", pollID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set poll message: %w", err)
	}

	return nil
}
