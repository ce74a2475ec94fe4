package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalyx/leo/internal/database/models"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/rank"
	"go.uber.org/zap"
)

var (
	ErrZeroDelta        = errors.New("ledger entry must change the score")
	ErrMissingRecipient = errors.New("ledger entry has no recipient")
)

// LedgerService handles reputation ledger business logic.
type LedgerService struct {
	model  *models.LedgerModel
	logger *zap.Logger
}

// NewLedger creates a new ledger service.
func NewLedger(model *models.LedgerModel, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		model:  model,
		logger: logger.Named("ledger_service"),
	}
}

// Grant validates and appends a single ledger entry.
func (s *LedgerService) Grant(ctx context.Context, entry *types.LedgerEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	return s.model.Append(ctx, entry)
}

// Import appends entries carried over from another system.
func (s *LedgerService) Import(ctx context.Context, entries []*types.LedgerEntry) error {
	for i, entry := range entries {
		if err := validateEntry(entry); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	return s.model.AppendBatch(ctx, entries)
}

// Rank returns every member with ledger entries, ordered and dense-ranked.
func (s *LedgerService) Rank(ctx context.Context) ([]*types.RankEntry, error) {
	aggregates, err := s.model.Aggregates(ctx)
	if err != nil {
		return nil, err
	}

	return rank.Dense(aggregates), nil
}

// RankOf returns the score and rank of a single member.
func (s *LedgerService) RankOf(ctx context.Context, userID uint64) (*types.RankEntry, error) {
	entries, err := s.Rank(ctx)
	if err != nil {
		return nil, err
	}

	return rank.Of(entries, userID), nil
}

// Entries returns the full ledger history.
func (s *LedgerService) Entries(ctx context.Context) ([]*types.LedgerEntry, error) {
	return s.model.Entries(ctx)
}

func validateEntry(entry *types.LedgerEntry) error {
	if entry.RecipientID == 0 {
		return ErrMissingRecipient
	}

	if entry.Delta == 0 {
		return ErrZeroDelta
	}

	return nil
}
