package database

import (
	"github.com/robalyx/leo/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	ledger *models.LedgerModel
	poll   *models.PollModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		ledger: models.NewLedger(db, logger),
		poll:   models.NewPoll(db, logger),
	}
}

// Ledger returns the ledger model repository.
func (r *Repository) Ledger() *models.LedgerModel {
	return r.ledger
}

// Poll returns the poll model repository.
func (r *Repository) Poll() *models.PollModel {
	return r.poll
}
