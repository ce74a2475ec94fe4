package database

import (
	"github.com/robalyx/leo/internal/database/service"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	ledger *service.LedgerService
	poll   *service.PollService
}

// NewService creates a new service instance with all services.
func NewService(repository *Repository, logger *zap.Logger) *Service {
	return &Service{
		ledger: service.NewLedger(repository.Ledger(), logger),
		poll:   service.NewPoll(repository.Poll(), logger),
	}
}

// Ledger returns the ledger service.
func (s *Service) Ledger() *service.LedgerService {
	return s.ledger
}

// Poll returns the poll service.
func (s *Service) Poll() *service.PollService {
	return s.poll
}
