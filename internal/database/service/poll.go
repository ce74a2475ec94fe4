package service

import (
	"context"
	"errors"
	"time"

	"github.com/robalyx/leo/internal/database/models"
	"github.com/robalyx/leo/internal/database/types"
	"go.uber.org/zap"
)

// MinPollOptions is the fewest options a poll can be created with.
const MinPollOptions = 2

var ErrTooFewOptions = errors.New("a poll needs at least two options")

// PollService handles poll business logic.
type PollService struct {
	model  *models.PollModel
	logger *zap.Logger
}

// NewPoll creates a new poll service.
func NewPoll(model *models.PollModel, logger *zap.Logger) *PollService {
	return &PollService{
		model:  model,
		logger: logger.Named("poll_service"),
	}
}

// Create stores a new poll and returns its empty tally.
func (s *PollService) Create(ctx context.Context, poll *types.Poll, labels []string) (*types.PollTally, error) {
	if len(labels) < MinPollOptions {
		return nil, ErrTooFewOptions
	}

	options, err := s.model.Create(ctx, poll, labels)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Created poll",
		zap.Int64("pollID", poll.ID),
		zap.Uint64("creatorID", poll.CreatorID),
		zap.Int("options", len(options)))

	return types.NewPollTally(poll, options, nil), nil
}

// Tally loads a poll with its current votes.
func (s *PollService) Tally(ctx context.Context, pollID int64) (*types.PollTally, error) {
	poll, err := s.model.Get(ctx, pollID)
	if err != nil {
		return nil, err
	}

	options, err := s.model.Options(ctx, pollID)
	if err != nil {
		return nil, err
	}

	choices, err := s.model.Choices(ctx, pollID)
	if err != nil {
		return nil, err
	}

	return types.NewPollTally(poll, options, choices), nil
}

// Vote records the voter's current choice, replacing any earlier one.
func (s *PollService) Vote(ctx context.Context, pollID, optionID int64, voterID uint64, now time.Time) error {
	return s.model.Vote(ctx, pollID, optionID, voterID, now)
}

// Close closes a poll. Closing twice is not an error.
func (s *PollService) Close(ctx context.Context, pollID int64) error {
	return s.model.Close(ctx, pollID)
}

// SetMessage stores where the poll is currently rendered.
func (s *PollService) SetMessage(ctx context.Context, pollID int64, channelID, messageID uint64) error {
	return s.model.SetMessage(ctx, pollID, channelID, messageID)
}
