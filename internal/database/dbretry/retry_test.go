package dbretry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/robalyx/leo/internal/database/dbretry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), want: true},
		{name: "connection reset", err: errors.New("read tcp: connection reset by peer"), want: true},
		{name: "broken pipe", err: errors.New("write: broken pipe"), want: true},
		{name: "plain error", err: errors.New("syntax error"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dbretry.IsRetryableError(tt.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.False(t, dbretry.IsUniqueViolation(nil))
	assert.False(t, dbretry.IsUniqueViolation(errors.New("duplicate key value")))
}

func TestNoResult(t *testing.T) {
	t.Parallel()

	t.Run("stops on permanent error", func(t *testing.T) {
		t.Parallel()

		calls := 0
		sentinel := errors.New("constraint failed")

		err := dbretry.NoResult(t.Context(), func(context.Context) error {
			calls++
			return sentinel
		})

		require.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient error", func(t *testing.T) {
		t.Parallel()

		calls := 0

		err := dbretry.NoResult(t.Context(), func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})
}

func TestOperation(t *testing.T) {
	t.Parallel()

	got, err := dbretry.Operation(t.Context(), func(context.Context) (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}
