package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type source struct {
	entries []*types.LedgerEntry
	scores  []*types.RankEntry
	err     error
}

func (s *source) Entries(context.Context) ([]*types.LedgerEntry, error) {
	return s.entries, s.err
}

func (s *source) Rank(context.Context) ([]*types.RankEntry, error) {
	return s.scores, s.err
}

func TestExportAll(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	src := &source{
		entries: []*types.LedgerEntry{{ID: 1, RecipientID: 10, Delta: 3, CreatedAt: now}},
		scores:  []*types.RankEntry{{ScoreAggregate: types.ScoreAggregate{UserID: 10, Score: 3}, Rank: 1}},
	}

	dir := filepath.Join(t.TempDir(), "out")
	manifest, err := export.New(src, dir, zap.NewNop()).ExportAll(t.Context(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, manifest.Entries)
	assert.Equal(t, 1, manifest.Members)
	assert.Equal(t, []export.Format{export.FormatSQLite, export.FormatCSV}, manifest.Formats)

	for _, file := range []string{"ledger.db", "scores.db", "ledger.csv", "scores.csv", "export.json"} {
		assert.FileExists(t, filepath.Join(dir, file))
	}

	data, err := os.ReadFile(filepath.Join(dir, "export.json"))
	require.NoError(t, err)

	var written export.Manifest
	require.NoError(t, sonic.Unmarshal(data, &written))
	assert.Equal(t, export.EngineVersion, written.EngineVersion)
	assert.True(t, now.Equal(written.ExportedAt))
}

func TestExportAllErrors(t *testing.T) {
	t.Parallel()

	errSource := errors.New("connection reset")

	tests := []struct {
		name    string
		src     *source
		formats []export.Format
		wantErr error
	}{
		{name: "source failure", src: &source{err: errSource}, wantErr: errSource},
		{name: "unknown format", src: &source{}, formats: []export.Format{"binary"}, wantErr: export.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exporter := export.New(tt.src, t.TempDir(), zap.NewNop(), tt.formats...)
			_, err := exporter.ExportAll(t.Context(), time.Now())
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
