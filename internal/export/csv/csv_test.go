package csv_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/database/types/enum"
	exportCSV "github.com/robalyx/leo/internal/export/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	return records
}

func TestExporterExport(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []*types.LedgerEntry{
		{
			ID: 1, RecipientID: 10, Delta: -1, Reason: "spam, again",
			GiverID: 20, MessageID: 30, Origin: enum.EntryOriginCommand, CreatedAt: created,
		},
		{ID: 2, RecipientID: 10, Delta: 1, Origin: enum.EntryOriginReaction, CreatedAt: created},
	}
	scores := []*types.RankEntry{
		{ScoreAggregate: types.ScoreAggregate{UserID: 10, Score: 0}, Rank: 1},
	}

	dir := t.TempDir()
	require.NoError(t, exportCSV.New(dir).Export(entries, scores))

	assert.Equal(t, [][]string{
		{"id", "recipient_id", "delta", "reason", "giver_id", "message_id", "origin", "created_at"},
		{"1", "10", "-1", "spam, again", "20", "30", "Command", "1748779200"},
		{"2", "10", "1", "", "", "", "Reaction", "1748779200"},
	}, readCSV(t, filepath.Join(dir, exportCSV.LedgerFile)))

	assert.Equal(t, [][]string{
		{"rank", "user_id", "score"},
		{"1", "10", "0"},
	}, readCSV(t, filepath.Join(dir, exportCSV.ScoresFile)))
}

func TestExporterMissingDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "missing")
	assert.Error(t, exportCSV.New(dir).Export(nil, nil))
}
