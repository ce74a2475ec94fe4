package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/robalyx/leo/internal/database/types"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const (
	LedgerFile = "ledger.db"
	ScoresFile = "scores.db"
)

const batchSize = 1000

// Exporter handles exporting the ledger to SQLite databases.
type Exporter struct {
	outDir string
}

// New creates a new SQLite exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export writes the ledger entries and the scores to separate SQLite databases.
// Snowflakes are stored as text since they do not fit a signed integer.
func (e *Exporter) Export(entries []*types.LedgerEntry, scores []*types.RankEntry) error {
	for _, file := range []string{LedgerFile, ScoresFile} {
		path := filepath.Join(e.outDir, file)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing file %s: %w", file, err)
		}
	}

	ledgerRows := make([][]any, len(entries))
	for i, entry := range entries {
		ledgerRows[i] = []any{
			entry.ID,
			snowflake(entry.RecipientID),
			entry.Delta,
			entry.Reason,
			snowflake(entry.GiverID),
			snowflake(entry.ChannelID),
			snowflake(entry.MessageID),
			entry.Origin.String(),
			entry.CreatedAt.UTC().Unix(),
		}
	}

	err := e.createDB(LedgerFile, `
		CREATE TABLE ledger (
			id INTEGER PRIMARY KEY,
			recipient_id TEXT NOT NULL,
			delta INTEGER NOT NULL,
			reason TEXT,
			giver_id TEXT,
			channel_id TEXT,
			message_id TEXT,
			origin TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`INSERT INTO ledger (id, recipient_id, delta, reason, giver_id, channel_id, message_id, origin, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ledgerRows)
	if err != nil {
		return fmt.Errorf("failed to export ledger: %w", err)
	}

	scoreRows := make([][]any, len(scores))
	for i, score := range scores {
		scoreRows[i] = []any{
			snowflake(score.UserID),
			score.Rank,
			score.Score,
			score.LatestActivity.UTC().Unix(),
		}
	}

	err = e.createDB(ScoresFile, `
		CREATE TABLE scores (
			user_id TEXT PRIMARY KEY,
			rank INTEGER NOT NULL,
			score INTEGER NOT NULL,
			latest_activity INTEGER NOT NULL
		)`,
		"INSERT INTO scores (user_id, rank, score, latest_activity) VALUES (?, ?, ?, ?)",
		scoreRows)
	if err != nil {
		return fmt.Errorf("failed to export scores: %w", err)
	}

	return nil
}

// createDB creates a SQLite database with a single table and inserts rows in batches.
func (e *Exporter) createDB(filename, schema, insert string, rows [][]any) error {
	conn, err := sqlite.OpenConn(filepath.Join(e.outDir, filename), sqlite.OpenCreate|sqlite.OpenReadWrite)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	defer conn.Close()

	if err := sqlitex.Execute(conn, schema, nil); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	for i := 0; i < len(rows); i += batchSize {
		end := min(i+batchSize, len(rows))

		if err := sqlitex.Execute(conn, "BEGIN TRANSACTION", nil); err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		for _, row := range rows[i:end] {
			if err := sqlitex.Execute(conn, insert, &sqlitex.ExecOptions{Args: row}); err != nil {
				_ = sqlitex.Execute(conn, "ROLLBACK", nil)
				return fmt.Errorf("failed to insert row: %w", err)
			}
		}

		if err := sqlitex.Execute(conn, "COMMIT", nil); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
	}

	return nil
}

// snowflake renders an id as text, or nil when unset.
func snowflake(id uint64) any {
	if id == 0 {
		return nil
	}
	return strconv.FormatUint(id, 10)
}
