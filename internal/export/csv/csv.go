package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/robalyx/leo/internal/database/types"
)

const (
	LedgerFile = "ledger.csv"
	ScoresFile = "scores.csv"
)

// Exporter handles exporting the ledger to csv files.
type Exporter struct {
	outDir string
}

// New creates a new csv exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export writes the ledger entries and the scores to separate csv files.
func (e *Exporter) Export(entries []*types.LedgerEntry, scores []*types.RankEntry) error {
	ledgerRows := make([][]string, len(entries))
	for i, entry := range entries {
		ledgerRows[i] = []string{
			strconv.FormatInt(entry.ID, 10),
			id(entry.RecipientID),
			strconv.Itoa(entry.Delta),
			entry.Reason,
			id(entry.GiverID),
			id(entry.MessageID),
			entry.Origin.String(),
			strconv.FormatInt(entry.CreatedAt.UTC().Unix(), 10),
		}
	}

	header := []string{"id", "recipient_id", "delta", "reason", "giver_id", "message_id", "origin", "created_at"}
	if err := e.writeFile(LedgerFile, header, ledgerRows); err != nil {
		return fmt.Errorf("failed to export ledger: %w", err)
	}

	scoreRows := make([][]string, len(scores))
	for i, score := range scores {
		scoreRows[i] = []string{
			strconv.Itoa(score.Rank),
			id(score.UserID),
			strconv.FormatInt(score.Score, 10),
		}
	}

	if err := e.writeFile(ScoresFile, []string{"rank", "user_id", "score"}, scoreRows); err != nil {
		return fmt.Errorf("failed to export scores: %w", err)
	}

	return nil
}

// writeFile replaces filename with the header and rows.
func (e *Exporter) writeFile(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filepath.Join(e.outDir, filename))
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	return nil
}

func id(v uint64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatUint(v, 10)
}
