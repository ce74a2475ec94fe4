// Package yagpdb reads reputation logs exported from YAGPDB.xyz.
package yagpdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robalyx/leo/internal/bot/constants"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/database/types/enum"
	"go.uber.org/zap"
)

var ErrInvalidID = errors.New("invalid snowflake")

// ID is a snowflake that decodes from either a JSON string or a bare number.
// Bare numbers are parsed from their literal text so large values keep their precision.
type ID uint64

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	raw := bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*id = 0
		return nil
	}

	v, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, raw)
	}

	*id = ID(v)
	return nil
}

// Record is one reputation log line of the export.
type Record struct {
	ID         ID        `json:"id"`
	ReceiverID ID        `json:"receiver_id"`
	SenderID   ID        `json:"sender_id"`
	Amount     int       `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store appends imported entries in a single batch.
type Store interface {
	Import(ctx context.Context, entries []*types.LedgerEntry) error
}

// Result summarizes an import.
type Result struct {
	Imported int
	Skipped  int
}

// Decode reads the JSON array written by the export script.
func Decode(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}

	var records []Record
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}

	return records, nil
}

// Entries converts records to ledger entries. Records without a receiver or
// with a zero amount carry no score change and are skipped.
func Entries(records []Record) (entries []*types.LedgerEntry, skipped int) {
	entries = make([]*types.LedgerEntry, 0, len(records))
	for _, record := range records {
		if record.ReceiverID == 0 || record.Amount == 0 {
			skipped++
			continue
		}

		entries = append(entries, &types.LedgerEntry{
			RecipientID: uint64(record.ReceiverID),
			Delta:       record.Amount,
			Reason:      constants.ImportGrantReason,
			GiverID:     uint64(record.SenderID),
			Origin:      enum.EntryOriginImport,
			CreatedAt:   record.CreatedAt.UTC(),
		})
	}

	return entries, skipped
}

// Import decodes an export and appends it to the ledger.
func Import(ctx context.Context, store Store, r io.Reader, logger *zap.Logger) (*Result, error) {
	records, err := Decode(r)
	if err != nil {
		return nil, err
	}

	entries, skipped := Entries(records)
	if skipped > 0 {
		logger.Warn("Skipped records without a score change", zap.Int("count", skipped))
	}

	if len(entries) > 0 {
		if err := store.Import(ctx, entries); err != nil {
			return nil, fmt.Errorf("failed to import entries: %w", err)
		}
	}

	logger.Info("Imported YAGPDB reputation log",
		zap.Int("imported", len(entries)),
		zap.Int("skipped", skipped))

	return &Result{Imported: len(entries), Skipped: skipped}, nil
}
