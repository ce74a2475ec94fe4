package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	dbTypes "github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/export/csv"
	"github.com/robalyx/leo/internal/export/sqlite"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format represents a supported export format.
type Format string

const (
	FormatSQLite Format = "sqlite"
	FormatCSV    Format = "csv"
)

// EngineVersion is bumped on breaking changes to the exported layout.
const EngineVersion = "1.0.0"

// Source provides the ledger history and the current rank view.
type Source interface {
	Entries(ctx context.Context) ([]*dbTypes.LedgerEntry, error)
	Rank(ctx context.Context) ([]*dbTypes.RankEntry, error)
}

// Manifest describes one export run.
type Manifest struct {
	EngineVersion string    `json:"engineVersion"`
	ExportedAt    time.Time `json:"exportedAt"`
	Entries       int       `json:"entries"`
	Members       int       `json:"members"`
	Formats       []Format  `json:"formats"`
}

// Exporter writes the ledger and scores to disk.
type Exporter struct {
	source  Source
	outDir  string
	formats []Format
	logger  *zap.Logger
}

// New creates a new exporter instance writing every format unless some are given.
func New(source Source, outDir string, logger *zap.Logger, formats ...Format) *Exporter {
	if len(formats) == 0 {
		formats = []Format{FormatSQLite, FormatCSV}
	}

	return &Exporter{
		source:  source,
		outDir:  outDir,
		formats: formats,
		logger:  logger.Named("export"),
	}
}

// ExportAll exports the ledger in every configured format and writes a manifest.
func (e *Exporter) ExportAll(ctx context.Context, now time.Time) (*Manifest, error) {
	entries, err := e.source.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}

	scores, err := e.source.Rank(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}

	e.logger.Info("Exporting ledger",
		zap.Int("entries", len(entries)),
		zap.Int("members", len(scores)),
		zap.String("dir", e.outDir))

	if err := os.MkdirAll(e.outDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, format := range e.formats {
		if err := e.export(format, entries, scores); err != nil {
			return nil, fmt.Errorf("failed to export %s format: %w", format, err)
		}
		e.logger.Debug("Wrote export format", zap.String("format", string(format)))
	}

	manifest := &Manifest{
		EngineVersion: EngineVersion,
		ExportedAt:    now.UTC(),
		Entries:       len(entries),
		Members:       len(scores),
		Formats:       e.formats,
	}

	data, err := sonic.MarshalIndent(manifest, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(e.outDir, "export.json"), data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write export manifest: %w", err)
	}

	return manifest, nil
}

// export handles exporting data in the specified format.
func (e *Exporter) export(format Format, entries []*dbTypes.LedgerEntry, scores []*dbTypes.RankEntry) error {
	var exporter interface {
		Export(entries []*dbTypes.LedgerEntry, scores []*dbTypes.RankEntry) error
	}

	switch format {
	case FormatSQLite:
		exporter = sqlite.New(e.outDir)
	case FormatCSV:
		exporter = csv.New(e.outDir)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return exporter.Export(entries, scores)
}
