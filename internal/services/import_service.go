package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kyccli/internal/analytics"
	"kyccli/internal/dataprocessing"
	"kyccli/internal/errors"
	"kyccli/internal/store"
	"kyccli/pkg/contracts/domain"
)

// ImportService runs the ingestion pipeline and commits the result to the
// session. Imports are all-or-nothing: a failure at any stage leaves the
// previously committed dataset untouched.
type ImportService struct {
	session *store.Session
	logger  *slog.Logger
}

// NewImportService creates an import service bound to the session.
func NewImportService(session *store.Session, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{
		session: session,
		logger:  logger.With(slog.String("component", "import_service")),
	}
}

// ImportResult summarizes a successful import for the caller.
type ImportResult struct {
	SnapshotID   string               `json:"snapshot_id"`
	SourceFile   string               `json:"source_file,omitempty"`
	RowCount     int                  `json:"row_count"`
	HeaderRow    int                  `json:"header_row"`
	Options      domain.FilterOptions `json:"options"`
	DefaultRange *domain.DateRange    `json:"default_range,omitempty"`
	Message      string               `json:"message"`
}

// ImportReader ingests a workbook from a stream (an HTTP upload).
func (s *ImportService) ImportReader(ctx context.Context, r io.Reader, sourceName string) (*ImportResult, error) {
	result, err := dataprocessing.ParseReader(r)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, result, sourceName)
}

// ImportFile ingests a workbook from disk.
func (s *ImportService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	result, err := dataprocessing.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, result, path)
}

func (s *ImportService) commit(ctx context.Context, parsed *dataprocessing.ParseResult, sourceName string) (*ImportResult, error) {
	snapshot := &domain.DatasetSnapshot{
		ID:         uuid.NewString(),
		SourceFile: sourceName,
		ImportedAt: time.Now(),
		HeaderRow:  parsed.HeaderRow,
		Records:    parsed.Records,
	}

	if err := s.session.Commit(snapshot); err != nil {
		return nil, errors.NewStorageError("failed to persist imported dataset", err)
	}

	s.logger.InfoContext(ctx, "dataset imported",
		slog.String("snapshot_id", snapshot.ID),
		slog.String("source", sourceName),
		slog.Int("row_count", len(snapshot.Records)),
		slog.Int("header_row", parsed.HeaderRow))

	return &ImportResult{
		SnapshotID:   snapshot.ID,
		SourceFile:   sourceName,
		RowCount:     len(snapshot.Records),
		HeaderRow:    parsed.HeaderRow,
		Options:      analytics.Options(snapshot.Records, ""),
		DefaultRange: analytics.DefaultDateRange(snapshot.Records),
		Message: fmt.Sprintf("Template validated successfully. Loaded %d rows. (Header row detected at line %d)",
			len(snapshot.Records), parsed.HeaderRow+1),
	}, nil
}

// Reset clears the committed dataset and its persisted blob.
func (s *ImportService) Reset(ctx context.Context) error {
	if err := s.session.Reset(); err != nil {
		return errors.NewStorageError("failed to clear persisted dataset", err)
	}
	s.logger.InfoContext(ctx, "dataset reset")
	return nil
}
