package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"kyccli/internal/analytics"
	"kyccli/internal/store"
	"kyccli/pkg/contracts/domain"
)

// ErrNoDataset is returned when a projection is requested before any import
// has succeeded.
var ErrNoDataset = errors.New("no dataset loaded")

// DashboardService serves filtered projections of the committed dataset.
type DashboardService struct {
	session    *store.Session
	aggregator *analytics.Aggregator
	logger     *slog.Logger
}

// NewDashboardService creates a dashboard service bound to the session.
func NewDashboardService(session *store.Session, aggregator *analytics.Aggregator, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		session:    session,
		aggregator: aggregator,
		logger:     logger.With(slog.String("component", "dashboard_service")),
	}
}

// SessionStatus describes the committed dataset for status endpoints.
type SessionStatus struct {
	Loaded       bool                 `json:"loaded"`
	SnapshotID   string               `json:"snapshot_id,omitempty"`
	SourceFile   string               `json:"source_file,omitempty"`
	ImportedAt   *time.Time           `json:"imported_at,omitempty"`
	RowCount     int                  `json:"row_count"`
	Options      domain.FilterOptions `json:"options"`
	DefaultRange *domain.DateRange    `json:"default_range,omitempty"`
}

// Status reports whether a dataset is loaded and its filter options.
func (s *DashboardService) Status(ctx context.Context) *SessionStatus {
	snapshot, ok := s.session.Snapshot()
	if !ok {
		return &SessionStatus{}
	}
	importedAt := snapshot.ImportedAt
	return &SessionStatus{
		Loaded:       true,
		SnapshotID:   snapshot.ID,
		SourceFile:   snapshot.SourceFile,
		ImportedAt:   &importedAt,
		RowCount:     len(snapshot.Records),
		Options:      analytics.Options(snapshot.Records, ""),
		DefaultRange: analytics.DefaultDateRange(snapshot.Records),
	}
}

// Options returns the filter dropdown values, with offices scoped to the
// given division when one is set.
func (s *DashboardService) Options(ctx context.Context, division string) (domain.FilterOptions, error) {
	records := s.session.Records()
	if records == nil {
		return domain.FilterOptions{}, ErrNoDataset
	}
	return analytics.Options(records, division), nil
}

// Dashboard applies the filter spec and recomputes every aggregate.
func (s *DashboardService) Dashboard(ctx context.Context, spec domain.FilterSpec) (*domain.Dashboard, error) {
	filtered, err := s.filter(spec)
	if err != nil {
		return nil, err
	}

	dashboard := s.aggregator.Dashboard(filtered, spec)
	s.logger.DebugContext(ctx, "dashboard recomputed",
		slog.Int("filtered_count", dashboard.FilteredCount),
		slog.String("date_basis", spec.Basis()))
	return &dashboard, nil
}

// ActionItems applies the filter spec and derives the follow-up list.
func (s *DashboardService) ActionItems(ctx context.Context, spec domain.FilterSpec) ([]domain.ActionItem, error) {
	filtered, err := s.filter(spec)
	if err != nil {
		return nil, err
	}
	return s.aggregator.ActionItems(filtered), nil
}

// FilteredRecords applies the filter spec and returns the matching records,
// for table display and CSV export.
func (s *DashboardService) FilteredRecords(ctx context.Context, spec domain.FilterSpec) ([]domain.Record, error) {
	return s.filter(spec)
}

func (s *DashboardService) filter(spec domain.FilterSpec) ([]domain.Record, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	records := s.session.Records()
	if records == nil {
		return nil, ErrNoDataset
	}
	return analytics.ApplyFilter(records, spec), nil
}
