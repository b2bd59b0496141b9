package store

import (
	"encoding/json"
	"log/slog"
	"sync"

	"kyccli/pkg/contracts/domain"
)

// Theme preference values.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Session owns the canonical dataset for the running process. The pipeline
// itself is synchronous; the mutex exists only because the HTTP server is
// concurrent. Commit and Reset replace the dataset wholesale, readers get
// the record slice of the current snapshot.
type Session struct {
	mu       sync.RWMutex
	snapshot *domain.DatasetSnapshot

	kv     *KVStore
	logger *slog.Logger
}

// NewSession creates an empty session backed by kv and restores any
// previously persisted snapshot. An unreadable or malformed blob is treated
// as an empty session, never an error.
func NewSession(kv *KVStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		kv:     kv,
		logger: logger.With(slog.String("component", "session")),
	}
	s.restore()
	return s
}

// Snapshot returns the committed dataset snapshot, or ok=false when no
// import has succeeded yet.
func (s *Session) Snapshot() (*domain.DatasetSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, false
	}
	return s.snapshot, true
}

// Records returns the canonical record set of the committed snapshot, nil
// when the session is empty. Callers must treat the slice as read-only.
func (s *Session) Records() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.Records
}

// Commit swaps in a fully built snapshot and persists it. The swap happens
// only after the new dataset is complete, so a failed import can never leak
// a partial state into the visible dataset.
func (s *Session) Commit(snapshot *domain.DatasetSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if err := s.kv.Put(DatasetKey, data); err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	s.logger.Info("dataset committed",
		slog.String("snapshot_id", snapshot.ID),
		slog.Int("record_count", len(snapshot.Records)))
	return nil
}

// Reset clears the in-memory dataset and the persisted blob.
func (s *Session) Reset() error {
	if err := s.kv.Delete(DatasetKey); err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()

	s.logger.Info("session reset")
	return nil
}

// Theme returns the persisted theme preference, defaulting to dark.
func (s *Session) Theme() string {
	data, ok, err := s.kv.Get(ThemeKey)
	if err != nil || !ok {
		return ThemeDark
	}
	switch string(data) {
	case ThemeLight:
		return ThemeLight
	default:
		return ThemeDark
	}
}

// SetTheme persists the theme preference; unknown values fall back to dark.
func (s *Session) SetTheme(theme string) error {
	if theme != ThemeLight {
		theme = ThemeDark
	}
	return s.kv.Put(ThemeKey, []byte(theme))
}

// restore loads the persisted snapshot; anything unreadable means empty.
func (s *Session) restore() {
	data, ok, err := s.kv.Get(DatasetKey)
	if err != nil {
		s.logger.Warn("failed to read persisted dataset, starting empty",
			slog.String("error", err.Error()))
		return
	}
	if !ok {
		return
	}

	var snapshot domain.DatasetSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil || snapshot.Records == nil {
		s.logger.Warn("persisted dataset unreadable, starting empty")
		return
	}

	s.mu.Lock()
	s.snapshot = &snapshot
	s.mu.Unlock()

	s.logger.Info("restored persisted dataset",
		slog.String("snapshot_id", snapshot.ID),
		slog.Int("record_count", len(snapshot.Records)))
}
