// Package local keeps charts on disk while the remote store is unreachable
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"astroguia-backend/application/ports"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	pkgerrors "astroguia-backend/pkg/errors"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var bucketUnsynced = []byte("unsynced_charts")

// record is the on-disk form of a stashed chart
type record struct {
	Chart     entities.ChartDocument `json:"chart"`
	Reason    string                 `json:"reason"`
	Attempts  int                    `json:"attempts"`
	LastError string                 `json:"lastError,omitempty"`
	StashedAt time.Time              `json:"stashedAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// UnsyncedChartStore implements ports.UnsyncedChartStore on a bbolt file
type UnsyncedChartStore struct {
	db     *bbolt.DB
	now    func() time.Time
	logger *zap.Logger
}

// NewUnsyncedChartStore opens (or creates) the store at path
func NewUnsyncedChartStore(path string, now func() time.Time, logger *zap.Logger) (*UnsyncedChartStore, error) {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local store directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketUnsynced)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise local store: %w", err)
	}

	return &UnsyncedChartStore{db: db, now: now, logger: logger}, nil
}

// Close releases the file lock
func (s *UnsyncedChartStore) Close() error {
	return s.db.Close()
}

// Put stashes a chart. Stashing the same chart again keeps its attempt history.
func (s *UnsyncedChartStore) Put(ctx context.Context, chart *entities.ChartRecord, reason string) error {
	if err := ctx.Err(); err != nil {
		return pkgerrors.NewCancelledError("stash chart", err)
	}

	doc := chart.ToDocument()
	doc.Synced = false
	now := s.now().UTC()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketUnsynced)
		rec := record{StashedAt: now}
		if existing := b.Get([]byte(doc.ID)); existing != nil {
			if err := json.Unmarshal(existing, &rec); err != nil {
				return err
			}
		}
		rec.Chart = doc
		rec.Reason = reason
		rec.UpdatedAt = now

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(doc.ID), data)
	})
	if err != nil {
		return pkgerrors.NewPersistenceError("stash chart", err)
	}

	s.logger.Debug("Stashed unsynced chart", zap.String("chart_id", doc.ID), zap.String("reason", reason))
	return nil
}

// Get returns a stashed chart
func (s *UnsyncedChartStore) Get(ctx context.Context, id valueobjects.ChartID) (*entities.ChartRecord, error) {
	rec, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return entities.ChartFromDocument(rec.Chart)
}

// ListByOwner returns an owner's stashed charts, newest first
func (s *UnsyncedChartStore) ListByOwner(ctx context.Context, ownerID string) ([]*entities.ChartRecord, error) {
	records, err := s.scan(func(r record) bool { return r.Chart.OwnerID == ownerID })
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Chart.CreatedAt.After(records[j].Chart.CreatedAt)
	})

	charts := make([]*entities.ChartRecord, 0, len(records))
	for _, r := range records {
		chart, err := entities.ChartFromDocument(r.Chart)
		if err != nil {
			s.logger.Warn("Skipping unreadable stashed chart", zap.String("chart_id", r.Chart.ID), zap.Error(err))
			continue
		}
		charts = append(charts, chart)
	}
	return charts, nil
}

// Pending returns up to limit charts with fewer than maxAttempts sync
// attempts, oldest stash first. A non-positive maxAttempts disables the filter.
func (s *UnsyncedChartStore) Pending(ctx context.Context, limit, maxAttempts int) ([]ports.PendingChart, error) {
	records, err := s.scan(func(r record) bool { return maxAttempts <= 0 || r.Attempts < maxAttempts })
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].StashedAt.Before(records[j].StashedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	pending := make([]ports.PendingChart, 0, len(records))
	for _, r := range records {
		chart, err := entities.ChartFromDocument(r.Chart)
		if err != nil {
			s.logger.Warn("Skipping unreadable stashed chart", zap.String("chart_id", r.Chart.ID), zap.Error(err))
			continue
		}
		pending = append(pending, ports.PendingChart{
			Chart:     chart,
			Reason:    r.Reason,
			Attempts:  r.Attempts,
			LastError: r.LastError,
			StashedAt: r.StashedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return pending, nil
}

// RecordAttempt increments the attempt count and returns the new value
func (s *UnsyncedChartStore) RecordAttempt(ctx context.Context, id valueobjects.ChartID, cause error) (int, error) {
	var attempts int
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketUnsynced)
		data := b.Get([]byte(id.String()))
		if data == nil {
			return pkgerrors.NewNotFoundError("unsynced chart")
		}
		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		rec.Attempts++
		rec.UpdatedAt = s.now().UTC()
		if cause != nil {
			rec.LastError = cause.Error()
		}
		attempts = rec.Attempts

		updated, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(id.String()), updated)
	})
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return 0, err
		}
		return 0, pkgerrors.NewPersistenceError("record sync attempt", err)
	}
	return attempts, nil
}

// Remove deletes a stashed chart. Removing a missing chart is not an error.
func (s *UnsyncedChartStore) Remove(ctx context.Context, id valueobjects.ChartID) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUnsynced).Delete([]byte(id.String()))
	})
	if err != nil {
		return pkgerrors.NewPersistenceError("remove stashed chart", err)
	}
	return nil
}

// Count returns the number of stashed charts
func (s *UnsyncedChartStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketUnsynced).Stats().KeyN
		return nil
	})
	return n, err
}

func (s *UnsyncedChartStore) load(id valueobjects.ChartID) (record, error) {
	var rec record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketUnsynced).Get([]byte(id.String()))
		if data == nil {
			return pkgerrors.NewNotFoundError("unsynced chart")
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return record{}, err
		}
		return record{}, pkgerrors.NewPersistenceError("load stashed chart", err)
	}
	return rec, nil
}

func (s *UnsyncedChartStore) scan(keep func(record) bool) ([]record, error) {
	var records []record
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUnsynced).ForEach(func(_, data []byte) error {
			var rec record
			if err := json.Unmarshal(data, &rec); err != nil {
				s.logger.Warn("Skipping corrupt stash entry", zap.Error(err))
				return nil
			}
			if keep(rec) {
				records = append(records, rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, pkgerrors.NewPersistenceError("scan stashed charts", err)
	}
	return records, nil
}
