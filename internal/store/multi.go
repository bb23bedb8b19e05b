package store

import (
	"context"
	"errors"

	"github.com/i474232898/forecast-blend/internal/forecast"
)

// MultiStore saves to every store and reads from the first one that has the
// document, so a cache can sit in front of the artifact files.
type MultiStore struct {
	stores []forecast.Store
}

func NewMultiStore(stores ...forecast.Store) *MultiStore {
	return &MultiStore{stores: stores}
}

// Save writes to all stores and joins their errors.
func (m *MultiStore) Save(ctx context.Context, p forecast.Point, doc forecast.Document) error {
	var errs []error
	for _, s := range m.stores {
		if err := s.Save(ctx, p, doc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Latest returns the first hit. Lookup errors other than ErrNotFound are
// returned only when no store has the document.
func (m *MultiStore) Latest(ctx context.Context, p forecast.Point) (forecast.Document, error) {
	var lastErr error = ErrNotFound
	for _, s := range m.stores {
		doc, err := s.Latest(ctx, p)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, ErrNotFound) {
			lastErr = err
		}
	}
	return forecast.Document{}, lastErr
}

var _ forecast.Store = (*MultiStore)(nil)
