// Package store provides BaselineStore implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/benefit-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/offline use)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records []generic.BaselineRecord // sorted by EffectiveFrom ascending
}

func NewMemory() *Memory {
	return &Memory{}
}

// NewSeededMemory returns a store preloaded with generic.KnownBaselines.
func NewSeededMemory() *Memory {
	m := NewMemory()
	for _, rec := range generic.KnownBaselines {
		m.putLocked(rec)
	}
	return m
}

// Put inserts or replaces the record for rec.EffectiveFrom.
func (m *Memory) Put(_ context.Context, rec generic.BaselineRecord) error {
	if !rec.Amount.IsPositive() {
		return &generic.ValidationError{Field: "amount", Message: "grunnbeløp must be positive"}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putLocked(rec)
	return nil
}

func (m *Memory) putLocked(rec generic.BaselineRecord) {
	// Binary search for insertion point
	i := sort.Search(len(m.records), func(i int) bool {
		return !m.records[i].EffectiveFrom.Before(rec.EffectiveFrom)
	})
	if i < len(m.records) && m.records[i].EffectiveFrom.Equal(rec.EffectiveFrom) {
		m.records[i] = rec
		return
	}
	m.records = append(m.records, generic.BaselineRecord{})
	copy(m.records[i+1:], m.records[i:])
	m.records[i] = rec
}

func (m *Memory) At(_ context.Context, date time.Time) (generic.BaselineRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// First record strictly after date; the one before it is in force.
	i := sort.Search(len(m.records), func(i int) bool {
		return m.records[i].EffectiveFrom.After(date)
	})
	if i == 0 {
		return generic.BaselineRecord{}, generic.ErrBaselineNotFound
	}
	return m.records[i-1], nil
}

func (m *Memory) Latest(_ context.Context) (generic.BaselineRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.records) == 0 {
		return generic.BaselineRecord{}, generic.ErrBaselineNotFound
	}
	return m.records[len(m.records)-1], nil
}

func (m *Memory) List(_ context.Context) ([]generic.BaselineRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.BaselineRecord, len(m.records))
	copy(result, m.records)
	return result, nil
}

var _ generic.BaselineStore = (*Memory)(nil)
