/*
store.go - Persistence interface for grunnbeløp history

PURPOSE:
  Defines the interface between the baseline provider and wherever the
  historical grunnbeløp values are kept. Claimant data and decisions are
  never stored; only the reference table of G values is.

KEY INTERFACES:
  BaselineStore: Lookup of the G in force at a date, plus seeding

LOOKUP CONTRACT:
  - At(date) returns the record with the latest EffectiveFrom <= date
  - Latest() returns the record with the highest EffectiveFrom, even one
    that is not in force yet; use At(time.Now()) for the current G
  - Both return ErrBaselineNotFound when nothing applies

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite table seeded on migrate
  - generic/store/memory.go: In-memory for testing and offline use

EXAMPLE:
  store := sqlite.New("./dagpenger.db")
  rec, err := store.At(ctx, time.Now())
  if errors.Is(err, ErrBaselineNotFound) {
      // empty table
  }

SEE ALSO:
  - grunnbelop/source.go: StoreSource adapts a BaselineStore to a Source
*/
package generic

import (
	"context"
	"time"
)

// BaselineStore keeps the history of grunnbeløp values.
type BaselineStore interface {
	// Put records a G value. A second Put for the same EffectiveFrom replaces it.
	Put(ctx context.Context, rec BaselineRecord) error

	// At returns the record in force on the given date.
	At(ctx context.Context, date time.Time) (BaselineRecord, error)

	// Latest returns the record with the most recent EffectiveFrom, which may
	// lie in the future.
	Latest(ctx context.Context) (BaselineRecord, error)

	// List returns all records ordered by EffectiveFrom ascending.
	List(ctx context.Context) ([]BaselineRecord, error)
}

// KnownBaselines are the published G values, effective May 1 each year.
// Stores seed themselves from this table.
var KnownBaselines = []BaselineRecord{
	{EffectiveFrom: mayFirst(2019), Amount: NewAmountFromInt(99858, UnitNOK)},
	{EffectiveFrom: mayFirst(2020), Amount: NewAmountFromInt(101351, UnitNOK)},
	{EffectiveFrom: mayFirst(2021), Amount: NewAmountFromInt(106399, UnitNOK)},
	{EffectiveFrom: mayFirst(2022), Amount: NewAmountFromInt(111477, UnitNOK)},
	{EffectiveFrom: mayFirst(2023), Amount: NewAmountFromInt(118620, UnitNOK)},
	{EffectiveFrom: mayFirst(2024), Amount: NewAmountFromInt(124028, UnitNOK)},
	{EffectiveFrom: mayFirst(2025), Amount: NewAmountFromInt(130160, UnitNOK)},
}

func mayFirst(year int) time.Time {
	return time.Date(year, time.May, 1, 0, 0, 0, 0, time.UTC)
}
