/*
Package sqlite provides a SQLite-backed generic.BaselineStore.

PURPOSE:
  Keeps the published grunnbeløp history in a local table so the engine can
  run without reaching the NAV API, and so a calculation can be replayed
  against the G that was in force on a past date.

WHAT IS STORED:
  Only the G reference table. Claimants, salary histories and decisions are
  never written to disk.

KEY TABLES:
  grunnbelop: one row per effective date, amount kept as a decimal string

SEEDING:
  migrate() inserts generic.KnownBaselines with INSERT OR IGNORE, so rows
  added or corrected through Put survive a restart.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. ":memory:" databases are pinned to a
  single connection, since every new connection would see an empty database.

USAGE:
  store, err := sqlite.New("./dagpenger.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  provider, err := grunnbelop.NewProvider(ctx, &grunnbelop.StoreSource{Store: store}, nil)

SEE ALSO:
  - generic/store.go: Interface definition
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/benefit-engine/generic"
)

const dateLayout = time.DateOnly

// Store implements generic.BaselineStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema and seeds the published G values.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS grunnbelop (
		effective_from TEXT PRIMARY KEY,  -- YYYY-MM-DD, sorts chronologically
		amount TEXT NOT NULL,
		unit TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, rec := range generic.KnownBaselines {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO grunnbelop (effective_from, amount, unit, updated_at) VALUES (?, ?, ?, ?)`,
			rec.EffectiveFrom.Format(dateLayout), rec.Amount.Value.String(), string(rec.Amount.Unit), now,
		)
		if err != nil {
			return fmt.Errorf("seed %s: %w", rec.EffectiveFrom.Format(dateLayout), err)
		}
	}
	return nil
}

// =============================================================================
// BASELINE STORE
// =============================================================================

// Put inserts or replaces the G for rec.EffectiveFrom.
func (s *Store) Put(ctx context.Context, rec generic.BaselineRecord) error {
	if !rec.Amount.IsPositive() {
		return &generic.ValidationError{Field: "amount", Message: "grunnbeløp must be positive"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO grunnbelop (effective_from, amount, unit, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(effective_from) DO UPDATE SET
			amount = excluded.amount,
			unit = excluded.unit,
			updated_at = excluded.updated_at`,
		rec.EffectiveFrom.Format(dateLayout),
		rec.Amount.Value.String(),
		string(unitOrNOK(rec.Amount.Unit)),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// At returns the G in force on date.
func (s *Store) At(ctx context.Context, date time.Time) (generic.BaselineRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryOne(ctx,
		`SELECT effective_from, amount, unit FROM grunnbelop
		 WHERE effective_from <= ? ORDER BY effective_from DESC LIMIT 1`,
		date.Format(dateLayout),
	)
}

// Latest returns the G with the highest effective date, including one not
// in force yet.
func (s *Store) Latest(ctx context.Context) (generic.BaselineRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryOne(ctx,
		`SELECT effective_from, amount, unit FROM grunnbelop ORDER BY effective_from DESC LIMIT 1`,
	)
}

// List returns all records, oldest first.
func (s *Store) List(ctx context.Context) ([]generic.BaselineRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT effective_from, amount, unit FROM grunnbelop ORDER BY effective_from ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []generic.BaselineRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) queryOne(ctx context.Context, query string, args ...any) (generic.BaselineRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return generic.BaselineRecord{}, generic.ErrBaselineNotFound
	}
	return rec, err
}

// =============================================================================
// HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (generic.BaselineRecord, error) {
	var effectiveFrom, value, unit string
	if err := row.Scan(&effectiveFrom, &value, &unit); err != nil {
		return generic.BaselineRecord{}, err
	}

	date, err := time.Parse(dateLayout, effectiveFrom)
	if err != nil {
		return generic.BaselineRecord{}, fmt.Errorf("bad effective_from %q: %w", effectiveFrom, err)
	}
	amount, err := parseAmount(value, unit)
	if err != nil {
		return generic.BaselineRecord{}, fmt.Errorf("grunnbelop row %s: %w", effectiveFrom, err)
	}
	return generic.BaselineRecord{
		EffectiveFrom: date,
		Amount:        amount,
	}, nil
}

func parseAmount(value, unit string) (generic.Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return generic.Amount{}, fmt.Errorf("bad amount %q: %w", value, err)
	}
	return generic.Amount{Value: d, Unit: generic.Unit(unit)}, nil
}

func unitOrNOK(u generic.Unit) generic.Unit {
	if u == "" {
		return generic.UnitNOK
	}
	return u
}

var _ generic.BaselineStore = (*Store)(nil)
