package dagpenger

import (
	"fmt"
	"math"
	"sort"

	"github.com/warp/benefit-engine/generic"
)

// MinimumSalaryYear is the earliest year a salary can be registered for.
const MinimumSalaryYear = 2010

// =============================================================================
// SALARY ENTRY - One calendar year's salary
// =============================================================================

// SalaryEntry is a claimant's salary for one calendar year. It can only be
// built through NewSalaryEntry, so a held value is always valid.
type SalaryEntry struct {
	year   generic.Year
	amount generic.Amount
}

// NewSalaryEntry validates and builds an entry. The year must be 2010 or
// later and the amount must be finite and not negative.
func NewSalaryEntry(year int, amount float64) (SalaryEntry, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return SalaryEntry{}, &generic.ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("annual salary must be a finite number (got %v)", amount),
		}
	}
	return NewSalaryEntryFromAmount(year, generic.NOK(amount))
}

// NewSalaryEntryFromAmount is NewSalaryEntry for callers that already hold a
// decimal amount.
func NewSalaryEntryFromAmount(year int, amount generic.Amount) (SalaryEntry, error) {
	if year < MinimumSalaryYear {
		return SalaryEntry{}, &generic.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("salary year cannot be before %d (got %d)", MinimumSalaryYear, year),
		}
	}
	if amount.IsNegative() {
		return SalaryEntry{}, &generic.ValidationError{
			Field:   "amount",
			Message: "annual salary cannot be negative",
		}
	}
	return SalaryEntry{year: generic.Year(year), amount: amount.As(generic.UnitNOK)}, nil
}

func (e SalaryEntry) Year() generic.Year     { return e.year }
func (e SalaryEntry) Amount() generic.Amount { return e.amount }

// =============================================================================
// SALARY HISTORY - Year-keyed salaries for one claimant
// =============================================================================

// SalaryHistory holds at most one entry per year. It keeps no order; queries
// sort by year at call time.
type SalaryHistory struct {
	entries map[generic.Year]SalaryEntry
}

func NewSalaryHistory(entries ...SalaryEntry) *SalaryHistory {
	h := &SalaryHistory{entries: make(map[generic.Year]SalaryEntry, len(entries))}
	for _, e := range entries {
		h.Add(e)
	}
	return h
}

// Add inserts the entry, replacing any earlier entry for the same year.
func (h *SalaryHistory) Add(entry SalaryEntry) {
	if h.entries == nil {
		h.entries = make(map[generic.Year]SalaryEntry)
	}
	h.entries[entry.year] = entry
}

func (h *SalaryHistory) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the history, most recent year first.
func (h *SalaryHistory) Entries() []SalaryEntry {
	out := make([]SalaryEntry, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].year > out[j].year })
	return out
}

// SumRecentYears sums the n most recent years. Fewer than n entries sums what
// is there; an empty history sums to zero.
func (h *SalaryHistory) SumRecentYears(n int) (generic.Amount, error) {
	if n <= 0 {
		return generic.Amount{}, fmt.Errorf("sum recent years: n must be greater than 0, got %d: %w",
			n, generic.ErrInvalidArgument)
	}

	sum := generic.NOK(0)
	for i, e := range h.Entries() {
		if i == n {
			break
		}
		sum = sum.Add(e.amount)
	}
	return sum, nil
}

// MostRecent returns the entry with the highest year.
func (h *SalaryHistory) MostRecent() (SalaryEntry, error) {
	if len(h.entries) == 0 {
		return SalaryEntry{}, generic.ErrEmptyHistory
	}

	var latest SalaryEntry
	first := true
	for _, e := range h.entries {
		if first || e.year > latest.year {
			latest = e
			first = false
		}
	}
	return latest, nil
}
