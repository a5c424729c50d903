package dagpenger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warp/benefit-engine/generic"
)

// =============================================================================
// CATEGORY - What kind of outcome a decision is
// =============================================================================

// Category classifies a decision. Reviewers specialize in exactly one.
type Category string

const (
	CategoryDeniedLowIncome Category = "denied_low_income"
	CategoryApproved        Category = "approved"
	CategoryApprovedMaxRate Category = "approved_max_rate"
)

// Categories lists every category in declaration order.
var Categories = []Category{CategoryDeniedLowIncome, CategoryApproved, CategoryApprovedMaxRate}

// ParseCategory accepts the canonical names case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryDeniedLowIncome, CategoryApproved, CategoryApprovedMaxRate:
		return c, nil
	}
	return "", &generic.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", s)}
}

func (c Category) String() string { return string(c) }

// =============================================================================
// REVIEW STATUS - Decision lifecycle
// =============================================================================

// ReviewStatus is the review state of a decision.
//
//	unreviewed ──▶ approved
//	     │
//	     └──────▶ denied
type ReviewStatus string

const (
	StatusUnreviewed ReviewStatus = "unreviewed"
	StatusApproved   ReviewStatus = "approved"
	StatusDenied     ReviewStatus = "denied"
)

// IsTerminal reports whether the status is a review outcome.
func (s ReviewStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusDenied
}

func (s ReviewStatus) String() string { return string(s) }

// =============================================================================
// DECISION - Output of one calculation
// =============================================================================

// Decision is the outcome of one Calculate call. The calculator hands it to
// the caller, who passes it to a reviewer; the reviewer is the only writer of
// its status afterwards. A Decision is not safe for concurrent mutation.
type Decision struct {
	id       generic.DecisionID
	rate     generic.Amount
	category Category
	method   CalculationMethod
	status   ReviewStatus

	reviewedBy string
	reviewedAt time.Time
}

func newDecision(rate generic.Amount, category Category, method CalculationMethod) *Decision {
	return &Decision{
		id:       generic.DecisionID(uuid.NewString()),
		rate:     rate.As(generic.UnitNOKPerDay),
		category: category,
		method:   method,
		status:   StatusUnreviewed,
	}
}

func (d *Decision) ID() generic.DecisionID { return d.id }

// Rate is the daily rate in whole kroner.
func (d *Decision) Rate() generic.Amount { return d.rate }

func (d *Decision) Category() Category { return d.category }

// Method is empty for denied decisions; the method is not consulted then.
func (d *Decision) Method() CalculationMethod { return d.method }

func (d *Decision) Status() ReviewStatus { return d.status }

func (d *Decision) ReviewedBy() string    { return d.reviewedBy }
func (d *Decision) ReviewedAt() time.Time { return d.reviewedAt }

// SetStatus records a review outcome. Only terminal statuses are accepted;
// a repeated call overwrites the previous outcome.
func (d *Decision) SetStatus(status ReviewStatus, reviewedBy string, at time.Time) error {
	if !status.IsTerminal() {
		return fmt.Errorf("set status %q on decision %s: %w", status, d.id, generic.ErrInvalidArgument)
	}
	d.status = status
	d.reviewedBy = reviewedBy
	d.reviewedAt = at
	return nil
}
