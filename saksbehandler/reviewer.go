/*
Package saksbehandler implements the caseworker review step.

PURPOSE:
  A calculated decision is not final until a caseworker has reviewed it.
  Each caseworker specializes in one decision category and may only act on
  decisions of that category.

REVIEW FLOW:
  ┌────────────┐   Calculate   ┌────────────┐   Review    ┌──────────┐
  │ Calculator │ ────────────▶ │ unreviewed │ ──────────▶ │ approved │
  └────────────┘               └────────────┘      │      └──────────┘
                                                   │      ┌──────────┐
                                                   └────▶ │  denied  │
                                                          └──────────┘

  denied_low_income                 ──▶ denied
  approved, approved_max_rate       ──▶ approved

SINGLE vs PENDING:
  Review fails on a category mismatch and leaves the decision untouched.
  ReviewAllPending walks a sequence once and silently skips decisions of
  other categories; mismatches are expected there.

SEE ALSO:
  - dagpenger/decision.go: Decision and its status
*/
package saksbehandler

import (
	"fmt"
	"iter"
	"time"

	"github.com/warp/benefit-engine/dagpenger"
	"github.com/warp/benefit-engine/generic"
)

// ReviewObserver is told about every review attempt. metrics.Metrics
// implements it.
type ReviewObserver interface {
	ObserveReview(specialization dagpenger.Category, status dagpenger.ReviewStatus, err error)
}

// Reviewer is a caseworker with one specialization.
type Reviewer struct {
	name           string
	specialization dagpenger.Category

	// Now is the clock used for review timestamps.
	Now func() time.Time

	// Observer, when set, is told about each review.
	Observer ReviewObserver
}

func New(name string, specialization dagpenger.Category) *Reviewer {
	return &Reviewer{name: name, specialization: specialization, Now: time.Now}
}

func (r *Reviewer) Name() string { return r.name }

func (r *Reviewer) Specialization() dagpenger.Category { return r.specialization }

// CanReview reports whether the decision is in this reviewer's category.
func (r *Reviewer) CanReview(decision *dagpenger.Decision) bool {
	return decision.Category() == r.specialization
}

// Review finalizes a decision of the reviewer's own category. It overwrites
// any earlier review outcome.
func (r *Reviewer) Review(decision *dagpenger.Decision) error {
	if !r.CanReview(decision) {
		err := &generic.CategoryMismatchError{
			Reviewer:       r.name,
			Specialization: string(r.specialization),
			Category:       string(decision.Category()),
		}
		r.observe("", err)
		return err
	}

	status, err := outcomeFor(decision.Category())
	if err != nil {
		r.observe("", err)
		return err
	}

	if err := decision.SetStatus(status, r.name, r.now()); err != nil {
		r.observe("", err)
		return err
	}
	r.observe(status, nil)
	return nil
}

// ReviewAllPending reviews every decision in the sequence that matches the
// specialization and leaves the others untouched. The sequence is consumed
// once. It returns how many decisions were reviewed.
func (r *Reviewer) ReviewAllPending(decisions iter.Seq[*dagpenger.Decision]) int {
	reviewed := 0
	for decision := range decisions {
		if decision == nil || !r.CanReview(decision) {
			continue
		}
		if err := r.Review(decision); err == nil {
			reviewed++
		}
	}
	return reviewed
}

func outcomeFor(category dagpenger.Category) (dagpenger.ReviewStatus, error) {
	switch category {
	case dagpenger.CategoryDeniedLowIncome:
		return dagpenger.StatusDenied, nil
	case dagpenger.CategoryApproved, dagpenger.CategoryApprovedMaxRate:
		return dagpenger.StatusApproved, nil
	default:
		return "", fmt.Errorf("no review outcome for category %q: %w", category, generic.ErrInvalidState)
	}
}

func (r *Reviewer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Reviewer) observe(status dagpenger.ReviewStatus, err error) {
	if r.Observer != nil {
		r.Observer.ObserveReview(r.specialization, status, err)
	}
}
