/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model (unexported Decision fields, decimal Amounts) from the
  external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Grunnbeløp:
    GrunnbelopDTO, BaselineRecordDTO

  Claims:
    CalculateRequest (wraps factory.ClaimJSON), ClaimRequest, ReviewerDTO

  Decisions:
    DecisionDTO, ClaimResponse

VALIDATION:
  Claim shape is validated by factory.ClaimFactory; the reviewer block is
  checked in the handler.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/claim.go: ClaimJSON type
*/
package api

import (
	"time"

	"github.com/warp/benefit-engine/dagpenger"
	"github.com/warp/benefit-engine/factory"
	"github.com/warp/benefit-engine/generic"
	"github.com/warp/benefit-engine/grunnbelop"
)

// =============================================================================
// GRUNNBELØP
// =============================================================================

// GrunnbelopDTO is the G in use and the thresholds derived from it.
type GrunnbelopDTO struct {
	Amount                  float64 `json:"amount"`
	Source                  string  `json:"source"`
	MinimumQualifyingSalary float64 `json:"minimum_qualifying_salary"`
	MaxAnnualBenefitBasis   float64 `json:"max_annual_benefit_basis"`
	ThreeYearMinimum        float64 `json:"three_year_minimum"`
}

// BaselineRecordDTO is one row of the grunnbeløp history.
type BaselineRecordDTO struct {
	EffectiveFrom string  `json:"effective_from"`
	Amount        float64 `json:"amount"`
}

// =============================================================================
// CLAIMS
// =============================================================================

// CalculateRequest is the body of POST /api/calculations.
type CalculateRequest struct {
	factory.ClaimJSON
}

// ClaimRequest is the body of POST /api/claims: a claim plus the caseworker
// who reviews it.
type ClaimRequest struct {
	factory.ClaimJSON
	Reviewer ReviewerDTO `json:"reviewer"`
}

// ReviewerDTO identifies a caseworker.
type ReviewerDTO struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// =============================================================================
// DECISIONS
// =============================================================================

// DecisionDTO represents a decision in API responses.
type DecisionDTO struct {
	ID         string  `json:"id"`
	Rate       float64 `json:"rate"`
	RateUnit   string  `json:"rate_unit"`
	Category   string  `json:"category"`
	Method     string  `json:"method,omitempty"`
	Status     string  `json:"status"`
	ReviewedBy string  `json:"reviewed_by,omitempty"`
	ReviewedAt *string `json:"reviewed_at,omitempty"`
}

// ClaimResponse is returned by both claim endpoints.
type ClaimResponse struct {
	Claimant string      `json:"claimant"`
	Decision DecisionDTO `json:"decision"`
}

// ErrorResponse is the body of every non-2xx response. Decision is set when
// a review was refused, so the client still sees the unreviewed decision.
type ErrorResponse struct {
	Error    string       `json:"error"`
	Details  string       `json:"details,omitempty"`
	Field    string       `json:"field,omitempty"`
	Decision *DecisionDTO `json:"decision,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toDecisionDTO(d *dagpenger.Decision) DecisionDTO {
	dto := DecisionDTO{
		ID:         string(d.ID()),
		Rate:       d.Rate().Float64(),
		RateUnit:   string(d.Rate().Unit),
		Category:   string(d.Category()),
		Method:     string(d.Method()),
		Status:     string(d.Status()),
		ReviewedBy: d.ReviewedBy(),
	}
	if !d.ReviewedAt().IsZero() {
		at := d.ReviewedAt().UTC().Format(time.RFC3339)
		dto.ReviewedAt = &at
	}
	return dto
}

func toGrunnbelopDTO(p *grunnbelop.Provider) (GrunnbelopDTO, error) {
	threeYear, err := p.TotalForYears(dagpenger.RecentYears)
	if err != nil {
		return GrunnbelopDTO{}, err
	}
	return GrunnbelopDTO{
		Amount:                  p.Amount().Float64(),
		Source:                  p.Source(),
		MinimumQualifyingSalary: p.MinimumQualifyingSalary().Float64(),
		MaxAnnualBenefitBasis:   p.MaxAnnualBenefitBasis().Float64(),
		ThreeYearMinimum:        threeYear.Float64(),
	}, nil
}

func toBaselineRecordDTO(rec generic.BaselineRecord) BaselineRecordDTO {
	return BaselineRecordDTO{
		EffectiveFrom: rec.EffectiveFrom.Format(time.DateOnly),
		Amount:        rec.Amount.Float64(),
	}
}
