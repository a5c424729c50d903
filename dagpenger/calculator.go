/*
Package dagpenger computes the Norwegian unemployment benefit daily rate.

PURPOSE:
  Given a claimant's annual salaries and the current grunnbeløp (G), decide
  whether the claimant qualifies, pick the calculation method, and produce
  an unreviewed Decision carrying the daily rate and its category.

ELIGIBILITY (either is enough):
  1. Sum of the three most recent years >= 3G
  2. Most recent year >= 1.5G

METHOD SELECTION (first match wins):
  last  = most recent year's salary
  avg3  = sum of up to three most recent years / 3
  cap   = 6G

  last > avg3 and last >= cap  ──▶ MaxAnnualBenefitBasis (basis = cap)
  last > avg3                  ──▶ LastYearSalary        (basis = last)
  otherwise                    ──▶ ThreeYearAverage      (basis = avg3)

  The first comparison is strict and the cap comparison is not: a salary
  exactly equal to the average uses the average, a salary exactly at 6G
  is capped.

DAILY RATE:
  rate = ceil(basis / 260). 260 working days per year; a started krone is
  paid in full, so rounding is always upward.

EXAMPLE:
  history := dagpenger.NewSalaryHistory(e2022, e2023, e2024)
  calc := dagpenger.NewCalculator(history, provider)
  decision, err := calc.Calculate()

SEE ALSO:
  - salary.go: SalaryEntry and SalaryHistory
  - decision.go: Decision, Category, ReviewStatus
  - grunnbelop/provider.go: Thresholds derived from G
*/
package dagpenger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/benefit-engine/generic"
)

const (
	// WorkingDaysPerYear divides the annual basis into a daily rate.
	WorkingDaysPerYear = 260

	// RecentYears is the window used for the sum and average rules.
	RecentYears = 3
)

// Thresholds is what the calculator needs from the baseline provider.
type Thresholds interface {
	TotalForYears(n int) (generic.Amount, error)
	MinimumQualifyingSalary() generic.Amount
	MaxAnnualBenefitBasis() generic.Amount
}

// Calculator evaluates one claimant's salary history.
type Calculator struct {
	history    *SalaryHistory
	thresholds Thresholds
}

// NewCalculator takes ownership of history; a nil history starts empty.
func NewCalculator(history *SalaryHistory, thresholds Thresholds) *Calculator {
	if history == nil {
		history = NewSalaryHistory()
	}
	return &Calculator{history: history, thresholds: thresholds}
}

// AddSalary registers a salary for the claimant.
func (c *Calculator) AddSalary(entry SalaryEntry) {
	c.history.Add(entry)
}

// IsEligible reports whether either eligibility rule holds.
func (c *Calculator) IsEligible() (bool, error) {
	sum, err := c.history.SumRecentYears(RecentYears)
	if err != nil {
		return false, err
	}
	required, err := c.thresholds.TotalForYears(RecentYears)
	if err != nil {
		return false, err
	}
	if sum.GreaterThanOrEqual(required) {
		return true, nil
	}

	latest, err := c.history.MostRecent()
	if err != nil {
		return false, err
	}
	return latest.Amount().GreaterThanOrEqual(c.thresholds.MinimumQualifyingSalary()), nil
}

// SelectMethod picks the calculation method. It does not check eligibility.
func (c *Calculator) SelectMethod() (CalculationMethod, error) {
	if c.history.Len() == 0 {
		return "", fmt.Errorf("select method: no salary entries: %w", generic.ErrInvalidState)
	}

	last, avg3, err := c.lastAndAverage()
	if err != nil {
		return "", err
	}

	if last.GreaterThan(avg3) {
		if last.GreaterThanOrEqual(c.thresholds.MaxAnnualBenefitBasis()) {
			return MethodMaxAnnualBenefitBasis, nil
		}
		return MethodLastYearSalary, nil
	}
	return MethodThreeYearAverage, nil
}

// Calculate produces an unreviewed decision. Ineligible claimants get a zero
// rate in the denied category; the method is not consulted for them.
func (c *Calculator) Calculate() (*Decision, error) {
	eligible, err := c.IsEligible()
	if err != nil {
		return nil, fmt.Errorf("calculate: %w", err)
	}
	if !eligible {
		return newDecision(generic.NOK(0), CategoryDeniedLowIncome, ""), nil
	}

	method, err := c.SelectMethod()
	if err != nil {
		return nil, fmt.Errorf("calculate: %w", err)
	}

	basis, err := c.basis(method)
	if err != nil {
		return nil, fmt.Errorf("calculate: %w", err)
	}

	rate := basis.Div(decimal.NewFromInt(WorkingDaysPerYear)).Ceil()
	return newDecision(rate, method.Category(), method), nil
}

func (c *Calculator) basis(method CalculationMethod) (generic.Amount, error) {
	last, avg3, err := c.lastAndAverage()
	if err != nil {
		return generic.Amount{}, err
	}

	switch method {
	case MethodLastYearSalary:
		return last, nil
	case MethodThreeYearAverage:
		return avg3, nil
	case MethodMaxAnnualBenefitBasis:
		return c.thresholds.MaxAnnualBenefitBasis(), nil
	default:
		return generic.Amount{}, fmt.Errorf("unknown calculation method %q: %w", method, generic.ErrInvalidState)
	}
}

// lastAndAverage returns the most recent salary and the three-year average.
// The average always divides by three, even with fewer entries.
func (c *Calculator) lastAndAverage() (last, avg3 generic.Amount, err error) {
	latest, err := c.history.MostRecent()
	if err != nil {
		return generic.Amount{}, generic.Amount{}, err
	}
	sum, err := c.history.SumRecentYears(RecentYears)
	if err != nil {
		return generic.Amount{}, generic.Amount{}, err
	}
	return latest.Amount(), sum.Div(decimal.NewFromInt(RecentYears)), nil
}
