/*
Package grunnbelop supplies the grunnbeløp (G) and the thresholds derived
from it.

PURPOSE:
  Every dagpenger threshold is a multiple of G. The Provider obtains G once
  from a Source and answers threshold questions for its whole lifetime.

THRESHOLDS:
  TotalForYears(n)          n × G    (3G for the three-year sum rule)
  MinimumQualifyingSalary() 1.5 × G  (most recent year rule)
  MaxAnnualBenefitBasis()   6 × G    (cap on the calculation basis)

INITIALIZATION:
  NewProvider fails if the source fails or returns a non-positive value.
  There is no provider with an unknown G: a zero G would make every
  claimant silently ineligible.

SOURCES:
  - HTTPSource:   NAV's public grunnbeløp API
  - StoreSource:  A generic.BaselineStore (sqlite, memory)
  - StaticSource: A fixed value

EXAMPLE:
  provider, err := grunnbelop.NewProvider(ctx, grunnbelop.NewHTTPSource(url, 5*time.Second))
  if err != nil {
      return err // wraps generic.ErrInitialization
  }
  cap := provider.MaxAnnualBenefitBasis()
*/
package grunnbelop

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/benefit-engine/generic"
)

var (
	minimumMultiplier = decimal.RequireFromString("1.5")
	maximumMultiplier = decimal.NewFromInt(6)
)

// Source fetches the current grunnbeløp. Fetch is called once per Provider.
type Source interface {
	Fetch(ctx context.Context) (generic.Amount, error)
	Name() string
}

// FetchObserver is told how long the initial fetch took. metrics.Metrics
// implements it.
type FetchObserver interface {
	ObserveBaselineFetch(source string, d time.Duration, err error)
}

// Provider holds one G and derives thresholds from it.
type Provider struct {
	amount generic.Amount
	source string
}

// NewProvider fetches G from source. observer may be nil.
func NewProvider(ctx context.Context, source Source, observer FetchObserver) (*Provider, error) {
	start := time.Now()
	amount, err := source.Fetch(ctx)
	if observer != nil {
		observer.ObserveBaselineFetch(source.Name(), time.Since(start), err)
	}
	if err != nil {
		return nil, &generic.InitializationError{Source: source.Name(), Err: err}
	}
	if !amount.IsPositive() {
		return nil, &generic.InitializationError{
			Source: source.Name(),
			Err:    fmt.Errorf("grunnbeløp must be positive, got %s", amount.Value),
		}
	}
	return &Provider{amount: amount.As(generic.UnitNOK), source: source.Name()}, nil
}

// Amount returns G.
func (p *Provider) Amount() generic.Amount { return p.amount }

// Source names where G came from.
func (p *Provider) Source() string { return p.source }

// TotalForYears returns n × G.
func (p *Provider) TotalForYears(n int) (generic.Amount, error) {
	if n <= 0 {
		return generic.Amount{}, fmt.Errorf("total for years: n must be greater than 0, got %d: %w",
			n, generic.ErrInvalidArgument)
	}
	return p.amount.Mul(decimal.NewFromInt(int64(n))), nil
}

// MinimumQualifyingSalary returns 1.5G.
func (p *Provider) MinimumQualifyingSalary() generic.Amount {
	return p.amount.Mul(minimumMultiplier)
}

// MaxAnnualBenefitBasis returns 6G.
func (p *Provider) MaxAnnualBenefitBasis() generic.Amount {
	return p.amount.Mul(maximumMultiplier)
}
