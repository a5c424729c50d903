/*
Package generic provides the money, identifier and error kernel shared by the
benefit engine packages.

PURPOSE:
  Everything that is not specific to one benefit scheme lives here: the
  decimal-backed Amount used for salaries, thresholds and daily rates, the
  baseline ("grunnbeløp") record and store contract, and the error taxonomy.
  The dagpenger, grunnbelop and saksbehandler packages build on top of it.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity of money with a unit (NOK, NOK per day)
  - Year: A calendar year used to key salary history
  - BaselineRecord: One historical grunnbeløp value with its effective date

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Type Safety: Amounts carry their unit so rates and salaries don't mix
  3. Rounding: Daily rates are always rounded up (a started day is paid in full)

USAGE:
  salary := generic.NewAmount(550000, generic.UnitNOK)
  rate := salary.Div(decimal.NewFromInt(260)).Ceil().As(generic.UnitNOKPerDay)

SEE ALSO:
  - errors.go: Error taxonomy
  - store.go: Baseline store contract
*/
package generic

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Money with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitNOK       Unit = "NOK"
	UnitNOKPerDay Unit = "NOK/day"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(value), Unit: unit}
}

// NOK is shorthand for an annual or one-off kroner amount.
func NOK(value float64) Amount {
	return NewAmount(value, UnitNOK)
}

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Div(s decimal.Decimal) Amount { return Amount{Value: a.Value.Div(s), Unit: a.Unit} }
func (a Amount) Ceil() Amount                 { return Amount{Value: a.Value.Ceil(), Unit: a.Unit} }
func (a Amount) As(unit Unit) Amount          { return Amount{Value: a.Value, Unit: unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) GreaterThanOrEqual(b Amount) bool {
	return a.Value.GreaterThanOrEqual(b.Value)
}
func (a Amount) Equal(b Amount) bool { return a.Value.Equal(b.Value) }

// Float64 is for display and metrics only; never feed it back into arithmetic.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

func (a Amount) String() string {
	return a.Value.String() + " " + string(a.Unit)
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type Year int

type DecisionID string

// =============================================================================
// BASELINE RECORD - One historical grunnbeløp
// =============================================================================

// BaselineRecord is the grunnbeløp in force from EffectiveFrom until the next
// record takes over. The G is adjusted once a year, normally on May 1.
type BaselineRecord struct {
	EffectiveFrom time.Time
	Amount        Amount
}
