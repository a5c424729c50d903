/*
Package factory converts claim JSON documents into dagpenger types.

PURPOSE:
  A claim arrives as JSON from the HTTP API or the CLI's --file flag. The
  factory validates the document's shape and builds a SalaryHistory from it,
  so callers never assemble SalaryEntries by hand.

JSON SCHEMA:
  {
    "claimant": "Kari Nordmann",
    "salaries": [
      {"year": 2024, "amount": 550000},
      {"year": 2023, "amount": 500000}
    ]
  }

VALIDATION:
  Two layers. The struct tags below catch shape errors (missing fields, a
  year before 2010, negative amounts) and report them per field. Building
  each SalaryEntry then applies the domain rules again, so a document that
  slips past the tags still cannot produce an invalid entry.

  A year listed twice is not an error: the later entry wins, as with
  SalaryHistory.Add.

USAGE:
  f := factory.NewClaimFactory()
  claim, err := f.ParseClaim(body)
  calc := dagpenger.NewCalculator(claim.History, provider)

SEE ALSO:
  - dagpenger/salary.go: SalaryEntry and SalaryHistory
  - api/handlers.go: request decoding
*/
package factory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/warp/benefit-engine/dagpenger"
	"github.com/warp/benefit-engine/generic"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ClaimJSON is the JSON representation of a claim.
type ClaimJSON struct {
	Claimant string       `json:"claimant" validate:"required,notblank,max=200"`
	Salaries []SalaryJSON `json:"salaries" validate:"required,min=1,dive"`
}

// SalaryJSON is one year's salary.
type SalaryJSON struct {
	Year   int     `json:"year" validate:"salaryyear"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

// Claim is a parsed claim.
type Claim struct {
	Claimant string
	History  *dagpenger.SalaryHistory
}

// =============================================================================
// CLAIM FACTORY
// =============================================================================

// ClaimFactory converts JSON claims to dagpenger types. It is safe for
// concurrent use.
type ClaimFactory struct {
	validate *validator.Validate
}

// NewClaimFactory creates a claim factory with its validation rules
// registered.
func NewClaimFactory() *ClaimFactory {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("salaryyear", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() >= dagpenger.MinimumSalaryYear
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &ClaimFactory{validate: v}
}

// ParseClaim parses a JSON document into a Claim.
func (f *ClaimFactory) ParseClaim(data []byte) (*Claim, error) {
	var cj ClaimJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return nil, &generic.ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("malformed claim JSON: %v", err),
		}
	}
	return f.FromJSON(cj)
}

// FromJSON validates cj and builds the claim's salary history.
func (f *ClaimFactory) FromJSON(cj ClaimJSON) (*Claim, error) {
	if err := f.validate.Struct(cj); err != nil {
		return nil, toValidationError(err)
	}

	history := dagpenger.NewSalaryHistory()
	for _, s := range cj.Salaries {
		entry, err := dagpenger.NewSalaryEntry(s.Year, s.Amount)
		if err != nil {
			return nil, err
		}
		history.Add(entry)
	}

	return &Claim{
		Claimant: strings.TrimSpace(cj.Claimant),
		History:  history,
	}, nil
}

// ToJSON converts a claim back to its JSON representation, most recent year
// first.
func (f *ClaimFactory) ToJSON(claim *Claim) ClaimJSON {
	cj := ClaimJSON{Claimant: claim.Claimant}
	if claim.History == nil {
		return cj
	}
	for _, e := range claim.History.Entries() {
		cj.Salaries = append(cj.Salaries, SalaryJSON{
			Year:   int(e.Year()),
			Amount: e.Amount().Float64(),
		})
	}
	return cj
}

// =============================================================================
// HELPERS
// =============================================================================

// toValidationError reports the first failing field. Remaining failures are
// listed in the message.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &generic.ValidationError{Field: "claim", Message: err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fieldErrorToString(e))
	}
	return &generic.ValidationError{
		Field:   fieldPath(verrs[0]),
		Message: strings.Join(msgs, "; "),
	}
}

func fieldErrorToString(e validator.FieldError) string {
	field := fieldPath(e)
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "min":
		return fmt.Sprintf("%s must not be empty", field)
	case "max":
		return fmt.Sprintf("%s is too long", field)
	case "salaryyear":
		return fmt.Sprintf("%s cannot be before %d", field, dagpenger.MinimumSalaryYear)
	case "gte":
		return fmt.Sprintf("%s cannot be negative", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// fieldPath drops the root struct name: "ClaimJSON.salaries[1].year" becomes
// "salaries[1].year".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
