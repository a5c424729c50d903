package factory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/benefit-engine/factory"
	"github.com/warp/benefit-engine/generic"
)

func TestParseClaim(t *testing.T) {
	f := factory.NewClaimFactory()

	claim, err := f.ParseClaim([]byte(`{
		"claimant": "  Kari Nordmann ",
		"salaries": [
			{"year": 2022, "amount": 450000},
			{"year": 2024, "amount": 550000},
			{"year": 2023, "amount": 500000}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Kari Nordmann", claim.Claimant)
	require.Equal(t, 3, claim.History.Len())

	latest, err := claim.History.MostRecent()
	require.NoError(t, err)
	assert.Equal(t, generic.Year(2024), latest.Year())
	assert.Equal(t, "550000", latest.Amount().Value.String())
}

func TestParseClaim_DuplicateYearLastWins(t *testing.T) {
	f := factory.NewClaimFactory()

	claim, err := f.ParseClaim([]byte(`{"claimant":"Ola","salaries":[
		{"year": 2024, "amount": 100000},
		{"year": 2024, "amount": 200000}
	]}`))
	require.NoError(t, err)

	require.Equal(t, 1, claim.History.Len())
	latest, err := claim.History.MostRecent()
	require.NoError(t, err)
	assert.Equal(t, "200000", latest.Amount().Value.String())
}

func TestParseClaim_ZeroSalaryAllowed(t *testing.T) {
	f := factory.NewClaimFactory()

	claim, err := f.ParseClaim([]byte(`{"claimant":"Ola","salaries":[{"year": 2024, "amount": 0}]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, claim.History.Len())
}

func TestParseClaim_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"malformed", `{"claimant":`, "body"},
		{"missing claimant", `{"salaries":[{"year":2024,"amount":1}]}`, "claimant"},
		{"blank claimant", `{"claimant":"   ","salaries":[{"year":2024,"amount":1}]}`, "claimant"},
		{"no salaries", `{"claimant":"Ola","salaries":[]}`, "salaries"},
		{"year too early", `{"claimant":"Ola","salaries":[{"year":2024,"amount":1},{"year":2009,"amount":1}]}`, "salaries[1].year"},
		{"negative amount", `{"claimant":"Ola","salaries":[{"year":2024,"amount":-5}]}`, "salaries[0].amount"},
	}

	f := factory.NewClaimFactory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ParseClaim([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, generic.ErrValidation))

			var verr *generic.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestToJSON(t *testing.T) {
	f := factory.NewClaimFactory()

	claim, err := f.ParseClaim([]byte(`{"claimant":"Ola","salaries":[
		{"year": 2023, "amount": 500000},
		{"year": 2024, "amount": 550000}
	]}`))
	require.NoError(t, err)

	cj := f.ToJSON(claim)
	assert.Equal(t, "Ola", cj.Claimant)
	assert.Equal(t, []factory.SalaryJSON{
		{Year: 2024, Amount: 550000},
		{Year: 2023, Amount: 500000},
	}, cj.Salaries)
}
