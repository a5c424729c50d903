package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CorruptAmountIsAnError(t *testing.T) {
	// GIVEN: A row whose amount is not a decimal
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec(`UPDATE grunnbelop SET amount = 'n/a' WHERE effective_from = '2024-05-01'`)
	require.NoError(t, err)

	ctx := context.Background()

	// WHEN: Reading it back
	// THEN: The read fails instead of reporting a zero G
	_, err = s.At(ctx, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2024-05-01")

	_, err = s.List(ctx)
	assert.Error(t, err)

	// Rows on either side are unaffected
	rec, err := s.At(ctx, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "118620", rec.Amount.Value.String())
}

func TestParseAmount(t *testing.T) {
	a, err := parseAmount("124028.50", "NOK")
	require.NoError(t, err)
	assert.Equal(t, "124028.5", a.Value.String())

	_, err = parseAmount("", "NOK")
	assert.Error(t, err)
}
