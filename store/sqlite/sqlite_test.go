package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/benefit-engine/generic"
	"github.com/warp/benefit-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SeededOnMigrate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, len(generic.KnownBaselines))
	assert.Equal(t, 2019, records[0].EffectiveFrom.Year())

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.True(t, latest.Amount.Equal(generic.NOK(130160)))
	assert.Equal(t, generic.UnitNOK, latest.Amount.Unit)
}

func TestStore_AtPicksRecordInForce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before, err := s.At(ctx, time.Date(2024, time.April, 30, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, before.Amount.Equal(generic.NOK(118620)))

	onDay, err := s.At(ctx, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, onDay.Amount.Equal(generic.NOK(124028)))
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), onDay.EffectiveFrom)

	_, err = s.At(ctx, time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, errors.Is(err, generic.ErrBaselineNotFound))
}

func TestStore_PutReplacesAndAppends(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	may2026 := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Put(ctx, generic.BaselineRecord{
		EffectiveFrom: may2026,
		Amount:        generic.NOK(135000),
	}))
	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.True(t, latest.Amount.Equal(generic.NOK(135000)))

	require.NoError(t, s.Put(ctx, generic.BaselineRecord{
		EffectiveFrom: may2026,
		Amount:        generic.NOK(136500),
	}))
	latest, err = s.Latest(ctx)
	require.NoError(t, err)
	assert.True(t, latest.Amount.Equal(generic.NOK(136500)))

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, len(generic.KnownBaselines)+1)
}

func TestStore_PutRejectsNonPositive(t *testing.T) {
	s := newTestStore(t)

	err := s.Put(context.Background(), generic.BaselineRecord{
		EffectiveFrom: time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
		Amount:        generic.NOK(0),
	})
	assert.True(t, errors.Is(err, generic.ErrValidation))
}

func TestStore_CorrectionsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.db")
	ctx := context.Background()
	may2025 := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

	s, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, generic.BaselineRecord{EffectiveFrom: may2025, Amount: generic.NOK(130000)}))
	require.NoError(t, s.Close())

	// migrate runs again on open and must not overwrite the correction
	s, err = sqlite.New(path)
	require.NoError(t, err)
	defer s.Close()

	rec, err := s.At(ctx, may2025)
	require.NoError(t, err)
	assert.True(t, rec.Amount.Equal(generic.NOK(130000)))
}
