package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/benefit-engine/generic"
	"github.com/warp/benefit-engine/generic/store"
)

func TestMemory_SeededLatestIs2025(t *testing.T) {
	m := store.NewSeededMemory()

	rec, err := m.Latest(context.Background())
	require.NoError(t, err)
	assert.True(t, rec.Amount.Equal(generic.NOK(130160)))
}

func TestMemory_AtPicksRecordInForce(t *testing.T) {
	// GIVEN: Seeded history with May 1 adjustments
	// WHEN: Looking up dates on either side of the 2024 adjustment
	// THEN: The record effective on or before the date wins
	m := store.NewSeededMemory()
	ctx := context.Background()

	before, err := m.At(ctx, time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, before.Amount.Equal(generic.NOK(118620)))

	onDay, err := m.At(ctx, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, onDay.Amount.Equal(generic.NOK(124028)))
}

func TestMemory_AtBeforeFirstRecord(t *testing.T) {
	m := store.NewSeededMemory()

	_, err := m.At(context.Background(), time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, generic.ErrBaselineNotFound)
}

func TestMemory_EmptyLatest(t *testing.T) {
	_, err := store.NewMemory().Latest(context.Background())
	assert.ErrorIs(t, err, generic.ErrBaselineNotFound)
}

func TestMemory_PutReplacesSameDate(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	day := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, m.Put(ctx, generic.BaselineRecord{EffectiveFrom: day, Amount: generic.NOK(1)}))
	require.NoError(t, m.Put(ctx, generic.BaselineRecord{EffectiveFrom: day, Amount: generic.NOK(2)}))

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Amount.Equal(generic.NOK(2)))
}

func TestMemory_PutRejectsNonPositive(t *testing.T) {
	err := store.NewMemory().Put(context.Background(), generic.BaselineRecord{
		EffectiveFrom: time.Now(),
		Amount:        generic.NOK(0),
	})
	assert.ErrorIs(t, err, generic.ErrValidation)
}
