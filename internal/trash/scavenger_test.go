package trash

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapyard/trashpoker/internal/randutil"
)

func TestSpawnAndCollect(t *testing.T) {
	s := NewScavenger(randutil.New(1))

	item := s.Spawn()
	assert.Len(t, s.Items(), 1)

	value, err := s.Collect(item.ID)
	require.NoError(t, err)
	if item.Kind == RareCoin {
		assert.Equal(t, RareCoinValue, value)
	} else {
		assert.Equal(t, TrashValue, value)
	}
	assert.Equal(t, value, s.Earned())
	assert.Equal(t, 1, s.Picked())
	assert.Empty(t, s.Items())
}

func TestCollectUnknownItem(t *testing.T) {
	s := NewScavenger(randutil.New(1))

	_, err := s.Collect(42)
	assert.ErrorIs(t, err, ErrNoSuchItem)
}

func TestRareCoinFrequency(t *testing.T) {
	s := NewScavenger(randutil.New(7))

	rare := 0
	const n = 10000
	for range n {
		if s.Spawn().Kind == RareCoin {
			rare++
		}
	}
	assert.InDelta(t, 0.02, float64(rare)/n, 0.005)
}

func TestExpiry(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mock := quartz.NewMock(t)
	s := NewScavenger(randutil.New(1), WithClock(mock), WithTTL(time.Second))

	stale := s.Spawn()
	mock.Advance(2 * time.Second).MustWait(ctx)
	fresh := s.Spawn()

	_, err := s.Collect(stale.ID)
	assert.ErrorIs(t, err, ErrExpired)

	_, err = s.Collect(fresh.ID)
	assert.NoError(t, err)
}

func TestSweep(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mock := quartz.NewMock(t)
	s := NewScavenger(randutil.New(1), WithClock(mock), WithTTL(time.Second))

	s.Spawn()
	s.Spawn()
	mock.Advance(2 * time.Second).MustWait(ctx)
	s.Spawn()

	assert.Equal(t, 2, s.Sweep())
	assert.Len(t, s.Items(), 1)
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "rare coin", RareCoin.String())
	assert.Equal(t, "bag", Bag.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
