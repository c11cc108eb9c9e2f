package rewards

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsoluteSlots(t *testing.T) {
	assert.Equal(t, []uint64{1002, 1008, 1015}, AbsoluteSlots([]uint64{2, 8, 15}, 1000))
	assert.Empty(t, AbsoluteSlots(nil, 1000))
}

func TestObserveResetsOnEpochChange(t *testing.T) {

	c := NewCache()

	require.True(t, c.Observe(500, []uint64{10, 20, 30}))
	require.True(t, c.Store(500, []Record{{Slot: 10, Rewards: 0.5}}))

	// Same epoch keeps resolved values
	require.False(t, c.Observe(500, []uint64{10, 20, 30}))
	assert.Equal(t, []Record{{10, 0.5}, {20, 0}, {30, 0}}, c.Elapsed(100))

	// New epoch holds exactly the new slot set, all placeholders
	require.True(t, c.Observe(501, []uint64{40, 50, 50}))
	assert.Equal(t, []Record{{40, 0}, {50, 0}}, c.Elapsed(100))

	snap := c.Snapshot()
	assert.Equal(t, uint64(501), snap.Epoch)
	assert.Equal(t, 2, snap.Slots)
	assert.Equal(t, 0, snap.Resolved)
}

func TestElapsedExcludesFutureSlots(t *testing.T) {

	c := NewCache()
	c.Observe(1, []uint64{5, 15, 25})

	assert.Equal(t, []Record{{5, 0}}, c.Elapsed(15))
	assert.Empty(t, c.Elapsed(5))
}

func TestStoreDropsSupersededEpoch(t *testing.T) {

	c := NewCache()
	assert.False(t, c.Store(1, []Record{{Slot: 1, Rewards: 1}}))

	c.Observe(2, []uint64{1})
	assert.False(t, c.Store(1, []Record{{Slot: 1, Rewards: 1}}))
	assert.Equal(t, []Record{{1, 0}}, c.Elapsed(10))

	// unknown slots ignored
	assert.True(t, c.Store(2, []Record{{Slot: 99, Rewards: 1}}))
	assert.Equal(t, 0, c.Snapshot().Resolved)
}

func TestResolverNeverRefetchesResolvedSlots(t *testing.T) {

	c := NewCache()
	c.Observe(7, []uint64{100, 101, 102, 200})

	var mu sync.Mutex
	calls := map[uint64]int{}

	r := &Resolver{
		Cache: c,
		Fetch: func(_ context.Context, slot uint64) (float64, error) {
			mu.Lock()
			defer mu.Unlock()
			calls[slot]++
			if slot == 102 {
				return 0, errors.New("block unavailable")
			}
			return float64(slot) / 1000, nil
		},
		Concurrency: 2,
	}

	records := r.Resolve(context.Background(), 7, 150)
	assert.Equal(t, []Record{{100, 0.1}, {101, 0.101}, {102, 0}}, records)

	records = r.Resolve(context.Background(), 7, 150)
	assert.Equal(t, []Record{{100, 0.1}, {101, 0.101}, {102, 0}}, records)

	assert.Equal(t, 1, calls[100])
	assert.Equal(t, 1, calls[101])
	assert.Equal(t, 2, calls[102], "zero-valued slots are looked up again")
	assert.Zero(t, calls[200])
}

func TestResolverStaleEpochLeavesCacheUntouched(t *testing.T) {

	c := NewCache()
	c.Observe(7, []uint64{1})

	r := &Resolver{
		Cache: c,
		Fetch: func(_ context.Context, _ uint64) (float64, error) {
			// another press moved the cache on mid-flight
			c.Observe(8, []uint64{1})
			return 3, nil
		},
	}

	records := r.Resolve(context.Background(), 7, 10)
	assert.Equal(t, []Record{{1, 3}}, records)
	assert.Equal(t, []Record{{1, 0}}, c.Elapsed(10))
}

func TestSummarize(t *testing.T) {

	records := []Record{
		{Slot: 1, Rewards: 0.2},
		{Slot: 2, Rewards: 0},
		{Slot: 3, Rewards: 0.5},
		{Slot: 4, Rewards: 0.2},
	}

	s := Summarize(records, 0.3)

	assert.InDelta(t, 0.9, s.Total, 1e-9)
	assert.Equal(t, 3, s.Produced)
	assert.InDelta(t, 0.3, s.AverageReward, 1e-9)
	assert.InDelta(t, 0.1, s.AverageMEV, 1e-9)
	assert.Equal(t, []Record{{2, 0}}, s.Failed)

	// ties keep input order
	assert.Equal(t, []Record{{3, 0.5}, {1, 0.2}, {4, 0.2}, {2, 0}}, s.Best)

	// input untouched
	assert.Equal(t, uint64(1), records[0].Slot)
}

func TestSummarizeBestLimit(t *testing.T) {

	records := make([]Record, 80)
	for i := range records {
		records[i] = Record{Slot: uint64(i), Rewards: float64(i)}
	}

	s := Summarize(records, 0)
	require.Len(t, s.Best, BestSlotsLimit)
	assert.Equal(t, uint64(79), s.Best[0].Slot)
	assert.Equal(t, uint64(30), s.Best[BestSlotsLimit-1].Slot)
}

func TestSummarizeNoProducedSlots(t *testing.T) {

	s := Summarize([]Record{{Slot: 9, Rewards: 0}}, 0.5)
	assert.True(t, math.IsNaN(s.AverageReward))
	assert.True(t, math.IsInf(s.AverageMEV, 1))

	s = Summarize(nil, 0)
	assert.True(t, math.IsNaN(s.AverageReward))
	assert.True(t, math.IsNaN(s.AverageMEV))
}

func TestReport(t *testing.T) {

	s := Summarize([]Record{
		{Slot: 10, Rewards: 0.25},
		{Slot: 11, Rewards: 0},
		{Slot: 12, Rewards: 0.75},
	}, 0.5)

	expected := "Best Slots:\n" +
		"12: 0.7500 SOL\n" +
		"10: 0.2500 SOL\n" +
		"11: 0.0000 SOL\n" +
		"\nFailed Slots:\n" +
		"11: 0.0000 SOL" +
		"\n\nTotal BR: 1.0000 SOL" +
		"\nAvg Rewards/Slot: 0.5000 SOL" +
		"\n\nTotal MEV: 0.5000 SOL" +
		"\nAvg MEV/Slot: 0.2500 SOL"

	assert.Equal(t, expected, s.Report())
}
