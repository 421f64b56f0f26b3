package search

import (
	"container/heap"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerofare/farepath/fare"
	"github.com/aerofare/farepath/itin"
)

func oneSegItin(t *testing.T) *itin.Itinerary {
	t.Helper()
	it, err := itin.New([]itin.Segment{{
		Origin:      itin.Location{City: "LON", Nation: "GB"},
		Destination: itin.Location{City: "PAR", Nation: "FR"},
		Marketing:   "AA",
	}})
	require.NoError(t, err)

	return it
}

func rankedSlot(a *fare.Arena, costs ...int64) ([]fare.UnitHandle, fare.PricingUnitSource) {
	var units []fare.UnitHandle
	for _, c := range costs {
		fh := a.AddFare(fare.Fare{Basis: "Y", Carrier: "AA", Amount: decimal.NewFromInt(c)})
		uh := a.AddUsage(fare.FareUsage{Fare: fh, From: 0, To: 1})
		units = append(units, a.AddUnit(fare.PricingUnit{
			Kind:   fare.KindRoundTrip,
			Usages: []fare.UsageHandle{uh},
		}))
	}

	return units, fare.NewListSource(a, units...)
}

func TestLessItems_Ordering(t *testing.T) {
	cheap := &frontierItem{coord: []int{1, 0}, cost: 100, seq: 5}
	dear := &frontierItem{coord: []int{0, 0}, cost: 100.5, seq: 1}
	assert.True(t, lessItems(cheap, dear, 1e-9), "cost decides outside eps")

	// Within eps the lexicographic coordinate decides, not the sequence.
	tieLo := &frontierItem{coord: []int{0, 2}, cost: 100, seq: 9}
	tieHi := &frontierItem{coord: []int{1, 0}, cost: 100 + 1e-12, seq: 2}
	assert.True(t, lessItems(tieLo, tieHi, 1e-9))
	assert.False(t, lessItems(tieHi, tieLo, 1e-9))

	// Same coordinate (a clone): the sequence decides.
	a := &frontierItem{coord: []int{3}, cost: 50, seq: 1}
	b := &frontierItem{coord: []int{3}, cost: 50, seq: 7}
	assert.True(t, lessItems(a, b, 1e-9))
}

func TestNext_RepopOfAcceptedItemIsIdempotent(t *testing.T) {
	a := fare.NewArena()
	units, slot := rankedSlot(a, 100)
	lat, err := fare.NewLattice(slot)
	require.NoError(t, err)
	s, err := New(a, oneSegItin(t), "ADT", lat, Deps{})
	require.NoError(t, err)

	fp, err := s.Next(context.Background())
	require.NoError(t, err)
	acceptedBefore := s.stats.Accepted

	// Requeue the settled item the way a carrier-clone withhold would.
	heap.Push(s.held, &frontierItem{
		coord:    []int{0},
		units:    units,
		cost:     fp.Cost,
		accepted: fp,
		seq:      s.seq,
	})
	s.seq++

	got, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Same(t, fp, got, "re-pop returns the identical path")
	assert.Equal(t, acceptedBefore, s.stats.Accepted, "no re-validation side effects")
}

func TestExpand_CancelledContextAbortsBeforePushing(t *testing.T) {
	a := fare.NewArena()
	_, slot := rankedSlot(a, 100, 120)
	lat, err := fare.NewLattice(slot)
	require.NoError(t, err)
	s, err := New(a, oneSegItin(t), "ADT", lat, Deps{})
	require.NoError(t, err)

	item := heap.Pop(s.pq).(*frontierItem)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.expand(ctx, item)
	require.ErrorIs(t, err, ErrAborted)
	assert.Zero(t, s.pq.Len(), "no successors enqueued after cancellation")
	assert.Zero(t, s.stats.Expansions)
}

func TestFrontier_NoDuplicateCoordinatesQueued(t *testing.T) {
	a := fare.NewArena()
	_, slotA := rankedSlot(a, 10, 20, 30)
	_, slotB := rankedSlot(a, 11, 21, 31)
	lat, err := fare.NewLattice(slotA, slotB)
	require.NoError(t, err)
	s, err := New(a, oneSegItin(t), "ADT", lat, Deps{})
	require.NoError(t, err)

	for {
		if _, err := s.Next(context.Background()); err != nil {
			require.ErrorIs(t, err, ErrExhausted)

			break
		}
		keys := make(map[string]bool)
		for _, fi := range s.pq.items {
			require.False(t, keys[fi.key()], "duplicate coordinate %s in queue", fi.key())
			keys[fi.key()] = true
		}
	}
	assert.Equal(t, 9, s.stats.Accepted)
}
