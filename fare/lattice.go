// Package fare — pricing-unit sources and the lattice.
//
// lattice.go — the external contract the search consumes: one
// PricingUnitSource per lattice slot, each lazily producing ranked
// pricing-unit instances (index 0 cheapest). MemoSource guarantees the
// same index is never built twice; ListSource adapts a fixed ranked slice.
package fare

import "math"

// PricingUnitSource produces the index-th cheapest pricing unit for one
// lattice slot.
//
// Contract:
//   - (h, true, nil): the unit exists; h resolves in the arena.
//   - (_, false, nil): no unit at this index or beyond — the slot is
//     exhausted from index on.
//   - (_, false, ErrNotReady): the unit exists but is not materialized yet;
//     the caller should retry later.
//   - (_, false, err): transient construction failure; the affected branch
//     is dropped, the search continues.
//
// costDeltaBound is an upper bound on the unit cost that could still beat
// the caller's best known total; sources need not materialize anything more
// expensive. Pass math.Inf(1) for no bound. Sources must rank units in
// non-decreasing cost order.
type PricingUnitSource interface {
	Get(index int, costDeltaBound float64) (UnitHandle, bool, error)
}

// SourceFunc adapts a plain function to PricingUnitSource.
type SourceFunc func(index int, costDeltaBound float64) (UnitHandle, bool, error)

// Get implements PricingUnitSource.
func (f SourceFunc) Get(index int, costDeltaBound float64) (UnitHandle, bool, error) {
	return f(index, costDeltaBound)
}

// Lattice is the ordered set of pricing-unit slots for one search.
type Lattice struct {
	slots []PricingUnitSource
}

// NewLattice builds a lattice over the given slot sources.
// At least one slot is required (ErrEmptyLattice).
func NewLattice(slots ...PricingUnitSource) (*Lattice, error) {
	if len(slots) == 0 {
		return nil, ErrEmptyLattice
	}
	l := &Lattice{slots: make([]PricingUnitSource, len(slots))}
	copy(l.slots, slots)

	return l, nil
}

// Len returns the number of slots.
func (l *Lattice) Len() int { return len(l.slots) }

// Source returns slot s's source. Out-of-range s is a caller defect; the
// search guards its own coordinates and surfaces a typed error instead of
// reaching this panic.
func (l *Lattice) Source(s int) PricingUnitSource { return l.slots[s] }

// MemoSource wraps a source so that each index is materialized at most
// once: the first successful Get for an index is cached and replayed,
// including the terminal "none left" answer. ErrNotReady, transient errors
// and refusals under a finite cost bound are not cached — the next request
// retries the inner source.
//
// MemoSource is not safe for concurrent use on the same slot; the search
// dedicates one worker per slot, which is the intended confinement.
type MemoSource struct {
	inner PricingUnitSource
	units []UnitHandle // units[i] valid when i < done
	done  int          // indices [0, done) are settled
	ended bool         // inner answered "none left" at index done
}

// NewMemoSource wraps inner with per-index memoization.
func NewMemoSource(inner PricingUnitSource) *MemoSource {
	return &MemoSource{inner: inner}
}

// Get implements PricingUnitSource.
func (m *MemoSource) Get(index int, costDeltaBound float64) (UnitHandle, bool, error) {
	if index < m.done {
		return m.units[index], true, nil
	}
	if m.ended {
		return HandleNone, false, nil
	}

	// Fill forward: ranked sources are consumed in order, so requesting
	// index k settles every index up to k. The bound applies to the target
	// index only; intermediate indices are cheaper by the ranking contract.
	for m.done <= index {
		bound := math.Inf(1)
		if m.done == index {
			bound = costDeltaBound
		}
		h, ok, err := m.inner.Get(m.done, bound)
		if err != nil {
			return HandleNone, false, err
		}
		if !ok {
			// Only an unbounded refusal is true exhaustion; under a finite
			// bound the unit may exist and just not beat it, so the answer
			// is not cached and a more generous request retries.
			if math.IsInf(bound, 1) {
				m.ended = true
			}

			return HandleNone, false, nil
		}
		m.units = append(m.units, h)
		m.done++
	}

	return m.units[index], true, nil
}

// ListSource adapts a fixed, already-ranked slice of unit handles. It
// honors the cost delta bound: a unit that cannot beat the bound is
// reported as "none left", matching the ranked-order contract.
type ListSource struct {
	arena *Arena
	units []UnitHandle
}

// NewListSource builds a source over ranked unit handles.
func NewListSource(a *Arena, units ...UnitHandle) *ListSource {
	return &ListSource{arena: a, units: append([]UnitHandle(nil), units...)}
}

// Get implements PricingUnitSource.
func (s *ListSource) Get(index int, costDeltaBound float64) (UnitHandle, bool, error) {
	if index < 0 || index >= len(s.units) {
		return HandleNone, false, nil
	}
	h := s.units[index]
	if s.arena.Unit(h).Cost > costDeltaBound {
		return HandleNone, false, nil
	}

	return h, true, nil
}
