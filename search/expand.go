// Package search — successor generation.
package search

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aerofare/farepath/fare"
)

// slotResult captures one slot worker's answer; errors are carried as data
// so the join can sort transient failures from pauses after all workers
// finished, never mid-flight.
type slotResult struct {
	slot int
	unit fare.UnitHandle
	ok   bool
	err  error
}

// expand generates the item's successors: for every slot at or after the
// expansion frontier, the slot's source is asked for the next ranked index,
// forming a new coordinate with that slot's frontier.
//
// The source requests fan out one goroutine per open slot and join before
// anything is pushed; slots whose next coordinate was already seen are
// skipped without touching the source. Each request carries the per-slot
// cost delta bound (external bound minus the running total excluding that
// slot) so sources need not materialize units that cannot beat it.
//
// Per-slot outcomes: a unit yields a new frontier item; ErrNotReady yields
// a paused item re-requested on pop; "none left" ends that slot's subtree;
// any other error drops the branch with a log line and the search moves on.
// The only error a worker surfaces through the group is context
// cancellation, which aborts the whole expansion before anything pushes.
func (s *Search) expand(ctx context.Context, fi *frontierItem) error {
	open := make([]int, 0, len(fi.units)-fi.frontier)
	for slot := fi.frontier; slot < len(fi.units); slot++ {
		if !s.seen[coordKey(variant(fi.coord, slot))] {
			open = append(open, slot)
		}
	}
	if len(open) == 0 {
		return nil
	}

	results := make([]slotResult, len(open))
	g, gctx := errgroup.WithContext(ctx)
	for i, slot := range open {
		i, slot := i, slot
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bound := s.opts.CostBound - (fi.cost - s.arena.Unit(fi.units[slot]).Cost)
			h, ok, err := s.lattice.Source(slot).Get(fi.coord[slot]+1, bound)
			results[i] = slotResult{slot: slot, unit: h, ok: ok, err: err}

			return nil
		})
	}
	// Source failures stay in the results as data; the join fails only on
	// cancellation, and results are examined strictly after it.
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %v", ErrAborted, err)
	}

	for _, r := range results {
		switch {
		case r.err != nil && errors.Is(r.err, fare.ErrNotReady):
			s.pushChild(fi, r.slot, fare.HandleNone)
		case r.err != nil:
			s.stats.Dropped++
			s.opts.Logger.Debug("dropping branch",
				"coord", coordKey(variant(fi.coord, r.slot)), "slot", r.slot, "err", r.err)
		case r.ok:
			s.pushChild(fi, r.slot, r.unit)
		}
	}

	return nil
}

// advance pushes the single successor varying one slot, used by the local
// repair step (which may vary a slot below the frontier). Reports whether a
// new coordinate was actually enqueued.
func (s *Search) advance(fi *frontierItem, slot, frontier int) bool {
	if s.seen[coordKey(variant(fi.coord, slot))] {
		return false
	}
	bound := s.opts.CostBound - (fi.cost - s.arena.Unit(fi.units[slot]).Cost)
	h, ok, err := s.lattice.Source(slot).Get(fi.coord[slot]+1, bound)
	switch {
	case err != nil && errors.Is(err, fare.ErrNotReady):
		h = fare.HandleNone
	case err != nil:
		s.stats.Dropped++
		s.opts.Logger.Debug("dropping repair branch", "slot", slot, "err", err)

		return false
	case !ok:
		return false
	}

	child := s.child(fi, slot, h)
	child.frontier = frontier
	s.push(child)
	s.stats.Expansions++

	return true
}

// pushChild enqueues the successor varying one slot; unit HandleNone makes
// it a paused item.
func (s *Search) pushChild(fi *frontierItem, slot int, unit fare.UnitHandle) {
	s.push(s.child(fi, slot, unit))
	s.stats.Expansions++
}

// child builds the successor item varying the given slot to the next index.
// Its cost swaps the varied slot's unit cost for the new one (or just
// subtracts it while the new unit is pending); its frontier is the varied
// slot, so the subtree below it never re-varies earlier slots.
func (s *Search) child(fi *frontierItem, slot int, unit fare.UnitHandle) *frontierItem {
	units := append([]fare.UnitHandle(nil), fi.units...)
	units[slot] = unit

	cost := fi.cost - s.arena.Unit(fi.units[slot]).Cost
	if unit != fare.HandleNone {
		cost += s.arena.Unit(unit).Cost
	}

	return &frontierItem{
		coord:    variant(fi.coord, slot),
		units:    units,
		cost:     cost,
		frontier: slot,
	}
}

// variant returns a copy of coord with the given slot advanced by one.
func variant(coord []int, slot int) []int {
	out := append([]int(nil), coord...)
	out[slot]++

	return out
}
