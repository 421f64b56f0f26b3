// Package search — Search construction and the Next main loop.
package search

import (
	"container/heap"
	"context"
	"errors"
	"fmt"

	"github.com/aerofare/farepath/accept"
	"github.com/aerofare/farepath/combine"
	"github.com/aerofare/farepath/fare"
	"github.com/aerofare/farepath/itin"
	"github.com/aerofare/farepath/vcarrier"
)

// Search enumerates fare paths for one (itinerary, passenger type, lattice)
// triple. Not safe for concurrent use: one instance serves one caller. The
// arena and itinerary are read-only and may be shared across instances.
type Search struct {
	arena   *fare.Arena
	itin    *itin.Itinerary
	paxType string
	lattice *fare.Lattice
	deps    Deps
	opts    Options

	pq   *frontierPQ // un-settled coordinates, at most one item each
	held *frontierPQ // accepted carrier clones awaiting return

	seen    map[string]bool // coordinates ever enqueued
	repairs map[string]int  // local repairs spent per conflicting coordinate

	seq      int // discovery counter
	pops     int // abort-check pacing
	flushing bool
	stats    Stats
}

// New builds a search and seeds it with the all-zeros coordinate.
//
// Preconditions and validation (in order):
//  1. arena, itinerary and lattice must be non-nil (programming defect,
//     panics like any nil-receiver use would).
//  2. Every slot must produce a unit at index 0 — otherwise no complete
//     candidate exists and New fails with ErrNoInitialCombination. A slot
//     answering ErrNotReady seeds a paused item instead of failing.
//
// Missing collaborators default to permissive ones: a nil Engine validates
// everything, a nil Acceptor runs the standard gate over that engine.
func New(a *fare.Arena, it *itin.Itinerary, paxType string, lattice *fare.Lattice, deps Deps, opts ...Option) (*Search, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if deps.Engine == nil {
		deps.Engine = combine.NewEngine(nil)
	}
	if deps.Acceptor == nil {
		deps.Acceptor = accept.NewValidator(accept.Deps{Engine: deps.Engine, Resolver: deps.Resolver})
	}

	s := &Search{
		arena:   a,
		itin:    it,
		paxType: paxType,
		lattice: lattice,
		deps:    deps,
		opts:    cfg,
		pq:      &frontierPQ{eps: cfg.Eps},
		held:    &frontierPQ{eps: cfg.Eps},
		seen:    make(map[string]bool),
		repairs: make(map[string]int),
	}

	root := &frontierItem{
		coord: make([]int, lattice.Len()),
		units: make([]fare.UnitHandle, lattice.Len()),
	}
	for slot := 0; slot < lattice.Len(); slot++ {
		h, ok, err := lattice.Source(slot).Get(0, cfg.CostBound)
		switch {
		case err != nil && errors.Is(err, fare.ErrNotReady):
			root.units[slot] = fare.HandleNone
		case err != nil:
			return nil, fmt.Errorf("search: seeding slot %d: %w", slot, err)
		case !ok:
			return nil, fmt.Errorf("%w: slot %d", ErrNoInitialCombination, slot)
		default:
			root.units[slot] = h
			root.cost += a.Unit(h).Cost
		}
	}
	s.push(root)

	return s, nil
}

// Stats returns a snapshot of the search's work counters.
func (s *Search) Stats() Stats { return s.stats }

// Flush switches the search into flush mode: remaining frontier items are
// drained in cost order without further expansion.
func (s *Search) Flush() { s.noteFlush("caller requested flush") }

// Next returns the next-cheapest valid fare path, ErrExhausted when the
// lattice has no more combinations, or ErrAborted once ctx is done (polled
// sparsely, every AbortCheckInterval pops).
//
// Ordering: successive calls return non-decreasing aggregate costs; ties
// within eps come back in lexicographic coordinate order, then discovery
// order. Only infrastructure failures propagate as errors — business
// rejections are consumed internally and the loop continues.
func (s *Search) Next(ctx context.Context) (*fare.FarePath, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAborted, err)
	}

	for {
		// 1) Pop the cheapest item across the frontier and the withheld
		//    carrier clones; empty both ways means exhaustion.
		item := s.popCheapest()
		if item == nil {
			return nil, ErrExhausted
		}
		s.pops++
		s.stats.Pops++
		if s.pops%s.opts.AbortCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrAborted, err)
			}
		}
		if len(item.coord) != s.lattice.Len() {
			return nil, fmt.Errorf("%w: coordinate %s over %d slots", ErrSlotOutOfRange, item.key(), s.lattice.Len())
		}

		// 2) Paused items re-request their pending slots; a second miss
		//    drops the item, and a now-costlier item goes back on the heap.
		if item.paused() {
			if !s.resume(item) {
				s.stats.Dropped++

				continue
			}
			if top := s.peekCheapest(); top != nil && item.cost > top.cost+s.opts.Eps {
				heap.Push(s.pq, item)

				continue
			}
		}

		// 3) Idempotent re-pop: already-accepted items return as-is after
		//    the carrier-preference filter, no re-validation.
		if item.accepted != nil {
			if !s.carrierAdmissible(item.accepted) {
				continue
			}

			return item.accepted, nil
		}

		// 4) Early pairwise pruning between fixed slots, with bounded local
		//    repair tracked per conflicting coordinate.
		if !s.flushing && s.prune(item) {
			s.stats.Pruned++
			if err := s.expand(ctx, item); err != nil {
				return nil, err
			}

			continue
		}

		// 5) Full validation.
		fp, ok, err := s.validate(item)
		if err != nil {
			return nil, err
		}

		// 6) Successors are generated whether or not the candidate
		//    validated; flush mode stops expanding and just drains.
		if !s.flushing {
			if err := s.expand(ctx, item); err != nil {
				return nil, err
			}
		}

		if !ok {
			s.stats.Rejected++

			continue
		}
		s.stats.Accepted++

		// 7) Accepted: clone per validating-carrier group, withhold the
		//    non-primary clones, return the primary.
		if primary := s.acceptAndClone(item, fp); primary != nil {
			return primary, nil
		}
	}
}

// popCheapest takes the cheapest item across both queues under the one
// shared ordering; withheld clones interleave with frontier items so
// equal-cost clones come back immediately after their primary.
func (s *Search) popCheapest() *frontierItem {
	ft, ht := s.pq.peek(), s.held.peek()
	switch {
	case ft == nil && ht == nil:
		return nil
	case ft == nil:
		return heap.Pop(s.held).(*frontierItem)
	case ht == nil:
		return heap.Pop(s.pq).(*frontierItem)
	case lessItems(ht, ft, s.opts.Eps):
		return heap.Pop(s.held).(*frontierItem)
	default:
		return heap.Pop(s.pq).(*frontierItem)
	}
}

// peekCheapest returns the cheapest item across both queues without
// removing it, nil when both are empty.
func (s *Search) peekCheapest() *frontierItem {
	ft, ht := s.pq.peek(), s.held.peek()
	switch {
	case ft == nil:
		return ht
	case ht == nil:
		return ft
	case lessItems(ht, ft, s.opts.Eps):
		return ht
	default:
		return ft
	}
}

// push enqueues a frontier item and marks its coordinate seen.
func (s *Search) push(fi *frontierItem) {
	fi.seq = s.seq
	s.seq++
	s.seen[fi.key()] = true
	heap.Push(s.pq, fi)
}

// resume re-requests every pending slot of a paused item. A slot that still
// cannot produce its unit (not ready again, exhausted, or failing) kills
// the item; the caller drops it.
func (s *Search) resume(fi *frontierItem) bool {
	for slot, h := range fi.units {
		if h != fare.HandleNone {
			continue
		}
		u, ok, err := s.lattice.Source(slot).Get(fi.coord[slot], s.opts.CostBound-fi.cost)
		if err != nil || !ok {
			s.opts.Logger.Debug("dropping paused item",
				"coord", fi.key(), "slot", slot, "err", err)

			return false
		}
		fi.units[slot] = u
		fi.cost += s.arena.Unit(u).Cost
	}

	return true
}

// carrierAdmissible applies the carrier-preference filter to an accepted
// path, narrowing its eligible set to the preferred carriers. False means
// no preferred carrier remains and the path is withheld from the caller.
func (s *Search) carrierAdmissible(fp *fare.FarePath) bool {
	if len(s.opts.Preferred) == 0 {
		return true
	}
	var kept []itin.Carrier
	for _, c := range fp.Carriers {
		for _, p := range s.opts.Preferred {
			if c == p {
				kept = append(kept, c)

				break
			}
		}
	}
	if len(kept) == 0 {
		return false
	}
	fp.Carriers = kept

	return true
}

// prune runs early pairwise end-on-end checks between the already-fixed
// slots (indices up to the expansion frontier) before committing the
// coordinate to full validation. On the first conflict it spends one local
// repair — pushing the coordinate with the next-best alternative for one of
// the two conflicting slots — and reports the coordinate pruned.
func (s *Search) prune(fi *frontierItem) bool {
	// Pairwise end-on-end rules only bind with more than one
	// border-crossing unit; below that, full validation decides alone.
	crossing := 0
	for _, h := range fi.units {
		if s.arena.Unit(h).Geo.Crossing() {
			crossing++
		}
	}
	if crossing < 2 {
		return false
	}

	last := fi.frontier
	if last > len(fi.units)-1 {
		last = len(fi.units) - 1
	}
	for i := 0; i <= last; i++ {
		for j := i + 1; j <= last; j++ {
			if ok, _, _ := s.deps.Engine.PairCompatible(s.arena, fi.units[i], fi.units[j], j == i+1); ok {
				continue
			}
			if s.repairs[fi.key()] < s.opts.EOERepairLimit {
				// Substitute the later conflicting slot first; fall back to
				// the earlier one when that subtree is spent.
				if s.advance(fi, j, min(fi.frontier, j)) || s.advance(fi, i, min(fi.frontier, i)) {
					s.repairs[fi.key()]++
					s.stats.Repairs++
				}
			}

			return true
		}
	}

	return false
}

// validate runs the per-unit combinability verdicts and the acceptance gate
// over the item's completed coordinate. Business failures come back as
// ok=false; only infrastructure errors propagate.
func (s *Search) validate(fi *frontierItem) (*fare.FarePath, bool, error) {
	fp, err := fare.NewPath(s.arena, s.itin, s.paxType, fi.units)
	if err != nil {
		return nil, false, fmt.Errorf("search: candidate %s: %w", fi.key(), err)
	}

	for slot, h := range fi.units {
		if v := s.deps.Engine.ValidateUnitAt(s.arena, h, slotKey(slot, fi.coord[slot])); !v.Passed() {
			fp.AppendTag(fmt.Sprintf("UNIT:FAIL slot %d", slot))

			return fp, false, nil
		}
	}

	ok, err := s.deps.Acceptor.Validate(s.arena, fp, fi.key())
	if err != nil {
		// Carrier infeasibility is a business verdict for this candidate,
		// not a search failure; everything else propagates.
		if errors.Is(err, vcarrier.ErrNoCommonValidatingCarrier) {
			return fp, false, nil
		}

		return nil, false, err
	}

	return fp, ok, nil
}

// acceptAndClone marks the item accepted, splits the path per
// validating-carrier group when cloning applies, withholds the non-primary
// clones and returns the primary — or nil when the carrier-preference
// filter removes the primary (a withheld clone may still satisfy it).
func (s *Search) acceptAndClone(fi *frontierItem, fp *fare.FarePath) *fare.FarePath {
	var groups [][]itin.Carrier
	if s.opts.CloneCarriers && s.deps.Resolver != nil && len(fp.Carriers) > 1 {
		groups = s.deps.Resolver.Partition(s.itin, fp.Carriers)
	}

	if len(groups) > 1 {
		fp.Carriers = append([]itin.Carrier(nil), groups[0]...)
		for _, g := range groups[1:] {
			clone := fp.Clone()
			clone.Carriers = append([]itin.Carrier(nil), g...)
			s.withhold(fi, clone)
		}
	}

	fi.accepted = fp
	if !s.carrierAdmissible(fp) {
		return nil
	}

	return fp
}

// withhold queues an accepted carrier clone for a later Next call. Clones
// with identical content and cost merge into one item, unioning the carrier
// lists. Every re-insertion spends push-back budget; an exhausted budget
// switches the search into flush mode.
func (s *Search) withhold(fi *frontierItem, clone *fare.FarePath) {
	for _, held := range s.held.items {
		if held.accepted != nil && held.accepted.ContentEqual(clone) {
			held.accepted.MergeFrom(clone)

			return
		}
	}

	item := &frontierItem{
		coord:    append([]int(nil), fi.coord...),
		units:    append([]fare.UnitHandle(nil), fi.units...),
		cost:     fi.cost,
		frontier: fi.frontier,
		accepted: clone,
		seq:      s.seq,
	}
	s.seq++
	heap.Push(s.held, item)

	s.stats.PushBacks++
	if s.opts.PushBackLimit > 0 && s.stats.PushBacks > s.opts.PushBackLimit {
		s.noteFlush("push-back limit exceeded")
	}
	if s.opts.SharedBudget != nil && s.opts.SharedBudget.Add(-1) < 0 {
		s.noteFlush("shared push-back budget exhausted")
	}
}

// noteFlush switches into flush mode once, logging the reason.
func (s *Search) noteFlush(reason string) {
	if s.flushing {
		return
	}
	s.flushing = true
	s.stats.Flushing = true
	s.opts.Logger.Warn("search flushing", "reason", reason,
		"queued", s.pq.Len(), "withheld", s.held.Len())
}
