// Package vcarrier — the resolution cascade and the area-transition
// tie-break.
package vcarrier

import (
	"fmt"

	"github.com/aerofare/farepath/itin"
)

// Resolver picks default validating carriers. Stateless between calls and
// safe for concurrent use when the swap accessor is.
type Resolver struct {
	swaps CarrierSwapAccessor
	opts  Options
}

// NewResolver builds a resolver over the given swap accessor (nil = no
// swaps configured).
func NewResolver(swaps CarrierSwapAccessor, opts ...Option) *Resolver {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Resolver{swaps: swaps, opts: cfg}
}

// swapsOf returns the swap substitutes for a marketing carrier.
func (r *Resolver) swapsOf(m itin.Carrier) []itin.Carrier {
	if r.swaps == nil {
		return nil
	}

	return r.swaps.SwapCarriers(m, r.opts.SettlementPlan)
}

// corresponds reports whether validating carrier v may settle for marketing
// carrier m: either directly or through a configured swap.
func (r *Resolver) corresponds(v, m itin.Carrier) bool {
	if v == m {
		return true
	}
	for _, s := range r.swapsOf(m) {
		if s == v {
			return true
		}
	}

	return false
}

// candidatesFor returns the candidates corresponding to marketing carrier
// m, preserving candidate order.
func (r *Resolver) candidatesFor(m itin.Carrier, candidates []itin.Carrier) []itin.Carrier {
	var out []itin.Carrier
	for _, v := range candidates {
		if r.corresponds(v, m) {
			out = append(out, v)
		}
	}

	return out
}

// marketingFor returns the first itinerary marketing carrier the validating
// carrier corresponds to, falling back to the first marketing carrier.
func (r *Resolver) marketingFor(it *itin.Itinerary, v itin.Carrier) itin.Carrier {
	ms := it.MarketingCarriers()
	for _, m := range ms {
		if r.corresponds(v, m) {
			return m
		}
	}
	if len(ms) > 0 {
		return ms[0]
	}

	return v
}

// hasSwaps reports whether any itinerary marketing carrier carries a swap
// mapping.
func (r *Resolver) hasSwaps(it *itin.Itinerary) bool {
	for _, m := range it.MarketingCarriers() {
		if len(r.swapsOf(m)) > 0 {
			return true
		}
	}

	return false
}

// ResolveDefault picks exactly one default validating carrier (and its
// default marketing carrier) from the candidate set, first matching rule
// wins. See the package doc for the cascade; determinism is guaranteed.
func (r *Resolver) ResolveDefault(it *itin.Itinerary, candidates []itin.Carrier) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, ErrNoCandidates
	}

	// Rule 1: caller preference list, in list order.
	for _, p := range r.opts.Preferred {
		for _, v := range candidates {
			if v == p {
				return Result{Validating: v, Marketing: r.marketingFor(it, v)}, nil
			}
		}
	}

	// Rule 2: a declared neutral carrier is honored only as a sole survivor.
	if n := it.NeutralCarrier(); n != "" {
		if len(candidates) == 1 && candidates[0] == n {
			return Result{Validating: n, Marketing: r.marketingFor(it, n)}, nil
		}

		return Result{}, fmt.Errorf("%w: neutral carrier %s with %d candidates",
			ErrAmbiguousValidatingCarrier, n, len(candidates))
	}

	// Rule 3: lone candidate, no swap mappings anywhere on the itinerary.
	if len(candidates) == 1 && !r.hasSwaps(it) {
		return Result{Validating: candidates[0], Marketing: r.marketingFor(it, candidates[0])}, nil
	}

	// Rule 4: unique marketing/validating pairing through the swap mapping.
	if res, ok := r.uniquePairing(it.MarketingCarriers(), candidates); ok {
		return res, nil
	}

	// Rule 5: area-transition tie-break with iterative elimination.
	return r.tieBreakResolve(it, candidates)
}

// uniquePairing applies rule 4: map candidates to the marketing carriers
// they may settle for; succeed when exactly one marketing carrier has
// candidates and exactly one candidate corresponds to it.
func (r *Resolver) uniquePairing(marketing, candidates []itin.Carrier) (Result, bool) {
	var (
		governed  []itin.Carrier // marketing carriers with ≥1 candidate
		lastCands []itin.Carrier
	)
	for _, m := range marketing {
		if cs := r.candidatesFor(m, candidates); len(cs) > 0 {
			governed = append(governed, m)
			lastCands = cs
		}
	}
	if len(governed) == 1 && len(lastCands) == 1 {
		return Result{Validating: lastCands[0], Marketing: governed[0]}, true
	}

	return Result{}, false
}

// tieBreakResolve runs rule 5: pick a marketing carrier by geography, remap
// it to a validating carrier, and on ambiguity eliminate that carrier's
// segments and candidates and retry until a pairing emerges or the
// governing segments are exhausted.
func (r *Resolver) tieBreakResolve(it *itin.Itinerary, candidates []itin.Carrier) (Result, error) {
	cands := append([]itin.Carrier(nil), candidates...)
	excluded := make(map[itin.Carrier]bool)

	for {
		// Governing segments: flown, marketed by a non-excluded carrier
		// that still has corresponding candidates.
		var segs []itin.Segment
		for _, s := range it.Segments() {
			if s.Surface || excluded[s.Marketing] {
				continue
			}
			if len(r.candidatesFor(s.Marketing, cands)) > 0 {
				segs = append(segs, s)
			}
		}
		if len(segs) == 0 {
			return Result{}, fmt.Errorf("%w: governing segments exhausted", ErrAmbiguousValidatingCarrier)
		}

		m := r.tieBreakCarrier(segs)
		vs := r.candidatesFor(m, cands)
		if len(vs) == 1 {
			return Result{Validating: vs[0], Marketing: m}, nil
		}

		// Still ambiguous for this marketing carrier: remove its segments
		// and its validating carriers from consideration and retry.
		excluded[m] = true
		keep := cands[:0]
		for _, v := range cands {
			if !r.corresponds(v, m) {
				keep = append(keep, v)
			}
		}
		cands = keep
		if len(cands) == 0 {
			return Result{}, fmt.Errorf("%w: candidates exhausted", ErrAmbiguousValidatingCarrier)
		}
	}
}

// tieBreakCarrier picks the marketing carrier of the geographically
// decisive segment among the governing segments.
//
// Transitions are read between consecutive governing segments, comparing
// arrival geography: pair (i, i+1) transitions from segs[i]'s destination
// to segs[i+1]'s destination, and the pair is attributed to segs[i]'s
// marketing carrier. Cascade:
//
//  1. First area-differing pair. When it reads Area3→Area2 and the next
//     area-differing pair reads Area2→Area1, the later pair wins instead.
//  2. First sub-area-differing pair.
//  3. First country-differing pair, with US/Canada and Scandinavia each
//     counting as one country.
//  4. First nation-differing pair within Scandinavia.
//  5. The first segment.
func (r *Resolver) tieBreakCarrier(segs []itin.Segment) itin.Carrier {
	// Collect area transitions between consecutive arrival areas.
	type areaTrans struct {
		seg      int
		from, to itin.Area
	}
	var trans []areaTrans
	for i := 0; i+1 < len(segs); i++ {
		a, b := segs[i].Destination.Area, segs[i+1].Destination.Area
		if a != b && a != itin.AreaNone && b != itin.AreaNone {
			trans = append(trans, areaTrans{seg: i, from: a, to: b})
		}
	}
	if len(trans) > 0 {
		pick := trans[0]
		if pick.from == itin.Area3 && pick.to == itin.Area2 && len(trans) > 1 {
			if next := trans[1]; next.from == itin.Area2 && next.to == itin.Area1 {
				pick = next
			}
		}

		return segs[pick.seg].Marketing
	}

	// Sub-area fallback.
	for i := 0; i+1 < len(segs); i++ {
		a, b := segs[i].Destination.SubArea, segs[i+1].Destination.SubArea
		if a != b && a != "" && b != "" {
			return segs[i].Marketing
		}
	}

	// International country fallback (carve-outs apply).
	for i := 0; i+1 < len(segs); i++ {
		if !itin.SameCountry(segs[i].Destination.Nation, segs[i+1].Destination.Nation) {
			return segs[i].Marketing
		}
	}

	// Nation check restricted to Scandinavia: SE/NO/DK count as one country
	// above, but a nation change within Scandinavia still decides here.
	for i := 0; i+1 < len(segs); i++ {
		a, b := segs[i].Destination.Nation, segs[i+1].Destination.Nation
		if a != b && itin.Scandinavian(a) && itin.Scandinavian(b) {
			return segs[i].Marketing
		}
	}

	return segs[0].Marketing
}
