// Package combine — end-on-end validation.
//
// eoe.go — the pairwise scan over a fare path's usages, the per-pair
// compatibility rules, and the cache front door used by the search and the
// acceptance validator.
package combine

import (
	"github.com/aerofare/farepath/fare"
)

// EndOnEndApplicable reports whether end-on-end rules apply to the path at
// all: more than one international/foreign-domestic pricing unit. Below
// that there is no pricing-unit boundary to combine across.
func (e *Engine) EndOnEndApplicable(a *fare.Arena, fp *fare.FarePath) bool {
	return fp.CrossingUnits(a) > 1
}

// cacheApplicable gates the failure cache: beyond end-on-end applicability
// it also needs more than two fare components, otherwise the cache is
// treated as always-miss.
func (e *Engine) cacheApplicable(a *fare.Arena, fp *fare.FarePath) bool {
	return e.opts.CacheEnabled && e.EndOnEndApplicable(a, fp) && fp.FareComponents(a) > 2
}

// KnownFailure consults the failure cache for the path's fare sequence.
// ok=true means the path contains a recorded incompatible pair and must be
// rejected without re-running ValidateEndOnEnd.
func (e *Engine) KnownFailure(a *fare.Arena, fp *fare.FarePath) (src, dst fare.FareID, ok bool) {
	if !e.cacheApplicable(a, fp) {
		return "", "", false
	}
	src, dst, ok = e.cache.FirstKnownFailure(fp.FareIDs(a))
	if ok {
		e.stats.EOECacheHits++
	}

	return src, dst, ok
}

// ValidateEndOnEnd runs the full pairwise pass over the path.
//
// Scan order: earliest unit, earliest fare usage within it, then forward to
// every later unit's usages; the first failing ordered pair short-circuits
// and is returned. Exemptions:
//
//   - paths where end-on-end is not applicable pass vacuously;
//   - adjacent units pass each other when either is flagged EOEExempt;
//   - dummy (placeholder) fares pass against anything.
//
// Failing pairs are recorded in the failure cache (when enabled) before
// returning, so the same pair never costs a second full pass.
//
// Complexity: O(usages²) worst case, short-circuiting on first failure.
func (e *Engine) ValidateEndOnEnd(a *fare.Arena, fp *fare.FarePath) (ok bool, src, dst fare.UsageHandle) {
	if !e.EndOnEndApplicable(a, fp) {
		return true, fare.HandleNone, fare.HandleNone
	}
	e.stats.EOEEvals++

	for i := 0; i < len(fp.Units); i++ {
		for j := i + 1; j < len(fp.Units); j++ {
			if ok, src, dst = e.unitsCompatible(a, fp.Units[i], fp.Units[j], j == i+1); !ok {
				return false, src, dst
			}
		}
	}

	return true, fare.HandleNone, fare.HandleNone
}

// PairCompatible checks just two units against each other, in path order.
// The search uses it for early pruning between already-fixed slots before
// committing a candidate to full validation. Failures are cached.
func (e *Engine) PairCompatible(a *fare.Arena, earlier, later fare.UnitHandle, adjacent bool) (ok bool, src, dst fare.UsageHandle) {
	return e.unitsCompatible(a, earlier, later, adjacent)
}

// unitsCompatible scans the ordered usage pairs of two distinct units.
func (e *Engine) unitsCompatible(a *fare.Arena, earlier, later fare.UnitHandle, adjacent bool) (bool, fare.UsageHandle, fare.UsageHandle) {
	eu, lu := a.Unit(earlier), a.Unit(later)
	if adjacent && (eu.EOEExempt || lu.EOEExempt) {
		return true, fare.HandleNone, fare.HandleNone
	}
	for _, su := range eu.Usages {
		sf := a.UsageFare(su)
		if sf.Dummy {
			continue
		}
		for _, du := range lu.Usages {
			df := a.UsageFare(du)
			if df.Dummy {
				continue
			}
			if !e.faresCompatible(sf, df) {
				if e.opts.CacheEnabled {
					e.cache.Record(sf.ID, df.ID)
				}

				return false, su, du
			}
		}
	}

	return true, fare.HandleNone, fare.HandleNone
}

// faresCompatible applies the source fare's end-on-end indicators and the
// configured carrier preference to the ordered pair (src, dst).
func (e *Engine) faresCompatible(src, dst *fare.Fare) bool {
	if src.EOE&fare.EOENotPermitted != 0 {
		return false
	}
	if src.EOE&fare.EOESameCarrier != 0 && src.Carrier != dst.Carrier {
		return false
	}
	if src.EOE&fare.EOENormalOnly != 0 && dst.Type != fare.TypeNormal {
		return false
	}
	if src.EOE&fare.EOEIntlForbidden != 0 && dst.Market.International() {
		return false
	}
	// Carrier preference: fares of a same-carrier-preferring publisher
	// combine only with fares of that publisher.
	if e.opts.SameCarrierPref[src.Carrier] && src.Carrier != dst.Carrier {
		return false
	}

	return true
}
