// Package combine — the engine and per-unit validation.
//
// engine.go — Engine construction, the per-unit rule-item evaluation and
// its lattice-coordinate memo. End-on-end validation lives in eoe.go.
package combine

import (
	"sort"

	"github.com/aerofare/farepath/fare"
)

// Engine evaluates combinability for one search instance. It owns the
// end-on-end failure cache and the per-unit verdict memo; neither is safe
// for concurrent use, matching the single-threaded per-call contract.
type Engine struct {
	rules RuleRecordAccessor
	cache *FailureCache
	memo  map[string]Verdict // per-unit verdict by lattice coordinate key
	opts  Options
	stats Stats
}

// NewEngine builds an engine over the given rule accessor (nil = no rule
// records anywhere, every unit passes).
func NewEngine(rules RuleRecordAccessor, opts ...Option) *Engine {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine{
		rules: rules,
		cache: NewFailureCache(),
		memo:  make(map[string]Verdict),
		opts:  cfg,
	}
}

// Cache exposes the engine's failure cache to the search and the acceptance
// validator. The cache is shared, not copied.
func (e *Engine) Cache() *FailureCache { return e.cache }

// Stats returns a snapshot of the engine's work counters.
func (e *Engine) Stats() Stats { return e.stats }

// ValidateUnit evaluates one pricing unit against its governing rule record.
//
// Evaluation: state moves Unvalidated → Evaluating → terminal in one
// synchronous call; only the terminal verdict is observable.
//
//   - Command-priced units return VerdictCommandOverride without touching
//     the rule record.
//   - An absent or empty rule record places no restriction (VerdictPass).
//   - Otherwise rule items are tried in descending weight order (stable on
//     input order for equal weights); the first item whose major check
//     matches the unit kind and whose minor checks all hold admits the unit.
//
// Complexity: O(items · usages) per un-memoized call.
func (e *Engine) ValidateUnit(a *fare.Arena, h fare.UnitHandle) Verdict {
	u := a.Unit(h)
	if u.CommandPriced {
		return VerdictCommandOverride
	}
	e.stats.UnitEvals++

	if e.rules == nil {
		return VerdictPass
	}
	rs := e.rules.CombinabilityRules(a.GoverningCarrier(h))
	if len(rs.Items) == 0 {
		return VerdictPass
	}

	// Evaluate by descending weight; stable keeps equal weights in record order.
	items := make([]RuleItem, len(rs.Items))
	copy(items, rs.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Weight > items[j].Weight })

	for _, item := range items {
		if !item.Major.matches(u.Kind) {
			continue
		}
		if e.minorsHold(a, u, item.Minor) {
			return VerdictPass
		}
	}

	return VerdictFail
}

// ValidateUnitAt is ValidateUnit memoized by lattice coordinate: the same
// concrete unit instance is evaluated once per search no matter how many
// candidates it appears in. coordKey must identify (slot, index) uniquely.
func (e *Engine) ValidateUnitAt(a *fare.Arena, h fare.UnitHandle, coordKey string) Verdict {
	if v, ok := e.memo[coordKey]; ok {
		e.stats.UnitMemoHits++

		return v
	}
	v := e.ValidateUnit(a, h)
	e.memo[coordKey] = v

	return v
}

// minorsHold checks each required same-attribute constraint across all fare
// usages of the unit. A unit with fewer than two usages holds trivially.
func (e *Engine) minorsHold(a *fare.Arena, u *fare.PricingUnit, m MinorMask) bool {
	if m == 0 || len(u.Usages) < 2 {
		return true
	}
	first := a.UsageFare(u.Usages[0])
	for _, uh := range u.Usages[1:] {
		f := a.UsageFare(uh)
		if m&MinorSameCarrier != 0 && f.Carrier != first.Carrier {
			return false
		}
		if m&MinorSameRule != 0 && f.Rule != first.Rule {
			return false
		}
		if m&MinorSameTariff != 0 && f.Tariff != first.Tariff {
			return false
		}
		if m&MinorSameFareClass != 0 && f.Class != first.Class {
			return false
		}
		if m&MinorSameFareType != 0 && f.Type != first.Type {
			return false
		}
	}

	return true
}
