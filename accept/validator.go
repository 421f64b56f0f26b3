// Package accept — the validation pipeline.
//
// validator.go — Validator state and the 11-step Validate sequence.
// The cross-unit structural rules of step 7 live in structural.go.
package accept

import (
	"fmt"

	"github.com/aerofare/farepath/fare"
	"github.com/aerofare/farepath/itin"
)

// Validator runs the final admission gate. It remembers verdicts for
// re-pricing flows and carried-over per-carrier rejections by lattice
// coordinate.
type Validator struct {
	deps Deps
	opts Options

	// verdicts stores the outcome of fully processed paths, keyed by
	// content fingerprint (step 1).
	verdicts map[string]bool

	// carrierRejects maps a lattice coordinate to validating carriers a
	// previous partial validation rejected for it (step 3).
	carrierRejects map[string][]itin.Carrier
}

// NewValidator builds a validator over its collaborators.
func NewValidator(deps Deps, opts ...Option) *Validator {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Validator{
		deps:           deps,
		opts:           cfg,
		verdicts:       make(map[string]bool),
		carrierRejects: make(map[string][]itin.Carrier),
	}
}

// RecordCarrierRejection records that a previous partial validation failed
// the lattice coordinate for the given validating carriers; step 3 removes
// them from any later candidate at the same coordinate.
func (v *Validator) RecordCarrierRejection(coordKey string, carriers ...itin.Carrier) {
	v.carrierRejects[coordKey] = append(v.carrierRejects[coordKey], carriers...)
}

// Validate runs the full acceptance sequence on a structurally complete
// fare path. coordKey identifies the candidate's lattice coordinate.
//
// The boolean verdict is the conjunction of all steps; each step appends a
// pass/fail tag to the path's diagnostic trail. Business failures return
// (false, nil) — data, not errors — except carrier infeasibility, which
// additionally carries ErrNoCommonValidatingCarrier for caller-level
// disambiguation. The path's Processed/Rejected flags are updated either
// way.
func (v *Validator) Validate(a *fare.Arena, fp *fare.FarePath, coordKey string) (bool, error) {
	// Step 1: prior-result short-circuit for re-pricing flows.
	key := contentKey(fp)
	if verdict, seen := v.verdicts[key]; seen {
		fp.AppendTag(fmt.Sprintf("PRIOR:HIT %v", verdict))
		fp.Processed = true
		fp.Rejected = !verdict

		return verdict, nil
	}

	ok, err := v.validate(a, fp, coordKey)
	v.verdicts[key] = ok
	fp.Processed = true
	fp.Rejected = !ok

	return ok, err
}

// validate is the uncached pipeline behind Validate.
func (v *Validator) validate(a *fare.Arena, fp *fare.FarePath, coordKey string) (bool, error) {
	// Step 2: validating-carrier feasibility.
	common := v.commonCarriers(a, fp)
	if len(common) == 0 {
		fp.AppendTag("VCX:FAIL no common validating carrier")

		return false, fmt.Errorf("%w: path %s", ErrNoCommonValidatingCarrier, fp.ID)
	}
	fp.Carriers = common
	fp.AppendTag("VCX:PASS")

	// Step 3: carried-over per-carrier rejections at this coordinate. A
	// shrunken set gets its default carrier re-derived and fronted.
	if rejected := v.carrierRejects[coordKey]; len(rejected) > 0 {
		fp.Carriers = withoutCarriers(fp.Carriers, rejected)
		if len(fp.Carriers) == 0 {
			fp.AppendTag("CXR:FAIL all carriers previously rejected")

			return false, fmt.Errorf("%w: coordinate %s", ErrNoCommonValidatingCarrier, coordKey)
		}
		v.frontDefaultCarrier(fp)
	}
	fp.AppendTag("CXR:PASS")

	// Step 4: brand/leg checks, brand-constrained requests only.
	if len(v.opts.Brands) > 0 && v.deps.Brands != nil {
		if leg, ok := v.brandHardPassPerLeg(a, fp); !ok {
			fp.AppendTag(fmt.Sprintf("BRAND:FAIL leg %d has no hard-pass brand", leg))

			return false, nil
		}
	}
	fp.AppendTag("BRAND:PASS")

	// Step 5: fare-family screen. Only the required fare-type half runs
	// here; the end-on-end half of the family rules is folded into the
	// cache screen (step 6) and the dedicated end-on-end pass (step 9)
	// rather than duplicated path-wide.
	if want := v.opts.RequiredFareType; want != nil {
		for _, fh := range pathFares(a, fp) {
			if f := a.Fare(fh); !f.Dummy && f.Type != *want {
				fp.AppendTag("FAMILY:FAIL fare type mismatch")

				return false, nil
			}
		}
	}
	fp.AppendTag("FAMILY:PASS")

	// Step 6: prior end-on-end rejection straight from the failure cache.
	if src, dst, hit := v.deps.Engine.KnownFailure(a, fp); hit {
		fp.AppendTag(fmt.Sprintf("EOE-CACHE:FAIL %s+%s", src, dst))

		return false, nil
	}
	fp.AppendTag("EOE-CACHE:PASS")

	// Step 7: cross-pricing-unit structural business rules.
	if tag, ok := v.structural(a, fp); !ok {
		fp.AppendTag(tag)

		return false, nil
	}
	fp.AppendTag("STRUCT:PASS")

	// Step 8: indirect-travel limitation, skipped for axess flows.
	if !v.opts.AxessFlow {
		if stops := fp.Itin.Len() - 1; stops > v.opts.MaxIndirectStops {
			fp.AppendTag(fmt.Sprintf("ITL:FAIL %d stops", stops))

			return false, nil
		}
	}
	fp.AppendTag("ITL:PASS")

	commandPriced := fp.CommandPriced(a)

	// Step 9: end-on-end combinability, skipped under command pricing.
	if !commandPriced {
		if ok, src, dst := v.deps.Engine.ValidateEndOnEnd(a, fp); !ok {
			fp.AppendTag(fmt.Sprintf("EOE:FAIL %s+%s", a.UsageFare(src).ID, a.UsageFare(dst).ID))

			return false, nil
		}
	}
	fp.AppendTag("EOE:PASS")

	// Step 10: same-tariff/rule cross-check for rule-based fares.
	if !v.sameTariffRule(a, fp) {
		fp.AppendTag("TARIFF:FAIL rule-based fares across tariffs/rules")

		return false, nil
	}
	fp.AppendTag("TARIFF:PASS")

	// Step 11: negotiated-fare combination, skipped under command pricing.
	if !commandPriced && v.negotiatedMix(a, fp) {
		fp.AppendTag("NEGO:FAIL negotiated and public fares mixed")

		return false, nil
	}
	fp.AppendTag("NEGO:PASS")

	return true, nil
}

// frontDefaultCarrier re-derives the default validating carrier for the
// shrunken eligible set and moves it to the front. An ambiguous resolution
// leaves the order untouched; ambiguity is not a failure here, the set is
// still non-empty.
func (v *Validator) frontDefaultCarrier(fp *fare.FarePath) {
	if v.deps.Resolver == nil || len(fp.Carriers) < 2 {
		return
	}
	res, err := v.deps.Resolver.ResolveDefault(fp.Itin, fp.Carriers)
	if err != nil {
		return
	}
	for i, c := range fp.Carriers {
		if c == res.Validating && i > 0 {
			copy(fp.Carriers[1:i+1], fp.Carriers[:i])
			fp.Carriers[0] = c

			break
		}
	}
}

// commonCarriers intersects the per-unit eligible-carrier sets, treating an
// empty per-unit set as unrestricted. With every unit unrestricted, the
// path's own carrier set (or, failing that, the itinerary's marketing
// carriers) stands.
func (v *Validator) commonCarriers(a *fare.Arena, fp *fare.FarePath) []itin.Carrier {
	var common []itin.Carrier
	restricted := false
	for _, h := range fp.Units {
		set := a.Unit(h).Carriers
		if len(set) == 0 {
			continue
		}
		if !restricted {
			common = append([]itin.Carrier(nil), set...)
			restricted = true

			continue
		}
		common = intersectCarriers(common, set)
		if len(common) == 0 {
			return nil
		}
	}
	if !restricted {
		if len(fp.Carriers) > 0 {
			return fp.Carriers
		}

		return fp.Itin.MarketingCarriers()
	}

	return common
}

// brandHardPassPerLeg checks step 4: every leg needs at least one requested
// brand that is not sold out on it and has hard-pass status on every fare
// usage covering the leg's segments. Returns the first failing leg.
func (v *Validator) brandHardPassPerLeg(a *fare.Arena, fp *fare.FarePath) (int, bool) {
	for leg := 0; leg < fp.Itin.Legs(); leg++ {
		usages := usagesCoveringLeg(a, fp, leg)
		if len(usages) == 0 {
			continue
		}
		if !v.anyBrandHardPasses(a, usages, leg) {
			return leg, false
		}
	}

	return 0, true
}

// anyBrandHardPasses scans the requested brands for one that hard-passes
// every usage of the leg.
func (v *Validator) anyBrandHardPasses(a *fare.Arena, usages []fare.UsageHandle, leg int) bool {
	for _, b := range v.opts.Brands {
		if v.deps.Brands.SoldOut(b, leg) {
			continue
		}
		all := true
		for _, u := range usages {
			if !v.deps.Brands.HardPass(a, u, b) {
				all = false

				break
			}
		}
		if all {
			return true
		}
	}

	return false
}

// sameTariffRule checks step 10: rule-based fares must share one tariff and
// one rule number. Dummy fares are exempt.
func (v *Validator) sameTariffRule(a *fare.Arena, fp *fare.FarePath) bool {
	var first *fare.Fare
	for _, fh := range pathFares(a, fp) {
		f := a.Fare(fh)
		if f.Dummy || !f.RuleBased {
			continue
		}
		if first == nil {
			first = f

			continue
		}
		if f.Tariff != first.Tariff || f.Rule != first.Rule {
			return false
		}
	}

	return true
}

// negotiatedMix reports whether the path mixes negotiated and public fares
// (dummy fares aside) — step 11's failure condition.
func (v *Validator) negotiatedMix(a *fare.Arena, fp *fare.FarePath) bool {
	nego, public := false, false
	for _, fh := range pathFares(a, fp) {
		f := a.Fare(fh)
		if f.Dummy {
			continue
		}
		if f.Negotiated {
			nego = true
		} else {
			public = true
		}
	}

	return nego && public
}

// --- small pure helpers ---

// pathFares returns every fare handle on the path, units in slot order.
func pathFares(a *fare.Arena, fp *fare.FarePath) []fare.FareHandle {
	var out []fare.FareHandle
	for _, h := range fp.Units {
		for _, uh := range a.Unit(h).Usages {
			out = append(out, a.Usage(uh).Fare)
		}
	}

	return out
}

// usagesCoveringLeg returns the path's usages covering any segment of leg.
func usagesCoveringLeg(a *fare.Arena, fp *fare.FarePath, leg int) []fare.UsageHandle {
	var out []fare.UsageHandle
	for _, h := range fp.Units {
		for _, uh := range a.Unit(h).Usages {
			u := a.Usage(uh)
			for _, s := range fp.Itin.SegmentsOfLeg(leg) {
				if u.Covers(s.Order) {
					out = append(out, uh)

					break
				}
			}
		}
	}

	return out
}

// intersectCarriers keeps a's carriers also present in b, preserving a's order.
func intersectCarriers(a, b []itin.Carrier) []itin.Carrier {
	in := make(map[itin.Carrier]bool, len(b))
	for _, c := range b {
		in[c] = true
	}
	out := a[:0]
	for _, c := range a {
		if in[c] {
			out = append(out, c)
		}
	}

	return out
}

// withoutCarriers removes every carrier in drop from set, preserving order.
func withoutCarriers(set, drop []itin.Carrier) []itin.Carrier {
	banned := make(map[itin.Carrier]bool, len(drop))
	for _, c := range drop {
		banned[c] = true
	}
	var out []itin.Carrier
	for _, c := range set {
		if !banned[c] {
			out = append(out, c)
		}
	}

	return out
}
