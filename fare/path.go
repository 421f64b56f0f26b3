// Package fare — fare paths.
//
// path.go — FarePath, the complete candidate solution: one pricing unit per
// lattice slot plus aggregate cost, carrier set and status flags. Fare paths
// hold unit handles, never unit values, so cloning one for a second
// validating carrier copies the handle slice and the delta fields only.
package fare

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aerofare/farepath/itin"
)

// FarePath is one complete candidate pricing solution for an itinerary and
// passenger type. Created by the search, mutated in place (flags, carriers,
// trail) while it lives in the queue, and released once returned or
// permanently rejected.
type FarePath struct {
	// ID identifies this path instance across clone/merge bookkeeping.
	ID uuid.UUID

	// Itin is the priced itinerary; read-only and shared.
	Itin *itin.Itinerary

	// PaxType is the passenger-type code this path prices ("ADT", ...).
	PaxType string

	// Units holds one pricing-unit handle per lattice slot, in slot order.
	Units []UnitHandle

	// Amount is the exact aggregate total; Cost its float64 view used for
	// heap ordering.
	Amount decimal.Decimal
	Cost   float64

	// Carriers is the path's eligible validating-carrier set.
	Carriers []itin.Carrier

	// Status flags; see the search for their lifecycle.
	Processed bool // full validation has produced a verdict
	Rejected  bool // verdict was negative
	Paused    bool // a slot's source had not produced its item yet

	trail []string // diagnostic step tags, appended by the validators
}

// NewPath builds a fare path over the given unit handles. Handles are
// validated against the arena (ErrBadHandle) and totals are computed once.
func NewPath(a *Arena, it *itin.Itinerary, paxType string, units []UnitHandle) (*FarePath, error) {
	if len(units) == 0 {
		return nil, ErrNoUnits
	}
	total := decimal.Zero
	for _, h := range units {
		if err := a.CheckUnit(h); err != nil {
			return nil, err
		}
		total = total.Add(a.Unit(h).Amount)
	}

	fp := &FarePath{
		ID:      uuid.New(),
		Itin:    it,
		PaxType: paxType,
		Units:   make([]UnitHandle, len(units)),
		Amount:  total,
	}
	copy(fp.Units, units)
	fp.Cost, _ = total.Float64()

	return fp, nil
}

// Clone returns a carrier-specific copy sharing the pricing-unit skeleton:
// the unit handles, carriers and trail are copied, the units are not. The
// clone gets a fresh identity and carries over the status flags.
func (fp *FarePath) Clone() *FarePath {
	cp := *fp
	cp.ID = uuid.New()
	cp.Units = make([]UnitHandle, len(fp.Units))
	copy(cp.Units, fp.Units)
	cp.Carriers = append([]itin.Carrier(nil), fp.Carriers...)
	cp.trail = append([]string(nil), fp.trail...)

	return &cp
}

// ContentEqual reports whether two paths have identical component units and
// totals — the merge criterion for carrier clones.
func (fp *FarePath) ContentEqual(other *FarePath) bool {
	if other == nil || len(fp.Units) != len(other.Units) || !fp.Amount.Equal(other.Amount) {
		return false
	}
	for i, h := range fp.Units {
		if other.Units[i] != h {
			return false
		}
	}

	return true
}

// MergeFrom unions other's eligible-carrier list into fp, preserving fp's
// order and appending carriers fp did not already hold. Caller must have
// established ContentEqual first.
func (fp *FarePath) MergeFrom(other *FarePath) {
	have := make(map[itin.Carrier]bool, len(fp.Carriers))
	for _, c := range fp.Carriers {
		have[c] = true
	}
	for _, c := range other.Carriers {
		if !have[c] {
			fp.Carriers = append(fp.Carriers, c)
			have[c] = true
		}
	}
}

// HasCarrier reports whether c is in the path's eligible set.
func (fp *FarePath) HasCarrier(c itin.Carrier) bool {
	for _, have := range fp.Carriers {
		if have == c {
			return true
		}
	}

	return false
}

// FareIDs returns the path's ordered fare-identity sequence: units in slot
// order, usages in unit order. This is the sequence the end-on-end failure
// cache is keyed on.
func (fp *FarePath) FareIDs(a *Arena) []FareID {
	var out []FareID
	for _, h := range fp.Units {
		out = append(out, a.UnitFareIDs(h)...)
	}

	return out
}

// FareComponents returns the number of fare components (usages) across all
// units; the end-on-end cache is bypassed at two or fewer.
func (fp *FarePath) FareComponents(a *Arena) int {
	n := 0
	for _, h := range fp.Units {
		n += len(a.Unit(h).Usages)
	}

	return n
}

// CrossingUnits returns the number of international/foreign-domestic units;
// end-on-end applies only above one.
func (fp *FarePath) CrossingUnits(a *Arena) int {
	n := 0
	for _, h := range fp.Units {
		if a.Unit(h).Geo.Crossing() {
			n++
		}
	}

	return n
}

// CommandPriced reports whether any unit on the path is command-priced,
// which relaxes several acceptance steps.
func (fp *FarePath) CommandPriced(a *Arena) bool {
	for _, h := range fp.Units {
		if a.Unit(h).CommandPriced {
			return true
		}
	}

	return false
}

// AppendTag records one validator step tag ("EOE:PASS", "VCX:FAIL no common
// carrier", ...) on the diagnostic trail.
func (fp *FarePath) AppendTag(tag string) { fp.trail = append(fp.trail, tag) }

// Trail renders the accumulated diagnostic trail, steps joined by space.
func (fp *FarePath) Trail() string { return strings.Join(fp.trail, " ") }
