// Package fare — the arena.
//
// arena.go — owned storage for Fare/FareUsage/PricingUnit values, addressed
// by dense handles. The arena grows append-only; records are immutable once
// added. Readers across goroutines need no locking provided all Add calls
// happen before the search starts or are confined to the slot worker that
// owns the source doing the adding (the search joins workers before reading).
package fare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aerofare/farepath/itin"
)

// Arena owns every fare, fare usage and pricing unit of one pricing request.
type Arena struct {
	fares  []Fare
	usages []FareUsage
	units  []PricingUnit
}

// NewArena returns an empty arena.
func NewArena() *Arena { return &Arena{} }

// AddFare appends a fare record and returns its handle. When f.ID is empty
// an identity is derived from basis, carrier and market, which is unique for
// distinct published fares in practice.
func (a *Arena) AddFare(f Fare) FareHandle {
	if f.ID == "" {
		f.ID = FareID(fmt.Sprintf("%s/%s/%s-%s", f.Carrier, f.Basis, f.Market.Origin, f.Market.Destination))
	}
	a.fares = append(a.fares, f)

	return FareHandle(len(a.fares) - 1)
}

// AddUsage appends a fare usage and returns its handle.
func (a *Arena) AddUsage(u FareUsage) UsageHandle {
	a.usages = append(a.usages, u)

	return UsageHandle(len(a.usages) - 1)
}

// AddUnit appends a pricing unit and returns its handle. When u.Amount is
// zero the unit total is derived as the sum of its fares' amounts; Cost is
// always refreshed from Amount so the float view can never drift.
func (a *Arena) AddUnit(u PricingUnit) UnitHandle {
	if u.Amount.IsZero() {
		total := decimal.Zero
		for _, uh := range u.Usages {
			total = total.Add(a.fares[a.usages[uh].Fare].Amount)
		}
		u.Amount = total
	}
	u.Cost, _ = u.Amount.Float64()
	a.units = append(a.units, u)

	return UnitHandle(len(a.units) - 1)
}

// Fare resolves a fare handle. Resolving an invalid handle is a caller
// defect and panics, consistent with slice indexing.
func (a *Arena) Fare(h FareHandle) *Fare { return &a.fares[h] }

// Usage resolves a usage handle.
func (a *Arena) Usage(h UsageHandle) *FareUsage { return &a.usages[h] }

// Unit resolves a unit handle.
func (a *Arena) Unit(h UnitHandle) *PricingUnit { return &a.units[h] }

// CheckUnit reports ErrBadHandle when h does not resolve; used by
// constructors that must fail typed rather than panic on caller input.
func (a *Arena) CheckUnit(h UnitHandle) error {
	if h < 0 || int(h) >= len(a.units) {
		return fmt.Errorf("%w: unit %d of %d", ErrBadHandle, h, len(a.units))
	}

	return nil
}

// UsageFare resolves the fare behind a usage handle in one step.
func (a *Arena) UsageFare(h UsageHandle) *Fare { return &a.fares[a.usages[h].Fare] }

// --- PricingUnit helpers (arena-bound reads) ---

// UnitFareIDs returns the ordered fare identities of the unit's usages.
func (a *Arena) UnitFareIDs(h UnitHandle) []FareID {
	u := &a.units[h]
	out := make([]FareID, 0, len(u.Usages))
	for _, uh := range u.Usages {
		out = append(out, a.UsageFare(uh).ID)
	}

	return out
}

// GoverningCarrier returns the unit's governing carrier: the publishing
// carrier of its first fare usage.
func (a *Arena) GoverningCarrier(h UnitHandle) itin.Carrier {
	u := &a.units[h]
	if len(u.Usages) == 0 {
		return ""
	}

	return a.UsageFare(u.Usages[0]).Carrier
}

// UnitFareType returns the unit's fare-type classification: TypeNormal only
// when every fare in the unit is normal, TypeSpecial otherwise.
func (a *Arena) UnitFareType(h UnitHandle) FareType {
	for _, uh := range a.units[h].Usages {
		if a.UsageFare(uh).Type != TypeNormal {
			return TypeSpecial
		}
	}

	return TypeNormal
}
