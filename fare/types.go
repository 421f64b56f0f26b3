// Package fare — central fare, fare-usage and pricing-unit types.
//
// This file declares the enums, the record types, the handle types, and the
// package sentinels. Construction and lookup live in arena.go; fare paths in
// path.go; sources and the lattice in lattice.go.
package fare

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/aerofare/farepath/itin"
)

// Sentinel errors for the fare data model.
var (
	// ErrEmptyLattice indicates that NewLattice was called with no slots.
	ErrEmptyLattice = errors.New("fare: lattice has no slots")

	// ErrBadHandle indicates that a handle does not resolve in the arena.
	ErrBadHandle = errors.New("fare: handle out of range")

	// ErrNoUnits indicates that a fare path was built with no pricing units.
	ErrNoUnits = errors.New("fare: fare path has no pricing units")

	// ErrNotReady is returned by a PricingUnitSource whose item exists but
	// has not been materialized yet. The search pauses the affected
	// candidate and re-requests the slot on the next pop.
	ErrNotReady = errors.New("fare: pricing unit not materialized yet")
)

// HandleNone marks an unset handle of any kind.
const HandleNone = -1

// FareHandle indexes a Fare in the arena.
type FareHandle int

// UsageHandle indexes a FareUsage in the arena.
type UsageHandle int

// UnitHandle indexes a PricingUnit in the arena.
type UnitHandle int

// FareID is the identity of a priced fare used by the end-on-end failure
// cache. Two usages of the same priced-fare record share one FareID.
type FareID string

// FareType classifies a fare as normal or special.
type FareType int

const (
	// TypeNormal marks an unrestricted (normal) fare.
	TypeNormal FareType = iota

	// TypeSpecial marks a restricted (special) fare.
	TypeSpecial
)

// Tag is the owner's one-way/round-trip application tag carried on the
// fare record. Tag1 fares may be doubled into round trips, Tag2 fares are
// half round-trip fares, Tag3 fares are one-way only.
type Tag int

const (
	TagNone Tag = iota
	Tag1
	Tag2
	Tag3
)

// EOEIndicator is a bitmask of end-on-end restrictions carried on a fare
// record, interpreted by the combine package.
type EOEIndicator uint8

const (
	// EOESameCarrier requires the other fare to be published by the same
	// carrier.
	EOESameCarrier EOEIndicator = 1 << iota

	// EOENormalOnly permits combination only with normal-type fares.
	EOENormalOnly

	// EOEIntlForbidden forbids combination with fares whose market crosses
	// a country border.
	EOEIntlForbidden

	// EOENotPermitted forbids end-on-end combination outright.
	EOENotPermitted
)

// Market is the origin/destination market a fare is published for.
type Market struct {
	Origin            itin.City
	Destination       itin.City
	OriginNation      itin.Nation
	DestinationNation itin.Nation
}

// International reports whether the fare market crosses a country border
// (under the itin package's nation carve-outs).
func (m Market) International() bool {
	return !itin.SameCountry(m.OriginNation, m.DestinationNation)
}

// Fare is one priced-fare record. Immutable once added to the arena.
type Fare struct {
	ID         FareID       // identity; derived by the arena when empty
	Basis      string       // fare basis code
	Carrier    itin.Carrier // publishing carrier
	Tariff     int          // tariff number
	Rule       string       // rule number within the tariff
	Class      string       // fare class code
	Type       FareType     // normal / special
	Tag        Tag          // OW/RT application tag
	EOE        EOEIndicator // end-on-end restrictions
	Market     Market
	Amount     decimal.Decimal
	Dummy      bool // placeholder fare (command pricing); exempt from EOE
	Negotiated bool // negotiated (private) fare
	RuleBased  bool // combinability governed by a rule record
}

// FareUsage applies one priced fare to a contiguous run of itinerary
// segments [From, To) within a pricing unit. Side trips are nested pricing
// units owned by the usage. Immutable once added to the arena.
type FareUsage struct {
	Fare         FareHandle
	From, To     int          // covered segment range [From, To)
	Inbound      bool         // true when the usage travels against journey direction
	BookingCodes []string     // booking-code disposition from upstream
	SideTrips    []UnitHandle // nested side-trip pricing units
}

// Covers reports whether the usage covers itinerary segment index i.
func (fu FareUsage) Covers(i int) bool { return i >= fu.From && i < fu.To }

// UnitKind is the structural classification of a pricing unit.
type UnitKind int

const (
	KindOneWay UnitKind = iota
	KindRoundTrip
	KindCircleTrip
	KindOpenJaw
)

// String renders the kind for diagnostics.
func (k UnitKind) String() string {
	switch k {
	case KindOneWay:
		return "OW"
	case KindRoundTrip:
		return "RT"
	case KindCircleTrip:
		return "CT"
	case KindOpenJaw:
		return "OJ"
	default:
		return "??"
	}
}

// GeoClass is the geographic classification of a pricing unit's travel.
type GeoClass int

const (
	GeoDomestic GeoClass = iota
	GeoTransborder
	GeoForeignDomestic
	GeoInternational
)

// Crossing reports whether the class counts as international or
// foreign-domestic for end-on-end applicability purposes.
func (g GeoClass) Crossing() bool {
	return g == GeoInternational || g == GeoForeignDomestic
}

// PricingUnit is a validated grouping of fare usages covering part of the
// itinerary. Immutable once added to the arena; its Amount/Cost are fixed
// at AddUnit time from the sum of its fares.
type PricingUnit struct {
	Kind   UnitKind
	Geo    GeoClass
	Usages []UsageHandle

	// Amount is the exact unit total; Cost is its float64 view used for
	// heap ordering. Both are derived by Arena.AddUnit when Amount is zero.
	Amount decimal.Decimal
	Cost   float64

	// CommandPriced marks a caller override: the unit always passes
	// combinability but is flagged for downstream reporting.
	CommandPriced bool

	// Carriers is the unit's eligible validating-carrier set.
	Carriers []itin.Carrier

	// OpenJawID groups one-way units carved from the same open jaw
	// (0 = none). The acceptance validator forbids two normal-fare one-way
	// units sharing a group.
	OpenJawID int

	// EOEExempt exempts this unit from end-on-end checks against the unit
	// adjacent to it in the fare path.
	EOEExempt bool
}
