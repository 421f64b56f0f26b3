// Package itin — central itinerary, segment and carrier types.
//
// This file declares Carrier, Location, Segment, Itinerary, the functional
// options for construction, and the package sentinels.
package itin

import (
	"errors"
	"fmt"
)

// Sentinel errors for itinerary construction.
var (
	// ErrNoSegments indicates that New was called with an empty segment list.
	ErrNoSegments = errors.New("itin: itinerary has no segments")

	// ErrSegmentOrder indicates that segment Order indices are not the
	// strictly increasing sequence 0..n-1.
	ErrSegmentOrder = errors.New("itin: segment order indices must be 0..n-1")
)

// Carrier is a two-character airline designator ("AA", "BA", ...).
type Carrier string

// City is a city or airport code ("NYC", "JFK", "LON", ...).
type City string

// Nation is a two-character country code ("US", "SE", ...).
type Nation string

// SubArea is an IATA sub-area code within a traffic conference area
// ("NA" North America, "EU" Europe, "JK" Japan/Korea, ...).
type SubArea string

// Area is an IATA traffic conference area (1, 2 or 3).
// AreaNone marks an unset value and never matches a real area.
type Area int

// IATA traffic conference areas.
const (
	AreaNone Area = iota
	Area1         // the Americas
	Area2         // Europe, Middle East, Africa
	Area3         // Asia, Australasia
)

// String renders the area for diagnostics ("Area1", ... or "Area?").
func (a Area) String() string {
	switch a {
	case Area1, Area2, Area3:
		return fmt.Sprintf("Area%d", int(a))
	default:
		return "Area?"
	}
}

// Location is one endpoint of a travel segment, carrying the full IATA
// geography the resolvers need: city, nation, sub-area and area.
type Location struct {
	City    City
	Nation  Nation
	SubArea SubArea
	Area    Area
}

// Segment is one flown (or surface) sector of the itinerary.
//
// Order is the zero-based position within the itinerary; Leg groups
// segments into itinerary legs (a leg is one origin-destination bound as
// sold, possibly spanning several segments). Both are assigned by the
// itinerary builder upstream of this module and validated by New.
type Segment struct {
	Origin      Location
	Destination Location
	Marketing   Carrier // carrier selling the segment
	Operating   Carrier // carrier flying the segment ("" = same as Marketing)
	Surface     bool    // true for a surface (non-flown) sector
	Leg         int     // itinerary leg index, non-decreasing
	Order       int     // position within the itinerary, 0-based
}

// OperatingCarrier returns the carrier actually flying the segment,
// falling back to the marketing carrier when no operating override is set.
func (s Segment) OperatingCarrier() Carrier {
	if s.Operating != "" {
		return s.Operating
	}

	return s.Marketing
}

// International reports whether the segment crosses a country border,
// using the settlement carve-outs from geo.go (US/CA and Scandinavia each
// count as one country).
func (s Segment) International() bool {
	return !SameCountry(s.Origin.Nation, s.Destination.Nation)
}

// Itinerary is the immutable ordered sequence of travel segments priced by
// one search. Construct with New; all accessors are safe for concurrent use.
type Itinerary struct {
	segs    []Segment
	neutral Carrier // optional single neutral validating carrier
	legs    int
}

// Option is a functional option for New.
type Option func(*Itinerary)

// WithNeutralCarrier declares the itinerary's single neutral validating
// carrier. The validating-carrier resolver uses it only when it is the sole
// surviving candidate; see the vcarrier package.
func WithNeutralCarrier(c Carrier) Option {
	return func(it *Itinerary) { it.neutral = c }
}

// New validates the segment sequence and builds an immutable Itinerary.
//
// Contracts:
//   - segs must be non-empty (ErrNoSegments).
//   - segs[i].Order must equal i for every i (ErrSegmentOrder); builders
//     that renumber segments should do so before calling New.
//
// The segment slice is copied; the caller may reuse its backing array.
func New(segs []Segment, opts ...Option) (*Itinerary, error) {
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}

	// Validate the order indices before copying anything.
	for i, s := range segs {
		if s.Order != i {
			return nil, fmt.Errorf("%w: segment %d has order %d", ErrSegmentOrder, i, s.Order)
		}
	}

	it := &Itinerary{segs: make([]Segment, len(segs))}
	copy(it.segs, segs)

	// Leg count = highest leg index + 1 (legs are non-decreasing by contract).
	maxLeg := 0
	for _, s := range it.segs {
		if s.Leg > maxLeg {
			maxLeg = s.Leg
		}
	}
	it.legs = maxLeg + 1

	for _, opt := range opts {
		opt(it)
	}

	return it, nil
}

// Len returns the number of segments.
func (it *Itinerary) Len() int { return len(it.segs) }

// Legs returns the number of itinerary legs.
func (it *Itinerary) Legs() int { return it.legs }

// Segment returns the i-th segment. Out-of-range indices are a caller
// defect and panic, consistent with slice semantics.
func (it *Itinerary) Segment(i int) Segment { return it.segs[i] }

// Segments returns a copy of the segment sequence.
func (it *Itinerary) Segments() []Segment {
	out := make([]Segment, len(it.segs))
	copy(out, it.segs)

	return out
}

// SegmentsOfLeg returns the segments belonging to itinerary leg l, in order.
func (it *Itinerary) SegmentsOfLeg(l int) []Segment {
	var out []Segment
	for _, s := range it.segs {
		if s.Leg == l {
			out = append(out, s)
		}
	}

	return out
}

// NeutralCarrier returns the declared neutral validating carrier,
// or "" when none was configured.
func (it *Itinerary) NeutralCarrier() Carrier { return it.neutral }

// CommencementNation returns the nation where the journey commences
// (the origin of the first segment).
func (it *Itinerary) CommencementNation() Nation { return it.segs[0].Origin.Nation }

// MarketingCarriers returns the distinct marketing carriers in first-flown
// order. Surface sectors carry no marketing carrier and are skipped.
func (it *Itinerary) MarketingCarriers() []Carrier {
	seen := make(map[Carrier]bool, len(it.segs))
	out := make([]Carrier, 0, len(it.segs))
	for _, s := range it.segs {
		if s.Surface || s.Marketing == "" || seen[s.Marketing] {
			continue
		}
		seen[s.Marketing] = true
		out = append(out, s.Marketing)
	}

	return out
}

// SegmentsOfMarketing returns the segments marketed by carrier c, in order.
func (it *Itinerary) SegmentsOfMarketing(c Carrier) []Segment {
	var out []Segment
	for _, s := range it.segs {
		if !s.Surface && s.Marketing == c {
			out = append(out, s)
		}
	}

	return out
}
