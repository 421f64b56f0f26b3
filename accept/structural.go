// Package accept — cross-pricing-unit structural business rules (step 7).
package accept

import (
	"sort"

	"github.com/aerofare/farepath/fare"
	"github.com/aerofare/farepath/itin"
)

// structural runs step 7's four cross-unit rules in order and returns a
// diagnostic tag for the first one the path breaks.
func (v *Validator) structural(a *fare.Arena, fp *fare.FarePath) (string, bool) {
	if !v.openJawPairOK(a, fp) {
		return "STRUCT:FAIL normal one-ways from same open jaw", false
	}
	if !v.closedLoopOK(a, fp) {
		return "STRUCT:FAIL closed loop of uniform one-way fares", false
	}
	if !v.sideTripsOK(a, fp) {
		return "STRUCT:FAIL side trip leaves country of commencement", false
	}
	if !v.tagMixOK(a, fp) {
		return "STRUCT:FAIL tag1/tag3 one-way combination", false
	}

	return "", true
}

// openJawPairOK forbids two one-way units carved from the same open jaw
// when both carry normal fares.
func (v *Validator) openJawPairOK(a *fare.Arena, fp *fare.FarePath) bool {
	normals := make(map[int]int)
	for _, h := range fp.Units {
		u := a.Unit(h)
		if u.Kind != fare.KindOneWay || u.OpenJawID == 0 {
			continue
		}
		if a.UnitFareType(h) != fare.TypeNormal {
			continue
		}
		normals[u.OpenJawID]++
		if normals[u.OpenJawID] > 1 {
			return false
		}
	}

	return true
}

// loopLink is one qualifying fare market, positioned by the itinerary
// segment its usage starts on.
type loopLink struct {
	pos    int
	market fare.Market
}

// closedLoopOK detects a continuous-travel loop formed entirely of normal
// (or entirely of special) one-way fares across border-crossing units.
// Qualifying fare markets are sorted by itinerary position; the path fails
// when every destination chains into the next origin and the last
// destination closes back on the first origin.
func (v *Validator) closedLoopOK(a *fare.Arena, fp *fare.FarePath) bool {
	var (
		links   []loopLink
		normal  bool
		special bool
	)
	for _, h := range fp.Units {
		u := a.Unit(h)
		if u.Kind != fare.KindOneWay || !u.Geo.Crossing() {
			continue
		}
		for _, uh := range u.Usages {
			usage := a.Usage(uh)
			f := a.Fare(usage.Fare)
			if f.Dummy {
				continue
			}
			if f.Type == fare.TypeNormal {
				normal = true
			} else {
				special = true
			}
			links = append(links, loopLink{pos: usage.From, market: f.Market})
		}
	}
	// A mixed normal/special sequence, or fewer than two links, never loops.
	if len(links) < 2 || (normal && special) {
		return true
	}

	sort.Slice(links, func(i, j int) bool { return links[i].pos < links[j].pos })
	for i, l := range links {
		next := links[(i+1)%len(links)]
		if l.market.Destination != next.market.Origin {
			return true
		}
	}

	return false
}

// sideTripsOK forbids a border-crossing side trip departing from the
// country of journey commencement.
func (v *Validator) sideTripsOK(a *fare.Arena, fp *fare.FarePath) bool {
	home := fp.Itin.CommencementNation()
	for _, h := range fp.Units {
		for _, uh := range a.Unit(h).Usages {
			for _, st := range a.Usage(uh).SideTrips {
				if !sideTripStaysHome(a, a.Unit(st), home) {
					return false
				}
			}
		}
	}

	return true
}

// sideTripStaysHome reports whether a side-trip unit avoids crossing out of
// the commencement country from within it.
func sideTripStaysHome(a *fare.Arena, st *fare.PricingUnit, home itin.Nation) bool {
	if !st.Geo.Crossing() {
		return true
	}
	for _, uh := range st.Usages {
		m := a.UsageFare(uh).Market
		if itin.SameCountry(m.OriginNation, home) && !itin.SameCountry(m.DestinationNation, home) {
			return false
		}
	}

	return true
}

// tagMixOK restricts tag1/tag3 fare combination on an A-B-A itinerary built
// from exactly two one-way pricing units. Carrier preference can lift the
// restriction; it must do so for every governing carrier involved.
func (v *Validator) tagMixOK(a *fare.Arena, fp *fare.FarePath) bool {
	it := fp.Itin
	if len(fp.Units) != 2 || it.Len() != 2 {
		return true
	}
	if it.Segment(0).Origin.City != it.Segment(1).Destination.City {
		return true
	}
	for _, h := range fp.Units {
		if a.Unit(h).Kind != fare.KindOneWay {
			return true
		}
	}

	tags := map[fare.Tag]bool{
		unitTag(a, fp.Units[0]): true,
		unitTag(a, fp.Units[1]): true,
	}
	if !tags[fare.Tag1] || !tags[fare.Tag3] {
		return true
	}
	if v.deps.Pref == nil {
		return false
	}
	for _, h := range fp.Units {
		if !v.deps.Pref.AllowOneWayTagMix(a.GoverningCarrier(h)) {
			return false
		}
	}

	return true
}

// unitTag returns the OW/RT tag of the unit's first non-dummy fare.
func unitTag(a *fare.Arena, h fare.UnitHandle) fare.Tag {
	for _, uh := range a.Unit(h).Usages {
		if f := a.UsageFare(uh); !f.Dummy {
			return f.Tag
		}
	}

	return fare.TagNone
}
