package accept_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerofare/farepath/accept"
	"github.com/aerofare/farepath/combine"
	"github.com/aerofare/farepath/fare"
	"github.com/aerofare/farepath/itin"
)

// natSeg builds one flown segment between two city/nation pairs.
func natSeg(order, leg int, fromCity, toCity itin.City, fromNat, toNat itin.Nation, mkt itin.Carrier) itin.Segment {
	return itin.Segment{
		Origin:      itin.Location{City: fromCity, Nation: fromNat},
		Destination: itin.Location{City: toCity, Nation: toNat},
		Marketing:   mkt,
		Leg:         leg,
		Order:       order,
	}
}

// euItin is a two-leg LON-PAR-ROM itinerary commencing in GB.
func euItin(t *testing.T) *itin.Itinerary {
	t.Helper()
	it, err := itin.New([]itin.Segment{
		natSeg(0, 0, "LON", "PAR", "GB", "FR", "AA"),
		natSeg(1, 1, "PAR", "ROM", "FR", "IT", "BB"),
	})
	require.NoError(t, err)

	return it
}

// abaItin is an A-B-A itinerary (LON-PAR-LON), one segment per leg.
func abaItin(t *testing.T) *itin.Itinerary {
	t.Helper()
	it, err := itin.New([]itin.Segment{
		natSeg(0, 0, "LON", "PAR", "GB", "FR", "AA"),
		natSeg(1, 1, "PAR", "LON", "FR", "GB", "AA"),
	})
	require.NoError(t, err)

	return it
}

// unitOf adds a single-fare one-way unit covering [from,to); mod tweaks the
// unit record before it is sealed into the arena.
func unitOf(a *fare.Arena, f fare.Fare, from, to int, mod func(*fare.PricingUnit)) fare.UnitHandle {
	if f.Amount.IsZero() {
		f.Amount = decimal.NewFromInt(100)
	}
	fh := a.AddFare(f)
	uh := a.AddUsage(fare.FareUsage{Fare: fh, From: from, To: to})
	u := fare.PricingUnit{Kind: fare.KindOneWay, Usages: []fare.UsageHandle{uh}}
	if mod != nil {
		mod(&u)
	}

	return a.AddUnit(u)
}

func newValidator(deps accept.Deps, opts ...accept.Option) *accept.Validator {
	if deps.Engine == nil {
		deps.Engine = combine.NewEngine(nil)
	}

	return accept.NewValidator(deps, opts...)
}

type brandStub struct {
	hard    map[string]bool
	soldOut map[string]bool
}

func (b brandStub) HardPass(_ *fare.Arena, _ fare.UsageHandle, brand string) bool {
	return b.hard[brand]
}

func (b brandStub) SoldOut(brand string, _ int) bool { return b.soldOut[brand] }

type prefStub bool

func (p prefStub) AllowOneWayTagMix(itin.Carrier) bool { return bool(p) }

func TestValidate_CleanPathPasses(t *testing.T) {
	a := fare.NewArena()
	u1 := unitOf(a, fare.Fare{Basis: "YOW", Carrier: "AA"}, 0, 1, nil)
	u2 := unitOf(a, fare.Fare{Basis: "YOW", Carrier: "BB"}, 1, 2, nil)
	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)

	ok, err := newValidator(accept.Deps{}).Validate(a, fp, "0/0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, fp.Processed)
	assert.False(t, fp.Rejected)
	assert.Contains(t, fp.Trail(), "NEGO:PASS")
}

func TestValidate_PriorVerdictReused(t *testing.T) {
	a := fare.NewArena()
	u1 := unitOf(a, fare.Fare{Basis: "YOW", Carrier: "AA", Negotiated: true}, 0, 1, nil)
	u2 := unitOf(a, fare.Fare{Basis: "YOW", Carrier: "BB"}, 1, 2, nil)
	v := newValidator(accept.Deps{})

	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)
	ok, err := v.Validate(a, fp, "0/0")
	require.NoError(t, err)
	require.False(t, ok, "negotiated/public mix must fail")

	// Same content, fresh path object: the stored verdict applies.
	again, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)
	ok, err = v.Validate(a, again, "0/0")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, again.Trail(), "PRIOR:HIT")
}

func TestValidate_NoCommonValidatingCarrier(t *testing.T) {
	a := fare.NewArena()
	u1 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "AA"}, 0, 1, func(u *fare.PricingUnit) {
		u.Carriers = []itin.Carrier{"AA"}
	})
	u2 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "BB"}, 1, 2, func(u *fare.PricingUnit) {
		u.Carriers = []itin.Carrier{"BB"}
	})
	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)

	ok, err := newValidator(accept.Deps{}).Validate(a, fp, "0/0")
	require.ErrorIs(t, err, accept.ErrNoCommonValidatingCarrier)
	assert.False(t, ok)
	assert.True(t, fp.Rejected)
}

func TestValidate_EmptyUnitCarrierSetIsUnrestricted(t *testing.T) {
	a := fare.NewArena()
	u1 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "AA"}, 0, 1, func(u *fare.PricingUnit) {
		u.Carriers = []itin.Carrier{"AA", "CC"}
	})
	u2 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "BB"}, 1, 2, nil) // unrestricted
	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)

	ok, err := newValidator(accept.Deps{}).Validate(a, fp, "0/0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []itin.Carrier{"AA", "CC"}, fp.Carriers)
}

func TestValidate_AllUnitsUnrestrictedFallsBackToMarketing(t *testing.T) {
	a := fare.NewArena()
	u1 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "AA"}, 0, 1, nil)
	u2 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "BB"}, 1, 2, nil)
	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)

	ok, err := newValidator(accept.Deps{}).Validate(a, fp, "0/0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []itin.Carrier{"AA", "BB"}, fp.Carriers)
}

func TestValidate_CarriedOverCarrierRejection(t *testing.T) {
	a := fare.NewArena()
	u1 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "AA"}, 0, 1, func(u *fare.PricingUnit) {
		u.Carriers = []itin.Carrier{"AA", "BB"}
	})
	u2 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "BB"}, 1, 2, nil)

	v := newValidator(accept.Deps{})
	v.RecordCarrierRejection("1/3", "AA")

	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)
	ok, err := v.Validate(a, fp, "1/3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []itin.Carrier{"BB"}, fp.Carriers, "rejected carrier removed from the eligible set")
}

func TestValidate_CarriedOverRejectionEmptiesSet(t *testing.T) {
	a := fare.NewArena()
	u1 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "AA"}, 0, 1, func(u *fare.PricingUnit) {
		u.Carriers = []itin.Carrier{"AA"}
	})
	u2 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "BB"}, 1, 2, nil)

	v := newValidator(accept.Deps{})
	v.RecordCarrierRejection("2/0", "AA")

	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)
	ok, err := v.Validate(a, fp, "2/0")
	require.ErrorIs(t, err, accept.ErrNoCommonValidatingCarrier)
	assert.False(t, ok)
	assert.Contains(t, fp.Trail(), "CXR:FAIL")
}

func TestValidate_BrandHardPassPerLeg(t *testing.T) {
	a := fare.NewArena()
	u1 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "AA"}, 0, 1, nil)
	u2 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "BB"}, 1, 2, nil)
	mkPath := func(t *testing.T) *fare.FarePath {
		fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
		require.NoError(t, err)

		return fp
	}

	t.Run("no hard pass fails", func(t *testing.T) {
		v := newValidator(
			accept.Deps{Brands: brandStub{hard: map[string]bool{}}},
			accept.WithBrands("FLEX"),
		)
		fp := mkPath(t)
		ok, err := v.Validate(a, fp, "0/0")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, fp.Trail(), "BRAND:FAIL")
	})

	t.Run("hard pass brand admits", func(t *testing.T) {
		v := newValidator(
			accept.Deps{Brands: brandStub{hard: map[string]bool{"FLEX": true}}},
			accept.WithBrands("FLEX"),
		)
		ok, err := v.Validate(a, mkPath(t), "0/0")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("sold-out brand is skipped", func(t *testing.T) {
		v := newValidator(
			accept.Deps{Brands: brandStub{
				hard:    map[string]bool{"FLEX": true},
				soldOut: map[string]bool{"FLEX": true},
			}},
			accept.WithBrands("FLEX"),
		)
		ok, err := v.Validate(a, mkPath(t), "0/0")
		require.NoError(t, err)
		assert.False(t, ok, "the only usable brand is sold out on every leg")
	})
}

func TestValidate_RequiredFareType(t *testing.T) {
	a := fare.NewArena()
	u1 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "AA", Type: fare.TypeNormal}, 0, 1, nil)
	u2 := unitOf(a, fare.Fare{Basis: "H", Carrier: "BB", Type: fare.TypeSpecial}, 1, 2, nil)
	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)

	v := newValidator(accept.Deps{}, accept.WithRequiredFareType(fare.TypeNormal))
	ok, err := v.Validate(a, fp, "0/0")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, fp.Trail(), "FAMILY:FAIL")
}

func TestValidate_IndirectTravelLimit(t *testing.T) {
	a := fare.NewArena()
	u1 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "AA"}, 0, 1, nil)
	u2 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "BB"}, 1, 2, nil)

	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)
	v := newValidator(accept.Deps{}, accept.WithMaxIndirectStops(0))
	ok, err := v.Validate(a, fp, "0/0")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, fp.Trail(), "ITL:FAIL")

	// Axess flows skip the limitation entirely.
	fp2, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)
	v2 := newValidator(accept.Deps{}, accept.WithMaxIndirectStops(0), accept.WithAxessFlow())
	ok, err = v2.Validate(a, fp2, "0/0")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidate_TariffRuleCrossCheck(t *testing.T) {
	a := fare.NewArena()
	u1 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "AA", Tariff: 1, Rule: "1000", RuleBased: true}, 0, 1, nil)
	u2 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "BB", Tariff: 2, Rule: "1000", RuleBased: true}, 1, 2, nil)
	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)

	ok, err := newValidator(accept.Deps{}).Validate(a, fp, "0/0")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, fp.Trail(), "TARIFF:FAIL")
}

func TestValidate_NegotiatedMixSkippedUnderCommandPricing(t *testing.T) {
	a := fare.NewArena()
	u1 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "AA", Negotiated: true}, 0, 1, func(u *fare.PricingUnit) {
		u.CommandPriced = true
	})
	u2 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "BB"}, 1, 2, nil)
	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)

	ok, err := newValidator(accept.Deps{}).Validate(a, fp, "0/0")
	require.NoError(t, err)
	assert.True(t, ok, "command pricing waives the negotiated-fare check")
}

// --- structural rules (step 7) ---

func TestStructural_SameOpenJawNormalOneWays(t *testing.T) {
	a := fare.NewArena()
	mk := func(carrier itin.Carrier, from, to int, ft fare.FareType) fare.UnitHandle {
		return unitOf(a, fare.Fare{Basis: "Y", Carrier: carrier, Type: ft}, from, to,
			func(u *fare.PricingUnit) { u.OpenJawID = 7 })
	}

	u1 := mk("AA", 0, 1, fare.TypeNormal)
	u2 := mk("BB", 1, 2, fare.TypeNormal)
	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u1, u2})
	require.NoError(t, err)
	ok, err := newValidator(accept.Deps{}).Validate(a, fp, "0/0")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, fp.Trail(), "open jaw")

	// One special fare breaks the all-normal pair.
	u3 := mk("AA", 0, 1, fare.TypeNormal)
	u4 := mk("BB", 1, 2, fare.TypeSpecial)
	fp2, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{u3, u4})
	require.NoError(t, err)
	ok, err = newValidator(accept.Deps{}).Validate(a, fp2, "0/0")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStructural_ClosedLoopOfUniformOneWays(t *testing.T) {
	mkUnits := func(a *fare.Arena, secondType fare.FareType) []fare.UnitHandle {
		u1 := unitOf(a, fare.Fare{
			Basis: "Y", Carrier: "AA", Type: fare.TypeNormal,
			Market: fare.Market{Origin: "LON", Destination: "PAR", OriginNation: "GB", DestinationNation: "FR"},
		}, 0, 1, func(u *fare.PricingUnit) { u.Geo = fare.GeoInternational })
		u2 := unitOf(a, fare.Fare{
			Basis: "Y", Carrier: "BB", Type: secondType,
			Market: fare.Market{Origin: "PAR", Destination: "LON", OriginNation: "FR", DestinationNation: "GB"},
		}, 1, 2, func(u *fare.PricingUnit) { u.Geo = fare.GeoInternational })

		return []fare.UnitHandle{u1, u2}
	}

	t.Run("all-normal loop fails", func(t *testing.T) {
		a := fare.NewArena()
		fp, err := fare.NewPath(a, abaItin(t), "ADT", mkUnits(a, fare.TypeNormal))
		require.NoError(t, err)
		ok, err := newValidator(accept.Deps{}).Validate(a, fp, "0/0")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, fp.Trail(), "closed loop")
	})

	t.Run("mixed fare types break the loop rule", func(t *testing.T) {
		a := fare.NewArena()
		fp, err := fare.NewPath(a, abaItin(t), "ADT", mkUnits(a, fare.TypeSpecial))
		require.NoError(t, err)
		ok, err := newValidator(accept.Deps{}).Validate(a, fp, "0/0")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestStructural_SideTripCountryOfCommencement(t *testing.T) {
	a := fare.NewArena()

	// Side trip carved out of LON: crosses from the commencement country.
	stFare := a.AddFare(fare.Fare{
		Basis: "S", Carrier: "CC", Amount: decimal.NewFromInt(40),
		Market: fare.Market{Origin: "LON", Destination: "DUB", OriginNation: "GB", DestinationNation: "IE"},
	})
	stUsage := a.AddUsage(fare.FareUsage{Fare: stFare, From: 0, To: 0})
	st := a.AddUnit(fare.PricingUnit{
		Kind:   fare.KindRoundTrip,
		Geo:    fare.GeoInternational,
		Usages: []fare.UsageHandle{stUsage},
	})

	mainFare := a.AddFare(fare.Fare{Basis: "Y", Carrier: "AA", Amount: decimal.NewFromInt(100)})
	mainUsage := a.AddUsage(fare.FareUsage{Fare: mainFare, From: 0, To: 2, SideTrips: []fare.UnitHandle{st}})
	main := a.AddUnit(fare.PricingUnit{Kind: fare.KindOneWay, Usages: []fare.UsageHandle{mainUsage}})

	fp, err := fare.NewPath(a, euItin(t), "ADT", []fare.UnitHandle{main})
	require.NoError(t, err)
	ok, err := newValidator(accept.Deps{}).Validate(a, fp, "0/0")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, fp.Trail(), "side trip")
}

func TestStructural_TagMixOnABA(t *testing.T) {
	mkPath := func(t *testing.T, a *fare.Arena, tag2 fare.Tag) *fare.FarePath {
		u1 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "AA", Tag: fare.Tag1}, 0, 1, nil)
		u2 := unitOf(a, fare.Fare{Basis: "Y", Carrier: "AA", Tag: tag2}, 1, 2, nil)
		fp, err := fare.NewPath(a, abaItin(t), "ADT", []fare.UnitHandle{u1, u2})
		require.NoError(t, err)

		return fp
	}

	t.Run("tag1 with tag3 fails", func(t *testing.T) {
		a := fare.NewArena()
		ok, err := newValidator(accept.Deps{}).Validate(a, mkPath(t, a, fare.Tag3), "0/0")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("tag1 with tag1 passes", func(t *testing.T) {
		a := fare.NewArena()
		ok, err := newValidator(accept.Deps{}).Validate(a, mkPath(t, a, fare.Tag1), "0/0")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("carrier preference lifts the restriction", func(t *testing.T) {
		a := fare.NewArena()
		v := newValidator(accept.Deps{Pref: prefStub(true)})
		ok, err := v.Validate(a, mkPath(t, a, fare.Tag3), "0/0")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
