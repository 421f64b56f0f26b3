// Package combine — rule-record types, verdicts and engine configuration.
package combine

import (
	"github.com/aerofare/farepath/fare"
	"github.com/aerofare/farepath/itin"
)

// Verdict is the outcome of validating one pricing unit.
type Verdict int

const (
	// VerdictFail: no rule item admitted the unit.
	VerdictFail Verdict = iota

	// VerdictPass: at least one rule item admitted the unit.
	VerdictPass

	// VerdictCommandOverride: the unit is command-priced; it passes
	// unconditionally but must be flagged in downstream reporting.
	VerdictCommandOverride
)

// String renders the verdict for diagnostics.
func (v Verdict) String() string {
	switch v {
	case VerdictPass:
		return "PASS"
	case VerdictCommandOverride:
		return "CMD-PASS"
	default:
		return "FAIL"
	}
}

// Passed reports whether the verdict admits the unit.
func (v Verdict) Passed() bool { return v != VerdictFail }

// MajorMask selects the pricing-unit kinds a rule item applies to.
type MajorMask uint8

const (
	MajorOneWay MajorMask = 1 << iota
	MajorRoundTrip
	MajorCircleTrip
	MajorOpenJaw

	// MajorAny matches every unit kind.
	MajorAny = MajorOneWay | MajorRoundTrip | MajorCircleTrip | MajorOpenJaw
)

// matches reports whether the mask admits unit kind k.
func (m MajorMask) matches(k fare.UnitKind) bool {
	switch k {
	case fare.KindOneWay:
		return m&MajorOneWay != 0
	case fare.KindRoundTrip:
		return m&MajorRoundTrip != 0
	case fare.KindCircleTrip:
		return m&MajorCircleTrip != 0
	case fare.KindOpenJaw:
		return m&MajorOpenJaw != 0
	default:
		return false
	}
}

// MinorMask selects the same-attribute checks a rule item requires across
// the unit's fare usages.
type MinorMask uint8

const (
	MinorSameCarrier MinorMask = 1 << iota
	MinorSameRule
	MinorSameTariff
	MinorSameFareClass
	MinorSameFareType
)

// RuleItem is one weighted entry of a combinability rule record. Items are
// evaluated in descending weight order; the first admitting item wins.
type RuleItem struct {
	Weight int
	Major  MajorMask
	Minor  MinorMask
}

// RuleSet is the combinability rule record for one governing carrier.
// An empty rule set places no restriction (every unit passes).
type RuleSet struct {
	Items []RuleItem
}

// RuleRecordAccessor resolves the combinability rule record for a governing
// carrier. A nil accessor behaves as "no rule record anywhere".
type RuleRecordAccessor interface {
	CombinabilityRules(governing itin.Carrier) RuleSet
}

// RuleRecordFunc adapts a plain function to RuleRecordAccessor.
type RuleRecordFunc func(governing itin.Carrier) RuleSet

// CombinabilityRules implements RuleRecordAccessor.
func (f RuleRecordFunc) CombinabilityRules(governing itin.Carrier) RuleSet { return f(governing) }

// Options configures an Engine.
//
// CacheEnabled    – whether end-on-end failures are recorded and consulted.
// SameCarrierPref – carriers whose preference forces same-carrier
// end-on-end combination for fares they publish.
type Options struct {
	CacheEnabled    bool
	SameCarrierPref map[itin.Carrier]bool
}

// Option is a functional option for NewEngine.
type Option func(*Options)

// WithoutFailureCache disables end-on-end failure caching: every candidate
// runs the full pairwise pass. Intended for diagnosis and A/B measurement.
func WithoutFailureCache() Option {
	return func(o *Options) { o.CacheEnabled = false }
}

// WithSameCarrierPreference marks carriers whose fares combine end-on-end
// only with fares of the same carrier.
func WithSameCarrierPreference(carriers ...itin.Carrier) Option {
	return func(o *Options) {
		if o.SameCarrierPref == nil {
			o.SameCarrierPref = make(map[itin.Carrier]bool, len(carriers))
		}
		for _, c := range carriers {
			o.SameCarrierPref[c] = true
		}
	}
}

// DefaultOptions returns the engine defaults: caching on, no carrier
// preferences.
func DefaultOptions() Options {
	return Options{CacheEnabled: true}
}

// Stats counts engine work for callers' own telemetry and for the cache
// soundness tests.
type Stats struct {
	UnitEvals    int // full per-unit rule evaluations
	UnitMemoHits int // per-unit verdicts served from the coordinate memo
	EOEEvals     int // full end-on-end pairwise passes
	EOECacheHits int // candidates rejected straight from the failure cache
}
