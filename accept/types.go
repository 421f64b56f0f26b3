// Package accept — validator dependencies, configuration and step tags.
package accept

import (
	"strconv"
	"strings"

	"github.com/aerofare/farepath/combine"
	"github.com/aerofare/farepath/fare"
	"github.com/aerofare/farepath/itin"
	"github.com/aerofare/farepath/vcarrier"
)

// ErrNoCommonValidatingCarrier is re-exported beside the validator that
// raises it; see vcarrier for the definition.
var ErrNoCommonValidatingCarrier = vcarrier.ErrNoCommonValidatingCarrier

// BrandEligibility answers brand questions for fare usages; consumed as an
// opaque provider, never re-implemented here.
type BrandEligibility interface {
	// HardPass reports whether the fare usage has hard-pass status for the
	// brand.
	HardPass(a *fare.Arena, u fare.UsageHandle, brand string) bool

	// SoldOut reports whether the brand is sold out on the itinerary leg.
	SoldOut(brand string, leg int) bool
}

// CarrierPref exposes the carrier-preference override flags the structural
// checks honor. A nil CarrierPref means no overrides anywhere.
type CarrierPref interface {
	// AllowOneWayTagMix reports whether the carrier permits combining a
	// tag1 with a tag3 one-way fare on an A-B-A itinerary.
	AllowOneWayTagMix(c itin.Carrier) bool
}

// Deps are the validator's collaborators. Engine and Resolver are required;
// the rest are optional.
type Deps struct {
	Engine   *combine.Engine
	Resolver *vcarrier.Resolver
	Brands   BrandEligibility
	Pref     CarrierPref
}

// Options configures a Validator.
//
// Brands           – requested brand codes; empty means the request is not
// brand-constrained and step 4 is skipped.
// RequiredFareType – when set, every fare on the path must carry this type.
// MaxIndirectStops – indirect-travel limit: the maximum number of
// intermediate stops tolerated on the itinerary.
// AxessFlow        – skips the indirect-travel limitation.
type Options struct {
	Brands           []string
	RequiredFareType *fare.FareType
	MaxIndirectStops int
	AxessFlow        bool
}

// Option is a functional option for NewValidator.
type Option func(*Options)

// WithBrands marks the request brand-constrained with the given brands.
func WithBrands(brands ...string) Option {
	return func(o *Options) { o.Brands = append(o.Brands, brands...) }
}

// WithRequiredFareType requires every fare on the path to carry type ft.
func WithRequiredFareType(ft fare.FareType) Option {
	return func(o *Options) { o.RequiredFareType = &ft }
}

// WithMaxIndirectStops caps the number of intermediate stops.
// Must be non-negative; negative values panic (invalid configuration).
func WithMaxIndirectStops(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic("accept: MaxIndirectStops must be non-negative")
		}
		o.MaxIndirectStops = n
	}
}

// WithAxessFlow skips the indirect-travel limitation.
func WithAxessFlow() Option {
	return func(o *Options) { o.AxessFlow = true }
}

// DefaultOptions returns the validator defaults: not brand-constrained, no
// required fare type, 16 intermediate stops, regular flow.
func DefaultOptions() Options {
	return Options{MaxIndirectStops: 16}
}

// contentKey fingerprints a fare path by passenger type and unit handles;
// the prior-verdict store is keyed on it.
func contentKey(fp *fare.FarePath) string {
	var b strings.Builder
	b.WriteString(fp.PaxType)
	for _, h := range fp.Units {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(int(h)))
	}

	return b.String()
}
