// Package vcarrier — resolver types, configuration and sentinels.
package vcarrier

import (
	"errors"

	"github.com/aerofare/farepath/itin"
)

// Sentinel errors for validating-carrier resolution.
var (
	// ErrNoCandidates indicates an empty validating-carrier candidate set.
	ErrNoCandidates = errors.New("vcarrier: no validating-carrier candidates")

	// ErrAmbiguousValidatingCarrier indicates that no unique default
	// validating carrier could be determined; the caller must disambiguate
	// (for example by prompting for an explicit carrier).
	ErrAmbiguousValidatingCarrier = errors.New("vcarrier: ambiguous validating carrier")

	// ErrNoCommonValidatingCarrier indicates that the per-pricing-unit
	// eligible-carrier sets of a fare path share no carrier.
	ErrNoCommonValidatingCarrier = errors.New("vcarrier: no common validating carrier")
)

// CarrierSwapAccessor resolves GSA swap substitutions: the set of carriers
// that may validate on behalf of a marketing carrier under a settlement
// plan. A nil accessor means no swaps are configured anywhere.
type CarrierSwapAccessor interface {
	SwapCarriers(marketing itin.Carrier, settlementPlan string) []itin.Carrier
}

// SwapFunc adapts a plain function to CarrierSwapAccessor.
type SwapFunc func(marketing itin.Carrier, settlementPlan string) []itin.Carrier

// SwapCarriers implements CarrierSwapAccessor.
func (f SwapFunc) SwapCarriers(marketing itin.Carrier, settlementPlan string) []itin.Carrier {
	return f(marketing, settlementPlan)
}

// Result is a resolved default carrier pair.
type Result struct {
	// Validating is the carrier whose plate settles the ticket.
	Validating itin.Carrier

	// Marketing is the associated default marketing carrier: the itinerary
	// carrier the validating carrier was paired with (or the validating
	// carrier itself when it markets segments directly).
	Marketing itin.Carrier
}

// Options configures a Resolver.
//
// Preferred      – caller preference list; the first preferred carrier also
// present in the candidate set wins resolution outright.
// SettlementPlan – settlement plan code passed through to the swap accessor.
type Options struct {
	Preferred      []itin.Carrier
	SettlementPlan string
}

// Option is a functional option for NewResolver.
type Option func(*Options)

// WithPreferredCarriers sets the caller preference list, in priority order.
func WithPreferredCarriers(carriers ...itin.Carrier) Option {
	return func(o *Options) { o.Preferred = append(o.Preferred, carriers...) }
}

// WithSettlementPlan sets the settlement plan passed to the swap accessor.
func WithSettlementPlan(plan string) Option {
	return func(o *Options) { o.SettlementPlan = plan }
}

// DefaultOptions returns the resolver defaults: no preference list, empty
// settlement plan.
func DefaultOptions() Options { return Options{} }
