// Package search — sentinels, options and collaborator wiring.
package search

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/aerofare/farepath/accept"
	"github.com/aerofare/farepath/combine"
	"github.com/aerofare/farepath/itin"
	"github.com/aerofare/farepath/vcarrier"
)

// Sentinel errors returned by the search.
var (
	// ErrExhausted signals that the lattice has no more combinations. It is
	// terminal: every later Next call returns it again. Not a failure.
	ErrExhausted = errors.New("search: lattice exhausted")

	// ErrAborted signals external cancellation via the caller's context.
	ErrAborted = errors.New("search: aborted")

	// ErrNoInitialCombination indicates that some slot was empty at index 0,
	// so not even one complete candidate exists.
	ErrNoInitialCombination = errors.New("search: a slot has no pricing units")

	// ErrSlotOutOfRange indicates a coordinate referencing a slot beyond the
	// lattice. This is a caller or lattice-construction defect, never a
	// business outcome, and is surfaced unconditionally.
	ErrSlotOutOfRange = errors.New("search: slot index out of lattice range")
)

// Deps are the search's collaborators. Engine and Acceptor are required;
// Resolver enables per-validating-carrier cloning and may be nil.
type Deps struct {
	Engine   *combine.Engine
	Acceptor *accept.Validator
	Resolver *vcarrier.Resolver
}

// Options configures a Search instance.
//
// Eps                – floating-cost tolerance: totals closer than Eps are
// ties and fall through to the coordinate/sequence tie-break.
// EOERepairLimit     – bounded local repairs attempted per conflicting
// coordinate when early pairwise pruning fails.
// AbortCheckInterval – the context is polled every this many pops.
// PushBackLimit      – per-search bound on re-insertions without forward
// progress (carrier-clone requeues); 0 disables the bound.
// SharedBudget       – optional push-back budget shared across the search
// instances serving one itinerary; decremented atomically.
// CostBound          – external upper bound on totals worth materializing;
// passed through to sources as a per-slot cost delta bound.
// Preferred          – carrier-preference filter applied to accepted paths.
// CloneCarriers      – per-validating-carrier cloning of accepted paths.
// Logger             – structured logger for dropped branches and flushes.
type Options struct {
	Eps                float64
	EOERepairLimit     int
	AbortCheckInterval int
	PushBackLimit      int
	SharedBudget       *atomic.Int32
	CostBound          float64
	Preferred          []itin.Carrier
	CloneCarriers      bool
	Logger             *slog.Logger
}

// Option is a functional option for New.
type Option func(*Options)

// WithEps sets the cost-comparison tolerance.
// Must be positive; non-positive values panic (invalid configuration).
func WithEps(eps float64) Option {
	return func(o *Options) {
		if eps <= 0 {
			panic("search: Eps must be positive")
		}
		o.Eps = eps
	}
}

// WithEOERepairLimit bounds local repairs per conflicting coordinate.
// Must be non-negative; negative values panic (invalid configuration).
func WithEOERepairLimit(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic("search: EOERepairLimit must be non-negative")
		}
		o.EOERepairLimit = n
	}
}

// WithAbortCheckInterval sets how many pops separate context polls.
// Must be positive; non-positive values panic (invalid configuration).
func WithAbortCheckInterval(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("search: AbortCheckInterval must be positive")
		}
		o.AbortCheckInterval = n
	}
}

// WithPushBackLimit bounds re-insertions without forward progress; 0
// disables the bound. Negative values panic (invalid configuration).
func WithPushBackLimit(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic("search: PushBackLimit must be non-negative")
		}
		o.PushBackLimit = n
	}
}

// WithSharedPushBackBudget shares one push-back budget across the search
// instances serving an itinerary. Each re-insertion decrements the counter;
// at zero every sharing instance switches to flush mode.
func WithSharedPushBackBudget(budget *atomic.Int32) Option {
	return func(o *Options) { o.SharedBudget = budget }
}

// WithCostBound caps the totals worth exploring; sources are told not to
// materialize units that cannot beat it.
func WithCostBound(bound float64) Option {
	return func(o *Options) { o.CostBound = bound }
}

// WithPreferredCarriers keeps only accepted paths eligible for at least one
// of the given validating carriers.
func WithPreferredCarriers(carriers ...itin.Carrier) Option {
	return func(o *Options) { o.Preferred = append(o.Preferred, carriers...) }
}

// WithoutCarrierClones disables per-validating-carrier cloning: accepted
// paths keep their full eligible set.
func WithoutCarrierClones() Option {
	return func(o *Options) { o.CloneCarriers = false }
}

// WithLogger sets the structured logger. nil panics; use the default
// (discarding) logger to silence the search.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l == nil {
			panic("search: Logger must be non-nil")
		}
		o.Logger = l
	}
}

// DefaultOptions returns the search defaults: eps 1e-9, two repairs per
// conflict, context polled every 64 pops, push-back bound 512, no external
// cost bound, carrier cloning on, discarding logger.
func DefaultOptions() Options {
	return Options{
		Eps:                1e-9,
		EOERepairLimit:     2,
		AbortCheckInterval: 64,
		PushBackLimit:      512,
		CostBound:          math.Inf(1),
		CloneCarriers:      true,
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Stats is a snapshot of one search's work counters.
type Stats struct {
	Pops       int // frontier items taken off the queues
	Expansions int // successor coordinates enqueued
	Pruned     int // coordinates cut by early pairwise pruning
	Repairs    int // local repair coordinates pushed after a prune
	Accepted   int // paths that passed full validation
	Rejected   int // paths that failed validation
	Dropped    int // branches dropped on source failure
	PushBacks  int // accepted clones re-inserted for later return
	Flushing   bool
}
