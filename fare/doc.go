// Package fare owns the priced data model the whole module revolves around:
// fares, fare usages, pricing units, fare paths, and the lattice of
// pricing-unit sources the search enumerates.
//
// Ownership model (the arena):
//
// All Fare, FareUsage and PricingUnit values live in a single Arena owned by
// the caller. Everything else — fare paths, rule engines, the search —
// refers to them through dense integer handles (FareHandle, UsageHandle,
// UnitHandle). This keeps ownership and lifetime explicit: cloning a
// FarePath for a second validating carrier copies a handle slice and a few
// delta fields, never the underlying pricing units, and the units themselves
// are immutable once added.
//
// Money:
//
// Fare amounts are exact decimals (shopspring/decimal). Aggregate fare-path
// cost additionally carries a float64 view used by the search heap, where
// near-equal totals are treated as ties under a configurable epsilon.
//
// Sources and the lattice:
//
// A PricingUnitSource produces, on demand, the index-th cheapest pricing
// unit for one lattice slot (index 0 = cheapest). Sources may answer
// "none left" (exhausted), ErrNotReady (item not materialized yet; the
// search pauses the candidate and retries), or any other error (transient
// failure; the search drops the branch). MemoSource wraps any source so the
// same index is never rebuilt twice; ListSource adapts a fixed ranked slice,
// which is also the package's main test seam.
//
// Errors (sentinel):
//
//	– ErrEmptyLattice  if a lattice is built with no slots.
//	– ErrBadHandle     if a handle does not resolve in the arena.
//	– ErrNoUnits       if a fare path is built with an empty unit list.
//	– ErrNotReady      returned by sources whose item is not materialized yet.
package fare
