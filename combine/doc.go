// Package combine decides whether pricing units may live together on one
// fare path: it validates a unit in isolation against its governing
// combinability rule record, and validates an ordered sequence of units
// pairwise end-on-end, caching negative pair results for the lifetime of
// the search.
//
// Per-unit validation:
//
// A rule record is a weighted list of rule items. Each item pairs a major
// subcheck (structural applicability: one-way / round-trip / open-jaw /
// circle-trip) with a set of minor subchecks (same carrier / same rule /
// same tariff / same fare class / same fare type across the unit's fare
// usages). A unit passes when at least one item's major check matches its
// kind and all of that item's minor checks hold. Command-priced units
// always pass and carry the override verdict for downstream reporting.
//
// End-on-end validation:
//
// For fare paths with more than one international or foreign-domestic
// pricing unit, every ordered pair of fare usages drawn from distinct,
// non-adjacent-exempt units must satisfy the source fare's end-on-end
// indicators (same-carrier, normal-only, international-forbidden,
// not-permitted) and any configured carrier same-carrier preference.
// Dummy (placeholder) fares are exempt. The scan short-circuits on the
// first failing pair, in earliest-unit, earliest-usage order.
//
// The failure cache:
//
// A failed pair is recorded by fare identity and is binding for the rest of
// the search: any later candidate whose fare sequence contains the pair is
// rejected without re-running the full end-on-end pass. The cache is
// append-only and never invalidated; it is bypassed entirely when
// end-on-end is not applicable (at most one crossing unit or at most two
// fare components).
//
// An Engine belongs to exactly one search instance and is not safe for
// concurrent use; per-unit verdicts are additionally memoized by lattice
// coordinate so re-validating the same concrete unit across many candidates
// costs O(1) after the first evaluation.
package combine
