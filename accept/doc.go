// Package accept is the final admission gate for structurally complete
// fare paths: the last validation a candidate passes before the search
// releases it to the caller.
//
// Validate runs a fixed sequence of checks, short-circuiting on the first
// failure:
//
//	 1. Prior-verdict reuse for already-processed paths (re-pricing flows).
//	 2. Validating-carrier feasibility: the per-pricing-unit eligible sets
//	    must intersect (ErrNoCommonValidatingCarrier otherwise).
//	 3. Carried-over per-carrier rejections recorded against the lattice
//	    coordinate prune the eligible set.
//	 4. Brand checks (brand-constrained requests only): every leg needs a
//	    hard-pass brand that is not sold out on that leg.
//	 5. Required fare-type cross-check (when requested).
//	 6. End-on-end failure-cache short-circuit.
//	 7. Cross-unit structural rules: the same-open-jaw normal one-way ban,
//	    the closed loop of all-normal / all-special one-way fares over
//	    international units, the side-trip country-of-commencement
//	    restriction, and the tag1/tag3 A-B-A restriction with its
//	    carrier-preference override.
//	 8. Indirect-travel limitation (skipped for axess flows).
//	 9. End-on-end combinability (skipped under command pricing).
//	10. Same-tariff/rule cross-check for rule-based fares.
//	11. Negotiated-fare combination check (skipped under command pricing).
//
// Every step appends a short pass/fail tag to the fare path's diagnostic
// trail; the verdict is the conjunction of all steps. Business failures are
// data (false verdict plus trail), with one exception: carrier
// infeasibility also carries the typed ErrNoCommonValidatingCarrier so
// callers above the search can ask for explicit disambiguation.
//
// A Validator belongs to one search flow; its verdict and rejection stores
// are not safe for concurrent use.
package accept
