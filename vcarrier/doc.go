// Package vcarrier resolves the single default validating carrier for a
// fare path: the carrier whose plate settles the ticket, which may differ
// from the carriers actually flying the itinerary through GSA swap
// arrangements.
//
// Resolution is a strict first-match-wins cascade:
//
//  1. A caller-preferred carrier present in the candidate set wins outright
//     (preference-list order).
//  2. A declared neutral validating carrier is honored only when it is the
//     sole candidate; otherwise resolution is ambiguous.
//  3. A lone candidate wins when the itinerary carries no swap mappings.
//  4. Candidates are mapped to the marketing carriers operating the
//     itinerary (through swaps); a unique marketing/validating pairing wins.
//  5. Otherwise the area-transition tie-break runs over the governing
//     marketing carriers' flown segments: first area-differing consecutive
//     pair, with the Area3→Area2-then-Area2→Area1 preference, falling back
//     through sub-area, international country (US/Canada and Scandinavia
//     each one country), the Scandinavia-restricted nation check, and
//     finally the first segment. The winning marketing carrier is re-mapped
//     to its validating carrier; while that stays ambiguous, the carrier's
//     segments and validating carriers are eliminated and the tie-break
//     reruns until a unique pairing emerges or everything is exhausted.
//
// The same mapping drives Partition, which splits a candidate set into the
// disjoint per-marketing-carrier groups the search clones fare paths over.
//
// Everything here is deterministic: identical inputs always produce the
// identical carrier, which the search relies on for reproducible clone
// ordering.
//
// Errors (sentinel):
//
//	– ErrNoCandidates               if the candidate set is empty.
//	– ErrAmbiguousValidatingCarrier if no unique carrier can be determined.
//	– ErrNoCommonValidatingCarrier  if a fare path's per-unit eligible sets
//	  share no carrier (returned by the acceptance validator, defined here
//	  beside its sibling).
package vcarrier
