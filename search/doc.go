// Package search implements best-first enumeration of fare paths over a
// pricing-unit lattice.
//
// The search owns a min-heap of frontier items, one per un-expanded lattice
// coordinate. Each call to Next pops the cheapest coordinate, validates it
// (per-unit combinability, end-on-end, final acceptance) and, whether or not
// it validates, expands successors by advancing one slot index at a time.
// Accepted paths come back in non-decreasing aggregate cost order; ties are
// broken by lexicographic lattice coordinate, then by discovery sequence.
//
// Complexity:
//
//   - Each coordinate is enqueued at most once (coordinate-keyed seen set)
//     and popped at most twice (once to validate, once more when an
//     accepted carrier clone is re-popped): O(K·N) heap entries for a
//     lattice of N slots with K alternatives each, O(log(K·N)) per
//     operation.
//   - Successor construction fans out one goroutine per open slot and joins
//     before anything is pushed; a failed slot drops that branch only.
//
// Termination: ErrExhausted once every reachable coordinate has been
// settled; ErrAborted when the caller's context is cancelled (checked
// sparsely, every AbortCheckInterval pops). Exceeding the push-back budget
// switches the search into flush mode — remaining items are drained in cost
// order without further expansion, trading completeness for termination.
package search
