// Package combine — the end-on-end failure cache.
//
// cache.go — an append-only map from ordered fare-identity pairs to "known
// incompatible". A recorded pair is a binding rejection for the rest of the
// search, never a heuristic: nothing later can invalidate it, so hits skip
// the full pairwise pass outright.
package combine

import "github.com/aerofare/farepath/fare"

// pairKey is an ordered fare-identity pair.
type pairKey struct {
	src, dst fare.FareID
}

// FailureCache maps ordered fare pairs to known end-on-end incompatibility.
// It grows monotonically during one search and belongs to that search alone.
type FailureCache struct {
	failed map[pairKey]struct{}
}

// NewFailureCache returns an empty cache.
func NewFailureCache() *FailureCache {
	return &FailureCache{failed: make(map[pairKey]struct{})}
}

// Record inserts the ordered pair (src, dst) as known incompatible.
func (c *FailureCache) Record(src, dst fare.FareID) {
	c.failed[pairKey{src: src, dst: dst}] = struct{}{}
}

// Known reports whether the ordered pair (src, dst) is a recorded failure.
func (c *FailureCache) Known(src, dst fare.FareID) bool {
	_, ok := c.failed[pairKey{src: src, dst: dst}]

	return ok
}

// Len returns the number of recorded pairs.
func (c *FailureCache) Len() int { return len(c.failed) }

// FirstKnownFailure scans the ordered fare sequence and returns the first
// recorded pair it contains (earliest source fare, then earliest target
// fare after it), or ok=false when the sequence holds no known failure.
func (c *FailureCache) FirstKnownFailure(seq []fare.FareID) (src, dst fare.FareID, ok bool) {
	if len(c.failed) == 0 {
		return "", "", false
	}
	for i := 0; i < len(seq); i++ {
		for j := i + 1; j < len(seq); j++ {
			if c.Known(seq[i], seq[j]) {
				return seq[i], seq[j], true
			}
		}
	}

	return "", "", false
}
