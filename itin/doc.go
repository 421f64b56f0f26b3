// Package itin models the immutable travel itinerary that every fare-path
// search operates on: an ordered sequence of travel segments, each carrying
// its marketing/operating carriers and the IATA geography of both endpoints.
//
// An Itinerary is built once, validated once, and never mutated afterwards;
// every search, rule engine and resolver in this module shares it read-only
// across goroutines without locking.
//
// The package also owns the small amount of IATA geography the module needs:
//
//   - Area (IATA traffic conference areas 1–3) and SubArea codes, consumed by
//     the validating-carrier area-transition tie-break.
//   - Nation codes with the two settlement carve-outs the tie-break and the
//     acceptance rules require: the United States and Canada count as one
//     country, and the Scandinavian nations (SE/NO/DK) count as one country.
//
// Errors (sentinel):
//
//	– ErrNoSegments     if an itinerary is constructed with no segments.
//	– ErrSegmentOrder   if segment order indices are not strictly increasing.
//
// Example usage:
//
//	it, err := itin.New([]itin.Segment{
//	    {Origin: jfk, Destination: lhr, Marketing: "AA", Leg: 0},
//	    {Origin: lhr, Destination: jfk, Marketing: "BA", Leg: 1},
//	})
//	if err != nil { ... }
//	fmt.Println(it.Len(), it.MarketingCarriers())
package itin
