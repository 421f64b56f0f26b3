// Package vcarrier — candidate partitioning for carrier-specific clones.
//
// partition.go — splits a fare path's eligible validating carriers into the
// disjoint groups the search clones candidates over: one group per
// governing marketing carrier, so every clone settles through a single
// marketing relationship.
package vcarrier

import "github.com/aerofare/farepath/itin"

// Partition splits the candidate set into disjoint groups keyed by the
// first itinerary marketing carrier each candidate may settle for.
// Candidates corresponding to no marketing carrier become trailing
// singleton groups. Group order follows the itinerary's marketing-carrier
// order, then candidate order: deterministic for identical inputs.
func (r *Resolver) Partition(it *itin.Itinerary, candidates []itin.Carrier) [][]itin.Carrier {
	if len(candidates) == 0 {
		return nil
	}

	assigned := make(map[itin.Carrier]bool, len(candidates))
	var groups [][]itin.Carrier

	for _, m := range it.MarketingCarriers() {
		var g []itin.Carrier
		for _, v := range candidates {
			if !assigned[v] && r.corresponds(v, m) {
				g = append(g, v)
				assigned[v] = true
			}
		}
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}

	// Orphans: candidates with no marketing relationship on this itinerary.
	for _, v := range candidates {
		if !assigned[v] {
			groups = append(groups, []itin.Carrier{v})
		}
	}

	return groups
}
