// Package farepath is an in-process engine that prices air itineraries by
// combining independently-ranked pricing-unit alternatives into complete,
// rule-valid fare solutions, returned cheapest-first for as long as the
// caller keeps asking.
//
// 🚀 What is farepath?
//
//	A deterministic, dependency-light library that brings together:
//		• A best-first lattice search over per-slot pricing-unit alternatives
//		• A combinability rule engine (per-unit and end-on-end) with a
//		  monotone failure cache
//		• A final-acceptance validator running cross-cutting business checks
//		• A deterministic validating-carrier tie-break and clone/merge logic
//
// ✨ Why choose farepath?
//
//   - Best-first guarantees – fare paths come back in non-decreasing cost
//     order, with reproducible tie-breaks
//   - Strict sentinels – every failure mode is a typed, errors.Is-able error
//   - Pull-based – the caller drives; nothing is computed ahead of need
//   - Extensible – pricing-unit sources, rule sets, brand and carrier-swap
//     accessors are all injected interfaces
//
// Everything is organized under six subpackages:
//
//	itin/     — itineraries, travel segments, carriers, IATA geography
//	fare/     — fares, fare usages, pricing units, fare paths, the arena
//	combine/  — combinability rule evaluation and the end-on-end failure cache
//	vcarrier/ — default validating-carrier resolution and clone partitioning
//	accept/   — the final fare-path admission gate
//	search/   — the lazy best-first fare-path search itself
//
// Quick sketch:
//
//	    slot 0        slot 1        slot 2
//	   [PU 50]       [PU 60]       [PU 40]      ← index 0, cheapest
//	   [PU 70]       [PU 80]       [PU 55]
//	      │             │             │
//	      └──────── FarePathSearch ───┘
//	                    │
//	            Next() → cheapest valid FarePath
//
//	go get github.com/aerofare/farepath
package farepath
