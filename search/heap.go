// Package search — the frontier item and its priority queue.
package search

import (
	"strconv"
	"strings"

	"github.com/aerofare/farepath/fare"
)

// frontierItem is one priority-queue element: a lattice coordinate, the
// pricing-unit handle per slot (HandleNone where the slot's source has not
// materialized its item yet), and the priority metadata.
type frontierItem struct {
	coord []int             // per-slot source indices
	units []fare.UnitHandle // resolved units; HandleNone = pending
	cost  float64           // sum of resolved unit costs (lower bound while paused)

	// frontier is the lowest slot index successors may vary; slots below it
	// are fixed for this subtree.
	frontier int

	// accepted holds the validated fare path once full validation passed;
	// re-popping an accepted item returns it without side effects.
	accepted *fare.FarePath

	// seq is the discovery sequence, the final tie-break key.
	seq int
}

// paused reports whether any slot is still pending materialization.
func (fi *frontierItem) paused() bool {
	for _, h := range fi.units {
		if h == fare.HandleNone {
			return true
		}
	}

	return false
}

// key renders the coordinate as the canonical map key ("0.2.1").
func (fi *frontierItem) key() string { return coordKey(fi.coord) }

// coordKey joins a coordinate with dots.
func coordKey(coord []int) string {
	var b strings.Builder
	for i, c := range coord {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(c))
	}

	return b.String()
}

// slotKey identifies one (slot, index) cell for the per-unit verdict memo.
func slotKey(slot, index int) string {
	return strconv.Itoa(slot) + ":" + strconv.Itoa(index)
}

// frontierPQ is a min-heap of frontier items ordered by cost within eps,
// then lexicographic coordinate, then discovery sequence. Implements
// container/heap.Interface; callers go through heap.Push/heap.Pop.
type frontierPQ struct {
	items []*frontierItem
	eps   float64
}

func (pq *frontierPQ) Len() int { return len(pq.items) }

func (pq *frontierPQ) Less(i, j int) bool { return lessItems(pq.items[i], pq.items[j], pq.eps) }

// lessItems is the single ordering used by both queues and by the
// cross-queue pop: cost within eps, then lexicographic coordinate, then
// discovery sequence. The coordinate key keeps equal-cost order
// reproducible across runs regardless of fan-out completion order.
func lessItems(a, b *frontierItem, eps float64) bool {
	if d := a.cost - b.cost; d < -eps || d > eps {
		return d < 0
	}
	for k := range a.coord {
		if k >= len(b.coord) {
			break
		}
		if a.coord[k] != b.coord[k] {
			return a.coord[k] < b.coord[k]
		}
	}

	return a.seq < b.seq
}

func (pq *frontierPQ) Swap(i, j int) { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }

func (pq *frontierPQ) Push(x any) { pq.items = append(pq.items, x.(*frontierItem)) }

func (pq *frontierPQ) Pop() any {
	n := len(pq.items)
	it := pq.items[n-1]
	pq.items[n-1] = nil
	pq.items = pq.items[:n-1]

	return it
}

// peek returns the cheapest item without removing it, nil when empty.
func (pq *frontierPQ) peek() *frontierItem {
	if len(pq.items) == 0 {
		return nil
	}

	return pq.items[0]
}
