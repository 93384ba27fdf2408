package router

import (
	"container/heap"

	"github.com/katalvlaran/pinroute/spatial"
)

// pairEntry is one schedulable pin pair keyed by its Manhattan
// distance; seq keeps equal distances in discovery order.
type pairEntry struct {
	pair spatial.PinPair
	dist int
	seq  int
}

// pairQueue is a min-heap of pin pairs, nearest pair first. It plays
// the role of a distance-keyed multimap: Pop always yields the
// smallest remaining distance.
type pairQueue struct {
	entries []pairEntry
}

func (q *pairQueue) Len() int { return len(q.entries) }
func (q *pairQueue) Less(i, j int) bool {
	if q.entries[i].dist != q.entries[j].dist {
		return q.entries[i].dist < q.entries[j].dist
	}
	return q.entries[i].seq < q.entries[j].seq
}
func (q *pairQueue) Swap(i, j int) {
	q.entries[i], q.entries[j] = q.entries[j], q.entries[i]
}
func (q *pairQueue) Push(x any) {
	q.entries = append(q.entries, x.(pairEntry))
}
func (q *pairQueue) Pop() any {
	old := q.entries
	n := len(old)
	entry := old[n-1]
	q.entries = old[:n-1]
	return entry
}

// PopPair removes and returns the nearest pin pair.
func (q *pairQueue) PopPair() spatial.PinPair {
	return heap.Pop(q).(pairEntry).pair
}

// newPairQueue builds the queue of every unordered pin pair within
// every pin set, keyed by Manhattan distance so that the nearest
// pairs are attempted first.
func newPairQueue(pinSets []spatial.PinSet) *pairQueue {
	q := &pairQueue{}
	seq := 0
	for _, set := range pinSets {
		for i := 0; i < len(set); i++ {
			for j := i + 1; j < len(set); j++ {
				pair := spatial.PinPair{A: set[i], B: set[j]}
				q.entries = append(q.entries, pairEntry{pair: pair, dist: pair.Distance(), seq: seq})
				seq++
			}
		}
	}
	heap.Init(q)
	return q
}

// snapshot returns a copy of the queue entries for later restore.
func (q *pairQueue) snapshot() []pairEntry {
	return append([]pairEntry{}, q.entries...)
}

// restore resets the queue to a previously taken snapshot.
func (q *pairQueue) restore(entries []pairEntry) {
	q.entries = append([]pairEntry{}, entries...)
	heap.Init(q)
}
