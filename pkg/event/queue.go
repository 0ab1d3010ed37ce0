/*
 * Copyright (C) 2024 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package event

import "container/heap"

const trafficRank = -1 << 20

type pending struct {
	event Event
	rank  int
	seq   int
}

type pendingHeap []pending

func (h pendingHeap) Len() int { return len(h) }
func (h pendingHeap) Less(i, j int) bool {
	if h[i].event.Tme != h[j].event.Tme {
		return h[i].event.Tme < h[j].event.Tme
	}
	if h[i].rank != h[j].rank {
		return h[i].rank < h[j].rank
	}
	return h[i].seq < h[j].seq
}
func (h pendingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *pendingHeap) Push(x interface{}) {
	*h = append(*h, x.(pending))
}
func (h *pendingHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue holds deferred events (exits, traffic samples) ordered by time.
// At equal time traffic comes first, then exits of deeper processes, then insertion order.
type Queue struct {
	items pendingHeap
	seq   int
}

// PushExit defers an exit event of a process at the given depth.
func (q *Queue) PushExit(e Event, depth int) {
	q.push(e, -depth)
}

// PushTraffic defers a traffic sample.
func (q *Queue) PushTraffic(e Event) {
	q.push(e, trafficRank)
}

func (q *Queue) push(e Event, rank int) {
	heap.Push(&q.items, pending{event: e, rank: rank, seq: q.seq})
	q.seq++
}

func (q *Queue) Len() int {
	return q.items.Len()
}

// Before reports whether the earliest deferred event happens strictly before tme.
// Starts sharing the timestamp of a pending event are emitted first.
func (q *Queue) Before(tme float64) bool {
	return q.items.Len() > 0 && q.items[0].event.Tme < tme
}

func (q *Queue) Pop() Event {
	return heap.Pop(&q.items).(pending).event
}
