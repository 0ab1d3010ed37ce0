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

package statistics

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultSplitThreshold is the distance up to which a value joins its nearest cluster.
const DefaultSplitThreshold = 0.5

// mergeDistance is the object distance up to which neighbouring clusters are joined.
const mergeDistance = 1

// SplittedStatistics approximates a 1-D distribution with clusters of mean/variance statistics.
// Zero values go to a dedicated zero cluster that is reported first.
type SplittedStatistics struct {
	threshold float64
	zero      MeanVariance
	clusters  []*MeanVariance
}

func NewSplitted(threshold float64) *SplittedStatistics {
	if threshold <= 0 {
		threshold = DefaultSplitThreshold
	}
	return &SplittedStatistics{threshold: threshold}
}

// insertionPoint is the index of the first cluster whose mean is not lower than v.
func (s *SplittedStatistics) insertionPoint(v float64) int {
	return sort.Search(len(s.clusters), func(i int) bool {
		return s.clusters[i].mean >= v
	})
}

func (s *SplittedStatistics) Add(v float64) {
	if !known(v) || v == 0 {
		s.zero.Add(0)
		return
	}
	idx := s.insertionPoint(v)
	nearest, best := -1, 0.0
	for _, i := range []int{idx - 1, idx} {
		if i < 0 || i >= len(s.clusters) {
			continue
		}
		if d, ok := s.clusters[i].Distance(v); ok && (nearest < 0 || d < best) {
			nearest, best = i, d
		}
	}
	if nearest >= 0 && best <= s.threshold {
		s.clusters[nearest].Add(v)
		s.mergeNeighbours(nearest)
		return
	}
	mv := NewMeanVariance()
	mv.Add(v)
	s.insertCluster(idx, mv)
	s.mergeNeighbours(idx)
}

func (s *SplittedStatistics) insertCluster(idx int, mv *MeanVariance) {
	s.clusters = append(s.clusters, nil)
	copy(s.clusters[idx+1:], s.clusters[idx:])
	s.clusters[idx] = mv
}

// mergeNeighbours joins the cluster at idx with its neighbours, transitively, while they are close enough.
func (s *SplittedStatistics) mergeNeighbours(idx int) {
	for {
		switch {
		case idx > 0 && s.clusters[idx-1].ObjectDistance(s.clusters[idx]) <= mergeDistance:
			s.clusters[idx-1].merge(s.clusters[idx])
			s.clusters = append(s.clusters[:idx], s.clusters[idx+1:]...)
			idx--
		case idx+1 < len(s.clusters) && s.clusters[idx].ObjectDistance(s.clusters[idx+1]) <= mergeDistance:
			s.clusters[idx].merge(s.clusters[idx+1])
			s.clusters = append(s.clusters[:idx+1], s.clusters[idx+2:]...)
		default:
			return
		}
	}
}

func (s *SplittedStatistics) addCluster(mv MeanVariance) {
	if mv.count == 0 {
		return
	}
	if mv.mean == 0 && mv.m2 == 0 {
		s.zero.merge(&mv)
		return
	}
	idx := s.insertionPoint(mv.mean)
	s.insertCluster(idx, &mv)
	s.mergeNeighbours(idx)
}

func (s *SplittedStatistics) total() MeanVariance {
	var t MeanVariance
	for _, c := range s.Components() {
		c := c
		t.merge(&c)
	}
	return t
}

func (s *SplittedStatistics) Count() int {
	count := s.zero.count
	for _, c := range s.clusters {
		count += c.count
	}
	return count
}

func (s *SplittedStatistics) Mean() float64 {
	t := s.total()
	return t.mean
}

func (s *SplittedStatistics) Variance() float64 {
	t := s.total()
	return t.Variance()
}

// Clusters is the number of groups, the zero cluster included.
func (s *SplittedStatistics) Clusters() int {
	return len(s.Components())
}

// Distance is the lowest distance to the clusters around the insertion point of v.
func (s *SplittedStatistics) Distance(v float64) (float64, bool) {
	if !known(v) || v == 0 {
		return 0, false
	}
	all := s.Components()
	idx := sort.Search(len(all), func(i int) bool {
		return all[i].mean >= v
	})
	found, best := false, 0.0
	for _, i := range []int{idx - 1, idx} {
		if i < 0 || i >= len(all) {
			continue
		}
		if d, ok := all[i].Distance(v); ok && (!found || d < best) {
			found, best = true, d
		}
	}
	return best, found
}

func (s *SplittedStatistics) Merge(other Statistic) error {
	switch o := other.(type) {
	case *MeanVariance, *SplittedStatistics:
		for _, c := range o.Components() {
			s.addCluster(c)
		}
	default:
		return fmt.Errorf("can't merge %T into splitted statistics", other)
	}
	return nil
}

func (s *SplittedStatistics) Clone() Statistic {
	c := &SplittedStatistics{threshold: s.threshold, zero: s.zero}
	c.clusters = make([]*MeanVariance, len(s.clusters))
	for i, mv := range s.clusters {
		cp := *mv
		c.clusters[i] = &cp
	}
	return c
}

func (s *SplittedStatistics) Components() []MeanVariance {
	out := make([]MeanVariance, 0, len(s.clusters)+1)
	if s.zero.count > 0 {
		out = append(out, s.zero)
	}
	for _, c := range s.clusters {
		out = append(out, *c)
	}
	return out
}

func (s *SplittedStatistics) String() string {
	parts := make([]string, 0, len(s.clusters)+1)
	for _, c := range s.Components() {
		parts = append(parts, c.String())
	}
	return "SplittedStatistics[" + strings.Join(parts, ", ") + "]"
}
