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
	"math"
)

// MeanVariance accumulates count, mean and sum of squared deviations using Welford's online algorithm:
// https://en.wikipedia.org/wiki/Algorithms_for_calculating_variance
type MeanVariance struct {
	count int
	mean  float64
	m2    float64
}

func NewMeanVariance() *MeanVariance {
	return &MeanVariance{}
}

// NewMeanVarianceFrom restores a statistic from its serialized fields.
func NewMeanVarianceFrom(count int, mean, m2 float64) *MeanVariance {
	return &MeanVariance{count: count, mean: mean, m2: m2}
}

func (mv *MeanVariance) Add(v float64) {
	if !known(v) {
		v = 0
	}
	mv.count++
	delta := v - mv.mean
	mv.mean += delta / float64(mv.count)
	mv.m2 += delta * (v - mv.mean)
}

func (mv *MeanVariance) Count() int {
	return mv.count
}

func (mv *MeanVariance) Mean() float64 {
	return mv.mean
}

func (mv *MeanVariance) M2() float64 {
	return mv.m2
}

// Variance is the sample variance, 0 below two observations.
func (mv *MeanVariance) Variance() float64 {
	if mv.count < 2 {
		return 0
	}
	return mv.m2 / float64(mv.count-1)
}

// validVariance falls back to the square root of the count when the variance is not usable.
func (mv *MeanVariance) validVariance() float64 {
	if v := mv.Variance(); v > 0 {
		return v
	}
	return math.Sqrt(float64(mv.count))
}

func (mv *MeanVariance) Distance(v float64) (float64, bool) {
	if !known(v) || v == 0 {
		return 0, false
	}
	variance := mv.validVariance()
	if variance == 0 {
		return 0, false
	}
	diff := v - mv.mean
	return 1 - math.Exp(-(diff*diff)/(2*variance)), true
}

// ObjectDistance compares two statistics by the distance of their means relative to their variances.
func (mv *MeanVariance) ObjectDistance(other *MeanVariance) float64 {
	diff := math.Abs(mv.mean - other.mean)
	denom := (mv.validVariance() + other.validVariance()) / 2
	if denom == 0 {
		if diff == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return diff / denom
}

func (mv *MeanVariance) merge(other *MeanVariance) {
	if other.count == 0 {
		return
	}
	if mv.count == 0 {
		*mv = *other
		return
	}
	n1, n2 := float64(mv.count), float64(other.count)
	n := n1 + n2
	delta := other.mean - mv.mean
	mv.mean += delta * n2 / n
	mv.m2 += other.m2 + delta*delta*n1*n2/n
	mv.count += other.count
}

// Merge folds another statistic into this one. Clustered statistics are merged through their components.
func (mv *MeanVariance) Merge(other Statistic) error {
	switch o := other.(type) {
	case *MeanVariance:
		mv.merge(o)
	case *SplittedStatistics:
		for _, c := range o.Components() {
			c := c
			mv.merge(&c)
		}
	default:
		return fmt.Errorf("can't merge %T into mean/variance", other)
	}
	return nil
}

func (mv *MeanVariance) Clone() Statistic {
	c := *mv
	return &c
}

func (mv *MeanVariance) Components() []MeanVariance {
	if mv.count == 0 {
		return nil
	}
	return []MeanVariance{*mv}
}

func (mv *MeanVariance) String() string {
	return fmt.Sprintf("MeanVariance(count=%d, mean=%v, variance=%v)", mv.count, mv.mean, mv.Variance())
}
