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

// Unknown marks an observation without a measured value.
var Unknown = math.NaN()

// Kind selects a statistic implementation.
type Kind string

const (
	KindMeanVariance Kind = "meanvariance"
	KindSplitted     Kind = "splitted"
)

// Statistic is a running summary of the values observed for one (token, event type) pair.
type Statistic interface {
	// Add records a value. Unknown values are recorded as zero.
	Add(v float64)
	Count() int
	Mean() float64
	Variance() float64
	// Distance returns a value in [0, 1] between v and the summary.
	// The second result is false for unknown or zero values.
	Distance(v float64) (float64, bool)
	Merge(other Statistic) error
	Clone() Statistic
	// Components lists the mean/variance groups the statistic is made of, by ascending mean.
	Components() []MeanVariance
}

// New builds an empty statistic of the given kind. Empty kind defaults to mean/variance.
func New(kind Kind) (Statistic, error) {
	switch kind {
	case KindMeanVariance, "":
		return NewMeanVariance(), nil
	case KindSplitted:
		return NewSplitted(DefaultSplitThreshold), nil
	}
	return nil, fmt.Errorf("unknown statistic kind %q", kind)
}

func known(v float64) bool {
	return !math.IsNaN(v)
}
