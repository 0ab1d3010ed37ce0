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

package api

// DistanceKernel defines the supported distance kernels.
// For doc generation, enum definitions must match format `Constant Type = "value" // doc`
type DistanceKernel string

const (
	KernelSimple            DistanceKernel = "simple"            // seeded with the prototype tokens, -1 per matched and +1 per unmatched new token
	KernelSimple2           DistanceKernel = "simple2"           // symmetric difference of token sets
	KernelAdditionalMissing DistanceKernel = "additionalMissing" // additional plus missing events
	KernelStartExit         DistanceKernel = "startExit"         // weighted per event type, compares measured values with prototype statistics
)

// StatisticsType defines the statistics attached to cached tokens.
type StatisticsType string

const (
	StatisticsMeanVariance StatisticsType = "meanvariance" // running mean and variance
	StatisticsSplitted     StatisticsType = "splitted"     // adaptive clusters of running mean and variance
)

type Distance struct {
	Kernel        DistanceKernel     `yaml:"kernel" json:"kernel" doc:"(enum) distance kernel:"`
	Weights       map[string]float64 `yaml:"weights,omitempty" json:"weights,omitempty" doc:"startExit weight per event type (start, exit, traffic, parameter); default start only"`
	MatchFactor   float64            `yaml:"matchFactor,omitempty" json:"matchFactor,omitempty" doc:"startExit: number of matches allowed per expected prototype event (default: 2)"`
	MissingFactor float64            `yaml:"missingFactor,omitempty" json:"missingFactor,omitempty" doc:"additionalMissing: share of prototype events expected before missing events stop accruing (default: 0.9)"`
	Statistics    StatisticsType     `yaml:"statistics,omitempty" json:"statistics,omitempty" doc:"(enum) statistics kept per token and event type:"`
}

func (d *Distance) GetMatchFactor() float64 {
	if d.MatchFactor <= 0 {
		return 2
	}
	return d.MatchFactor
}

func (d *Distance) GetMissingFactor() float64 {
	if d.MissingFactor <= 0 {
		return 0.9
	}
	return d.MissingFactor
}

// GetWeights returns the per event type weights, start only when unset.
func (d *Distance) GetWeights() map[string]float64 {
	if len(d.Weights) == 0 {
		return map[string]float64{"start": 1}
	}
	return d.Weights
}
