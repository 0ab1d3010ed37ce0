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

// DecoratorType defines the observers that can wrap the distance algorithm.
// For doc generation, enum definitions must match format `Constant Type = "value" // doc`
type DecoratorType string

const (
	DecoratorPerformance DecoratorType = "performance" // durations of events and trees
	DecoratorDistance    DecoratorType = "distance"    // distance vector after each event
	DecoratorAnomaly     DecoratorType = "anomaly"     // flags events matching a condition on the distance
	DecoratorSignature   DecoratorType = "signature"   // tokens emitted for each event
	DecoratorMatrix      DecoratorType = "matrix"      // stream by prototype table of terminal distances
	DecoratorCounter     DecoratorType = "counter"     // number of events per type
)

type Decorator struct {
	Type      DecoratorType `yaml:"type" json:"type" doc:"(enum) decorator:"`
	Condition string        `yaml:"condition,omitempty" json:"condition,omitempty" doc:"anomaly: boolean expression over distance, normalized and events (default: normalized > 0.5)"`
	Rows      int           `yaml:"rows,omitempty" json:"rows,omitempty" doc:"matrix: maximum number of streams (default: unbounded)"`
}

// Prototypes locates the reference trees the monitored streams are compared with.
type Prototypes struct {
	Files           []string `yaml:"files,omitempty" json:"files,omitempty" doc:"process record files, one prototype per file"`
	Representatives string   `yaml:"representatives,omitempty" json:"representatives,omitempty" doc:"cluster representatives json file, one prototype per cluster"`
	CachePath       string   `yaml:"cachePath,omitempty" json:"cachePath,omitempty" doc:"file where indexed prototypes are stored between runs"`
	Refresh         bool     `yaml:"refresh,omitempty" json:"refresh,omitempty" doc:"rebuild the stored prototype index even if present"`
}

type Compute struct {
	Signature  Signature   `yaml:"signature" json:"signature" doc:"node signature"`
	Distance   Distance    `yaml:"distance" json:"distance" doc:"distance kernel"`
	Prototypes Prototypes  `yaml:"prototypes" json:"prototypes" doc:"prototype trees"`
	Events     EventTypes  `yaml:"events,omitempty" json:"events,omitempty" doc:"optional event types replayed from prototypes"`
	CacheSize  int         `yaml:"cacheSize,omitempty" json:"cacheSize,omitempty" doc:"maximum number of tokens kept for a monitored tree (default: unbounded)"`
	CacheRatio int         `yaml:"cacheRatio,omitempty" json:"cacheRatio,omitempty" doc:"number of evicted token scores remembered, as a multiple of cacheSize (default: 1)"`
	Decorators []Decorator `yaml:"decorators,omitempty" json:"decorators,omitempty" doc:"observers of the distance computation"`
	Workers    int         `yaml:"workers,omitempty" json:"workers,omitempty" doc:"number of streams processed in parallel (default: 1)"`
	Strict     bool        `yaml:"strict,omitempty" json:"strict,omitempty" doc:"report events no kernel supports as errors"`
}

type EventTypes struct {
	Exit      bool `yaml:"exit,omitempty" json:"exit,omitempty" doc:"replay exit events"`
	Traffic   bool `yaml:"traffic,omitempty" json:"traffic,omitempty" doc:"replay traffic events"`
	Parameter bool `yaml:"parameter,omitempty" json:"parameter,omitempty" doc:"replay parameter events"`
}

func (c *Compute) GetWorkers() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}

func (c *Compute) GetCacheRatio() int {
	if c.CacheRatio < 1 {
		return 1
	}
	return c.CacheRatio
}
