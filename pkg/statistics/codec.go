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
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalJSON writes the (count, mean, M2) tuple.
func (mv *MeanVariance) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{float64(mv.count), mv.mean, mv.m2})
}

func (mv *MeanVariance) UnmarshalJSON(data []byte) error {
	var tuple []float64
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 3 {
		return fmt.Errorf("mean/variance expects 3 fields, got %d", len(tuple))
	}
	*mv = MeanVariance{count: int(tuple[0]), mean: tuple[1], m2: tuple[2]}
	return nil
}

// MarshalJSON writes the list of cluster tuples by ascending mean.
func (s *SplittedStatistics) MarshalJSON() ([]byte, error) {
	components := s.Components()
	tuples := make([][]float64, 0, len(components))
	for _, c := range components {
		tuples = append(tuples, []float64{float64(c.count), c.mean, c.m2})
	}
	return json.Marshal(tuples)
}

func (s *SplittedStatistics) UnmarshalJSON(data []byte) error {
	var tuples [][]float64
	if err := json.Unmarshal(data, &tuples); err != nil {
		return err
	}
	if s.threshold <= 0 {
		s.threshold = DefaultSplitThreshold
	}
	s.zero = MeanVariance{}
	s.clusters = nil
	for i, t := range tuples {
		if len(t) != 3 {
			return fmt.Errorf("cluster %d expects 3 fields, got %d", i, len(t))
		}
		mv := MeanVariance{count: int(t[0]), mean: t[1], m2: t[2]}
		if i == 0 && mv.mean == 0 && mv.m2 == 0 {
			s.zero = mv
			continue
		}
		s.clusters = append(s.clusters, &mv)
	}
	return nil
}

// Unmarshal decodes a serialized statistic, telling the kind apart by its shape:
// a flat tuple is a mean/variance, a list of tuples a splitted statistic.
func Unmarshal(data []byte) (Statistic, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) < 2 || trimmed[0] != '[' {
		return nil, fmt.Errorf("unexpected statistic encoding %q", string(data))
	}
	inner := bytes.TrimSpace(trimmed[1:])
	if len(inner) > 0 && (inner[0] == '[' || inner[0] == ']') {
		s := NewSplitted(DefaultSplitThreshold)
		if err := s.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return s, nil
	}
	mv := NewMeanVariance()
	if err := mv.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return mv, nil
}
