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

package decorator

import (
	"github.com/netobserv/treedistance/pkg/algorithm"
	"github.com/netobserv/treedistance/pkg/event"
)

// Distance records the mean normalized distance vector after every event, by stream.
type Distance struct {
	*chain
	NoHooks
	vectors map[string][][]float64
}

func NewDistance(inner algorithm.Algorithm) *Distance {
	d := &Distance{vectors: map[string][][]float64{}}
	d.chain = newChain(inner, d)
	return d
}

func (d *Distance) Name() string {
	return string(distanceName)
}

func (d *Distance) BeforeStartTree() {
	d.vectors[d.stream] = nil
}

func (d *Distance) AfterEvent(_ event.Event, r algorithm.Result, err error) error {
	if err == nil {
		d.vectors[d.stream] = append(d.vectors[d.stream], r.Mean())
	}
	return err
}

func (d *Distance) merge(other Decorator) error {
	for stream, vectors := range other.(*Distance).vectors {
		d.vectors[stream] = append(d.vectors[stream], vectors...)
	}
	return nil
}

func (d *Distance) collected() interface{} {
	out := make(map[string][][]float64, len(d.vectors))
	for k, v := range d.vectors {
		out[k] = v
	}
	return out
}

func (d *Distance) wrap(inner algorithm.Algorithm) Decorator {
	return NewDistance(inner)
}
