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
	"fmt"
	"math"
	"sort"

	"github.com/Knetic/govaluate"
	"github.com/netobserv/treedistance/pkg/algorithm"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/distance"
	"github.com/netobserv/treedistance/pkg/event"
)

const DefaultAnomalyCondition = "normalized > 0.5"

// Anomaly flags the events after which the distance matches a condition. The condition is a
// boolean expression over
//   - distance: lowest raw distance to a prototype, averaged over positions
//   - normalized: lowest normalized distance to a prototype, averaged over positions
//   - events: number of events of the tree so far
type Anomaly struct {
	*chain
	NoHooks
	condition  string
	expression *govaluate.EvaluableExpression

	events    int
	anomalies []config.GenericMap
}

func NewAnomaly(inner algorithm.Algorithm, condition string) (*Anomaly, error) {
	if condition == "" {
		condition = DefaultAnomalyCondition
	}
	expression, err := govaluate.NewEvaluableExpression(condition)
	if err != nil {
		return nil, fmt.Errorf("invalid anomaly condition %q: %w", condition, err)
	}
	d := &Anomaly{condition: condition, expression: expression}
	d.chain = newChain(inner, d)
	return d, nil
}

func (d *Anomaly) Name() string {
	return string(anomalyName)
}

func (d *Anomaly) BeforeStartTree() {
	d.events = 0
}

func lowest(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	low := math.Inf(1)
	for _, v := range values {
		low = math.Min(low, v)
	}
	return low
}

func (d *Anomaly) AfterEvent(e event.Event, r algorithm.Result, err error) error {
	d.events++
	if err != nil {
		return err
	}
	params := map[string]interface{}{
		"distance":   lowest(distance.MeanOverPositions(r.Distances)),
		"normalized": lowest(r.Mean()),
		"events":     float64(d.events),
	}
	match, evalErr := d.expression.Evaluate(params)
	if evalErr != nil {
		dlog.Warningf("anomaly condition %q: %v", d.condition, evalErr)
		return nil
	}
	if flagged, ok := match.(bool); ok && flagged {
		d.anomalies = append(d.anomalies, config.GenericMap{
			"stream":     d.stream,
			"event":      d.events,
			"type":       e.Type.String(),
			"pid":        e.Pid,
			"name":       e.Name,
			"distance":   params["distance"],
			"normalized": params["normalized"],
		})
	}
	return nil
}

func (d *Anomaly) merge(other Decorator) error {
	d.anomalies = append(d.anomalies, other.(*Anomaly).anomalies...)
	return nil
}

func (d *Anomaly) collected() interface{} {
	out := append([]config.GenericMap(nil), d.anomalies...)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i]["stream"].(string), out[j]["stream"].(string)
		if si != sj {
			return si < sj
		}
		return out[i]["event"].(int) < out[j]["event"].(int)
	})
	return out
}

func (d *Anomaly) wrap(inner algorithm.Algorithm) Decorator {
	c := &Anomaly{condition: d.condition, expression: d.expression}
	c.chain = newChain(inner, c)
	return c
}
