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

package ingest

import (
	"fmt"
	"strconv"

	"github.com/Knetic/govaluate"
)

// filter keeps the records for which a boolean expression holds. Numeric looking values are
// compared as numbers.
type filter struct {
	expression *govaluate.EvaluableExpression
}

func newFilter(expr string) (*filter, error) {
	if expr == "" {
		return nil, nil
	}
	expression, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}
	return &filter{expression: expression}, nil
}

func (f *filter) keep(row map[string]interface{}) (bool, error) {
	if f == nil {
		return true, nil
	}
	params := make(map[string]interface{}, len(row))
	for k, v := range row {
		if s, ok := v.(string); ok {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				params[k] = n
				continue
			}
		}
		params[k] = v
	}
	out, err := f.expression.Evaluate(params)
	if err != nil {
		return false, err
	}
	keep, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q is not a boolean expression", f.expression.String())
	}
	return keep, nil
}
