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

	"github.com/netobserv/treedistance/pkg/algorithm"
	"github.com/netobserv/treedistance/pkg/config"
)

// Matrix keeps the terminal mean distances of every stream to every prototype.
// With a positive number of rows, streams beyond that number are rejected with ErrMatrixBounds.
type Matrix struct {
	*chain
	NoHooks
	rows   int
	values map[string][]float64
}

func NewMatrix(inner algorithm.Algorithm, rows int) *Matrix {
	d := &Matrix{rows: rows, values: map[string][]float64{}}
	d.chain = newChain(inner, d)
	return d
}

func (d *Matrix) Name() string {
	return string(matrixName)
}

func (d *Matrix) set(stream string, row []float64) error {
	if _, ok := d.values[stream]; !ok && d.rows > 0 && len(d.values) >= d.rows {
		return fmt.Errorf("stream %s beyond %d rows: %w", stream, d.rows, ErrMatrixBounds)
	}
	if cols := len(d.Prototypes()); len(row) != cols {
		return fmt.Errorf("stream %s has %d columns, expected %d: %w", stream, len(row), cols, ErrMatrixBounds)
	}
	d.values[stream] = row
	return nil
}

func (d *Matrix) AfterFinishTree(r algorithm.Result, err error) error {
	if err != nil {
		return err
	}
	return d.set(d.stream, r.Mean())
}

// Get returns the terminal distance of a stream to the prototype at column p.
func (d *Matrix) Get(stream string, p int) (float64, error) {
	row, ok := d.values[stream]
	if !ok || p < 0 || p >= len(row) {
		return 0, fmt.Errorf("%s[%d]: %w", stream, p, ErrMatrixBounds)
	}
	return row[p], nil
}

func (d *Matrix) merge(other Decorator) error {
	for stream, row := range other.(*Matrix).values {
		if err := d.set(stream, row); err != nil {
			return err
		}
	}
	return nil
}

func (d *Matrix) collected() interface{} {
	rows := make(map[string][]float64, len(d.values))
	for k, v := range d.values {
		rows[k] = v
	}
	return config.GenericMap{
		"prototypes": d.Prototypes(),
		"rows":       rows,
	}
}

func (d *Matrix) wrap(inner algorithm.Algorithm) Decorator {
	return NewMatrix(inner, d.rows)
}
