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
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/netobserv/treedistance/pkg/algorithm"
	"github.com/netobserv/treedistance/pkg/api"
	"github.com/netobserv/treedistance/pkg/cache"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/sirupsen/logrus"
)

var dlog = logrus.WithField("component", "decorator")

const (
	performanceName = api.DecoratorPerformance
	distanceName    = api.DecoratorDistance
	anomalyName     = api.DecoratorAnomaly
	signatureName   = api.DecoratorSignature
	matrixName      = api.DecoratorMatrix
	counterName     = api.DecoratorCounter
)

// ErrMatrixBounds is returned when a matrix decorator receives more streams than it declared.
var ErrMatrixBounds = errors.New("matrix bounds exceeded")

// Hooks are called around every call of the wrapped algorithm. Before hooks run from the
// outermost decorator inwards, after hooks from the innermost outwards.
// After hooks receive the error of the wrapped call and return the error the caller sees.
type Hooks interface {
	BeforeStartTree()
	AfterStartTree(err error) error
	BeforeEvent(e event.Event)
	AfterEvent(e event.Event, r algorithm.Result, err error) error
	BeforeFinishTree()
	AfterFinishTree(r algorithm.Result, err error) error
}

// Decorator is an algorithm that observes another one.
type Decorator interface {
	algorithm.Algorithm
	Hooks
	Name() string
	// SetStream names the stream of the next tree, for this decorator and the ones it wraps.
	SetStream(name string)
	// Update merges the data of a decorator chain of the same shape, typically a clone that
	// processed other streams.
	Update(other Decorator) error
	// Data returns the collected data of the chain, keyed by decorator name.
	Data() config.GenericMap
	Inner() algorithm.Algorithm

	merge(other Decorator) error
	collected() interface{}
	wrap(inner algorithm.Algorithm) Decorator
}

// NoHooks can be embedded by decorators that only need some of the hooks.
type NoHooks struct{}

func (NoHooks) BeforeStartTree()                                              {}
func (NoHooks) AfterStartTree(err error) error                                { return err }
func (NoHooks) BeforeEvent(event.Event)                                       {}
func (NoHooks) AfterEvent(_ event.Event, _ algorithm.Result, err error) error { return err }
func (NoHooks) BeforeFinishTree()                                             {}
func (NoHooks) AfterFinishTree(_ algorithm.Result, err error) error           { return err }

// chain forwards the algorithm calls to the wrapped algorithm and runs the hooks of self around them.
type chain struct {
	inner  algorithm.Algorithm
	self   Decorator
	stream string
}

func newChain(inner algorithm.Algorithm, self Decorator) *chain {
	return &chain{inner: inner, self: self}
}

func (c *chain) String() string {
	return fmt.Sprintf("%s(%s)", c.self.Name(), c.inner)
}

func (c *chain) Prototypes() []string {
	return c.inner.Prototypes()
}

func (c *chain) StartTree() error {
	c.self.BeforeStartTree()
	err := c.inner.StartTree()
	return c.self.AfterStartTree(err)
}

func (c *chain) AddEvent(e event.Event) (algorithm.Result, error) {
	c.self.BeforeEvent(e)
	r, err := c.inner.AddEvent(e)
	return r, c.self.AfterEvent(e, r, err)
}

func (c *chain) FinishTree() (algorithm.Result, error) {
	c.self.BeforeFinishTree()
	r, err := c.inner.FinishTree()
	return r, c.self.AfterFinishTree(r, err)
}

func (c *chain) LastTokens() []string {
	return c.inner.LastTokens()
}

func (c *chain) Caches() []cache.Cache {
	return c.inner.Caches()
}

func (c *chain) Inner() algorithm.Algorithm {
	return c.inner
}

func (c *chain) SetStream(name string) {
	c.stream = name
	if d, ok := c.inner.(Decorator); ok {
		d.SetStream(name)
	}
}

func (c *chain) Clone() algorithm.Algorithm {
	return c.self.wrap(c.inner.Clone())
}

func (c *chain) Update(other Decorator) error {
	if other.Name() != c.self.Name() {
		return fmt.Errorf("cannot update %s decorator with %s", c.self.Name(), other.Name())
	}
	if err := c.self.merge(other); err != nil {
		return err
	}
	mine, ok := c.inner.(Decorator)
	if !ok {
		return nil
	}
	theirs, ok := other.Inner().(Decorator)
	if !ok {
		return fmt.Errorf("cannot update %s decorator chain: %s has no inner decorator", mine.Name(), other.Name())
	}
	return mine.Update(theirs)
}

func (c *chain) Data() config.GenericMap {
	out := config.GenericMap{}
	if d, ok := c.inner.(Decorator); ok {
		for k, v := range d.Data() {
			out[k] = v
		}
	}
	out[c.self.Name()] = c.self.collected()
	return out
}

// New wraps the algorithm with the configured decorators. The first decorator is the outermost.
func New(alg algorithm.Algorithm, cfgs []api.Decorator) (algorithm.Algorithm, error) {
	for i := len(cfgs) - 1; i >= 0; i-- {
		cfg := cfgs[i]
		dlog.Debugf("wrapping %s with %s decorator", alg, cfg.Type)
		switch cfg.Type {
		case api.DecoratorPerformance:
			alg = NewPerformance(alg, clock.New())
		case api.DecoratorDistance:
			alg = NewDistance(alg)
		case api.DecoratorAnomaly:
			d, err := NewAnomaly(alg, cfg.Condition)
			if err != nil {
				return nil, err
			}
			alg = d
		case api.DecoratorSignature:
			alg = NewSignature(alg)
		case api.DecoratorMatrix:
			alg = NewMatrix(alg, cfg.Rows)
		case api.DecoratorCounter:
			alg = NewCounter(alg)
		default:
			return nil, fmt.Errorf("unknown decorator type %q", cfg.Type)
		}
	}
	return alg, nil
}
