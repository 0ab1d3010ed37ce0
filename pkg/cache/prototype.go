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

package cache

import (
	"fmt"

	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/statistics"
)

// Matches are the entries of one token, by prototype index.
type Matches map[int]*Entry

// PrototypeCache indexes the tokens of several prototypes for one signature position.
// It is read-only once built and can be shared between streams.
type PrototypeCache struct {
	kind       statistics.Kind
	prototypes []string
	entries    map[string]Matches
	order      []string
	distinct   []int
	events     []map[event.Type]int
}

func NewPrototypeCache(kind statistics.Kind) *PrototypeCache {
	return &PrototypeCache{kind: kind, entries: map[string]Matches{}}
}

// AddPrototype registers a prototype and returns its index.
func (c *PrototypeCache) AddPrototype(name string) int {
	c.prototypes = append(c.prototypes, name)
	c.distinct = append(c.distinct, 0)
	c.events = append(c.events, map[event.Type]int{})
	return len(c.prototypes) - 1
}

func (c *PrototypeCache) checkIndex(p int) error {
	if p < 0 || p >= len(c.prototypes) {
		return fmt.Errorf("unknown prototype %d", p)
	}
	return nil
}

func (c *PrototypeCache) entry(token string, p int) *Entry {
	matches, ok := c.entries[token]
	if !ok {
		matches = Matches{}
		c.entries[token] = matches
		c.order = append(c.order, token)
	}
	e, ok := matches[p]
	if !ok {
		e = &Entry{Statistics: map[event.Type]statistics.Statistic{}}
		matches[p] = e
	}
	return e
}

// Add records an observation of token for prototype p.
func (c *PrototypeCache) Add(token string, p int, t event.Type, value float64) error {
	e, err := c.observe(token, p, t, value)
	if err != nil {
		return err
	}
	if t == event.Start {
		e.Count++
	}
	return nil
}

// AddClosing records a token closing a finished process of prototype p. Kernels see it
// as a start observation but it does not add to the frequency of the token.
func (c *PrototypeCache) AddClosing(token string, p int) error {
	_, err := c.observe(token, p, event.Start, event.Unknown)
	return err
}

func (c *PrototypeCache) observe(token string, p int, t event.Type, value float64) (*Entry, error) {
	if err := c.checkIndex(p); err != nil {
		return nil, err
	}
	e := c.entry(token, p)
	s, ok := e.Statistics[t]
	if !ok {
		var err error
		if s, err = statistics.New(c.kind); err != nil {
			return nil, err
		}
		e.Statistics[t] = s
		if t == event.Start {
			c.distinct[p]++
		}
	}
	s.Add(value)
	c.events[p][t]++
	return e, nil
}

// AddCache merges all entries of a monitoring cache into prototype p.
func (c *PrototypeCache) AddCache(p int, cache Cache) error {
	if err := c.checkIndex(p); err != nil {
		return err
	}
	for _, token := range cache.Tokens() {
		src, err := cache.Get(token)
		if err != nil {
			return err
		}
		e := c.entry(token, p)
		for t, s := range src.Statistics {
			if mine, ok := e.Statistics[t]; ok {
				if err := mine.Merge(s); err != nil {
					return err
				}
			} else {
				e.Statistics[t] = s.Clone()
				if t == event.Start {
					c.distinct[p]++
				}
			}
			c.events[p][t] += s.Count()
		}
		e.Count += src.Count
	}
	return nil
}

// Get returns the prototypes containing token.
func (c *PrototypeCache) Get(token string) (Matches, error) {
	matches, ok := c.entries[token]
	if !ok {
		return nil, fmt.Errorf("token %s: %w", token, ErrDataNotInCache)
	}
	return matches, nil
}

// DistinctTokens is the number of distinct tokens started or closed in prototype p.
func (c *PrototypeCache) DistinctTokens(p int) int {
	if c.checkIndex(p) != nil {
		return 0
	}
	return c.distinct[p]
}

// EventCount is the number of events of type t recorded for prototype p.
func (c *PrototypeCache) EventCount(p int, t event.Type) int {
	if c.checkIndex(p) != nil {
		return 0
	}
	return c.events[p][t]
}

func (c *PrototypeCache) Prototypes() []string {
	return c.prototypes
}

func (c *PrototypeCache) Len() int {
	return len(c.entries)
}

func (c *PrototypeCache) Tokens() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *PrototypeCache) StatisticsKind() statistics.Kind {
	return c.kind
}

// Cache extracts the entries of prototype p as a monitoring cache.
func (c *PrototypeCache) Cache(p int) (*SignatureCache, error) {
	if err := c.checkIndex(p); err != nil {
		return nil, err
	}
	out := NewSignatureCache(c.kind)
	for _, token := range c.order {
		if e, ok := c.entries[token][p]; ok {
			out.put(token, e.clone())
		}
	}
	return out, nil
}
