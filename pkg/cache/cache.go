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
	"errors"
	"fmt"

	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/statistics"
)

// ErrDataNotInCache is returned by lookups of tokens that were never added.
var ErrDataNotInCache = errors.New("data not in cache")

// Entry holds the frequency of a token and the statistics of the values observed per event type.
// Count only grows with start events of processes.
type Entry struct {
	Count      int
	Statistics map[event.Type]statistics.Statistic
}

// Starts is the number of start observations of the token, closing tokens included.
func (e *Entry) Starts() int {
	if s, ok := e.Statistics[event.Start]; ok {
		return s.Count()
	}
	return 0
}

func (e *Entry) clone() *Entry {
	c := &Entry{Count: e.Count, Statistics: make(map[event.Type]statistics.Statistic, len(e.Statistics))}
	for t, s := range e.Statistics {
		c.Statistics[t] = s.Clone()
	}
	return c
}

// Cache stores the tokens of one monitored tree.
type Cache interface {
	Add(token string, t event.Type, value float64) error
	// AddClosing records a token closing a finished process. It joins the start
	// statistics of the token but is not counted in its frequency.
	AddClosing(token string) error
	Get(token string) (*Entry, error)
	Frequency(token string) int
	TotalFrequency() int
	Len() int
	// Tokens lists cached tokens by first insertion.
	Tokens() []string
	StatisticsKind() statistics.Kind
}

// SignatureCache is the unbounded monitoring cache.
type SignatureCache struct {
	kind    statistics.Kind
	entries map[string]*Entry
	order   []string
	total   int
}

func NewSignatureCache(kind statistics.Kind) *SignatureCache {
	return &SignatureCache{kind: kind, entries: map[string]*Entry{}}
}

func (c *SignatureCache) StatisticsKind() statistics.Kind {
	return c.kind
}

func (c *SignatureCache) Add(token string, t event.Type, value float64) error {
	e, err := c.observe(token, t, value)
	if err != nil {
		return err
	}
	if t == event.Start {
		e.Count++
		c.total++
	}
	return nil
}

func (c *SignatureCache) AddClosing(token string) error {
	_, err := c.observe(token, event.Start, event.Unknown)
	return err
}

func (c *SignatureCache) observe(token string, t event.Type, value float64) (*Entry, error) {
	e, ok := c.entries[token]
	if !ok {
		e = &Entry{Statistics: map[event.Type]statistics.Statistic{}}
		c.entries[token] = e
		c.order = append(c.order, token)
	}
	s, ok := e.Statistics[t]
	if !ok {
		var err error
		if s, err = statistics.New(c.kind); err != nil {
			return nil, err
		}
		e.Statistics[t] = s
	}
	s.Add(value)
	return e, nil
}

func (c *SignatureCache) Get(token string) (*Entry, error) {
	e, ok := c.entries[token]
	if !ok {
		return nil, fmt.Errorf("token %s: %w", token, ErrDataNotInCache)
	}
	return e, nil
}

func (c *SignatureCache) Frequency(token string) int {
	if e, ok := c.entries[token]; ok {
		return e.Count
	}
	return 0
}

func (c *SignatureCache) TotalFrequency() int {
	return c.total
}

func (c *SignatureCache) Len() int {
	return len(c.entries)
}

func (c *SignatureCache) Tokens() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *SignatureCache) remove(token string) *Entry {
	e, ok := c.entries[token]
	if !ok {
		return nil
	}
	delete(c.entries, token)
	c.total -= e.Count
	for i, t := range c.order {
		if t == token {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return e
}

// put stores an entry as is, used when folding caches together.
func (c *SignatureCache) put(token string, e *Entry) {
	if old, ok := c.entries[token]; ok {
		c.total -= old.Count
	} else {
		c.order = append(c.order, token)
	}
	c.entries[token] = e
	c.total += e.Count
}

// Merge folds the entries of other into c using the statistics merge.
func (c *SignatureCache) Merge(other Cache) error {
	for _, token := range other.Tokens() {
		oe, err := other.Get(token)
		if err != nil {
			return err
		}
		e, ok := c.entries[token]
		if !ok {
			c.put(token, oe.clone())
			continue
		}
		for t, s := range oe.Statistics {
			if mine, ok := e.Statistics[t]; ok {
				if err := mine.Merge(s); err != nil {
					return err
				}
			} else {
				e.Statistics[t] = s.Clone()
			}
		}
		e.Count += oe.Count
		c.total += oe.Count
	}
	return nil
}

// Clone copies the cache and all its statistics.
func (c *SignatureCache) Clone() *SignatureCache {
	out := NewSignatureCache(c.kind)
	for _, token := range c.order {
		out.put(token, c.entries[token].clone())
	}
	return out
}
