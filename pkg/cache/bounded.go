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
	"container/list"

	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/statistics"
	"github.com/sirupsen/logrus"
)

var blog = logrus.WithField("component", "cache.Bounded")

type boundedItem struct {
	token string
	score int
	e     *list.Element
}

// BoundedSignatureCache keeps at most maxSize tokens. Each access raises the score of a token;
// when full, the least recently used token among those with the lowest score is evicted and the
// remaining scores decay by the evicted score minus one. Scores of evicted tokens are remembered
// in a ring of maxSize*ratio entries and restored when the token comes back.
// It is not safe for concurrent use.
type BoundedSignatureCache struct {
	*SignatureCache
	maxSize int
	// front is least recently used
	lru   *list.List
	items map[string]*boundedItem
	// front is oldest eviction
	ring      *list.List
	ringItems map[string]*list.Element
	ringSize  int
}

type evicted struct {
	token string
	score int
}

func NewBoundedSignatureCache(kind statistics.Kind, maxSize, ratio int) *BoundedSignatureCache {
	if maxSize < 1 {
		maxSize = 1
	}
	if ratio < 1 {
		ratio = 1
	}
	return &BoundedSignatureCache{
		SignatureCache: NewSignatureCache(kind),
		maxSize:        maxSize,
		lru:            list.New(),
		items:          map[string]*boundedItem{},
		ring:           list.New(),
		ringItems:      map[string]*list.Element{},
		ringSize:       maxSize * ratio,
	}
}

func (c *BoundedSignatureCache) Add(token string, t event.Type, value float64) error {
	c.touch(token)
	return c.SignatureCache.Add(token, t, value)
}

func (c *BoundedSignatureCache) AddClosing(token string) error {
	c.touch(token)
	return c.SignatureCache.AddClosing(token)
}

// touch raises the score of token, inserting it and evicting another one when needed.
func (c *BoundedSignatureCache) touch(token string) {
	item, ok := c.items[token]
	if ok {
		item.score++
		c.lru.MoveToBack(item.e)
	} else {
		item = &boundedItem{token: token, score: 1}
		if el, ok := c.ringItems[token]; ok {
			item.score += el.Value.(*evicted).score
			c.ring.Remove(el)
			delete(c.ringItems, token)
		}
		if len(c.items) >= c.maxSize {
			c.evict()
		}
		item.e = c.lru.PushBack(item)
		c.items[token] = item
	}
}

// Score returns the current score of a cached token, 0 when absent.
func (c *BoundedSignatureCache) Score(token string) int {
	if item, ok := c.items[token]; ok {
		return item.score
	}
	return 0
}

func (c *BoundedSignatureCache) evict() {
	var victim *boundedItem
	for el := c.lru.Front(); el != nil; el = el.Next() {
		item := el.Value.(*boundedItem)
		if victim == nil || item.score < victim.score {
			victim = item
		}
	}
	if victim == nil {
		return
	}
	blog.Debugf("evicting token %s with score %d", victim.token, victim.score)
	c.lru.Remove(victim.e)
	delete(c.items, victim.token)
	c.SignatureCache.remove(victim.token)

	decay := victim.score - 1
	if decay > 0 {
		for el := c.lru.Front(); el != nil; el = el.Next() {
			item := el.Value.(*boundedItem)
			item.score -= decay
			if item.score < 0 {
				item.score = 0
			}
		}
	}

	c.ringItems[victim.token] = c.ring.PushBack(&evicted{token: victim.token, score: victim.score})
	for c.ring.Len() > c.ringSize {
		oldest := c.ring.Front()
		delete(c.ringItems, oldest.Value.(*evicted).token)
		c.ring.Remove(oldest)
	}
}
