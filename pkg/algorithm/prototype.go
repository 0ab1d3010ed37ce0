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

package algorithm

import (
	"fmt"
	"io"

	"github.com/netobserv/treedistance/pkg/cache"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/signature"
	"github.com/netobserv/treedistance/pkg/statistics"
	"github.com/netobserv/treedistance/pkg/tree"
)

// Prototype is a complete reference tree.
type Prototype struct {
	Name string
	Tree *tree.Tree
}

// IndexPrototypes replays the event stream of every prototype and returns one cache per signature position.
func IndexPrototypes(sig signature.Signature, prototypes []Prototype, kind statistics.Kind, opts event.Options) ([]*cache.PrototypeCache, error) {
	caches := make([]*cache.PrototypeCache, sig.Len())
	for i := range caches {
		caches[i] = cache.NewPrototypeCache(kind)
	}
	for _, proto := range prototypes {
		var p int
		for _, c := range caches {
			p = c.AddPrototype(proto.Name)
		}
		s := newStream(sig, func(pos int, token string, t event.Type, value float64, closing bool) error {
			if closing {
				return caches[pos].AddClosing(token, p)
			}
			return caches[pos].Add(token, p, t, value)
		})
		it := event.NewTreeIterator(proto.Tree, opts)
		for {
			e, err := it.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("prototype %s: %w", proto.Name, err)
			}
			if _, err := s.apply(e); err != nil {
				return nil, fmt.Errorf("prototype %s: %w", proto.Name, err)
			}
		}
		if err := s.finish(); err != nil {
			return nil, fmt.Errorf("prototype %s: %w", proto.Name, err)
		}
		alog.Debugf("indexed prototype %s with %d processes", proto.Name, proto.Tree.Len())
	}
	return caches, nil
}
