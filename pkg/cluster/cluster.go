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

package cluster

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/netobserv/treedistance/pkg/cache"
	"github.com/netobserv/treedistance/pkg/distance"
	"github.com/netobserv/treedistance/pkg/event"
)

// Distance compares completed monitoring caches, one per signature position. It is the distance
// a density based clusterer uses, together with Mean to build cluster representatives.
// It holds no state besides its kernel settings and can be called concurrently.
type Distance struct {
	kernel distance.Kernel
}

func NewDistance(kernel distance.Kernel) *Distance {
	return &Distance{kernel: kernel}
}

// Distance replays the tree caches against every representative and returns the lowest
// mean normalized distance, in [0, 1].
func (d *Distance) Distance(tree []cache.Cache, representatives ...[]cache.Cache) (float64, error) {
	if len(representatives) == 0 {
		return 0, errors.New("no representative to compare with")
	}
	best := math.Inf(1)
	for i, rep := range representatives {
		v, err := d.single(tree, rep)
		if err != nil {
			return 0, fmt.Errorf("representative %d: %w", i, err)
		}
		if v < best {
			best = v
		}
	}
	return best, nil
}

func (d *Distance) single(tree, rep []cache.Cache) (float64, error) {
	if len(tree) != len(rep) {
		return 0, fmt.Errorf("tree has %d positions, representative %d", len(tree), len(rep))
	}
	prototypes := make([]*cache.PrototypeCache, len(rep))
	for pos, c := range rep {
		pc := cache.NewPrototypeCache(c.StatisticsKind())
		if err := pc.AddCache(pc.AddPrototype("representative"), c); err != nil {
			return 0, err
		}
		prototypes[pos] = pc
	}
	ensemble := distance.NewEnsemble(d.kernel, len(rep))
	if err := ensemble.Init(prototypes); err != nil {
		return 0, err
	}
	for pos, c := range tree {
		if err := replay(ensemble, pos, c, prototypes[pos]); err != nil {
			return 0, err
		}
	}
	ensemble.Finish()
	return ensemble.Mean()[0], nil
}

// replay feeds every observation summarized by the cache: each statistic component is
// replayed count times at its mean.
func replay(ensemble *distance.Ensemble, pos int, c cache.Cache, prototypes *cache.PrototypeCache) error {
	for _, token := range c.Tokens() {
		e, err := c.Get(token)
		if err != nil {
			return err
		}
		matches, err := prototypes.Get(token)
		if err != nil && !errors.Is(err, cache.ErrDataNotInCache) {
			return err
		}
		for _, t := range event.Types {
			s, ok := e.Statistics[t]
			if !ok {
				continue
			}
			for _, component := range s.Components() {
				for i := 0; i < component.Count(); i++ {
					ensemble.UpdatePosition(pos, token, matches, t, component.Mean())
				}
			}
		}
	}
	return nil
}

// Mean folds several trees into a synthetic representative using the statistics merge.
func Mean(trees ...[]cache.Cache) ([]cache.Cache, error) {
	if len(trees) == 0 {
		return nil, errors.New("no tree to fold")
	}
	positions := len(trees[0])
	out := make([]cache.Cache, positions)
	for pos := range out {
		merged := cache.NewSignatureCache(trees[0][pos].StatisticsKind())
		for i, tree := range trees {
			if len(tree) != positions {
				return nil, fmt.Errorf("tree %d has %d positions, expected %d", i, len(tree), positions)
			}
			if err := merged.Merge(tree[pos]); err != nil {
				return nil, err
			}
		}
		out[pos] = merged
	}
	return out, nil
}

// Representatives folds the trees of every cluster and lays them out per signature position,
// ready to be written with cache.WriteRepresentatives. Clusters are sorted by id.
func Representatives(clusters map[string][][]cache.Cache) ([][]cache.Representative, error) {
	ids := make([]string, 0, len(clusters))
	for id := range clusters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out [][]cache.Representative
	for _, id := range ids {
		rep, err := Mean(clusters[id]...)
		if err != nil {
			return nil, fmt.Errorf("cluster %s: %w", id, err)
		}
		if out == nil {
			out = make([][]cache.Representative, len(rep))
		}
		if len(rep) != len(out) {
			return nil, fmt.Errorf("cluster %s has %d positions, expected %d", id, len(rep), len(out))
		}
		for pos, c := range rep {
			out[pos] = append(out[pos], cache.Representative{ID: id, Cache: c.(*cache.SignatureCache)})
		}
	}
	return out, nil
}
