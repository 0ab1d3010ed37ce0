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
	"io"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/statistics"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Representative is a named cluster centroid.
type Representative struct {
	ID    string
	Cache *SignatureCache
}

type serializedCache map[string]map[string]jsoniter.RawMessage

type representativesFile struct {
	Data map[string]serializedCache `json:"data"`
}

func encodeCache(c Cache) (serializedCache, error) {
	out := serializedCache{}
	for _, token := range c.Tokens() {
		e, err := c.Get(token)
		if err != nil {
			return nil, err
		}
		byType := make(map[string]jsoniter.RawMessage, len(e.Statistics))
		for t, s := range e.Statistics {
			raw, err := json.Marshal(s)
			if err != nil {
				return nil, errors.Wrapf(err, "encoding %s statistic of token %s", t, token)
			}
			byType[t.String()] = raw
		}
		out[token] = byType
	}
	return out, nil
}

// decodeCache rebuilds a cache, tokens sorted. The statistics kind follows the serialized shape.
func decodeCache(sc serializedCache) (*SignatureCache, error) {
	tokens := make([]string, 0, len(sc))
	for token := range sc {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	out := NewSignatureCache(statistics.KindMeanVariance)
	for _, token := range tokens {
		e := &Entry{Statistics: map[event.Type]statistics.Statistic{}}
		for name, raw := range sc[token] {
			t, err := event.ParseType(name)
			if err != nil {
				return nil, errors.Wrapf(err, "token %s", token)
			}
			s, err := statistics.Unmarshal(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "%s statistic of token %s", name, token)
			}
			if _, ok := s.(*statistics.SplittedStatistics); ok {
				out.kind = statistics.KindSplitted
			}
			e.Statistics[t] = s
		}
		if start, ok := e.Statistics[event.Start]; ok {
			e.Count = start.Count()
		}
		out.put(token, e)
	}
	return out, nil
}

// WriteRepresentatives writes {"data": {id: {token: {type: statistic}}}}.
func WriteRepresentatives(w io.Writer, reps []Representative) error {
	file := representativesFile{Data: make(map[string]serializedCache, len(reps))}
	for _, r := range reps {
		sc, err := encodeCache(r.Cache)
		if err != nil {
			return errors.Wrapf(err, "representative %s", r.ID)
		}
		file.Data[r.ID] = sc
	}
	return json.NewEncoder(w).Encode(&file)
}

// ReadRepresentatives loads representatives sorted by id.
func ReadRepresentatives(r io.Reader) ([]Representative, error) {
	var file representativesFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decoding representatives")
	}
	ids := make([]string, 0, len(file.Data))
	for id := range file.Data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	reps := make([]Representative, 0, len(ids))
	for _, id := range ids {
		c, err := decodeCache(file.Data[id])
		if err != nil {
			return nil, errors.Wrapf(err, "representative %s", id)
		}
		reps = append(reps, Representative{ID: id, Cache: c})
	}
	return reps, nil
}

// NewPrototypeCacheFromRepresentatives indexes each representative as one prototype.
func NewPrototypeCacheFromRepresentatives(reps []Representative) (*PrototypeCache, error) {
	kind := statistics.KindMeanVariance
	if len(reps) > 0 {
		kind = reps[0].Cache.StatisticsKind()
	}
	pc := NewPrototypeCache(kind)
	for _, r := range reps {
		p := pc.AddPrototype(r.ID)
		if err := pc.AddCache(p, r.Cache); err != nil {
			return nil, errors.Wrapf(err, "representative %s", r.ID)
		}
	}
	return pc, nil
}
