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

package compute

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/treedistance/pkg/algorithm"
	"github.com/netobserv/treedistance/pkg/api"
	"github.com/netobserv/treedistance/pkg/cache"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/pipeline/ingest"
	"github.com/netobserv/treedistance/pkg/signature"
	"github.com/netobserv/treedistance/pkg/statistics"
	"github.com/pkg/errors"
)

// storeKey identifies the settings the stored prototype caches were built with.
type storeKey struct {
	Signature       api.Signature      `json:"signature"`
	Statistics      api.StatisticsType `json:"statistics"`
	Events          api.EventTypes     `json:"events"`
	Files           []string           `json:"files"`
	Representatives string             `json:"representatives"`
}

func eventOptions(params *api.Compute) event.Options {
	return event.Options{
		Exit:      params.Events.Exit,
		Traffic:   params.Events.Traffic,
		Parameter: params.Events.Parameter,
	}
}

// LoadPrototypes returns the prototype caches, one per signature position.
// With a cache path, indexed prototypes are read from the store and saved to it when missing.
func LoadPrototypes(params *api.Compute, sig signature.Signature) ([]*cache.PrototypeCache, error) {
	protos := params.Prototypes
	if len(protos.Files) == 0 && protos.Representatives == "" {
		return nil, fmt.Errorf("no prototypes configured")
	}
	kind := statistics.Kind(params.Distance.Statistics)
	if protos.CachePath == "" {
		return indexPrototypes(params, sig, kind)
	}

	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(storeKey{
		Signature:       params.Signature,
		Statistics:      params.Distance.Statistics,
		Events:          params.Events,
		Files:           protos.Files,
		Representatives: protos.Representatives,
	})
	if err != nil {
		return nil, err
	}
	key := string(b)
	store := cache.NewStore(protos.CachePath, protos.Refresh)
	caches, ok, err := store.Load(key, kind)
	if err != nil {
		clog.Warnf("ignoring prototype store %s: %v", protos.CachePath, err)
	} else if ok && len(caches) == sig.Len() {
		clog.Infof("using %d stored prototypes from %s", len(caches[0].Prototypes()), protos.CachePath)
		return caches, nil
	}
	caches, err = indexPrototypes(params, sig, kind)
	if err != nil {
		return nil, err
	}
	if err := store.Save(key, caches); err != nil {
		clog.Warnf("cannot store prototypes in %s: %v", protos.CachePath, err)
	}
	return caches, nil
}

func indexPrototypes(params *api.Compute, sig signature.Signature, kind statistics.Kind) ([]*cache.PrototypeCache, error) {
	if params.Prototypes.Representatives != "" {
		return readRepresentatives(params.Prototypes.Representatives, sig)
	}
	prototypes := make([]algorithm.Prototype, 0, len(params.Prototypes.Files))
	for _, file := range params.Prototypes.Files {
		stream, err := ingest.OpenStream(file, "", ingest.StreamOptions)
		if err != nil {
			return nil, err
		}
		t, err := event.BuildTree(stream)
		if err != nil {
			return nil, errors.Wrapf(err, "building prototype %s", file)
		}
		prototypes = append(prototypes, algorithm.Prototype{Name: file, Tree: t})
	}
	clog.Infof("indexing %d prototypes with %s", len(prototypes), sig)
	return algorithm.IndexPrototypes(sig, prototypes, kind, eventOptions(params))
}

// readRepresentatives indexes cluster representatives. Their caches hold a single signature position.
func readRepresentatives(path string, sig signature.Signature) ([]*cache.PrototypeCache, error) {
	if sig.Len() != 1 {
		return nil, fmt.Errorf("representatives need a single position signature, %s has %d", sig, sig.Len())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	reps, err := cache.ReadRepresentatives(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	pc, err := cache.NewPrototypeCacheFromRepresentatives(reps)
	if err != nil {
		return nil, err
	}
	return []*cache.PrototypeCache{pc}, nil
}
