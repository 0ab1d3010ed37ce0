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
	"bytes"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/netobserv/treedistance/pkg/statistics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

var slog = logrus.WithField("component", "cache.Store")

// Store keeps indexed prototype caches in a snappy compressed json file.
// Readers and writers are serialized with a lock file next to it, so several processes can share it.
type Store struct {
	path    string
	refresh bool
}

type storedIndex struct {
	Key        string              `json:"key"`
	Prototypes []string            `json:"prototypes"`
	Positions  [][]serializedCache `json:"positions"`
}

// NewStore returns a store at path. With refresh set, Load ignores the stored content.
func NewStore(path string, refresh bool) *Store {
	return &Store{path: path, refresh: refresh}
}

func (s *Store) lock(how int) (*os.File, error) {
	f, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "opening lock file")
	}
	if err := unix.Flock(int(f.Fd()), how); err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "acquiring lock")
	}
	return f, nil
}

func unlock(f *os.File) {
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
	_ = f.Close()
}

// Load returns the caches stored under key, one per signature position.
// The boolean is false when nothing usable is stored.
func (s *Store) Load(key string, kind statistics.Kind) ([]*PrototypeCache, bool, error) {
	if s.refresh {
		slog.Debugf("refresh requested, ignoring %s", s.path)
		return nil, false, nil
	}
	l, err := s.lock(unix.LOCK_SH)
	if err != nil {
		return nil, false, err
	}
	defer unlock(l)

	compressed, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading %s", s.path)
	}
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, false, errors.Wrapf(err, "decompressing %s", s.path)
	}
	var stored storedIndex
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false, errors.Wrapf(err, "decoding %s", s.path)
	}
	if stored.Key != key {
		slog.Infof("stored prototypes in %s were built for another configuration", s.path)
		return nil, false, nil
	}
	caches := make([]*PrototypeCache, 0, len(stored.Positions))
	for pos, perPrototype := range stored.Positions {
		if len(perPrototype) != len(stored.Prototypes) {
			return nil, false, errors.Errorf("position %d holds %d prototypes, expected %d", pos, len(perPrototype), len(stored.Prototypes))
		}
		pc := NewPrototypeCache(kind)
		for i, sc := range perPrototype {
			c, err := decodeCache(sc)
			if err != nil {
				return nil, false, errors.Wrapf(err, "position %d", pos)
			}
			p := pc.AddPrototype(stored.Prototypes[i])
			if err := pc.AddCache(p, c); err != nil {
				return nil, false, err
			}
		}
		caches = append(caches, pc)
	}
	slog.Debugf("loaded %d prototypes from %s", len(stored.Prototypes), s.path)
	return caches, true, nil
}

// Save replaces the stored caches.
func (s *Store) Save(key string, caches []*PrototypeCache) error {
	stored := storedIndex{Key: key}
	if len(caches) > 0 {
		stored.Prototypes = caches[0].Prototypes()
	}
	for _, pc := range caches {
		perPrototype := make([]serializedCache, 0, len(pc.Prototypes()))
		for p := range pc.Prototypes() {
			c, err := pc.Cache(p)
			if err != nil {
				return err
			}
			sc, err := encodeCache(c)
			if err != nil {
				return err
			}
			perPrototype = append(perPrototype, sc)
		}
		stored.Positions = append(stored.Positions, perPrototype)
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(&stored); err != nil {
		return errors.Wrap(err, "encoding prototypes")
	}

	l, err := s.lock(unix.LOCK_EX)
	if err != nil {
		return err
	}
	defer unlock(l)

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	if _, err := tmp.Write(snappy.Encode(nil, buf.Bytes())); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "writing prototypes")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "closing prototypes")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "replacing %s", s.path)
	}
	slog.Debugf("saved %d prototypes to %s", len(stored.Prototypes), s.path)
	return nil
}
