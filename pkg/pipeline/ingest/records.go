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

package ingest

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/netobserv/treedistance/pkg/event"
)

const (
	columnTme     = "tme"
	columnExitTme = "exit_tme"
	columnPid     = "pid"
	columnPpid    = "ppid"
	columnName    = "name"
)

var requiredColumns = []string{columnTme, columnExitTme, columnPid, columnPpid, columnName}

// Record is one process of a process record file. Columns other than the known ones holding
// numbers are the process parameters.
type Record struct {
	Tme     float64 `mapstructure:"tme"`
	ExitTme float64 `mapstructure:"exit_tme"`
	Pid     int     `mapstructure:"pid"`
	Ppid    int     `mapstructure:"ppid"`
	Name    string  `mapstructure:"name"`

	hasExit bool
	params  map[string]float64
}

func decodeRecord(row map[string]interface{}) (*Record, error) {
	rec := &Record{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           rec,
	})
	if err != nil {
		return nil, err
	}
	known := map[string]interface{}{}
	for _, c := range requiredColumns {
		if v, ok := row[c]; ok {
			known[c] = v
		}
	}
	if err := decoder.Decode(known); err != nil {
		return nil, err
	}
	if v, ok := row[columnExitTme]; ok && v != nil && fmt.Sprint(v) != "" {
		rec.hasExit = true
	}
	for k, v := range row {
		if isRequired(k) {
			continue
		}
		if f, ok := toFloat(v); ok {
			if rec.params == nil {
				rec.params = map[string]float64{}
			}
			rec.params[k] = f
		}
	}
	return rec, nil
}

func isRequired(column string) bool {
	for _, c := range requiredColumns {
		if c == column {
			return true
		}
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		if n == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// rowSource yields the raw records of a stream, in start order.
type rowSource interface {
	next() (map[string]interface{}, error)
}

type sliceSource struct {
	rows []map[string]interface{}
}

func (s *sliceSource) next() (map[string]interface{}, error) {
	if len(s.rows) == 0 {
		return nil, io.EOF
	}
	row := s.rows[0]
	s.rows = s.rows[1:]
	return row, nil
}

// recordIterator turns process records into events: the start of every record when it is read,
// its parameters right after, and its exit once no later start precedes it.
type recordIterator struct {
	source  rowSource
	filter  *filter
	opts    event.Options
	stage   string
	depths  map[int]int
	queue   event.Queue
	pending *Record
	follows []event.Event
	done    bool
}

func newRecordIterator(source rowSource, f *filter, opts event.Options, stage string) *recordIterator {
	return &recordIterator{source: source, filter: f, opts: opts, stage: stage, depths: map[int]int{}}
}

// Next returns record level errors without stopping: the faulty record is skipped.
func (it *recordIterator) Next() (event.Event, error) {
	if len(it.follows) > 0 {
		e := it.follows[0]
		it.follows = it.follows[1:]
		return e, nil
	}
	if it.pending == nil && !it.done {
		if err := it.read(); err != nil {
			return event.Event{}, err
		}
	}
	if it.pending != nil {
		if it.queue.Before(it.pending.Tme) {
			return it.queue.Pop(), nil
		}
		rec := it.pending
		it.pending = nil
		it.schedule(rec)
		return event.NewStart(rec.Tme, rec.Pid, rec.Ppid, rec.Name, rec.params), nil
	}
	if it.queue.Len() > 0 {
		return it.queue.Pop(), nil
	}
	return event.Event{}, io.EOF
}

// read loads the next kept record in pending.
func (it *recordIterator) read() error {
	for {
		row, err := it.source.next()
		if err == io.EOF {
			it.done = true
			return nil
		}
		if err != nil {
			recordErrors.WithLabelValues(it.stage, "read").Inc()
			return err
		}
		recordsProcessed.WithLabelValues(it.stage).Inc()
		keep, err := it.filter.keep(row)
		if err != nil {
			recordErrors.WithLabelValues(it.stage, "filter").Inc()
			return err
		}
		if !keep {
			continue
		}
		rec, err := decodeRecord(row)
		if err != nil {
			recordErrors.WithLabelValues(it.stage, "decode").Inc()
			return err
		}
		it.pending = rec
		return nil
	}
}

func (it *recordIterator) schedule(rec *Record) {
	depth := 0
	if d, ok := it.depths[rec.Ppid]; ok {
		depth = d + 1
	}
	it.depths[rec.Pid] = depth
	if it.opts.Parameter && len(rec.params) > 0 {
		names := make([]string, 0, len(rec.params))
		for name := range rec.params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			p := event.NewParameter(rec.Tme, rec.Pid, name, rec.params[name])
			p.Ppid = rec.Ppid
			it.follows = append(it.follows, p)
		}
	}
	if it.opts.Exit && rec.hasExit {
		it.queue.PushExit(event.NewExit(rec.ExitTme, rec.Pid, rec.Ppid, rec.Tme, rec.Name), depth)
	}
}
