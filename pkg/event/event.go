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

package event

import (
	"fmt"
	"io"
	"math"
)

// Type is the kind of a process event.
type Type uint8

const (
	Start Type = iota
	Exit
	Traffic
	Parameter
)

// Types lists every event type in processing order.
var Types = []Type{Start, Exit, Traffic, Parameter}

var typeNames = [...]string{"start", "exit", "traffic", "parameter"}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// Unknown marks an event without a measured value.
var Unknown = math.NaN()

// IsKnown reports whether v carries a measured value.
func IsKnown(v float64) bool {
	return !math.IsNaN(v)
}

// Event is a single observation of the process stream.
//   - Start: Tme, Pid, Ppid, Name, Params
//   - Exit: Tme (exit time), Pid, Ppid, StartTme, Name, Value (duration)
//   - Traffic: Tme, Pid, Ppid, Value
//   - Parameter: Tme, Pid, Name (parameter name), Value
type Event struct {
	Type     Type
	Tme      float64
	Pid      int
	Ppid     int
	Name     string
	StartTme float64
	Value    float64
	Params   map[string]float64
}

func (e Event) String() string {
	return fmt.Sprintf("%s{tme=%v pid=%d ppid=%d name=%s value=%v}", e.Type, e.Tme, e.Pid, e.Ppid, e.Name, e.Value)
}

func NewStart(tme float64, pid, ppid int, name string, params map[string]float64) Event {
	return Event{Type: Start, Tme: tme, Pid: pid, Ppid: ppid, Name: name, Params: params, StartTme: tme, Value: Unknown}
}

func NewExit(tme float64, pid, ppid int, startTme float64, name string) Event {
	return Event{Type: Exit, Tme: tme, Pid: pid, Ppid: ppid, StartTme: startTme, Name: name, Value: tme - startTme}
}

func NewTraffic(tme float64, pid, ppid int, value float64) Event {
	return Event{Type: Traffic, Tme: tme, Pid: pid, Ppid: ppid, Value: value}
}

func NewParameter(tme float64, pid int, name string, value float64) Event {
	return Event{Type: Parameter, Tme: tme, Pid: pid, Name: name, Value: value}
}

// Iterator is a pull cursor over events. Next returns io.EOF once exhausted.
type Iterator interface {
	Next() (Event, error)
}

// Stream is a named event iterator, usually one process tree.
type Stream struct {
	Name string
	Iterator
}

type sliceIterator struct {
	events []Event
	pos    int
}

func (s *sliceIterator) Next() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, io.EOF
	}
	e := s.events[s.pos]
	s.pos++
	return e, nil
}

// NewSliceIterator iterates over an already materialized event list.
func NewSliceIterator(events []Event) Iterator {
	return &sliceIterator{events: events}
}

// Collect drains an iterator.
func Collect(it Iterator) ([]Event, error) {
	var events []Event
	for {
		e, err := it.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, e)
	}
}
