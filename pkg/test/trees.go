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

package test

import (
	"github.com/netobserv/treedistance/pkg/tree"
)

// ProcessSpec describes one process of a fixture tree. Parent is the index of the parent spec, -1 for the root.
type ProcessSpec struct {
	Name    string
	Parent  int
	Tme     float64
	ExitTme float64
	Traffic []tree.Sample
}

// BuildTree creates a tree from process specs given in insertion order. Pids are assigned from 1.
func BuildTree(specs []ProcessSpec) *tree.Tree {
	t := tree.New()
	ids := make([]tree.NodeID, len(specs))
	for i, s := range specs {
		parent, ppid := tree.NoNode, 0
		if s.Parent >= 0 {
			parent, ppid = ids[s.Parent], s.Parent+1
		}
		id, err := t.AddNode(parent, tree.Attributes{
			Name:    s.Name,
			Pid:     i + 1,
			Ppid:    ppid,
			Tme:     s.Tme,
			ExitTme: s.ExitTme,
			Traffic: s.Traffic,
		})
		if err != nil {
			panic(err)
		}
		ids[i] = id
	}
	return t
}

// PrototypeSpecs is root(r) with children test, muh, test, muh.
var PrototypeSpecs = []ProcessSpec{
	{Name: "r", Parent: -1, Tme: 0, ExitTme: 3},
	{Name: "test", Parent: 0, Tme: 1, ExitTme: 2},
	{Name: "muh", Parent: 0, Tme: 1, ExitTme: 2},
	{Name: "test", Parent: 0, Tme: 2, ExitTme: 3},
	{Name: "muh", Parent: 0, Tme: 2, ExitTme: 3},
}

func PrototypeTree() *tree.Tree {
	return BuildTree(PrototypeSpecs)
}

// MonitoringSpecs is root(r) with children test, test, muh.
var MonitoringSpecs = []ProcessSpec{
	{Name: "r", Parent: -1, Tme: 0, ExitTme: 3},
	{Name: "test", Parent: 0, Tme: 1, ExitTme: 2},
	{Name: "test", Parent: 0, Tme: 1, ExitTme: 2},
	{Name: "muh", Parent: 0, Tme: 2, ExitTme: 3},
}

func MonitoringTree() *tree.Tree {
	return BuildTree(MonitoringSpecs)
}

// TrafficSpecs is PrototypeTree with traffic samples on its leaves.
var TrafficSpecs = []ProcessSpec{
	{Name: "r", Parent: -1, Tme: 0, ExitTme: 3},
	{Name: "test", Parent: 0, Tme: 1, ExitTme: 2, Traffic: []tree.Sample{{Tme: 1.5, Value: 100}}},
	{Name: "muh", Parent: 0, Tme: 1, ExitTme: 2, Traffic: []tree.Sample{{Tme: 1.5, Value: 20}}},
	{Name: "test", Parent: 0, Tme: 2, ExitTme: 3, Traffic: []tree.Sample{{Tme: 2.5, Value: 110}}},
	{Name: "muh", Parent: 0, Tme: 2, ExitTme: 3},
}

func TrafficTree() *tree.Tree {
	return BuildTree(TrafficSpecs)
}

// DeepSpecs has three levels and repeated names at different depths.
var DeepSpecs = []ProcessSpec{
	{Name: "init", Parent: -1, Tme: 0, ExitTme: 10},
	{Name: "sh", Parent: 0, Tme: 1, ExitTme: 6},
	{Name: "ls", Parent: 1, Tme: 2, ExitTme: 3},
	{Name: "sh", Parent: 1, Tme: 3, ExitTme: 5},
	{Name: "ls", Parent: 3, Tme: 4, ExitTme: 4.5},
	{Name: "cat", Parent: 0, Tme: 6, ExitTme: 9},
}

func DeepTree() *tree.Tree {
	return BuildTree(DeepSpecs)
}
