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
	"os"
	"path/filepath"
	"testing"

	"github.com/netobserv/treedistance/pkg/api"
	"github.com/netobserv/treedistance/pkg/cache"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/pipeline/ingest"
	"github.com/netobserv/treedistance/pkg/signature"
	"github.com/netobserv/treedistance/pkg/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func computeParams(prototypes ...string) *api.Compute {
	return &api.Compute{
		Signature:  api.Signature{Type: api.SignatureParentChildOrderByName},
		Distance:   api.Distance{Kernel: api.KernelSimple2},
		Prototypes: api.Prototypes{Files: prototypes},
	}
}

func openStreams(t *testing.T, files ...string) <-chan *event.Stream {
	in := make(chan *event.Stream, len(files))
	for _, f := range files {
		s, err := ingest.OpenStream(f, "", ingest.StreamOptions)
		require.NoError(t, err)
		in <- s
	}
	close(in)
	return in
}

func runCompute(t *testing.T, params *api.Compute, in <-chan *event.Stream) map[string]config.GenericMap {
	c, err := NewComputeDistance(config.StageParam{Name: "distance", Compute: params})
	require.NoError(t, err)
	out := make(chan config.GenericMap, 10)
	c.Compute(in, out)
	close(out)
	records := map[string]config.GenericMap{}
	for r := range out {
		name, ok := r["stream"].(string)
		if !ok {
			name = "decorators"
		}
		records[name] = r
	}
	return records
}

func TestCompute(t *testing.T) {
	dir := t.TempDir()
	proto := test.WriteTreeCSV(t, dir, "prototype.csv", test.PrototypeSpecs)
	monitored := test.WriteTreeCSV(t, dir, "monitored.csv", test.MonitoringSpecs)

	params := computeParams(proto)
	params.Workers = 2
	params.Decorators = []api.Decorator{{Type: api.DecoratorCounter}, {Type: api.DecoratorMatrix}}
	records := runCompute(t, params, openStreams(t, proto, monitored))
	require.Len(t, records, 3)

	same := records[proto]
	assert.Equal(t, statusComplete, same["status"])
	assert.Equal(t, []string{proto}, same["prototypes"])
	assert.Equal(t, 10, same["events"])
	require.Len(t, same["mean"], 1)
	assert.InDelta(t, 0, same["mean"].([]float64)[0], 1e-9)

	other := records[monitored]
	assert.Equal(t, 8, other["events"])
	assert.InDelta(t, 0.2, other["mean"].([]float64)[0], 1e-9)

	data := records["decorators"]["decorators"].(config.GenericMap)
	assert.Equal(t, map[string]int{"start": 9, "exit": 9}, data["counter"])
	rows := data["matrix"].(config.GenericMap)["rows"].(map[string][]float64)
	assert.InDelta(t, 0, rows[proto][0], 1e-9)
	assert.InDelta(t, 0.2, rows[monitored][0], 1e-9)

	exposed := test.ReadExposedMetrics(t)
	assert.Contains(t, exposed, `compute_streams_total{status="complete"}`)
	assert.Contains(t, exposed, `treedistance_events_total{type="start"}`)
}

func TestCompute_AbortsInvalidTree(t *testing.T) {
	dir := t.TempDir()
	proto := test.WriteTreeCSV(t, dir, "prototype.csv", test.PrototypeSpecs)
	broken := filepath.Join(dir, "broken.csv")
	require.NoError(t, os.WriteFile(broken, []byte("tme,exit_tme,pid,ppid,name\n0,5,1,0,r\n1,2,2,9,x\n"), 0o600))

	records := runCompute(t, computeParams(proto), openStreams(t, broken))
	require.Len(t, records, 1)
	r := records[broken]
	assert.Equal(t, statusAborted, r["status"])
	assert.Equal(t, 1, r["events"])
	assert.NotContains(t, r, "error")
}

func TestLoadPrototypes_Store(t *testing.T) {
	dir := t.TempDir()
	proto := test.WriteTreeCSV(t, dir, "prototype.csv", test.PrototypeSpecs)
	params := computeParams(proto)
	params.Prototypes.CachePath = filepath.Join(dir, "prototypes.cache")

	alg, err := NewAlgorithm(params)
	require.NoError(t, err)
	assert.FileExists(t, params.Prototypes.CachePath)

	// the stored caches no longer depend on the prototype file
	require.NoError(t, os.Remove(proto))
	stored, err := NewAlgorithm(params)
	require.NoError(t, err)
	assert.Equal(t, alg.Prototypes(), stored.Prototypes())

	params.Prototypes.Refresh = true
	_, err = NewAlgorithm(params)
	require.Error(t, err)
}

func TestLoadPrototypes_Representatives(t *testing.T) {
	dir := t.TempDir()
	proto := test.WriteTreeCSV(t, dir, "prototype.csv", test.PrototypeSpecs)
	params := computeParams(proto)
	params.Signature = api.Signature{Type: api.SignatureName}
	sig, err := signature.New(&params.Signature)
	require.NoError(t, err)
	indexed, err := LoadPrototypes(params, sig)
	require.NoError(t, err)
	require.Len(t, indexed, 1)
	c, err := indexed[0].Cache(0)
	require.NoError(t, err)

	reps := filepath.Join(dir, "representatives.json")
	f, err := os.Create(reps)
	require.NoError(t, err)
	require.NoError(t, cache.WriteRepresentatives(f, []cache.Representative{{ID: "cluster-0", Cache: c}}))
	require.NoError(t, f.Close())

	params.Prototypes = api.Prototypes{Representatives: reps}
	fromReps, err := NewAlgorithm(params)
	require.NoError(t, err)
	assert.Equal(t, []string{"cluster-0"}, fromReps.Prototypes())

	records := runCompute(t, params, openStreams(t, proto))
	assert.InDelta(t, 0, records[proto]["mean"].([]float64)[0], 1e-9)

	params.Signature = api.Signature{Type: api.SignatureEnsemble, Members: []api.Signature{
		{Type: api.SignatureName}, {Type: api.SignatureParentChildByName},
	}}
	_, err = NewAlgorithm(params)
	require.Error(t, err)
}

func TestNewComputeDistance_Errors(t *testing.T) {
	_, err := NewComputeDistance(config.StageParam{Name: "distance"})
	require.Error(t, err)
	_, err = NewComputeDistance(config.StageParam{Name: "distance", Compute: &api.Compute{}})
	require.Error(t, err)
	params := computeParams("missing.csv")
	params.Distance.Kernel = "unknown"
	_, err = NewComputeDistance(config.StageParam{Name: "distance", Compute: params})
	require.Error(t, err)
	_, err = NewComputeDistance(config.StageParam{Name: "distance", Compute: computeParams("missing.csv")})
	require.Error(t, err)
}
