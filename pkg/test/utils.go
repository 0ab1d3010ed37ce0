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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// InitConfig reads a yaml configuration the way the command line does and returns the parsed structure.
func InitConfig(t *testing.T, conf string) (*viper.Viper, *config.ConfigFileStruct) {
	var json = jsoniter.ConfigCompatibleWithStandardLibrary
	yamlConfig := []byte(conf)
	v := viper.New()
	v.SetConfigType("yaml")
	r := bytes.NewReader(yamlConfig)
	err := v.ReadConfig(r)
	require.NoError(t, err)

	var b []byte
	pipelineStr := v.Get("pipeline")
	b, err = json.Marshal(&pipelineStr)
	if err != nil {
		fmt.Printf("error marshaling: %v\n", err)
		return nil, nil
	}
	opts := config.Options{}
	opts.PipeLine = string(b)
	parametersStr := v.Get("parameters")
	b, err = json.Marshal(&parametersStr)
	if err != nil {
		fmt.Printf("error marshaling: %v\n", err)
		return nil, nil
	}
	opts.Parameters = string(b)
	metricsSettingsStr := v.Get("metricsSettings")
	if metricsSettingsStr != nil {
		b, err = json.Marshal(&metricsSettingsStr)
		if err != nil {
			fmt.Printf("error marshaling: %v\n", err)
			return nil, nil
		}
		opts.MetricsSettings = string(b)
	}

	out, err := config.ParseConfig(&opts)
	if err != nil {
		fmt.Printf("error in parsing config file: %v \n", err)
		return nil, nil
	}

	return v, &out
}

// TreeCSV renders process specs as a process record file. Pids are assigned from 1,
// parameters are written as extra columns sorted by name.
func TreeCSV(specs []ProcessSpec, params ...map[string]float64) string {
	var columns []string
	seen := map[string]struct{}{}
	for _, p := range params {
		for k := range p {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)

	var sb strings.Builder
	sb.WriteString(strings.Join(append([]string{"tme", "exit_tme", "pid", "ppid", "name"}, columns...), ","))
	sb.WriteString("\n")
	for i, s := range specs {
		ppid := 0
		if s.Parent >= 0 {
			ppid = s.Parent + 1
		}
		fields := []string{fmt.Sprint(s.Tme), fmt.Sprint(s.ExitTme), fmt.Sprint(i + 1), fmt.Sprint(ppid), s.Name}
		for _, c := range columns {
			v := ""
			if i < len(params) {
				if value, ok := params[i][c]; ok {
					v = fmt.Sprint(value)
				}
			}
			fields = append(fields, v)
		}
		sb.WriteString(strings.Join(fields, ","))
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteTreeCSV writes the process record file of the specs in dir and returns its path.
func WriteTreeCSV(t *testing.T, dir, name string, specs []ProcessSpec) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(TreeCSV(specs)), 0o600))
	return path
}
