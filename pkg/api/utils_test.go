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

package api

import (
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestCommitInterval_JSON(t *testing.T) {
	in := IngestKafka{Topic: "trees", CommitInterval: Duration{1500 * time.Millisecond}}
	out, err := jsoniter.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":"trees","commitInterval":"1.5s"}`, string(out))

	var decoded IngestKafka
	require.NoError(t, jsoniter.Unmarshal([]byte(`{"topic":"trees","commitInterval":"250ms"}`), &decoded))
	assert.Equal(t, 250*time.Millisecond, decoded.CommitInterval.Duration)
}

func TestCommitInterval_YAML(t *testing.T) {
	out, err := yaml.Marshal(IngestKafka{Topic: "trees", CommitInterval: Duration{2 * time.Second}})
	require.NoError(t, err)
	assert.Equal(t, "topic: trees\ncommitInterval: 2s\n", string(out))

	var decoded IngestKafka
	require.NoError(t, yaml.UnmarshalStrict([]byte("topic: trees\ncommitInterval: 1m\n"), &decoded))
	assert.Equal(t, time.Minute, decoded.CommitInterval.Duration)
}

func TestCommitInterval_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		decode func(*IngestKafka) error
	}{
		{"json", func(k *IngestKafka) error {
			return jsoniter.Unmarshal([]byte(`{"commitInterval":"soon"}`), k)
		}},
		{"json number", func(k *IngestKafka) error {
			return jsoniter.Unmarshal([]byte(`{"commitInterval":5}`), k)
		}},
		{"yaml", func(k *IngestKafka) error {
			return yaml.UnmarshalStrict([]byte("commitInterval: soon\n"), k)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var k IngestKafka
			assert.Error(t, tt.decode(&k))
		})
	}
}
