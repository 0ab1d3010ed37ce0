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

const (
	FileType   = "file"
	KafkaType  = "kafka"
	StdoutType = "stdout"
	FakeType   = "fake"
	NoneType   = "none"
	TagYaml    = "yaml"
	TagDoc     = "doc"
)

// Note: items beginning with doc: "## title" are top level items that get divided into sections inside api.md.

type API struct {
	IngestFile  IngestFile  `yaml:"file" doc:"## Ingest file API\nFollowing is the supported API format for process record files:\n"`
	IngestKafka IngestKafka `yaml:"kafka" doc:"## Ingest Kafka API\nFollowing is the supported API format for the kafka ingest:\n"`
	Compute     Compute     `yaml:"compute" doc:"## Compute API\nFollowing is the supported API format for the tree distance stage:\n"`
	WriteStdout WriteStdout `yaml:"stdout" doc:"## Write Standard Output\nFollowing is the supported API format for writing to standard output:\n"`
}
