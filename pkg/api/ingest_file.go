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

type IngestFile struct {
	Filename string `yaml:"filename" json:"filename" doc:"process record file, or glob pattern matching several files (one stream per file)"`
	Filter   string `yaml:"filter,omitempty" json:"filter,omitempty" doc:"boolean expression over record columns; rows not matching are dropped"`
	Loop     bool   `yaml:"loop,omitempty" json:"loop,omitempty" doc:"keep the ingester alive once all files are read"`
}
