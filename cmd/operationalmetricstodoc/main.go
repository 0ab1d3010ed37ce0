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

package main

import (
	"fmt"

	"github.com/netobserv/treedistance/pkg/decorator"
	"github.com/netobserv/treedistance/pkg/operational/metrics"
	"github.com/netobserv/treedistance/pkg/pipeline"
)

func main() {
	// Do not remove these unnamed variables ---> They are needed for the compiler/linker to init the
	// variables of all the modules, including the operational metrics which fill up the documentation
	var _ *pipeline.Pipeline
	var _ decorator.Decorator

	header := `
> Note: this file was automatically generated, to update execute "go run ./cmd/operationalmetricstodoc"

# treedistance Operational Metrics

Each table below provides documentation for an exported treedistance operational metric.

	`
	doc := metrics.GetDocumentation()
	data := fmt.Sprintf("%s\n%s\n", header, doc)
	fmt.Printf("%s", data)
}
