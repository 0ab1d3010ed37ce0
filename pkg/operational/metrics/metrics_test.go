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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentation(t *testing.T) {
	counter := NewCounterVec(prometheus.CounterOpts{
		Name: "test_operational_total",
		Help: "Counter used by the documentation test",
	}, []string{"kind"})
	counter.WithLabelValues("a").Inc()
	counter.WithLabelValues("a").Inc()
	require.Equal(t, 2.0, testutil.ToFloat64(counter.WithLabelValues("a")))

	doc := GetDocumentation()
	assert.Contains(t, doc, "### test_operational_total")
	assert.Contains(t, doc, "| **Description** | Counter used by the documentation test | ")
	assert.Contains(t, doc, "| **Type** | counter | ")
	assert.Contains(t, doc, "| **Labels** | kind | ")
}
