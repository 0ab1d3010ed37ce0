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

package health

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/test"
	"github.com/stretchr/testify/require"
)

const (
	readyPath = "/ready"
	livePath  = "/live"
)

func TestNewHealthServer(t *testing.T) {
	running := func() error { return nil }
	stopped := func() error { return errors.New("pipeline is not running") }

	tests := []struct {
		name       string
		check      healthcheck.Check
		port       string
		statusCode int
	}{
		{name: "pipeline running", check: running, port: "7000", statusCode: 200},
		{name: "pipeline not running", check: stopped, port: "7001", statusCode: 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := config.Options{Health: config.Health{Port: tt.port}}
			expectedAddr := fmt.Sprintf("0.0.0.0:%s", tt.port)
			server := NewHealthServer(&opts, tt.check, tt.check)
			require.NotNil(t, server)
			require.Equal(t, expectedAddr, server.Address)

			client := &http.Client{}

			readyURL := url.URL{Scheme: "http", Host: expectedAddr, Path: readyPath}
			test.Eventually(t, 5*time.Second, func(t require.TestingT) {
				resp, err := client.Get(readyURL.String())
				require.NoError(t, err)
				resp.Body.Close()
				require.Equal(t, tt.statusCode, resp.StatusCode)
			})

			liveURL := url.URL{Scheme: "http", Host: expectedAddr, Path: livePath}
			resp, err := client.Get(liveURL.String())
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, tt.statusCode, resp.StatusCode)
		})
	}
}
