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

package prometheus

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/netobserv/treedistance/pkg/config"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const defaultPort = 9090

var plog = logrus.WithField("component", "prometheus")

// InitializePrometheus starts the global Prometheus server, used for operational metrics
func InitializePrometheus(settings *config.MetricsSettings) *http.Server {
	port := settings.Port
	if port == 0 {
		port = defaultPort
	}
	if settings.SuppressGoMetrics {
		// remove default metrics
		prom.Unregister(collectors.NewGoCollector())
		prom.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	// if value of address is empty, then by default it will take 0.0.0.0
	addr := fmt.Sprintf("%s:%v", settings.Address, port)
	plog.Infof("StartServerAsync: addr = %s", addr)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:           addr,
		Handler:        mux,
		MaxHeaderBytes: 1 << 20,
	}

	go startServer(server, settings.NoPanic)
	return server
}

func startServer(server *http.Server, noPanic bool) {
	plog.Debugf("entering startServer")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		plog.Errorf("error in http.ListenAndServe: %v", err)
		if !noPanic {
			os.Exit(1)
		}
	}
}
