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

package ingest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/netobserv/treedistance/pkg/api"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/pipeline/utils"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// StreamOptions are the event types sent for monitored streams.
var StreamOptions = event.Options{Exit: true, Parameter: true}

type ingestFile struct {
	params   api.IngestFile
	exitChan <-chan struct{}
}

// Ingest sends one stream per file matching the configured name, in lexical order
func (r *ingestFile) Ingest(out chan<- *event.Stream) {
	log.Debugf("entering ingestFile.Ingest")
	files, err := filepath.Glob(r.params.Filename)
	if err != nil {
		log.Errorf("invalid file pattern %s: %v", r.params.Filename, err)
		return
	}
	sort.Strings(files)
	log.Infof("ingesting %d process record files matching %s", len(files), r.params.Filename)
	for _, file := range files {
		stream, err := OpenStream(file, r.params.Filter, StreamOptions)
		if err != nil {
			log.Errorf("skipping %s: %v", file, err)
			recordErrors.WithLabelValues(api.FileType, "open").Inc()
			continue
		}
		select {
		case <-r.exitChan:
			log.Debugf("exiting ingestFile because of signal")
			return
		case out <- stream:
			streamsIngested.WithLabelValues(api.FileType).Inc()
		}
	}
	if r.params.Loop {
		<-r.exitChan
		log.Debugf("exiting ingestFile because of signal")
	}
}

// OpenStream reads a process record file as an event stream named after the file.
func OpenStream(file string, filterExpr string, opts event.Options) (*event.Stream, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", file)
	}
	it, err := NewCSVIterator(bytes.NewReader(content), filterExpr, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", file)
	}
	return &event.Stream{Name: file, Iterator: it}, nil
}

// NewIngestFile create a new ingester
func NewIngestFile(params config.StageParam) (Ingester, error) {
	log.Debugf("entering NewIngestFile")
	if params.Ingest == nil || params.Ingest.File == nil || params.Ingest.File.Filename == "" {
		return nil, fmt.Errorf("ingest filename not specified")
	}
	if _, err := newFilter(params.Ingest.File.Filter); err != nil {
		return nil, err
	}
	log.Infof("input file name = %s", params.Ingest.File.Filename)

	ch := make(chan struct{})
	utils.RegisterExitChannel(ch)
	return &ingestFile{
		params:   *params.Ingest.File,
		exitChan: ch,
	}, nil
}
