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
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/netobserv/treedistance/pkg/event"
)

type csvSource struct {
	reader *csv.Reader
	header []string
}

func newCSVSource(r io.Reader) (*csvSource, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	for _, required := range requiredColumns {
		found := false
		for _, c := range header {
			if c == required {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("missing column %q in header %v", required, header)
		}
	}
	reader.FieldsPerRecord = len(header)
	return &csvSource{reader: reader, header: header}, nil
}

func (s *csvSource) next() (map[string]interface{}, error) {
	fields, err := s.reader.Read()
	if err != nil {
		return nil, err
	}
	row := make(map[string]interface{}, len(fields))
	for i, f := range fields {
		row[s.header[i]] = strings.TrimSpace(f)
	}
	return row, nil
}

// NewCSVIterator streams the events of a process record file. The header must name at least
// the tme, exit_tme, pid, ppid and name columns.
func NewCSVIterator(r io.Reader, filterExpr string, opts event.Options) (event.Iterator, error) {
	f, err := newFilter(filterExpr)
	if err != nil {
		return nil, err
	}
	source, err := newCSVSource(r)
	if err != nil {
		return nil, err
	}
	return newRecordIterator(source, f, opts, "csv"), nil
}
