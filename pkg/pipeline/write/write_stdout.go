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

package write

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/treedistance/pkg/config"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	formatPrintf = "printf"
	formatJSON   = "json"
	formatYAML   = "yaml"
)

type writeStdout struct {
	format string
	out    io.Writer
	mutex  *sync.Mutex
}

// Write writes a stream result to the standard output
func (t *writeStdout) Write(v config.GenericMap) {
	log.Debugf("entering writeStdout Write")
	t.mutex.Lock()
	defer t.mutex.Unlock()
	switch t.format {
	case formatJSON:
		txt, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
		if err != nil {
			log.Errorf("writeStdout: cannot marshal %v: %v", v, err)
			return
		}
		fmt.Fprintln(t.out, string(txt))
	case formatYAML:
		txt, err := yaml.Marshal(v)
		if err != nil {
			log.Errorf("writeStdout: cannot marshal %v: %v", v, err)
			return
		}
		fmt.Fprintf(t.out, "---\n%s", string(txt))
	default:
		var order sort.StringSlice
		for fieldName := range v {
			order = append(order, fieldName)
		}
		order.Sort()
		var fields []string
		for _, fieldName := range order {
			fields = append(fields, fmt.Sprintf("%s=%v", fieldName, v[fieldName]))
		}
		fmt.Fprintf(t.out, "%s: %s\n", time.Now().Format(time.StampMilli), strings.Join(fields, " "))
	}
}

// NewWriteStdout create a new write
func NewWriteStdout(params config.StageParam) (Writer, error) {
	log.Debugf("entering NewWriteStdout")
	format := formatPrintf
	if params.Write != nil && params.Write.Stdout != nil && params.Write.Stdout.Format != "" {
		format = params.Write.Stdout.Format
	}
	switch format {
	case formatPrintf, formatJSON, formatYAML:
	default:
		return nil, fmt.Errorf("unknown stdout format %q", format)
	}
	return &writeStdout{
		format: format,
		out:    os.Stdout,
		mutex:  &sync.Mutex{},
	}, nil
}
