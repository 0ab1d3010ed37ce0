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
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/netobserv/treedistance/pkg/api"
)

const enumPrefix = "(enum)"

var apiDir = flag.String("api", "pkg/api", "directory holding the api sources, used to document enum values")

type docWriter struct {
	output io.Writer
	enums  map[string][]api.EnumValue
}

func (w *docWriter) iterate(data interface{}, indent int) {
	newIndent := indent + 1
	dataType := reflect.ValueOf(data).Kind()
	d := reflect.ValueOf(data)
	switch dataType {
	case reflect.Slice, reflect.Map:
		zeroElement := reflect.Zero(reflect.ValueOf(data).Type().Elem()).Interface()
		w.iterate(zeroElement, newIndent)
	case reflect.Struct:
		for i := 0; i < d.NumField(); i++ {
			val := reflect.Indirect(reflect.ValueOf(data))
			field := val.Type().Field(i)
			fieldName := field.Tag.Get(api.TagYaml)
			fieldName = strings.ReplaceAll(fieldName, ",omitempty", "")
			fieldDocTag := field.Tag.Get(api.TagDoc)
			if fieldDocTag == "" {
				continue
			}
			switch {
			case fieldDocTag[0:1] == "#":
				fmt.Fprintf(w.output, "\n%s\n", fieldDocTag)
				fmt.Fprintf(w.output, "<pre>")
				fmt.Fprintf(w.output, "\n%s %s:\n", strings.Repeat(" ", 4*indent), fieldName)
				w.iterate(d.Field(i).Interface(), newIndent)
				fmt.Fprintf(w.output, "</pre>")
			case strings.HasPrefix(fieldDocTag, enumPrefix):
				fmt.Fprintf(w.output, "%s %s: %s\n", strings.Repeat(" ", 4*newIndent), fieldName, fieldDocTag)
				for _, v := range w.enums[field.Type.Name()] {
					fmt.Fprintf(w.output, "%s %s: %s\n", strings.Repeat(" ", 4*(newIndent+1)), v.Value, v.Doc)
				}
			default:
				fmt.Fprintf(w.output, "%s %s: %s\n", strings.Repeat(" ", 4*newIndent), fieldName, fieldDocTag)
				w.iterate(d.Field(i).Interface(), newIndent)
			}
		}
	case reflect.Ptr:
		elemType := reflect.TypeOf(data).Elem()
		zeroElement := reflect.Zero(elemType).Interface()
		// Since we only "converted" Ptr to Struct and the actual output is done in the next iteration, we call
		// iterate() with the same `indent` as the current level
		w.iterate(zeroElement, indent)
	}
}

func main() {
	flag.Parse()
	enums, err := api.ParseEnums(*apiDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read enums from %s: %v\n", *apiDir, err)
		os.Exit(1)
	}
	output := new(bytes.Buffer)
	w := docWriter{output: output, enums: enums}
	w.iterate(api.API{}, 0)
	fmt.Print(output)
}
