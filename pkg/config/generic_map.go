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

package config

import (
	"fmt"
	"strconv"
)

type GenericMap map[string]interface{}

// Copy will create a flat copy of GenericMap
func (m GenericMap) Copy() GenericMap {
	result := make(GenericMap, len(m))

	for k, v := range m {
		result[k] = v
	}

	return result
}

func (m GenericMap) LookupString(key string) (string, bool) {
	if v, ok := m[key]; ok {
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}

// LookupFloat64 converts numeric and string values to float64.
func (m GenericMap) LookupFloat64(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}
