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

package decorator

import (
	"github.com/netobserv/treedistance/pkg/algorithm"
	"github.com/netobserv/treedistance/pkg/event"
)

// Signature records the tokens every event produced, by stream.
type Signature struct {
	*chain
	NoHooks
	tokens map[string][][]string
}

func NewSignature(inner algorithm.Algorithm) *Signature {
	d := &Signature{tokens: map[string][][]string{}}
	d.chain = newChain(inner, d)
	return d
}

func (d *Signature) Name() string {
	return string(signatureName)
}

func (d *Signature) BeforeStartTree() {
	d.tokens[d.stream] = nil
}

func (d *Signature) AfterEvent(_ event.Event, _ algorithm.Result, err error) error {
	if err == nil {
		d.tokens[d.stream] = append(d.tokens[d.stream], append([]string(nil), d.LastTokens()...))
	}
	return err
}

func (d *Signature) merge(other Decorator) error {
	for stream, tokens := range other.(*Signature).tokens {
		d.tokens[stream] = append(d.tokens[stream], tokens...)
	}
	return nil
}

func (d *Signature) collected() interface{} {
	out := make(map[string][][]string, len(d.tokens))
	for k, v := range d.tokens {
		out[k] = v
	}
	return out
}

func (d *Signature) wrap(inner algorithm.Algorithm) Decorator {
	return NewSignature(inner)
}
