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

package api

// SignatureType defines the supported node signatures.
// For doc generation, enum definitions must match format `Constant Type = "value" // doc`
type SignatureType string

const (
	SignatureName                        SignatureType = "name"                        // token is the process name
	SignatureParentChildByName           SignatureType = "parentChildByName"           // process name chained with the ancestors names
	SignatureParentChildOrder            SignatureType = "parentChildOrder"            // depth and sibling position chained with the ancestors
	SignatureParentChildOrderByName      SignatureType = "parentChildOrderByName"      // process name and its rank among same-named siblings
	SignatureParentCountedChildrenByName SignatureType = "parentCountedChildrenByName" // process name with the names of `count` left siblings
	SignaturePQGram                      SignatureType = "pqGram"                      // pq-gram of `height` ancestors and `width` left siblings
	SignaturePQOrder                     SignatureType = "pqOrder"                     // unordered window of `width` left siblings
	SignatureEnsemble                    SignatureType = "ensemble"                    // ordered list of member signatures
)

type Signature struct {
	Type    SignatureType `yaml:"type" json:"type" doc:"(enum) node signature:"`
	Count   int           `yaml:"count,omitempty" json:"count,omitempty" doc:"number of left siblings for parentCountedChildrenByName (default: 1)"`
	Height  int           `yaml:"height,omitempty" json:"height,omitempty" doc:"number of ancestors for pqGram (default: 2)"`
	Width   int           `yaml:"width,omitempty" json:"width,omitempty" doc:"number of left siblings for pqGram and pqOrder (default: 3)"`
	Members []Signature   `yaml:"members,omitempty" json:"members,omitempty" doc:"member signatures of an ensemble"`
}

func (s *Signature) GetCount() int {
	if s.Count <= 0 {
		return 1
	}
	return s.Count
}

func (s *Signature) GetHeight() int {
	if s.Height <= 0 {
		return 2
	}
	return s.Height
}

func (s *Signature) GetWidth() int {
	if s.Width <= 0 {
		return 3
	}
	return s.Width
}
