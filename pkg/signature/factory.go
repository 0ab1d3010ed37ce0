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

package signature

import (
	"fmt"

	"github.com/netobserv/treedistance/pkg/api"
	"github.com/sirupsen/logrus"
)

var slog = logrus.WithField("component", "signature")

// New builds the signature described by the configuration.
func New(cfg *api.Signature) (Signature, error) {
	slog.Debugf("building signature %s", cfg.Type)
	switch cfg.Type {
	case api.SignatureName:
		return NewName(), nil
	case api.SignatureParentChildByName, "":
		return NewParentChildByName(), nil
	case api.SignatureParentChildOrder:
		return NewParentChildOrder(), nil
	case api.SignatureParentChildOrderByName:
		return NewParentChildOrderByName(), nil
	case api.SignatureParentCountedChildrenByName:
		return NewParentCountedChildrenByName(cfg.GetCount()), nil
	case api.SignaturePQGram:
		return NewPQGram(cfg.GetHeight(), cfg.GetWidth()), nil
	case api.SignaturePQOrder:
		return NewPQOrder(cfg.GetWidth()), nil
	case api.SignatureEnsemble:
		if len(cfg.Members) == 0 {
			return nil, fmt.Errorf("ensemble signature needs at least one member")
		}
		members := make([]Signature, 0, len(cfg.Members))
		for i := range cfg.Members {
			m, err := New(&cfg.Members[i])
			if err != nil {
				return nil, fmt.Errorf("ensemble member %d: %w", i, err)
			}
			members = append(members, m)
		}
		return NewEnsemble(members...), nil
	}
	return nil, fmt.Errorf("unknown signature type %q", cfg.Type)
}
