// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package section

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess  = "success"
	outcomeAbsent   = "absent"
	outcomeFailed   = "failed"
	outcomeDisabled = "disabled"

	outcomeResolved   = "resolved"
	outcomeUnresolved = "unresolved"
)

var (
	sectionParseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "section_broker_parse_total",
			Help: "Raw section parse attempts by outcome (memoized lookups are not counted)",
		},
		[]string{"outcome"}, // success, absent, failed, disabled
	)

	sectionSupersededTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "section_broker_superseded_total",
			Help: "Raw sections disabled because a superseding section parsed",
		},
	)

	sectionResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "section_broker_resolve_total",
			Help: "Logical section resolutions by outcome (memoized lookups are not counted)",
		},
		[]string{"outcome"}, // resolved, unresolved
	)
)
