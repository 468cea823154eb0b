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

package cycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "section_broker_cycle_duration_seconds",
			Help:    "Time taken to fetch all hosts and build a broker",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	cycleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "section_broker_cycle_total",
			Help: "Total number of cycles",
		},
		[]string{"status"}, // success or error
	)

	fetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "section_broker_fetch_duration_seconds",
			Help:    "Time taken to fetch the raw sections of one host",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"outcome"}, // success, absent, error
	)

	cycleHosts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "section_broker_cycle_hosts",
			Help: "Number of hosts with data in the last cycle",
		},
	)
)
