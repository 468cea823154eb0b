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

package api

import (
	"fmt"
	"net/http"

	"github.com/NVIDIA/section-broker/pkg/broker"
	"github.com/NVIDIA/section-broker/pkg/cycle"
	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/hostlabel"
	"github.com/NVIDIA/section-broker/pkg/section"
	"github.com/NVIDIA/section-broker/pkg/serializer"
	"github.com/NVIDIA/section-broker/pkg/server"
)

// Routes returns the API handlers keyed by ServeMux pattern.
func (b *Backend) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"GET /v1/hosts/{host}/sections/{section}": b.HandleSection,
		"GET /v1/hosts/{host}/labels":             b.HandleHostLabels,
		"GET /v1/available":                       b.HandleAvailable,
		"GET /v1/cache-info":                      b.HandleCacheInfo,
		"GET /v1/errors":                          b.HandleErrors,
		"GET /v1/cluster/labels":                  b.HandleClusterLabels,
	}
}

// HandleSection serves one resolved section of one host.
func (b *Backend) HandleSection(w http.ResponseWriter, r *http.Request) {
	sourceType, err := sourceTypeParam(r)
	if err != nil {
		server.WriteErrorFrom(w, r, err)
		return
	}
	host := section.HostKey{Hostname: r.PathValue("host"), SourceType: sourceType}
	id := section.ParsedSectionID(r.PathValue("section"))

	var doc *cycle.SectionResult
	err = b.withBroker(func(br *broker.Broker) error {
		var err error
		doc, err = cycle.ResolveSection(r.Context(), br, host, id, b.version)
		return err
	})
	respond(w, r, doc, err)
}

// HandleAvailable serves the sections that resolve for a source type,
// optionally narrowed by repeated section patterns.
func (b *Backend) HandleAvailable(w http.ResponseWriter, r *http.Request) {
	sourceType, err := sourceTypeParam(r)
	if err != nil {
		server.WriteErrorFrom(w, r, err)
		return
	}

	var doc *cycle.Availability
	err = b.withBroker(func(br *broker.Broker) error {
		var err error
		doc, err = cycle.BuildAvailability(r.Context(), br, sourceType, r.URL.Query()["section"], b.version)
		return err
	})
	respond(w, r, doc, err)
}

// HandleCacheInfo serves the aggregated cache information of the selected sections.
func (b *Backend) HandleCacheInfo(w http.ResponseWriter, r *http.Request) {
	var doc *cycle.CacheInfoReport
	err := b.withBroker(func(br *broker.Broker) error {
		var err error
		doc, err = cycle.BuildCacheInfo(r.Context(), br, r.URL.Query()["section"], b.version)
		return err
	})
	respond(w, r, doc, err)
}

// HandleErrors serves the parse failures recorded in the current cycle.
func (b *Backend) HandleErrors(w http.ResponseWriter, r *http.Request) {
	var doc *cycle.ErrorsReport
	err := b.withBroker(func(br *broker.Broker) error {
		doc = cycle.BuildErrorsReport(br, b.version)
		return nil
	})
	respond(w, r, doc, err)
}

// HandleHostLabels serves the label diff of one host against its persisted
// labels. Nothing is persisted.
func (b *Backend) HandleHostLabels(w http.ResponseWriter, r *http.Request) {
	hostname := r.PathValue("host")
	previous, err := b.previousLabels(hostname)
	if err != nil {
		server.WriteErrorFrom(w, r, err)
		return
	}

	var doc *hostlabel.HostReport
	err = b.withBroker(func(br *broker.Broker) error {
		diff, err := b.discoverer.DiscoverHost(r.Context(), br, hostname, previous[hostname])
		if err != nil {
			return err
		}
		doc = hostlabel.NewHostReport(hostname, diff, b.version)
		return nil
	})
	respond(w, r, doc, err)
}

// HandleClusterLabels serves the merged labels of the nodes given as
// repeated node parameters, or of every host in the cycle.
func (b *Backend) HandleClusterLabels(w http.ResponseWriter, r *http.Request) {
	nodes := r.URL.Query()["node"]

	var doc *hostlabel.ClusterReport
	err := b.withBroker(func(br *broker.Broker) error {
		if len(nodes) == 0 {
			nodes = cycle.Hostnames(br)
		}
		previous, err := b.previousLabels(nodes...)
		if err != nil {
			return err
		}
		labels, err := b.discoverer.DiscoverCluster(r.Context(), br, nodes, previous)
		if err != nil {
			return err
		}
		doc = hostlabel.NewClusterReport(nodes, labels, b.version)
		return nil
	})
	respond(w, r, doc, err)
}

func sourceTypeParam(r *http.Request) (section.SourceType, error) {
	raw := r.URL.Query().Get("source")
	if raw == "" {
		return section.SourceHost, nil
	}
	st, ok := section.ParseSourceType(raw)
	if !ok {
		return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid source type %q", raw),
			map[string]any{"source": raw, "supported": section.SourceTypes})
	}
	return st, nil
}

func respond(w http.ResponseWriter, r *http.Request, doc any, err error) {
	if err != nil {
		server.WriteErrorFrom(w, r, err)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, doc)
}
