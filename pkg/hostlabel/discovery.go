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

package hostlabel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NVIDIA/section-broker/pkg/broker"
	"github.com/NVIDIA/section-broker/pkg/section"
)

// LabelFunc derives host labels from one parsed section.
type LabelFunc func(parsed any) ([]HostLabel, error)

// Function binds a LabelFunc to the logical section it reads.
type Function struct {
	Section section.ParsedSectionID
	Labels  LabelFunc
}

// Discoverer runs host label functions against the sections held by a broker.
type Discoverer struct {
	Functions []Function

	// Debug returns label function failures instead of logging and skipping them.
	Debug bool
}

// Discover collects labels for hostname from every source type the broker
// knows. Each label records the raw section that produced it.
func (d *Discoverer) Discover(ctx context.Context, b *broker.Broker, hostname string) ([]HostLabel, error) {
	var labels []HostLabel
	for _, st := range section.SourceTypes {
		host := section.HostKey{Hostname: hostname, SourceType: st}
		for _, fn := range d.Functions {
			res, err := b.Resolve(ctx, host, fn.Section)
			if err != nil {
				return nil, err
			}
			if res == nil {
				continue
			}

			found, err := callLabelFunc(fn.Labels, res.Parsed.Data)
			if err != nil {
				if section.IsFatal(err) || d.Debug {
					return nil, fmt.Errorf("host label function for section %s: %w", fn.Section, err)
				}
				slog.Warn("host label function failed",
					slog.String("host", host.String()),
					slog.String("section", fn.Section.String()),
					slog.String("error", err.Error()))
				continue
			}
			for _, l := range found {
				l.ProducingSection = res.Producer.Name
				labels = append(labels, l)
			}
		}
	}
	return labels, nil
}

// DiscoverHost diffs the labels discovered for hostname against previous.
func (d *Discoverer) DiscoverHost(ctx context.Context, b *broker.Broker, hostname string, previous []HostLabel) (DiffResult, error) {
	current, err := d.Discover(ctx, b, hostname)
	if err != nil {
		return DiffResult{}, err
	}
	return Diff(previous, current), nil
}

// DiscoverCluster discovers every node in order and merges their present
// labels, later nodes winning per label name.
func (d *Discoverer) DiscoverCluster(ctx context.Context, b *broker.Broker, nodes []string, previous map[string][]HostLabel) ([]HostLabel, error) {
	results := make([]DiffResult, 0, len(nodes))
	for _, node := range nodes {
		r, err := d.DiscoverHost(ctx, b, node, previous[node])
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return MergeNodes(results), nil
}

func callLabelFunc(fn LabelFunc, parsed any) (labels []HostLabel, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("host label function panicked: %w", e)
				return
			}
			err = fmt.Errorf("host label function panicked: %v", r)
		}
	}()
	return fn(parsed)
}
