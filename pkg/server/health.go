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

package server

import (
	"net/http"
	"time"

	"github.com/NVIDIA/section-broker/pkg/serializer"
)

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string    `json:"status" yaml:"status"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// probe serves a liveness or readiness check. check reports whether the
// probe passes and, if not, why.
func probe(okStatus, failStatus string, check func() (bool, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed,
				"method not allowed", false, map[string]any{"method": r.Method})
			return
		}

		resp := HealthResponse{Status: okStatus, Timestamp: time.Now().UTC()}
		code := http.StatusOK
		if ok, reason := check(); !ok {
			resp.Status, resp.Reason = failStatus, reason
			code = http.StatusServiceUnavailable
		}
		serializer.RespondJSON(w, code, resp)
	}
}

func alwaysHealthy() (bool, string) {
	return true, ""
}

// isReady requires the listener to be up and the configured readiness check,
// if any, to pass.
func (s *Server) isReady() (bool, string) {
	s.mu.RLock()
	listening := s.ready
	s.mu.RUnlock()

	if !listening {
		return false, "server is not listening"
	}
	if s.config.Readiness != nil {
		return s.config.Readiness()
	}
	return true, ""
}
