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
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/serializer"
)

// Error codes as constants
const (
	ErrCodeRateLimitExceeded  = string(apperrors.ErrCodeRateLimitExceeded)
	ErrCodeInternalError      = string(apperrors.ErrCodeInternal)
	ErrCodeServiceUnavailable = string(apperrors.ErrCodeUnavailable)
	ErrCodeInvalidRequest     = string(apperrors.ErrCodeInvalidRequest)
	ErrCodeNotFound           = string(apperrors.ErrCodeNotFound)
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
)

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// RequestID returns the request ID assigned by the middleware, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WriteError writes an ErrorResponse.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code, message string, retryable bool, details map[string]any) {

	requestID := RequestID(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFrom maps err to a status code and writes it. Structured errors
// keep their code and context; deadline and cancellation become timeouts.
func WriteErrorFrom(w http.ResponseWriter, r *http.Request, err error) {
	var se *apperrors.StructuredError
	switch {
	case stderrors.As(err, &se):
		status, retryable := statusFor(se.Code)
		WriteError(w, r, status, string(se.Code), se.Message, retryable, se.Context)
	case stderrors.Is(err, context.DeadlineExceeded):
		WriteError(w, r, http.StatusGatewayTimeout, string(apperrors.ErrCodeTimeout), err.Error(), true, nil)
	case stderrors.Is(err, context.Canceled):
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, err.Error(), true, nil)
	default:
		WriteError(w, r, http.StatusInternalServerError, ErrCodeInternalError, err.Error(), false, nil)
	}
}

func statusFor(code apperrors.ErrorCode) (int, bool) {
	switch code {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound, false
	case apperrors.ErrCodeInvalidRequest, apperrors.ErrCodeInvalidPlugin:
		return http.StatusBadRequest, false
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, true
	case apperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests, true
	case apperrors.ErrCodeUnavailable, apperrors.ErrCodeInterrupted:
		return http.StatusServiceUnavailable, true
	case apperrors.ErrCodeParseFailed:
		return http.StatusUnprocessableEntity, false
	default:
		return http.StatusInternalServerError, false
	}
}
