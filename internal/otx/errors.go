package otx

/*
otxgrab — passive DNS and URL indicator fetcher for domains
Copyright (C) 2026  otxgrab authors

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusTransportError is the sentinel status recorded when the request
// never produced an HTTP response (DNS failure, connect timeout, etc).
const StatusTransportError = 0

// APIError describes a non-200 outcome from the indicator API.
// Status is the HTTP status code, or StatusTransportError when the
// failure happened below HTTP. Message and Detail carry the optional
// `error` and `detail` fields from the response body when present.
type APIError struct {
	Status  int
	Message string
	Detail  string
	Err     error // underlying transport error, if any
}

// Error implements the standard `error` interface.
func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("request failed: %v", e.Err)
	case e.Message != "" && e.Detail != "":
		return fmt.Sprintf("HTTP %d: %s (%s)", e.Status, e.Message, e.Detail)
	case e.Message != "":
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	case e.Detail != "":
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
	default:
		return fmt.Sprintf("HTTP %d", e.Status)
	}
}

// Unwrap exposes the transport error for errors.Is/As chains.
func (e *APIError) Unwrap() error { return e.Err }

// RateLimited reports whether this error is the transient 429 case that
// the fetch loop retries with backoff. Every other APIError is terminal
// for the current domain.
func (e *APIError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// IsRateLimited is a helper to check an arbitrary error for the
// retryable rate-limit condition without a manual type assertion.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RateLimited()
	}
	return false
}
