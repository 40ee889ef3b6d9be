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
	"net/http"
	"testing"
)

func TestHostnamesNilSafety(t *testing.T) {
	t.Parallel()
	var r *PassiveDNSResponse
	if got := r.Hostnames(); got != nil {
		t.Fatalf("nil receiver Hostnames = %v", got)
	}
	if got := (&PassiveDNSResponse{}).Hostnames(); got != nil {
		t.Fatalf("empty response Hostnames = %v", got)
	}
}

func TestURLsNilSafety(t *testing.T) {
	t.Parallel()
	var r *URLListResponse
	if got := r.URLs(); got != nil {
		t.Fatalf("nil receiver URLs = %v", got)
	}
}

func TestURLsSkipsEmpty(t *testing.T) {
	t.Parallel()
	r := &URLListResponse{URLList: []URLRecord{
		{URL: "http://a"},
		{URL: ""},
		{URL: "http://b"},
	}}
	got := r.URLs()
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("URLs = %v", got)
	}
}

func TestAPIErrorMessages(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		err  *APIError
		want string
	}{
		{"status only", &APIError{Status: 500}, "HTTP 500"},
		{"with message", &APIError{Status: 403, Message: "forbidden"}, "HTTP 403: forbidden"},
		{"with detail", &APIError{Status: 403, Message: "forbidden", Detail: "key disabled"}, "HTTP 403: forbidden (key disabled)"},
		{"detail only", &APIError{Status: 400, Detail: "bad domain"}, "HTTP 400: bad domain"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("Error() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRateLimitedOnlyOn429(t *testing.T) {
	t.Parallel()
	for _, status := range []int{400, 401, 403, 500, 503, StatusTransportError} {
		if (&APIError{Status: status}).RateLimited() {
			t.Errorf("status %d reported as rate limited", status)
		}
	}
	if !(&APIError{Status: http.StatusTooManyRequests}).RateLimited() {
		t.Error("429 not reported as rate limited")
	}
	if IsRateLimited(nil) {
		t.Error("nil error reported as rate limited")
	}
}
