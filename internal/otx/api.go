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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/x-stp/otxgrab/internal/client"
	"github.com/x-stp/otxgrab/internal/metrics"
)

const (
	// APIKeyHeader carries the credential on every request.
	APIKeyHeader = "X-OTX-API-KEY"

	userAgent = "otxgrab (+https://github.com/x-stp/otxgrab)"
)

// Endpoint format strings. Package-level vars so tests can point them at a
// local httptest server; production code never mutates them.
var (
	// PassiveDNSURL is the single-shot passive DNS lookup endpoint.
	PassiveDNSURL = "https://otx.alienvault.com/api/v1/indicators/domain/%s/passive_dns"
	// URLListURL is the paginated URL indicator endpoint.
	URLListURL = "https://otx.alienvault.com/otxapi/indicators/hostname/url_list/%s?limit=%d&page=%d"
)

// GetPassiveDNS performs the single-shot passive DNS query for a domain.
// Operation: network bound. Allocates during HTTP fetch and JSON parsing.
func GetPassiveDNS(ctx context.Context, domain, key string) (*PassiveDNSResponse, error) {
	url := fmt.Sprintf(PassiveDNSURL, domain)

	body, err := doRequest(ctx, url, key, "passive_dns")
	if err != nil {
		return nil, err
	}

	var resp PassiveDNSResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		// A 200 with an unexpected body yields no records rather than
		// failing the run; the HTTP status is the failure signal.
		log.Printf("Warning: unparseable passive_dns body for %s: %v", domain, err)
		return &PassiveDNSResponse{}, nil
	}
	return &resp, nil
}

// GetURLPage fetches one page of URL indicators for a domain.
// Pagination is 1-based; the caller advances pages until one comes back empty.
func GetURLPage(ctx context.Context, domain, key string, limit, page int) (*URLListResponse, error) {
	url := fmt.Sprintf(URLListURL, domain, limit, page)

	body, err := doRequest(ctx, url, key, "url_list")
	if err != nil {
		return nil, err
	}

	var resp URLListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Printf("Warning: unparseable url_list body for %s page %d: %v", domain, page, err)
		return &URLListResponse{}, nil
	}
	return &resp, nil
}

// doRequest issues one authenticated GET and returns the body of a 200
// response. Every other outcome is mapped onto *APIError: transport
// failures get StatusTransportError, non-200 statuses keep their code and
// any error/detail fields found in the body.
func doRequest(ctx context.Context, url, key, endpoint string) ([]byte, error) {
	httpClient := client.GetHTTPClient()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(APIKeyHeader, key)

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		metrics.RecordRequest(endpoint, StatusTransportError, time.Since(start))
		// Context cancellation is not an API failure; let it propagate as-is.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &APIError{Status: StatusTransportError, Err: err}
	}
	defer resp.Body.Close()

	metrics.RecordRequest(endpoint, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Status: StatusTransportError, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody apiErrorBody
		if json.Unmarshal(body, &errBody) == nil {
			apiErr.Message = errBody.ErrorText
			apiErr.Detail = errBody.Detail
		}
		return nil, apiErr
	}

	return body, nil
}
