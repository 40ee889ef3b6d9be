/*
Package otx contains the data models and endpoint calls for the AlienVault
OTX-style threat-intelligence API. Two read-only endpoints are used: a
single-shot passive DNS lookup and a paginated URL indicator listing. Both
authenticate with an API key passed in the X-OTX-API-KEY header.
*/
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

// PassiveDNSRecord is a single historical resolution record.
// JSON null fields decode to the zero value, which callers filter out.
// Used for unmarshalling JSON (allocates).
type PassiveDNSRecord struct {
	Hostname   string `json:"hostname"`
	Address    string `json:"address"`
	RecordType string `json:"record_type"`
	FirstSeen  string `json:"first"`
	LastSeen   string `json:"last"`
}

// PassiveDNSResponse is the body of the passive_dns endpoint.
type PassiveDNSResponse struct {
	PassiveDNS []PassiveDNSRecord `json:"passive_dns"`
	Count      int                `json:"count"`
}

// Hostnames returns the hostname field of every record that has one.
// Records whose hostname was absent or JSON null are dropped here rather
// than surfacing empty strings to the aggregation layer.
func (r *PassiveDNSResponse) Hostnames() []string {
	if r == nil || len(r.PassiveDNS) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.PassiveDNS))
	for _, rec := range r.PassiveDNS {
		if rec.Hostname == "" {
			continue
		}
		out = append(out, rec.Hostname)
	}
	return out
}

// URLRecord is a single URL indicator entry.
type URLRecord struct {
	URL      string `json:"url"`
	Domain   string `json:"domain"`
	Hostname string `json:"hostname"`
	HTTPCode int    `json:"httpcode"`
	Date     string `json:"date"`
}

// URLListResponse is one page of the url_list endpoint.
// ActualSize and FullSize are advisory counts used only for progress
// reporting; pagination terminates on an empty URLList, not on HasNext.
type URLListResponse struct {
	URLList    []URLRecord `json:"url_list"`
	HasNext    bool        `json:"has_next"`
	ActualSize int         `json:"actual_size"`
	FullSize   int         `json:"full_size"`
	PageNum    int         `json:"page_num"`
}

// URLs returns the url field of every record that has one.
func (r *URLListResponse) URLs() []string {
	if r == nil || len(r.URLList) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.URLList))
	for _, rec := range r.URLList {
		if rec.URL == "" {
			continue
		}
		out = append(out, rec.URL)
	}
	return out
}

// apiErrorBody is the JSON shape some non-200 responses carry.
// Both fields are optional.
type apiErrorBody struct {
	ErrorText string `json:"error"`
	Detail    string `json:"detail"`
}
