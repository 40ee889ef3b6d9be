package core

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
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/x-stp/otxgrab/internal/metrics"
	"github.com/x-stp/otxgrab/internal/otx"
	"github.com/x-stp/otxgrab/internal/util"
)

// Mode selects which indicator endpoint a run queries.
type Mode string

const (
	// ModeDNS is the single-shot passive DNS lookup.
	ModeDNS Mode = "dns"
	// ModeURL is the paginated URL indicator listing.
	ModeURL Mode = "url"
)

// ParseMode validates the -t flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDNS:
		return ModeDNS, nil
	case ModeURL:
		return ModeURL, nil
	default:
		return "", NewConfigError("invalid mode %q: must be dns or url", s)
	}
}

// OutputFile returns the artifact filename for the mode.
func (m Mode) OutputFile() string {
	if m == ModeDNS {
		return "dns_data.txt"
	}
	return "url_data.txt"
}

// API is the indicator endpoint surface the fetch loop depends on.
// The production implementation calls the otx package; tests substitute
// a scripted fake.
type API interface {
	GetPassiveDNS(ctx context.Context, domain, key string) (*otx.PassiveDNSResponse, error)
	GetURLPage(ctx context.Context, domain, key string, limit, page int) (*otx.URLListResponse, error)
}

// liveAPI forwards to the real endpoints.
type liveAPI struct{}

func (liveAPI) GetPassiveDNS(ctx context.Context, domain, key string) (*otx.PassiveDNSResponse, error) {
	return otx.GetPassiveDNS(ctx, domain, key)
}

func (liveAPI) GetURLPage(ctx context.Context, domain, key string, limit, page int) (*otx.URLListResponse, error) {
	return otx.GetURLPage(ctx, domain, key, limit, page)
}

// Fetcher drives the per-domain retrieval loop for one mode. It owns the
// keyring, the backoff policy, and the pacing limiter; everything is
// instance state so tests can build fresh fetchers with fake collaborators.
type Fetcher struct {
	mode Mode
	api  API
	keys *Keyring
	tun  *Tunables

	// pace spaces successful URL-mode page requests (the success delay).
	// Burst 1 means the first request goes out immediately.
	pace *rate.Limiter

	// sleep is context-aware and injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFetcher builds a production Fetcher.
func NewFetcher(mode Mode, keys *Keyring, tun *Tunables) *Fetcher {
	return &Fetcher{
		mode:  mode,
		api:   liveAPI{},
		keys:  keys,
		tun:   tun,
		pace:  rate.NewLimiter(rate.Every(tun.SuccessDelay()), 1),
		sleep: sleepCtx,
	}
}

// Run retrieves all indicators for domain and writes the finalized artifact
// under outDir/<domain>/. On a terminal API failure no artifact is written
// and the error is returned for the caller to log; batch callers continue
// with the next domain. Returns the record count written.
func (f *Fetcher) Run(ctx context.Context, domain, outDir string) (int, error) {
	rs := NewRecordSet()

	var err error
	switch f.mode {
	case ModeDNS:
		err = f.fetchDNS(ctx, domain, rs)
	case ModeURL:
		err = f.fetchURLs(ctx, domain, rs)
	default:
		return 0, NewConfigError("invalid mode %q", f.mode)
	}
	if err != nil {
		metrics.RecordDomain(string(f.mode), "failed")
		return 0, err
	}

	path := filepath.Join(outDir, util.SanitizeFilename(domain), f.mode.OutputFile())
	count, err := rs.WriteFile(path)
	if err != nil {
		metrics.RecordDomain(string(f.mode), "failed")
		return 0, fmt.Errorf("writing artifact: %w", err)
	}

	if count == 0 {
		log.Printf("Warning: no %s data found for %s (empty artifact written to %s)", f.mode, domain, path)
		metrics.RecordDomain(string(f.mode), "empty")
	} else {
		log.Printf("Wrote %d %s records for %s to %s", count, f.mode, domain, path)
		metrics.RecordDomain(string(f.mode), "ok")
	}
	return count, nil
}

// fetchDNS is the single-shot passive DNS query. One request, no retries:
// a non-200 is logged with any error/detail from the body and fails the
// domain.
func (f *Fetcher) fetchDNS(ctx context.Context, domain string, rs *RecordSet) error {
	key := f.keys.Next()
	if err := f.keys.Throttle(ctx, key); err != nil {
		return err
	}

	resp, err := f.api.GetPassiveDNS(ctx, domain, key)
	if err != nil {
		log.Printf("passive DNS query failed for %s (key %s): %v", domain, Fingerprint(key), err)
		return err
	}

	added := rs.Add(resp.Hostnames()...)
	metrics.AddRecords(string(ModeDNS), added)
	log.Printf("passive DNS for %s: %d hostnames (%d new)", domain, len(resp.PassiveDNS), added)
	return nil
}

// fetchURLs walks the paginated url_list endpoint starting at page 1.
// Transitions per response:
//   - 200 with records: aggregate, advance to the next page (paced).
//   - 200 with an empty list: pagination is complete.
//   - 429: short cooldown and retry the same page; once the consecutive-429
//     ceiling is hit, one long cooldown and the counter resets. A fresh key
//     is drawn from rotation for every attempt.
//   - anything else: terminal for this domain.
func (f *Fetcher) fetchURLs(ctx context.Context, domain string, rs *RecordSet) error {
	page := 1
	consecutive429 := 0
	totalRetries := 0

	for {
		if err := f.pace.Wait(ctx); err != nil {
			return err
		}

		key := f.keys.Next()
		if err := f.keys.Throttle(ctx, key); err != nil {
			return err
		}

		resp, err := f.api.GetURLPage(ctx, domain, key, f.tun.PageLimit, page)
		if err != nil {
			if !otx.IsRateLimited(err) {
				log.Printf("url_list page %d failed for %s (key %s): %v", page, domain, Fingerprint(key), err)
				return err
			}

			consecutive429++
			totalRetries++
			if f.tun.MaxRetries > 0 && totalRetries > f.tun.MaxRetries {
				log.Printf("giving up on %s page %d after %d rate-limit retries", domain, page, totalRetries-1)
				return err
			}

			cooldown := f.tun.Cooldown()
			kind := "short"
			if consecutive429 >= f.tun.Max429 {
				cooldown = f.tun.LongCooldown()
				kind = "long"
				consecutive429 = 0
			}
			log.Printf("rate limited on %s page %d (key %s, %s cooldown %s)", domain, page, Fingerprint(key), kind, cooldown)
			metrics.ObserveCooldown(kind, cooldown)
			if err := f.sleep(ctx, cooldown); err != nil {
				return err
			}
			continue // same page
		}

		consecutive429 = 0
		urls := resp.URLs()
		if len(urls) == 0 {
			// Empty page is the pagination termination condition, not an error.
			return nil
		}

		added := rs.Add(urls...)
		metrics.AddRecords(string(ModeURL), added)
		if resp.FullSize > 0 {
			log.Printf("url_list for %s page %d: %d URLs (%d collected of ~%d)", domain, page, len(urls), rs.Len(), resp.FullSize)
		} else {
			log.Printf("url_list for %s page %d: %d URLs (%d collected)", domain, page, len(urls), rs.Len())
		}
		page++
	}
}

// sleepCtx blocks for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
