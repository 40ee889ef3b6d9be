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
	"log"

	"github.com/x-stp/otxgrab/internal/metrics"
	"github.com/x-stp/otxgrab/internal/util"
)

// DomainRunner processes a single domain. *Fetcher is the production
// implementation; tests substitute a fake.
type DomainRunner interface {
	Run(ctx context.Context, domain, outDir string) (int, error)
}

// BatchResult summarizes one batch run over a domain list.
type BatchResult struct {
	Total   int
	Skipped int
	Failed  int
	// Cancelled is set when the run stopped early on context cancellation.
	Cancelled bool
}

// RunBatch processes domains strictly in input order. Invalid lines are
// logged and skipped, and a failure on one domain never aborts the batch;
// only context cancellation stops the iteration early. progress, when
// non-nil, is called once per consumed input line.
func RunBatch(ctx context.Context, runner DomainRunner, mode Mode, domains []string, outDir string, progress func()) BatchResult {
	res := BatchResult{Total: len(domains)}

	for _, domain := range domains {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}

		if !util.IsValidDomain(domain) {
			log.Printf("skipping invalid domain %q", domain)
			metrics.RecordDomain(string(mode), "skipped")
			res.Skipped++
			if progress != nil {
				progress()
			}
			continue
		}

		if _, err := runner.Run(ctx, domain, outDir); err != nil {
			if ctx.Err() != nil {
				res.Cancelled = true
				break
			}
			log.Printf("domain %s failed: %v", domain, err)
			res.Failed++
		}
		if progress != nil {
			progress()
		}
	}
	return res
}
