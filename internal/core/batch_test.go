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
	"errors"
	"testing"
)

// batchRunner records which domains were attempted and fails on demand.
type batchRunner struct {
	attempted []string
	failOn    map[string]error
	onRun     func(domain string)
}

func (r *batchRunner) Run(ctx context.Context, domain, outDir string) (int, error) {
	r.attempted = append(r.attempted, domain)
	if r.onRun != nil {
		r.onRun(domain)
	}
	if err, ok := r.failOn[domain]; ok {
		return 0, err
	}
	return 1, nil
}

func TestRunBatchSkipsInvalidAndContinuesPastFailures(t *testing.T) {
	t.Parallel()
	runner := &batchRunner{
		failOn: map[string]error{"b.example.com": errors.New("HTTP 500")},
	}
	domains := []string{
		"a.example.com",
		"not a domain",
		"b.example.com",
		"c.example.com",
	}

	ticks := 0
	res := RunBatch(context.Background(), runner, ModeURL, domains, "logs", func() { ticks++ })

	// Every valid domain is attempted, in input order, even after a failure.
	want := []string{"a.example.com", "b.example.com", "c.example.com"}
	if len(runner.attempted) != len(want) {
		t.Fatalf("attempted = %v, want %v", runner.attempted, want)
	}
	for i := range want {
		if runner.attempted[i] != want[i] {
			t.Fatalf("attempted = %v, want %v", runner.attempted, want)
		}
	}

	if res.Total != 4 || res.Skipped != 1 || res.Failed != 1 {
		t.Fatalf("result = %+v, want Total 4, Skipped 1, Failed 1", res)
	}
	if res.Cancelled {
		t.Fatal("a per-domain failure must not cancel the batch")
	}
	if ticks != 4 {
		t.Fatalf("progress ticks = %d, want one per input line", ticks)
	}
}

func TestRunBatchAllInvalid(t *testing.T) {
	t.Parallel()
	runner := &batchRunner{}
	res := RunBatch(context.Background(), runner, ModeDNS, []string{"nope", "also bad"}, "logs", nil)

	if len(runner.attempted) != 0 {
		t.Fatalf("invalid domains were attempted: %v", runner.attempted)
	}
	if res.Skipped != 2 || res.Failed != 0 {
		t.Fatalf("result = %+v, want Skipped 2", res)
	}
}

func TestRunBatchStopsOnCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())

	runner := &batchRunner{}
	runner.onRun = func(domain string) {
		if domain == "b.example.com" {
			cancel()
		}
	}
	runner.failOn = map[string]error{"b.example.com": context.Canceled}

	domains := []string{"a.example.com", "b.example.com", "c.example.com"}
	res := RunBatch(ctx, runner, ModeURL, domains, "logs", nil)

	if !res.Cancelled {
		t.Fatal("cancellation not reported")
	}
	if len(runner.attempted) != 2 {
		t.Fatalf("attempted = %v, want iteration to stop after the cancelled domain", runner.attempted)
	}
	if res.Failed != 0 {
		t.Fatalf("cancelled domain counted as failed: %+v", res)
	}
}
