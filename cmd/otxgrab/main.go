/*
Package main is the entry point for the otxgrab command-line application.

otxgrab queries a threat-intelligence API for domain-related indicators and
writes deduplicated, sorted result files per domain:
  - Passive DNS records (single-shot query, hostnames).
  - URL indicators (paginated query, URLs).

Domains come from -d (single) or -f (newline-delimited file); credentials
from -k (literal key or key file, one per line). The mode selector -t picks
dns or url. Output lands in logs/<domain>/dns_data.txt or url_data.txt.

The fetch loop handles pagination, per-key throttling, round-robin rotation
across multiple keys, and rate-limit backoff with escalation. Processing is
strictly sequential: one domain at a time, one request in flight. Graceful
shutdown is handled via context cancellation on SIGINT/SIGTERM.
*/
package main

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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/x-stp/otxgrab/internal/core"
	"github.com/x-stp/otxgrab/internal/metrics"
	"github.com/x-stp/otxgrab/internal/util"
)

var (
	domainFlag  string
	fileFlag    string
	keyFlag     string
	modeFlag    string
	limitFlag   int
	outputDir   string
	metricsPort int
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:           "otxgrab",
	Short:         "otxgrab - passive DNS and URL indicator fetcher for domains",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&domainFlag, "domain", "d", "", "Single domain to query")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "File with domains to query (one per line)")
	rootCmd.Flags().StringVarP(&keyFlag, "key", "k", "", "API key, or path to a file of keys (one per line)")
	rootCmd.Flags().StringVarP(&modeFlag, "type", "t", "", "Query type: dns or url (required)")
	rootCmd.Flags().IntVarP(&limitFlag, "limit", "l", core.DefaultPageLimit, "Page size for url mode")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", core.DefaultOutputDir, "Output directory for result files")
	rootCmd.Flags().IntVar(&metricsPort, "metrics-port", 0, "Prometheus metrics port (0 disables)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress banner and progress bar")

	if err := rootCmd.MarkFlagRequired("type"); err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) error {
	tun, err := core.LoadTunables()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("limit") {
		tun.PageLimit = limitFlag
	}

	mode, err := core.ParseMode(modeFlag)
	if err != nil {
		return err
	}

	if domainFlag == "" && fileFlag == "" {
		return core.NewConfigError("nothing to do: give a domain with -d or a domain file with -f")
	}

	if !quiet && !tun.NoBanner {
		printBanner()
	}

	creds, err := core.LoadCredentials(keyFlag)
	if err != nil {
		return err
	}
	keyring, err := core.NewKeyring(creds, tun.KeyGap(), mode == core.ModeURL)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d credential(s), mode %s, page size %d", keyring.Len(), mode, tun.PageLimit)

	if metricsPort > 0 {
		metrics.EnableMetrics()
		if err := metrics.StartMetricsServer(fmt.Sprintf(":%d", metricsPort)); err != nil {
			log.Printf("Failed to start metrics server: %v", err)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			if err := metrics.ShutdownMetricsServer(shutdownCtx); err != nil {
				log.Printf("Metrics server shutdown: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, initiating shutdown...", sig)
		cancel()
	}()

	fetcher := core.NewFetcher(mode, keyring, tun)

	// -d takes precedence when both are given; mutual exclusivity is
	// deliberately not enforced.
	if domainFlag != "" {
		return runSingle(ctx, fetcher, domainFlag)
	}
	return runBatch(ctx, fetcher, mode, fileFlag)
}

// runSingle processes one domain. Invalid syntax is fatal here; an API
// failure is logged but still exits 0, matching batch semantics where a
// failed domain is not a failed run.
func runSingle(ctx context.Context, fetcher *core.Fetcher, domain string) error {
	if !util.IsValidDomain(domain) {
		return core.NewConfigError("invalid domain %q", domain)
	}
	if _, err := fetcher.Run(ctx, domain, outputDir); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		log.Printf("domain %s failed: %v", domain, err)
	}
	return nil
}

// runBatch reads the domain file and hands the list to core.RunBatch,
// rendering a progress bar over the iteration unless --quiet.
func runBatch(ctx context.Context, fetcher *core.Fetcher, mode core.Mode, path string) error {
	domains, err := util.ReadLines(path)
	if err != nil {
		return core.NewConfigError("cannot read domain file %q: %v", path, err)
	}
	if len(domains) == 0 {
		log.Printf("Warning: domain file %q contains no entries", path)
		return nil
	}

	var progress *mpb.Progress
	var bar *mpb.Bar
	var tick func()
	if !quiet {
		progress = mpb.New(mpb.WithOutput(os.Stderr), mpb.WithWidth(64))
		bar = progress.AddBar(int64(len(domains)),
			mpb.PrependDecorators(
				decor.Name("domains "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
		tick = func() { bar.Increment() }
	}

	res := core.RunBatch(ctx, fetcher, mode, domains, outputDir, tick)

	if bar != nil {
		if res.Cancelled {
			bar.Abort(true)
		}
		progress.Wait()
	}

	log.Printf("Batch complete: %d domains (%d skipped, %d failed)", res.Total, res.Skipped, res.Failed)
	return nil
}

func printBanner() {
	fmt.Fprintln(os.Stderr, `┌──────────────────────────────────────────┐`)
	fmt.Fprintln(os.Stderr, `│ otxgrab — domain indicator recon         │`)
	fmt.Fprintln(os.Stderr, `│ passive DNS + URL indicators             │`)
	fmt.Fprintln(os.Stderr, `└──────────────────────────────────────────┘`)
}
