package metrics

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
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry           = prometheus.NewRegistry()
	defaultRegisterer  = promauto.With(registry)
	metricsInitialized sync.Once
	metricsEnabled     bool
	metricsServer      *http.Server
)

// Metrics contains all the Prometheus metrics for the application.
type Metrics struct {
	// API request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Backoff metrics
	RateLimitHitsTotal *prometheus.CounterVec
	CooldownSeconds    *prometheus.HistogramVec

	// Key rotation metrics
	KeyThrottleWaitSeconds *prometheus.HistogramVec

	// Result metrics
	RecordsCollectedTotal *prometheus.CounterVec
	DomainsProcessedTotal *prometheus.CounterVec
}

// Global instance of metrics
var globalMetrics *Metrics
var metricsOnce sync.Once

// GetMetrics returns the global metrics instance.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = newMetrics()
	})
	return globalMetrics
}

// EnableMetrics enables metrics collection.
func EnableMetrics() {
	metricsEnabled = true
}

// IsMetricsEnabled returns whether metrics collection is enabled.
func IsMetricsEnabled() bool {
	return metricsEnabled
}

// newMetrics creates and registers all metrics.
func newMetrics() *Metrics {
	buckets := []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 180, 300}

	return &Metrics{
		RequestsTotal: defaultRegisterer.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otxgrab_api_requests_total",
				Help: "Total number of indicator API requests by endpoint and HTTP status",
			},
			[]string{"endpoint", "status"},
		),
		RequestDuration: defaultRegisterer.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "otxgrab_api_request_duration_seconds",
				Help:    "Time spent on indicator API requests",
				Buckets: buckets,
			},
			[]string{"endpoint"},
		),
		RateLimitHitsTotal: defaultRegisterer.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otxgrab_rate_limit_hits_total",
				Help: "Total number of HTTP 429 responses received",
			},
			[]string{"endpoint"},
		),
		CooldownSeconds: defaultRegisterer.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "otxgrab_cooldown_seconds",
				Help:    "Duration of rate-limit cooldown sleeps by kind (short, long)",
				Buckets: buckets,
			},
			[]string{"kind"},
		),
		KeyThrottleWaitSeconds: defaultRegisterer.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "otxgrab_key_throttle_wait_seconds",
				Help:    "Time spent waiting for the per-key minimum gap, labelled by key fingerprint",
				Buckets: buckets,
			},
			[]string{"key"},
		),
		RecordsCollectedTotal: defaultRegisterer.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otxgrab_records_collected_total",
				Help: "Total number of indicator records accepted by the aggregator",
			},
			[]string{"mode"},
		),
		DomainsProcessedTotal: defaultRegisterer.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otxgrab_domains_processed_total",
				Help: "Total number of domains processed by mode and outcome (ok, empty, failed, skipped)",
			},
			[]string{"mode", "outcome"},
		),
	}
}

// RecordRequest records one API request outcome. A status of 0 means the
// request failed before an HTTP response was received.
func RecordRequest(endpoint string, status int, d time.Duration) {
	if !metricsEnabled {
		return
	}
	m := GetMetrics()
	m.RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
	if status == http.StatusTooManyRequests {
		m.RateLimitHitsTotal.WithLabelValues(endpoint).Inc()
	}
}

// ObserveCooldown records a rate-limit cooldown sleep.
func ObserveCooldown(kind string, d time.Duration) {
	if !metricsEnabled {
		return
	}
	GetMetrics().CooldownSeconds.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveThrottleWait records time spent blocked on a credential's minimum gap.
func ObserveThrottleWait(keyFingerprint string, d time.Duration) {
	if !metricsEnabled {
		return
	}
	GetMetrics().KeyThrottleWaitSeconds.WithLabelValues(keyFingerprint).Observe(d.Seconds())
}

// AddRecords counts records accepted by the aggregator.
func AddRecords(mode string, n int) {
	if !metricsEnabled || n <= 0 {
		return
	}
	GetMetrics().RecordsCollectedTotal.WithLabelValues(mode).Add(float64(n))
}

// RecordDomain counts one processed domain with its outcome.
func RecordDomain(mode, outcome string) {
	if !metricsEnabled {
		return
	}
	GetMetrics().DomainsProcessedTotal.WithLabelValues(mode, outcome).Inc()
}

// StartMetricsServer starts an HTTP server to expose Prometheus metrics.
func StartMetricsServer(addr string) error {
	if !metricsEnabled {
		return nil
	}

	var startErr error
	metricsInitialized.Do(func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

		metricsServer = &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		go func() {
			log.Printf("Starting metrics server on %s", addr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	})

	return startErr
}

// ShutdownMetricsServer gracefully shuts down the metrics server.
func ShutdownMetricsServer(ctx context.Context) error {
	if metricsServer != nil {
		log.Println("Shutting down metrics server...")
		return metricsServer.Shutdown(ctx)
	}
	return nil
}
