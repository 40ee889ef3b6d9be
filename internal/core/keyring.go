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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
	"golang.org/x/time/rate"

	"github.com/x-stp/otxgrab/internal/metrics"
)

// Fingerprint returns a short non-reversible identifier for a credential,
// safe for log lines and metric labels. Raw keys are never logged.
func Fingerprint(key string) string {
	return fmt.Sprintf("%08x", uint32(xxh3.HashString(key)))
}

// LoadCredentials resolves the -k argument into an ordered credential list.
// If source names a readable file, one credential per line is loaded; blank
// lines and lines starting with '#' are skipped and trailing carriage
// returns stripped. Otherwise source itself is the single credential.
// An empty result is a ConfigError.
func LoadCredentials(source string) ([]string, error) {
	if source == "" {
		return nil, NewConfigError("no API key given")
	}

	info, err := os.Stat(source)
	if err != nil || info.IsDir() {
		// Not a file; treat the literal value as the credential.
		return []string{source}, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, NewConfigError("cannot read key file %q: %v", source, err)
	}
	defer f.Close()

	var creds []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		creds = append(creds, line)
	}
	if err := sc.Err(); err != nil {
		return nil, NewConfigError("failed reading key file %q: %v", source, err)
	}
	if len(creds) == 0 {
		return nil, NewConfigError("key file %q contains no usable credentials", source)
	}
	return creds, nil
}

// Keyring owns the ordered credential list, the rotation cursor, and the
// per-credential spacing state. All state is instance-local so tests can
// construct fresh keyrings; the single-threaded fetch loop is the only
// mutator at runtime.
type Keyring struct {
	creds    []string
	rotate   bool
	next     int
	gap      time.Duration
	limiters map[string]*rate.Limiter
	lastUse  map[string]time.Time
}

// NewKeyring builds a Keyring over creds with the given minimum per-key gap.
// When rotate is false (DNS mode) Next always yields the first credential;
// when true (URL mode) credentials are handed out strict round-robin.
func NewKeyring(creds []string, gap time.Duration, rotate bool) (*Keyring, error) {
	if len(creds) == 0 {
		return nil, NewConfigError("credential list is empty")
	}

	limiters := make(map[string]*rate.Limiter, len(creds))
	for _, c := range creds {
		if _, ok := limiters[c]; ok {
			continue // duplicate keys share one limiter
		}
		// Burst 1 with one token per gap: first use is immediate, any
		// reuse of the same credential waits out the remaining gap.
		limiters[c] = rate.NewLimiter(rate.Every(gap), 1)
	}

	return &Keyring{
		creds:    creds,
		rotate:   rotate,
		gap:      gap,
		limiters: limiters,
		lastUse:  make(map[string]time.Time, len(creds)),
	}, nil
}

// Len returns the number of loaded credentials.
func (k *Keyring) Len() int { return len(k.creds) }

// Next yields the credential for the next request. Round-robin with
// wrap-around when rotation is enabled, otherwise always the first key.
func (k *Keyring) Next() string {
	if !k.rotate {
		return k.creds[0]
	}
	cred := k.creds[k.next%len(k.creds)]
	k.next++
	return cred
}

// Throttle blocks until cred's minimum gap has elapsed since its previous
// use, then records the use. Different credentials never wait on each other.
func (k *Keyring) Throttle(ctx context.Context, cred string) error {
	lim, ok := k.limiters[cred]
	if !ok {
		return fmt.Errorf("unknown credential %s", Fingerprint(cred))
	}

	start := time.Now()
	if err := lim.Wait(ctx); err != nil {
		return err
	}
	if waited := time.Since(start); waited > 0 {
		metrics.ObserveThrottleWait(Fingerprint(cred), waited)
	}
	k.lastUse[cred] = time.Now()
	return nil
}

// LastUse returns the timestamp of cred's most recent throttled use.
func (k *Keyring) LastUse(cred string) (time.Time, bool) {
	t, ok := k.lastUse[cred]
	return t, ok
}
