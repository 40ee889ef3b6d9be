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
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Tunables holds the environment-tunable knobs of the fetch loop. All values
// are optional; the defaults match the upstream API's documented behavior.
// Durations are expressed as whole seconds in the environment.
type Tunables struct {
	// KeyGapSeconds is the minimum spacing between two uses of the same credential.
	KeyGapSeconds int `envconfig:"OTXGRAB_KEY_GAP" default:"3"`
	// SuccessDelaySeconds is the self-throttle pause between successful page fetches.
	SuccessDelaySeconds int `envconfig:"OTXGRAB_SUCCESS_DELAY" default:"1"`
	// CooldownSeconds is the pause after an HTTP 429 below the escalation ceiling.
	CooldownSeconds int `envconfig:"OTXGRAB_COOLDOWN" default:"30"`
	// LongCooldownSeconds is the escalated pause once consecutive 429s hit the ceiling.
	LongCooldownSeconds int `envconfig:"OTXGRAB_LONG_COOLDOWN" default:"180"`
	// Max429 is the consecutive-429 ceiling that triggers the long cooldown.
	Max429 int `envconfig:"OTXGRAB_MAX_429" default:"5"`
	// PageLimit is the URL-mode page size.
	PageLimit int `envconfig:"OTXGRAB_PAGE_LIMIT" default:"100"`
	// MaxRetries caps total 429 retries across a whole domain run; the
	// counter is not reset when a page succeeds. 0 means retry forever,
	// which mirrors the upstream behavior of never giving up on rate limits.
	MaxRetries int `envconfig:"OTXGRAB_MAX_RETRIES" default:"0"`
	// NoBanner suppresses the decorative startup banner.
	NoBanner bool `envconfig:"OTXGRAB_NO_BANNER" default:"false"`
}

// LoadTunables processes the OTXGRAB_* environment variables and returns the
// resulting Tunables, with defaults applied for anything unset.
func LoadTunables() (*Tunables, error) {
	var t Tunables
	if err := envconfig.Process("", &t); err != nil {
		return nil, NewConfigError("invalid environment configuration: %v", err)
	}
	if t.Max429 < 1 {
		return nil, NewConfigError("OTXGRAB_MAX_429 must be >= 1, got %d", t.Max429)
	}
	if t.PageLimit < 1 {
		return nil, NewConfigError("OTXGRAB_PAGE_LIMIT must be >= 1, got %d", t.PageLimit)
	}
	return &t, nil
}

// KeyGap returns the per-credential minimum gap as a duration.
func (t *Tunables) KeyGap() time.Duration {
	return time.Duration(t.KeyGapSeconds) * time.Second
}

// SuccessDelay returns the inter-page pacing delay as a duration.
func (t *Tunables) SuccessDelay() time.Duration {
	return time.Duration(t.SuccessDelaySeconds) * time.Second
}

// Cooldown returns the short rate-limit cooldown as a duration.
func (t *Tunables) Cooldown() time.Duration {
	return time.Duration(t.CooldownSeconds) * time.Second
}

// LongCooldown returns the escalated rate-limit cooldown as a duration.
func (t *Tunables) LongCooldown() time.Duration {
	return time.Duration(t.LongCooldownSeconds) * time.Second
}
