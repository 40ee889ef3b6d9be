/*
Package core provides the central logic for otxgrab: credential rotation and
per-key throttling, the paginated fetch loop with rate-limit backoff, and
result aggregation into per-domain output artifacts.
*/
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
	"errors"
	"fmt"
)

// ConfigError is a fatal configuration problem: missing or invalid mode,
// empty credential set, unreadable input file. The CLI exits 1 on these.
type ConfigError struct {
	Reason string
}

// Error implements the standard `error` interface.
func (e *ConfigError) Error() string { return e.Reason }

// NewConfigError creates a ConfigError with a formatted reason.
func NewConfigError(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
