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

// Shared defaults surfaced to the CLI. The backoff and throttling defaults
// live as envconfig tags on Tunables; these are the ones flags also expose.
const (
	// DefaultPageLimit is the URL-mode page size when neither the -l flag
	// nor OTXGRAB_PAGE_LIMIT overrides it.
	DefaultPageLimit = 100

	// DefaultOutputDir is where per-domain artifact directories are created.
	DefaultOutputDir = "logs"
)
