package util

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

import "strings"

// maxFilenameLength caps the directory name derived from a domain.
const maxFilenameLength = 100

// SanitizeFilename turns an untrusted domain string into a safe single path
// component for the per-domain output directory. Separator and shell-hostile
// characters become underscores, and leading dots are stripped so entries
// like ".." or ".hidden" from a hostile domain file can neither escape the
// output directory nor create hidden directories.
func SanitizeFilename(input string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, input)
	mapped = strings.TrimLeft(mapped, ".")
	if mapped == "" {
		mapped = "_"
	}
	if len(mapped) > maxFilenameLength {
		mapped = mapped[:maxFilenameLength]
	}
	return mapped
}
