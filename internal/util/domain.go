/*
Package util holds small helpers shared by the CLI and core: domain syntax
validation, input file parsing, and filename sanitizing.
*/
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

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// domainRe matches a basic hostname: labels of alphanumerics and interior
// hyphens separated by dots, with a final label of at least two letters.
var domainRe = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// IsValidDomain reports whether s passes the basic hostname check used to
// gate API queries. Invalid domains are fatal in single-domain mode and
// skipped in batch mode.
func IsValidDomain(s string) bool {
	return domainRe.MatchString(s)
}

// ReadLines loads non-empty, non-comment lines from path, trimming
// whitespace and trailing carriage returns. Comment lines start with '#'.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimSuffix(sc.Text(), "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
