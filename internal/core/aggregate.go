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
	"sort"
	"strings"

	otxio "github.com/x-stp/otxgrab/internal/io"
)

// RecordSet accumulates extracted indicator strings for one domain+mode run.
// Blank entries and literal null placeholders are rejected at Add time;
// ordering is preserved internally and the corpus is sorted exactly once
// when the artifact is written.
type RecordSet struct {
	order []string
	seen  map[string]struct{}
}

// NewRecordSet returns an empty RecordSet.
func NewRecordSet() *RecordSet {
	return &RecordSet{seen: make(map[string]struct{})}
}

// Add accepts a batch of extracted values and returns how many were new.
// Values that are blank after trimming, or that are the literal placeholder
// a missing-field extraction produces, are dropped.
func (s *RecordSet) Add(values ...string) int {
	added := 0
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || v == "null" || v == "<nil>" {
			continue
		}
		if _, dup := s.seen[v]; dup {
			continue
		}
		s.seen[v] = struct{}{}
		s.order = append(s.order, v)
		added++
	}
	return added
}

// Len returns the number of distinct records collected so far.
func (s *RecordSet) Len() int { return len(s.order) }

// Sorted returns the records sorted lexicographically. The receiver is not
// modified; insertion order stays intact for callers that want it.
func (s *RecordSet) Sorted() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	sort.Strings(out)
	return out
}

// WriteFile finalizes the set into the artifact at path: sorted unique
// records, one per line. The file is always (re)created, even when the set
// is empty, so every run leaves exactly one artifact per domain and mode.
// Returns the number of records written.
func (s *RecordSet) WriteFile(path string) (int, error) {
	lw, err := otxio.NewLineWriter(path)
	if err != nil {
		return 0, err
	}
	for _, rec := range s.Sorted() {
		if err := lw.WriteLine(rec); err != nil {
			lw.Close()
			return 0, err
		}
	}
	if err := lw.Close(); err != nil {
		return 0, err
	}
	return s.Len(), nil
}
