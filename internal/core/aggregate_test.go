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
	"os"
	"path/filepath"
	"testing"
)

func TestRecordSetAddFiltersAndDedupes(t *testing.T) {
	t.Parallel()
	rs := NewRecordSet()

	if added := rs.Add("a.example.com", "b.example.com"); added != 2 {
		t.Fatalf("first Add = %d, want 2", added)
	}
	if added := rs.Add("a.example.com"); added != 0 {
		t.Fatalf("duplicate Add = %d, want 0", added)
	}
	if added := rs.Add("", "  ", "null", "<nil>"); added != 0 {
		t.Fatalf("placeholder Add = %d, want 0", added)
	}
	if added := rs.Add("  c.example.com  "); added != 1 {
		t.Fatalf("trimmed Add = %d, want 1", added)
	}
	if rs.Len() != 3 {
		t.Fatalf("Len = %d, want 3", rs.Len())
	}
}

func TestRecordSetSorted(t *testing.T) {
	t.Parallel()
	rs := NewRecordSet()
	rs.Add("zeta.example.com", "alpha.example.com", "mid.example.com")

	got := rs.Sorted()
	want := []string{"alpha.example.com", "mid.example.com", "zeta.example.com"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted = %v, want %v", got, want)
		}
	}

	// The receiver keeps insertion order.
	if rs.order[0] != "zeta.example.com" {
		t.Fatalf("Sorted mutated the receiver: %v", rs.order)
	}
}

func TestRecordSetWriteFile(t *testing.T) {
	t.Parallel()
	rs := NewRecordSet()
	rs.Add("b.example.com", "a.example.com", "b.example.com")

	path := filepath.Join(t.TempDir(), "example.com", "dns_data.txt")
	count, err := rs.WriteFile(path)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if got, want := string(data), "a.example.com\nb.example.com\n"; got != want {
		t.Fatalf("artifact = %q, want %q", got, want)
	}
}

func TestRecordSetWriteFileEmpty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nothing", "url_data.txt")
	count, err := NewRecordSet().WriteFile(path)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("empty artifact missing: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("empty artifact has %d bytes", info.Size())
	}
}

func TestRecordSetWriteFileOverwrites(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "d", "url_data.txt")

	rs := NewRecordSet()
	rs.Add("http://old/1", "http://old/2")
	if _, err := rs.WriteFile(path); err != nil {
		t.Fatalf("first WriteFile: %v", err)
	}

	rs = NewRecordSet()
	rs.Add("http://new/1")
	if _, err := rs.WriteFile(path); err != nil {
		t.Fatalf("second WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if got := string(data); got != "http://new/1\n" {
		t.Fatalf("artifact = %q, want only the second run's records", got)
	}
}
