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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCredentialsLiteral(t *testing.T) {
	t.Parallel()
	creds, err := LoadCredentials("deadbeefcafe")
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if len(creds) != 1 || creds[0] != "deadbeefcafe" {
		t.Fatalf("creds = %v, want the literal value", creds)
	}
}

func TestLoadCredentialsFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "keys.txt")
	content := "key-one\n\n# a comment\nkey-two\r\n  key-three  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	want := []string{"key-one", "key-two", "key-three"}
	if len(creds) != len(want) {
		t.Fatalf("creds = %v, want %v", creds, want)
	}
	for i := range want {
		if creds[i] != want[i] {
			t.Fatalf("creds = %v, want %v", creds, want)
		}
	}
}

func TestLoadCredentialsEmpty(t *testing.T) {
	t.Parallel()
	if _, err := LoadCredentials(""); !IsConfigError(err) {
		t.Fatalf("empty source: expected ConfigError, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("# only comments\n\n"), 0o644); err != nil {
		t.Fatalf("writing key file: %v", err)
	}
	if _, err := LoadCredentials(path); !IsConfigError(err) {
		t.Fatalf("empty key file: expected ConfigError, got %v", err)
	}
}

func TestKeyringRoundRobin(t *testing.T) {
	t.Parallel()
	creds := []string{"a", "b", "c"}
	kr, err := NewKeyring(creds, 0, true)
	if err != nil {
		t.Fatalf("NewKeyring: %v", err)
	}
	for i := 0; i < 10; i++ {
		if got, want := kr.Next(), creds[i%len(creds)]; got != want {
			t.Fatalf("Next() call %d = %q, want %q", i, got, want)
		}
	}
}

func TestKeyringNoRotation(t *testing.T) {
	t.Parallel()
	kr, err := NewKeyring([]string{"a", "b"}, 0, false)
	if err != nil {
		t.Fatalf("NewKeyring: %v", err)
	}
	for i := 0; i < 5; i++ {
		if got := kr.Next(); got != "a" {
			t.Fatalf("Next() call %d = %q, want the first key only", i, got)
		}
	}
}

func TestKeyringEmpty(t *testing.T) {
	t.Parallel()
	if _, err := NewKeyring(nil, 0, true); !IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestThrottleSpacesSameCredential(t *testing.T) {
	t.Parallel()
	const gap = 80 * time.Millisecond
	kr, err := NewKeyring([]string{"a"}, gap, false)
	if err != nil {
		t.Fatalf("NewKeyring: %v", err)
	}

	ctx := context.Background()
	start := time.Now()
	if err := kr.Throttle(ctx, "a"); err != nil {
		t.Fatalf("first Throttle: %v", err)
	}
	if err := kr.Throttle(ctx, "a"); err != nil {
		t.Fatalf("second Throttle: %v", err)
	}
	if elapsed := time.Since(start); elapsed < gap {
		t.Fatalf("second use of the same key after %v, want at least %v", elapsed, gap)
	}
}

func TestThrottleIndependentCredentials(t *testing.T) {
	t.Parallel()
	kr, err := NewKeyring([]string{"a", "b"}, time.Second, true)
	if err != nil {
		t.Fatalf("NewKeyring: %v", err)
	}

	ctx := context.Background()
	start := time.Now()
	if err := kr.Throttle(ctx, "a"); err != nil {
		t.Fatalf("Throttle a: %v", err)
	}
	if err := kr.Throttle(ctx, "b"); err != nil {
		t.Fatalf("Throttle b: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("different keys waited on each other: %v elapsed", elapsed)
	}
}

func TestThrottleRecordsLastUse(t *testing.T) {
	t.Parallel()
	kr, err := NewKeyring([]string{"a"}, 0, false)
	if err != nil {
		t.Fatalf("NewKeyring: %v", err)
	}
	if _, ok := kr.LastUse("a"); ok {
		t.Fatal("LastUse set before first use")
	}
	if err := kr.Throttle(context.Background(), "a"); err != nil {
		t.Fatalf("Throttle: %v", err)
	}
	if _, ok := kr.LastUse("a"); !ok {
		t.Fatal("LastUse not recorded after Throttle")
	}
}

func TestThrottleUnknownCredential(t *testing.T) {
	t.Parallel()
	kr, err := NewKeyring([]string{"a"}, 0, false)
	if err != nil {
		t.Fatalf("NewKeyring: %v", err)
	}
	if err := kr.Throttle(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for a credential the ring does not own")
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()
	fp := Fingerprint("super-secret-api-key")
	if len(fp) != 8 {
		t.Fatalf("fingerprint %q is not 8 hex chars", fp)
	}
	if fp == "super-se" {
		t.Fatal("fingerprint leaks the raw key prefix")
	}
	if fp != Fingerprint("super-secret-api-key") {
		t.Fatal("fingerprint is not stable")
	}
	if fp == Fingerprint("another-key") {
		t.Fatal("distinct keys collided")
	}
}
