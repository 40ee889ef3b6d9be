/*
Package io implements buffered writing of output artifacts. Artifacts are
plain text, one record per line, and are always recreated from empty so a
rerun never accumulates stale records.
*/
package io

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
	"fmt"
	"os"
	"path/filepath"
)

// DefaultBufferSize is the buffer size for artifact writes.
const DefaultBufferSize = 64 * 1024

// LineWriter writes newline-terminated records to a freshly created file,
// creating parent directories as needed.
type LineWriter struct {
	f            *os.File
	w            *bufio.Writer
	path         string
	linesWritten int
	bytesWritten int64
}

// NewLineWriter truncates or creates the artifact at path.
func NewLineWriter(path string) (*LineWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory for %q: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %q: %w", path, err)
	}
	return &LineWriter{
		f:    f,
		w:    bufio.NewWriterSize(f, DefaultBufferSize),
		path: path,
	}, nil
}

// WriteLine appends one record with a trailing newline.
func (lw *LineWriter) WriteLine(s string) error {
	n, err := lw.w.WriteString(s)
	if err != nil {
		return fmt.Errorf("writing to %q: %w", lw.path, err)
	}
	if err := lw.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing to %q: %w", lw.path, err)
	}
	lw.linesWritten++
	lw.bytesWritten += int64(n) + 1
	return nil
}

// LinesWritten returns the number of records written so far.
func (lw *LineWriter) LinesWritten() int { return lw.linesWritten }

// BytesWritten returns the number of bytes written so far, newlines included.
func (lw *LineWriter) BytesWritten() int64 { return lw.bytesWritten }

// Close flushes buffered data, syncs, and closes the file.
func (lw *LineWriter) Close() error {
	if err := lw.w.Flush(); err != nil {
		lw.f.Close()
		return fmt.Errorf("flushing %q: %w", lw.path, err)
	}
	if err := lw.f.Sync(); err != nil {
		lw.f.Close()
		return fmt.Errorf("syncing %q: %w", lw.path, err)
	}
	return lw.f.Close()
}
