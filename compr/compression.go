// Copyright (C) 2023 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package compr selects streaming compression codecs by file
// extension, so corpus and report files can be read and written
// transparently whether or not they are compressed.
package compr

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// Reader wraps r in the decoder selected by ext. The extensions
// ".gz", ".gzip", ".zst", ".zstd", and ".s2" select a codec; any
// other extension returns r unchanged behind a no-op Close. Closing
// the returned reader releases the codec but leaves r open.
func Reader(r io.Reader, ext string) (io.ReadCloser, error) {
	switch ext {
	case ".gz", ".gzip":
		return gzip.NewReader(r)
	case ".zst", ".zstd":
		// single-threaded codec; callers parallelize across files
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case ".s2":
		return io.NopCloser(s2.NewReader(r)), nil
	}
	return io.NopCloser(r), nil
}

// Writer wraps w in the encoder selected by ext; see Reader for the
// recognized extensions. Closing the returned writer flushes and
// terminates the compressed stream but leaves w open.
func Writer(w io.Writer, ext string) (io.WriteCloser, error) {
	switch ext {
	case ".gz", ".gzip":
		return gzip.NewWriter(w), nil
	case ".zst", ".zstd":
		return zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
	case ".s2":
		return s2.NewWriter(w), nil
	}
	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// OpenReader opens the file at path and decodes it according to the
// path's extension. Closing the returned reader closes the file.
func OpenReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := Reader(f, filepath.Ext(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileReader{rc: rc, f: f}, nil
}

type fileReader struct {
	rc	io.ReadCloser
	f	*os.File
}

func (r *fileReader) Read(p []byte) (int, error) { return r.rc.Read(p) }

func (r *fileReader) Close() error {
	err := r.rc.Close()
	if err2 := r.f.Close(); err == nil {
		err = err2
	}
	return err
}

// Create creates the file at path, encoding writes according to the
// path's extension. Closing the returned writer finishes the stream
// and closes the file.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	wc, err := Writer(f, filepath.Ext(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileWriter{wc: wc, f: f}, nil
}

type fileWriter struct {
	wc	io.WriteCloser
	f	*os.File
}

func (w *fileWriter) Write(p []byte) (int, error) { return w.wc.Write(p) }

func (w *fileWriter) Close() error {
	err := w.wc.Close()
	if err2 := w.f.Close(); err == nil {
		err = err2
	}
	return err
}
