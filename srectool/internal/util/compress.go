// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression returns the compression method implied by the name suffix:
// "gz", "zst", "lz4" or "" if the file isn't compressed.
func Compression(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return "gz"
	case ".zst":
		return "zst"
	case ".lz4":
		return "lz4"
	}
	return ""
}

// TrimExt removes the compression suffix (if any) and the format suffix from
// the file name.
func TrimExt(name string) string {
	if Compression(name) != "" {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

type file struct {
	io.Reader
	io.Writer
	closers []func() error
}

func (f *file) Close() error {
	var errs []error
	for _, c := range f.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Open opens the named file for reading. The content of .gz, .zst and .lz4
// files is transparently decompressed.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	rc := &file{Reader: f}
	switch Compression(name) {
	case "gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		rc.Reader = zr
		rc.closers = append(rc.closers, zr.Close)
	case "zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		rc.Reader = zr
		rc.closers = append(rc.closers, func() error { zr.Close(); return nil })
	case "lz4":
		rc.Reader = lz4.NewReader(f)
	}
	rc.closers = append(rc.closers, f.Close)
	return rc, nil
}

// Create creates the named file for writing. The data written to .gz, .zst
// and .lz4 files is compressed. The returned file must be closed to flush the
// compressor.
func Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	wc := &file{Writer: f}
	switch Compression(name) {
	case "gz":
		zw := gzip.NewWriter(f)
		wc.Writer = zw
		wc.closers = append(wc.closers, zw.Close)
	case "zst":
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		wc.Writer = zw
		wc.closers = append(wc.closers, zw.Close)
	case "lz4":
		zw := lz4.NewWriter(f)
		wc.Writer = zw
		wc.closers = append(wc.closers, zw.Close)
	}
	wc.closers = append(wc.closers, f.Close)
	return wc, nil
}
