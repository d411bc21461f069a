// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// Recorder captures the raw framed packet stream to a file, optionally
// zstd-compressed, while hashing the uncompressed bytes with blake3.
// Close finalizes the file and writes a b3sum-format checksum sidecar
// next to it, so recordings moved between machines can be verified
// before offline decoding.
//
// Safe for concurrent use: multiple collector connections interleave
// whole Write calls, and each Write carries whole frames, so the
// recording stays frame-aligned.
type Recorder struct {
	mu   sync.Mutex
	path string
	file *os.File
	zstd *zstd.Encoder
	out  io.Writer
	hash *blake3.Hasher
}

// NewRecorder opens a recording at path.
func NewRecorder(path string, compress bool) (*Recorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating recording: %w", err)
	}

	r := &Recorder{
		path: path,
		file: file,
		out:  file,
		hash: blake3.New(),
	}
	if compress {
		encoder, err := zstd.NewWriter(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		r.zstd = encoder
		r.out = encoder
	}
	return r, nil
}

// Write appends raw frame bytes to the recording.
func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Hash the uncompressed stream: the digest identifies the frame
	// bytes, not the container they were stored in.
	r.hash.Write(p) //nolint:errcheck // never fails
	return r.out.Write(p)
}

// Close finalizes the recording and writes the checksum sidecar.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.zstd != nil {
		if err := r.zstd.Close(); err != nil {
			r.file.Close()
			return fmt.Errorf("finalizing zstd stream: %w", err)
		}
	}
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("closing recording: %w", err)
	}
	return writeSidecar(r.path, r.hash.Sum(nil))
}

// SidecarPath returns the checksum sidecar path for a recording.
func SidecarPath(recording string) string {
	return recording + ".b3sum"
}

// writeSidecar writes the digest in b3sum format: hex digest, two
// spaces, base filename.
func writeSidecar(recording string, digest []byte) error {
	line := fmt.Sprintf("%s  %s\n", hex.EncodeToString(digest), filepath.Base(recording))
	if err := os.WriteFile(SidecarPath(recording), []byte(line), 0644); err != nil {
		return fmt.Errorf("writing checksum sidecar: %w", err)
	}
	return nil
}
