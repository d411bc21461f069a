// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/tracewire-foundation/tracewire/wire"
)

func buildStream(t *testing.T) []byte {
	t.Helper()

	encoder := wire.NewEncoder()
	var stream bytes.Buffer
	packets := []wire.Packet{
		{Time: 1000, Kind: wire.KindNewSpan, ID: 1, Name: "boot", NameLen: 4},
		{Time: 2000, Kind: wire.KindEnter, Span: 1},
		{Time: 3000, Kind: wire.KindExit, Span: 1},
	}
	for i := range packets {
		frame, err := encoder.Frame(&packets[i])
		if err != nil {
			t.Fatalf("Frame: %v", err)
		}
		stream.Write(frame)
	}
	return stream.Bytes()
}

func TestDecodeStreamText(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	count, err := decodeStream(bytes.NewReader(buildStream(t)), renderText, &out)
	if err != nil {
		t.Fatalf("decodeStream: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 packets, got %d", count)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "new_span") || !strings.Contains(lines[0], `name="boot"`) {
		t.Fatalf("unexpected first line: %s", lines[0])
	}
	if !strings.Contains(lines[1], "enter") || !strings.Contains(lines[2], "exit") {
		t.Fatalf("unexpected lifecycle lines: %q", lines[1:])
	}
}

func TestDecodeStreamJSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	count, err := decodeStream(bytes.NewReader(buildStream(t)), renderJSON, &out)
	if err != nil {
		t.Fatalf("decodeStream: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 packets, got %d", count)
	}

	// Every line is standalone JSON carrying the wire field names.
	first := strings.SplitN(out.String(), "\n", 2)[0]
	var decoded map[string]any
	if err := json.Unmarshal([]byte(first), &decoded); err != nil {
		t.Fatalf("first line is not JSON: %v: %s", err, first)
	}
	if decoded["name"] != "boot" {
		t.Fatalf("expected wire field name %q, got %v", "boot", decoded["name"])
	}
	if _, ok := decoded["kind"]; !ok {
		t.Fatal("JSON output missing wire field \"kind\"")
	}
}

func TestDecodeStreamDiag(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	count, err := decodeStream(bytes.NewReader(buildStream(t)), renderDiag, &out)
	if err != nil {
		t.Fatalf("decodeStream: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 packets, got %d", count)
	}
	if !strings.Contains(out.String(), `"boot"`) {
		t.Fatalf("diagnostic notation missing span name: %s", out.String())
	}
}

func TestDecodeStreamTruncated(t *testing.T) {
	t.Parallel()

	stream := buildStream(t)
	var out bytes.Buffer
	count, err := decodeStream(bytes.NewReader(stream[:len(stream)-1]), renderText, &out)
	if err == nil {
		t.Fatal("expected error for truncated recording")
	}
	if count != 2 {
		t.Fatalf("expected the 2 whole packets before the cut, got %d", count)
	}
}

func TestOpenStreamSniffsZstd(t *testing.T) {
	t.Parallel()

	raw := buildStream(t)

	var compressed bytes.Buffer
	zw, err := zstd.NewWriter(&compressed)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	stream, cleanup, err := openStream(&compressed)
	if err != nil {
		t.Fatalf("openStream: %v", err)
	}
	defer cleanup()
	decompressed, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(decompressed, raw) {
		t.Fatal("decompressed stream does not match the original")
	}

	// Uncompressed input passes through untouched.
	stream, cleanup, err = openStream(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("openStream: %v", err)
	}
	defer cleanup()
	passthrough, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(passthrough, raw) {
		t.Fatal("uncompressed stream was altered")
	}
}

func TestVerifySidecar(t *testing.T) {
	t.Parallel()

	stream := buildStream(t)
	digest := blake3.Sum256(stream)

	recording := filepath.Join(t.TempDir(), "run.trace")
	if err := os.WriteFile(recording, stream, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	// b3sum format: digest, two spaces, filename.
	sidecar := hex.EncodeToString(digest[:]) + "  run.trace\n"
	if err := os.WriteFile(recording+".b3sum", []byte(sidecar), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := verifySidecar(recording, digest[:]); err != nil {
		t.Fatalf("verifySidecar: %v", err)
	}

	wrong := make([]byte, len(digest))
	copy(wrong, digest[:])
	wrong[0] ^= 0xFF
	if err := verifySidecar(recording, wrong); err == nil {
		t.Fatal("expected checksum mismatch error")
	}
}
