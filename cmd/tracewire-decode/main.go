// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"

	"github.com/tracewire-foundation/tracewire/lib/codec"
	"github.com/tracewire-foundation/tracewire/lib/process"
	"github.com/tracewire-foundation/tracewire/lib/version"
	"github.com/tracewire-foundation/tracewire/wire"
)

// zstdMagic is the zstd frame magic number; recordings are sniffed,
// not trusted to a file extension.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// renderMode selects the per-packet output format.
type renderMode int

const (
	renderText renderMode = iota
	renderJSON
	renderDiag
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	asJSON := pflag.Bool("json", false, "render packets as JSON")
	asDiag := pflag.Bool("diag", false, "render packets as CBOR diagnostic notation")
	verify := pflag.Bool("verify", false, "check the blake3 checksum sidecar")
	showVersion := pflag.Bool("version", false, "print version information and exit")
	pflag.Parse()

	if *showVersion {
		version.Print("tracewire-decode")
		return nil
	}
	if *asJSON && *asDiag {
		return errors.New("--json and --diag are mutually exclusive")
	}
	if pflag.NArg() != 1 {
		return fmt.Errorf("usage: tracewire-decode [flags] <recording> (%d args given)", pflag.NArg())
	}
	path := pflag.Arg(0)

	mode := renderText
	switch {
	case *asJSON:
		mode = renderJSON
	case *asDiag:
		mode = renderDiag
	}

	var input io.Reader
	if path == "-" {
		if *verify {
			return errors.New("--verify needs a file path, not stdin")
		}
		input = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		input = file
	}

	stream, cleanup, err := openStream(input)
	if err != nil {
		return err
	}
	defer cleanup()

	var hasher *blake3.Hasher
	if *verify {
		hasher = blake3.New()
		stream = io.TeeReader(stream, hasher)
	}

	count, err := decodeStream(stream, mode, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d packets\n", count)

	if *verify {
		if err := verifySidecar(path, hasher.Sum(nil)); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "checksum ok")
	}
	return nil
}

// openStream sniffs the input for the zstd magic and returns the
// decompressed frame stream.
func openStream(input io.Reader) (io.Reader, func(), error) {
	buffered := bufio.NewReader(input)
	magic, err := buffered.Peek(len(zstdMagic))
	if err != nil || !bytes.Equal(magic, zstdMagic) {
		// Not compressed (or too short to be); decode as-is.
		return buffered, func() {}, nil
	}
	decoder, err := zstd.NewReader(buffered)
	if err != nil {
		return nil, nil, fmt.Errorf("opening zstd stream: %w", err)
	}
	return decoder, decoder.Close, nil
}

// decodeStream renders every packet in the stream to out and returns
// the packet count. A stream that ends mid-frame yields an error after
// the packets before the cut have been rendered.
func decodeStream(stream io.Reader, mode renderMode, out io.Writer) (int, error) {
	reader := wire.NewReader(stream)
	count := 0
	for {
		var rendered string
		var err error
		switch mode {
		case renderDiag:
			rendered, err = nextDiag(reader)
		case renderJSON:
			rendered, err = nextJSON(reader)
		default:
			var packet *wire.Packet
			packet, err = reader.Next()
			if err == nil {
				rendered = packet.String()
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return count, nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return count, fmt.Errorf("recording truncated after %d packets", count)
			}
			return count, fmt.Errorf("packet %d: %w", count+1, err)
		}
		fmt.Fprintln(out, rendered)
		count++
	}
}

// nextDiag renders the next frame as CBOR diagnostic notation without
// assuming the packet layout.
func nextDiag(reader *wire.Reader) (string, error) {
	payload, err := reader.NextPayload()
	if err != nil {
		return "", err
	}
	return codec.Diagnose(payload)
}

// nextJSON re-decodes the frame generically so the JSON mirrors the
// wire field names rather than the Go struct's.
func nextJSON(reader *wire.Reader) (string, error) {
	payload, err := reader.NextPayload()
	if err != nil {
		return "", err
	}
	var generic any
	if err := codec.Unmarshal(payload, &generic); err != nil {
		return "", err
	}
	rendered, err := json.Marshal(generic)
	if err != nil {
		return "", err
	}
	return string(rendered), nil
}

// verifySidecar compares the streamed digest against the recording's
// b3sum sidecar.
func verifySidecar(recording string, digest []byte) error {
	sidecar := recording + ".b3sum"
	data, err := os.ReadFile(sidecar)
	if err != nil {
		return fmt.Errorf("reading checksum sidecar: %w", err)
	}
	fields := strings.Fields(string(data))
	if len(fields) < 1 {
		return fmt.Errorf("malformed checksum sidecar %s", sidecar)
	}
	if fields[0] != hex.EncodeToString(digest) {
		return fmt.Errorf("checksum mismatch: sidecar %s, stream %s",
			fields[0], hex.EncodeToString(digest))
	}
	return nil
}
