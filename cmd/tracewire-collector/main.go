// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/tracewire-foundation/tracewire/lib/process"
	"github.com/tracewire-foundation/tracewire/lib/version"
	"github.com/tracewire-foundation/tracewire/wire"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	socketPath := flag.String("socket", "", "unix socket to listen on (overrides config)")
	recordPath := flag.String("record", "", "record the raw stream to this file (overrides config)")
	compress := flag.Bool("compress", false, "zstd-compress the recording")
	quiet := flag.Bool("quiet", false, "suppress per-packet output")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		version.Print("tracewire-collector")
		return nil
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *socketPath != "" {
		cfg.SocketPath = *socketPath
	}
	if *recordPath != "" {
		cfg.Recording.Path = *recordPath
	}
	if *compress {
		cfg.Recording.Compress = true
	}
	if *quiet {
		cfg.Quiet = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()

	c := &collector{
		logger: logger,
		quiet:  cfg.Quiet,
	}
	if cfg.Recording.Path != "" {
		recorder, err := NewRecorder(cfg.Recording.Path, cfg.Recording.Compress)
		if err != nil {
			return err
		}
		c.recorder = recorder
	}

	// A stale socket from a previous run blocks the listen; traced
	// processes dial fresh each run, so removal is safe.
	if err := os.Remove(cfg.SocketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stale socket: %w", err)
	}
	listener, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.SocketPath, err)
	}

	// Close the listener on shutdown to unblock Accept.
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	logger.Info("collector listening",
		"socket", cfg.SocketPath,
		"recording", cfg.Recording.Path,
		"compress", cfg.Recording.Compress,
	)

	var handlers sync.WaitGroup
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("accept failed", "error", err)
			break
		}
		handlers.Add(1)
		go func() {
			defer handlers.Done()
			c.handleConn(ctx, conn)
		}()
	}

	// Let in-flight connections finish decoding what they have; their
	// reads unblock when the traced processes exit or the context
	// closes their connections.
	handlers.Wait()

	if c.recorder != nil {
		if err := c.recorder.Close(); err != nil {
			return err
		}
	}

	logger.Info("collector done",
		"connections", c.connections.Load(),
		"packets", c.packets.Load(),
	)
	return nil
}

// collector is the shared state across connection handlers.
type collector struct {
	logger   *slog.Logger
	recorder *Recorder
	quiet    bool

	connections atomic.Uint64
	packets     atomic.Uint64
}

// handleConn decodes one traced process's stream until it disconnects.
// Each decoded packet is printed and, when recording, re-framed through
// a connection-local encoder so the recording interleaves whole frames
// even with several traced processes connected at once.
func (c *collector) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	c.connections.Add(1)

	// Unblock the read on shutdown.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	reader := wire.NewReader(conn)
	var encoder *wire.Encoder
	if c.recorder != nil {
		encoder = wire.NewEncoder()
	}

	for {
		packet, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			c.logger.Error("stream decode failed, dropping connection", "error", err)
			return
		}
		c.packets.Add(1)

		if !c.quiet {
			fmt.Println(packet)
		}
		if encoder != nil {
			frame, err := encoder.Frame(packet)
			if err != nil {
				c.logger.Error("re-encoding packet for recording failed", "error", err)
				continue
			}
			if _, err := c.recorder.Write(frame); err != nil {
				c.logger.Error("recording write failed, recording stops", "error", err)
				encoder = nil
			}
		}
	}
}
