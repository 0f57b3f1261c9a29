// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/lbryio/herald-go/claimtrie"
)

var (
	logRotator *rotator.Rotator
	backend    *btclog.Backend
)

// logWriter sends log output to both standard output and the rotator, the
// same split btcd's cmd/btcd/log.go uses so the daemon is readable from a
// terminal while still keeping rotated files on disk.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	logRotator.Write(p)
	return len(p), nil
}

// initLogRotator opens (or creates) logFile and starts rotating it at 10 MB,
// keeping the most recent few files, mirroring the reference daemon's
// default rotation policy.
func initLogRotator(logFile string) error {
	if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
		return err
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return err
	}
	logRotator = r
	backend = btclog.NewBackend(logWriter{})
	claimtrie.UseLogger(backend.Logger("CLMT"))
	return nil
}

// newBackendLogger builds a subsystem logger before the rotator is ready
// (e.g. for startup config errors), writing to stdout only.
func newBackendLogger(subsystem string) btclog.Logger {
	if backend == nil {
		return btclog.NewBackend(io.Writer(os.Stdout)).Logger(subsystem)
	}
	return backend.Logger(subsystem)
}

func setLogLevel(level string) {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return
	}
	for _, subsystem := range []string{"HRLD", "CLMT"} {
		newBackendLogger(subsystem).SetLevel(lvl)
	}
}
