// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command heraldd opens the claim index databases and exposes a daemon
// entry point for wiring block-connect/disconnect notifications into them.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/lbryio/herald-go/claimtrie"
)

// exitFatalIndex is returned when the claim index itself reports a
// *claimtrie.FatalError — a flush that failed to commit, or a rollback
// that cannot reconcile the undo journal — as opposed to an ordinary
// startup error such as a bad config file or a locked data directory.
const exitFatalIndex = 2

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var fatalErr *claimtrie.FatalError
		if errors.As(err, &fatalErr) {
			os.Exit(exitFatalIndex)
		}
		os.Exit(1)
	}
}

func run() (runErr error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename)); err != nil {
		return fmt.Errorf("initializing log rotation: %w", err)
	}
	setLogLevel(cfg.Debug)
	log := newBackendLogger("HRLD")

	indexer, err := claimtrie.NewIndexer(claimtrie.Config{
		DataDir:                 cfg.DataDir,
		OpenMode:                cfg.openMode(),
		ValidateClaimSignatures: cfg.ValidateClaimSignatures,
		Params:                  cfg.params(),
	})
	if err != nil {
		return fmt.Errorf("opening claim index: %w", err)
	}
	defer func() {
		if err := indexer.Close(); err != nil {
			log.Errorf("closing claim index: %v", err)
			if runErr == nil {
				runErr = fmt.Errorf("closing claim index: %w", err)
			}
		}
	}()

	log.Infof("heraldd started, data dir %s", cfg.DataDir)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt

	log.Info("shutdown signal received, flushing claim index")
	return nil
}
