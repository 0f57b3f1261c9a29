// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"

	"github.com/lbryio/herald-go/chaincfg"
	"github.com/lbryio/herald-go/claimtrie"
)

const (
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "heraldd.log"
	defaultConfigFilename = "heraldd.conf"
)

var (
	defaultHomeDir    = btcutil.AppDataDir("heraldd", false)
	defaultDataDir    = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
)

// config defines the command line and config file options heraldd accepts,
// parsed the way btcd's own daemon does: jessevdk/go-flags over a struct
// with `long`/`description` tags.
type config struct {
	ConfigFile              string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir                 string `short:"b" long:"datadir" description:"Directory to store the claim index databases"`
	LogDir                  string `long:"logdir" description:"Directory to log output"`
	TestNet                 bool   `long:"testnet" description:"Use the test network address prefixes"`
	RegTest                 bool   `long:"regtest" description:"Use the regression test network address prefixes"`
	ValidateClaimSignatures bool   `long:"validatesignatures" description:"Cryptographically validate certificate signatures on claims"`
	SyncMode                bool   `long:"syncmode" description:"Open the claim stores tuned for bulk sequential writes instead of serving reads"`
	Debug                   string `short:"d" long:"debuglevel" description:"Logging level: trace, debug, info, warn, error, critical" default:"info"`
}

// loadConfig parses command line flags (and, if present, a config file into
// those same flags) and fills in defaults, mirroring the two-pass
// pre-parse/parse loadConfig does in btcd's cmd/btcd/config.go.
func loadConfig() (*config, []string, error) {
	cfg := config{
		DataDir:    defaultDataDir,
		LogDir:     defaultLogDir,
		ConfigFile: defaultConfigFile,
	}

	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag|flags.PassDoubleDash)
	_, err := preParser.Parse()
	if err != nil {
		if flagErr, ok := err.(*flags.Error); ok && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
	}

	if preCfg.ConfigFile != defaultConfigFile {
		cfg.ConfigFile = preCfg.ConfigFile
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := os.Stat(cfg.ConfigFile); err == nil {
		if err := flags.NewIniParser(parser).ParseFile(cfg.ConfigFile); err != nil {
			return nil, nil, fmt.Errorf("parsing config file %s: %w", cfg.ConfigFile, err)
		}
	}

	remainingArgs, err := parser.Parse()
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.LogDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	return &cfg, remainingArgs, nil
}

// params resolves the address-prefix parameters selected by the network
// flags, defaulting to the production network.
func (c *config) params() *chaincfg.Params {
	switch {
	case c.RegTest:
		return &chaincfg.RegressionNetParams
	case c.TestNet:
		return &chaincfg.TestNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

func (c *config) openMode() claimtrie.OpenMode {
	if c.SyncMode {
		return claimtrie.ModeSync
	}
	return claimtrie.ModeServing
}
