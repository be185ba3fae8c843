// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
)

const (
	// defaultLogLevel is the logging level used for all subsystems when no
	// other level is specified.
	defaultLogLevel = "info"

	// logFilename is the name of the rotated log file under the logs
	// directory of the data directory.
	logFilename = "timestamp.log"
)

var (
	timestampHomeDir = btcutil.AppDataDir("timestamp", false)

	// Default global config.
	cfg = &config{
		DataDir:    filepath.Join(timestampHomeDir, "data"),
		DebugLevel: defaultLogLevel,
	}
)

// config defines the global configuration options.
type config struct {
	DataDir    string `short:"b" long:"datadir" description:"Location of the timestamp data directory"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	NoFileLog  bool   `long:"nofilelog" description:"Disable logging to the rotated log file under the data directory"`
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// setupGlobalConfig examine the global configuration options for any conditions
// which are invalid as well as performs any addition setup necessary after the
// initial parse.
func setupGlobalConfig() error {
	// Ensure the data directory exists before anything attempts to write
	// beneath it.
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	// Initialize log rotation.  After the rotation is initialized, the
	// subsystem loggers write to the rotated file in addition to standard
	// output.
	if !cfg.NoFileLog {
		logFile := filepath.Join(cfg.DataDir, "logs", logFilename)
		if err := initLogRotator(logFile); err != nil {
			return err
		}
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return err
	}

	return nil
}
