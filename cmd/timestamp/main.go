// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	flags "github.com/jessevdk/go-flags"
)

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	// Setup logging.
	defer os.Stdout.Sync()
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	// Setup the parser options and commands.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	parserFlags := flags.Options(flags.HelpFlag | flags.PassDoubleDash)
	parser := flags.NewNamedParser(appName, parserFlags)
	parser.AddGroup("Global Options", "", cfg)
	parser.AddCommand("stamp",
		"Timestamp a file by signing its digest with a stealth nonce",
		"Timestamp a file.  The SHA3-256 digest of the file is signed "+
			"with a nonce derived from a secret stealth scalar and "+
			"the digest itself.  The resulting signature, the "+
			"public factor of the stealth scalar, and the "+
			"commitment that binds them are recorded in the local "+
			"stamp registry and printed so they can be published.",
		&stampCfg)
	parser.AddCommand("verify",
		"Verify a file against a stamp from the registry",
		"Verify a file.  The SHA3-256 digest of the file is "+
			"recomputed and checked against the recorded signature "+
			"and commitment.  Each check is reported separately.",
		&verifyCfg)
	parser.AddCommand("list",
		"List all stamps in the registry", "", &listCfg)

	// Parse command line and invoke the Execute function for the specified
	// command.
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		} else {
			log.Error(err)
		}

		return err
	}

	return nil
}

func main() {
	// Use all processor cores.
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
