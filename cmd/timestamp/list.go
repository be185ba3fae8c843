// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

// listCmd defines the configuration options for the list command.
type listCmd struct{}

var (
	// listCfg defines the configuration options for the command.
	listCfg = listCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the
// parser.
func (cmd *listCmd) Execute(args []string) error {
	// Setup the global config options and ensure they are valid.
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	store, err := openStampStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	numStamps := 0
	err = store.ForEach(func(digest []byte, record *stampRecord) error {
		log.Infof("Stamp %x", digest)
		log.Infof("  Stamped: %v (%s)", record.Time, record.Path)
		log.Infof("  Factor: %s", record.Factor)
		log.Infof("  Commitment: %s", record.Commitment)
		log.Infof("  Public key: %s", record.PublicKey)
		log.Infof("  Signature: %s", record.Signature)
		numStamps++
		return nil
	})
	if err != nil {
		return err
	}

	log.Infof("Registry holds %d stamps", numStamps)
	return nil
}
