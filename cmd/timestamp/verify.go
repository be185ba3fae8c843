// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/Braun-Alex/bitcoin-timestamping/ecdsa"
	"github.com/Braun-Alex/bitcoin-timestamping/stealth"
)

// verifyCmd defines the configuration options for the verify command.
type verifyCmd struct {
	File       string `short:"f" long:"file" description:"Path of the file to verify" required:"true"`
	Factor     string `long:"factor" description:"Public factor as 32 hexadecimal bytes -- Overrides the registry"`
	Commitment string `long:"commitment" description:"Published commitment as 32 hexadecimal bytes -- Overrides the registry"`
	PubKey     string `long:"pubkey" description:"Serialized public key in hexadecimal -- Overrides the registry"`
	Sig        string `long:"sig" description:"DER signature in hexadecimal -- Overrides the registry"`
}

var (
	// verifyCfg defines the configuration options for the command.
	verifyCfg = verifyCmd{}
)

// errVerifyFailed is returned by the verify command when at least one of the
// stamp checks does not hold for the file.
var errVerifyFailed = errors.New("verification failed")

// Execute is the main entry point for the command.  It's invoked by the
// parser.
func (cmd *verifyCmd) Execute(args []string) error {
	// Setup the global config options and ensure they are valid.
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	digest, err := digestFile(verifyCfg.File)
	if err != nil {
		return err
	}
	stmpLog.Debugf("File %s digests to %x", verifyCfg.File, digest[:])

	// Flags override the registry, so the registry is only consulted for
	// the fields that were not provided on the command line.
	factorHex := verifyCfg.Factor
	commitmentHex := verifyCfg.Commitment
	pubKeyHex := verifyCfg.PubKey
	sigHex := verifyCfg.Sig
	if factorHex == "" || commitmentHex == "" || pubKeyHex == "" ||
		sigHex == "" {

		store, err := openStampStore(cfg.DataDir)
		if err != nil {
			return err
		}
		record, err := store.Fetch(digest)
		store.Close()
		if err != nil {
			if errors.Is(err, errStampNotFound) {
				return fmt.Errorf("no stamp recorded for "+
					"digest %x -- provide the factor, "+
					"commitment, pubkey, and sig options "+
					"to verify unrecorded stamps",
					digest[:])
			}
			return err
		}
		if factorHex == "" {
			factorHex = record.Factor
		}
		if commitmentHex == "" {
			commitmentHex = record.Commitment
		}
		if pubKeyHex == "" {
			pubKeyHex = record.PublicKey
		}
		if sigHex == "" {
			sigHex = record.Signature
		}
	}

	// Decode the resolved inputs.
	var factor stealth.Factor
	decodedFactor, err := hex.DecodeString(factorHex)
	if err != nil || len(decodedFactor) != len(factor) {
		return fmt.Errorf("invalid factor %q", factorHex)
	}
	copy(factor[:], decodedFactor)

	decodedCommitment, err := hex.DecodeString(commitmentHex)
	if err != nil || len(decodedCommitment) != 32 {
		return fmt.Errorf("invalid commitment %q", commitmentHex)
	}
	commitment := new(btcec.ModNScalar)
	if overflow := commitment.SetByteSlice(decodedCommitment); overflow {
		return fmt.Errorf("invalid commitment %q", commitmentHex)
	}

	decodedPubKey, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return fmt.Errorf("invalid pubkey: %v", err)
	}
	pubKey, err := btcec.ParsePubKey(decodedPubKey)
	if err != nil {
		return fmt.Errorf("invalid pubkey: %v", err)
	}

	decodedSig, err := hex.DecodeString(sigHex)
	if err != nil {
		return fmt.Errorf("invalid signature: %v", err)
	}
	sig, err := ecdsa.ParseDERSignature(decodedSig)
	if err != nil {
		return fmt.Errorf("invalid signature: %v", err)
	}

	// Report each check separately so a stamp that fails one of the
	// properties can still be diagnosed with the other.
	sigValid := sig.Verify(digest[:], pubKey)
	if sigValid {
		stmpLog.Infof("Signature: OK")
	} else {
		stmpLog.Warnf("Signature: FAILED")
	}
	commitmentValid := stealth.VerifyCommitment(digest, &factor, commitment)
	if commitmentValid {
		stmpLog.Infof("Commitment: OK")
	} else {
		stmpLog.Warnf("Commitment: FAILED")
	}

	if !sigValid || !commitmentValid {
		return errVerifyFailed
	}
	return nil
}
