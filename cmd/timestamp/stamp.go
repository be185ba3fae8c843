// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/sha3"

	"github.com/Braun-Alex/bitcoin-timestamping/ecdsa"
	"github.com/Braun-Alex/bitcoin-timestamping/stealth"
)

// stampCmd defines the configuration options for the stamp command.
type stampCmd struct {
	File      string `short:"f" long:"file" description:"Path of the file to timestamp" required:"true"`
	HexKey    string `short:"k" long:"hexkey" description:"Signing private key as 32 hexadecimal bytes"`
	WIF       string `short:"w" long:"wif" description:"Signing private key in wallet import format"`
	HexSecret string `short:"j" long:"secret" description:"Secret stealth scalar as 32 hexadecimal bytes -- A fresh random scalar is generated when omitted"`
}

var (
	// stampCfg defines the configuration options for the command.
	stampCfg = stampCmd{}
)

// digestFile returns the SHA3-256 digest of the named file.  The name must
// refer to an existing regular file.
func digestFile(name string) (*chainhash.Hash, error) {
	// Ensure the specified file exists.
	if !fileExists(name) {
		str := "The specified file [%v] does not exist"
		return nil, fmt.Errorf(str, name)
	}
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		str := "The specified file [%v] is not a regular file"
		return nil, fmt.Errorf(str, name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hasher := sha3.New256()
	if _, err := io.Copy(hasher, f); err != nil {
		return nil, err
	}

	var digest chainhash.Hash
	if err := digest.SetBytes(hasher.Sum(nil)); err != nil {
		return nil, err
	}
	return &digest, nil
}

// parsePrivateKey decodes the signing key from either its raw hex encoding or
// wallet import format.  Exactly one of the two encodings must be provided.
// The boolean return reports whether compact signatures produced with the key
// should reference the compressed form of its public key.
func parsePrivateKey(hexKey, wif string) (*btcec.PrivateKey, bool, error) {
	switch {
	case hexKey != "" && wif != "":
		return nil, false, errors.New("the hex key and WIF options " +
			"can't be used together -- choose one of the two")

	case hexKey != "":
		decoded, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, false, fmt.Errorf("invalid hex key: %v", err)
		}
		if len(decoded) != 32 {
			return nil, false, fmt.Errorf("invalid hex key length "+
				"of %d bytes, want 32", len(decoded))
		}

		// Reject keys the curve math would otherwise silently reduce.
		var d btcec.ModNScalar
		overflow := d.SetByteSlice(decoded)
		zero := d.IsZero()
		d.Zero()
		if overflow || zero {
			return nil, false, errors.New("hex key is not within " +
				"the valid range of the secp256k1 group order")
		}

		privKey, _ := btcec.PrivKeyFromBytes(decoded)
		return privKey, true, nil

	case wif != "":
		decoded, err := btcutil.DecodeWIF(wif)
		if err != nil {
			return nil, false, fmt.Errorf("invalid WIF: %v", err)
		}
		return decoded.PrivKey, decoded.CompressPubKey, nil

	default:
		return nil, false, errors.New("a signing key is required -- " +
			"provide one of the hex key and WIF options")
	}
}

// parseStealthSecret decodes the secret stealth scalar from its hex encoding
// or generates a fresh random scalar when no value was provided.  The caller
// must zero the returned scalar when done with it.
func parseStealthSecret(hexSecret string) (*btcec.ModNScalar, error) {
	if hexSecret == "" {
		privKey, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate stealth "+
				"secret: %v", err)
		}
		j := new(btcec.ModNScalar).Set(&privKey.Key)
		privKey.Zero()
		return j, nil
	}

	decoded, err := hex.DecodeString(hexSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid stealth secret: %v", err)
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("invalid stealth secret length of %d "+
			"bytes, want 32", len(decoded))
	}
	j := new(btcec.ModNScalar)
	if overflow := j.SetByteSlice(decoded); overflow || j.IsZero() {
		return nil, errors.New("stealth secret is not within the " +
			"valid range of the secp256k1 group order")
	}
	return j, nil
}

// Execute is the main entry point for the command.  It's invoked by the
// parser.
func (cmd *stampCmd) Execute(args []string) error {
	// Setup the global config options and ensure they are valid.
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	privKey, compressed, err := parsePrivateKey(stampCfg.HexKey, stampCfg.WIF)
	if err != nil {
		return err
	}
	defer privKey.Zero()

	digest, err := digestFile(stampCfg.File)
	if err != nil {
		return err
	}
	stmpLog.Debugf("File %s digests to %x", stampCfg.File, digest[:])

	j, err := parseStealthSecret(stampCfg.HexSecret)
	if err != nil {
		return err
	}
	defer j.Zero()

	// Derive the nonce the signature consumes along with the public factor
	// that commits to the stealth secret, sign the digest, and compute the
	// commitment an auditor will check the published factor against.
	factor, nonce := stealth.DeriveSecureNonce(j, digest)
	sig, code, err := ecdsa.SignWithNonce(privKey, digest[:], nonce)
	nonce.Zero()
	if err != nil {
		return err
	}
	commitment := stealth.Commitment(digest, &factor)
	var commitmentBytes [32]byte
	commitment.PutBytes(&commitmentBytes)

	var serializedPubKey []byte
	if compressed {
		serializedPubKey = privKey.PubKey().SerializeCompressed()
	} else {
		serializedPubKey = privKey.PubKey().SerializeUncompressed()
	}

	record := &stampRecord{
		Digest:     hex.EncodeToString(digest[:]),
		Factor:     factor.String(),
		Commitment: hex.EncodeToString(commitmentBytes[:]),
		PublicKey:  hex.EncodeToString(serializedPubKey),
		Signature:  hex.EncodeToString(sig.Serialize()),
		Compact:    hex.EncodeToString(sig.SerializeCompact(code, compressed)),
		Path:       stampCfg.File,
		Time:       time.Now().UTC(),
	}

	store, err := openStampStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Put(digest, record); err != nil {
		return err
	}

	stmpLog.Infof("Digest: %s", record.Digest)
	stmpLog.Infof("Factor: %s", record.Factor)
	stmpLog.Infof("Commitment: %s", record.Commitment)
	stmpLog.Infof("Public key: %s", record.PublicKey)
	stmpLog.Infof("Signature: %s", record.Signature)
	stmpLog.Infof("Compact signature: %s", record.Compact)
	return nil
}
