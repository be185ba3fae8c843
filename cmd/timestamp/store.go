// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

const (
	// stampDbName is the name of the stamp registry database directory
	// inside the data directory.
	stampDbName = "stamps"
)

// errStampNotFound is returned by Fetch when the registry holds no stamp for
// the requested digest.
var errStampNotFound = errors.New("no stamp recorded for digest")

// stampRecord is the value stored in the registry for a single stamp.  All
// byte fields are hexadecimal strings so the records remain readable with
// standard leveldb tooling.
type stampRecord struct {
	Digest     string    `json:"digest"`
	Factor     string    `json:"factor"`
	Commitment string    `json:"commitment"`
	PublicKey  string    `json:"pubkey"`
	Signature  string    `json:"signature"`
	Compact    string    `json:"compact"`
	Path       string    `json:"path"`
	Time       time.Time `json:"time"`
}

// stampStore provides access to the stamp registry.  It is backed by a
// leveldb database keyed by the 32-byte file digest.
type stampStore struct {
	db *leveldb.DB
}

// openStampStore opens the stamp registry under the passed data directory,
// creating the database if it does not already exist.
func openStampStore(dataDir string) (*stampStore, error) {
	dbPath := filepath.Join(dataDir, stampDbName)
	storLog.Debugf("Opening stamp registry from '%s'", dbPath)

	opts := opt.Options{
		Strict:      opt.DefaultStrict,
		Compression: opt.NoCompression,
		Filter:      filter.NewBloomFilter(10),
	}
	db, err := leveldb.OpenFile(dbPath, &opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open stamp registry: %v", err)
	}

	return &stampStore{db: db}, nil
}

// Close releases the underlying database.
func (s *stampStore) Close() error {
	return s.db.Close()
}

// Put records the stamp under its digest.  An existing stamp for the same
// digest is overwritten.
func (s *stampStore) Put(digest *chainhash.Hash, record *stampRecord) error {
	serialized, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := s.db.Put(digest[:], serialized, nil); err != nil {
		return fmt.Errorf("failed to store stamp: %v", err)
	}

	// Note the digest is logged in natural byte order, not the reversed
	// order the String method of chainhash.Hash produces, so it matches
	// the output of standalone hashing tools.
	storLog.Debugf("Stored stamp for digest %x", digest[:])
	return nil
}

// Fetch returns the stamp recorded under the passed digest.  It returns
// errStampNotFound when the registry holds no stamp for it.
func (s *stampStore) Fetch(digest *chainhash.Hash) (*stampRecord, error) {
	serialized, err := s.db.Get(digest[:], nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, errStampNotFound
		}
		return nil, err
	}

	var record stampRecord
	if err := json.Unmarshal(serialized, &record); err != nil {
		return nil, fmt.Errorf("corrupt stamp record for digest %x: %v",
			digest[:], err)
	}
	return &record, nil
}

// ForEach invokes the passed function for every stamp in the registry in
// digest order.  Iteration stops at the first error and the error is
// returned to the caller.
func (s *stampStore) ForEach(fn func(digest []byte, record *stampRecord) error) error {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	for iter.Next() {
		var record stampRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			return fmt.Errorf("corrupt stamp record for digest %x: %v",
				iter.Key(), err)
		}
		if err := fn(iter.Key(), &record); err != nil {
			return err
		}
	}
	return iter.Error()
}
