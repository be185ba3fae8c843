// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// repeatedDigest returns a digest with every byte set to the passed value.
func repeatedDigest(b byte) *chainhash.Hash {
	var digest chainhash.Hash
	for i := range digest {
		digest[i] = b
	}
	return &digest
}

// TestStampStoreFetchMissing ensures fetching a digest with no recorded stamp
// reports the expected error.
func TestStampStoreFetchMissing(t *testing.T) {
	t.Parallel()

	store, err := openStampStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Fetch(repeatedDigest(0x11))
	require.ErrorIs(t, err, errStampNotFound)
}

// TestStampStoreRoundTrip ensures stamps survive storage, overwriting, and a
// close and reopen of the registry.
func TestStampStoreRoundTrip(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	store, err := openStampStore(dataDir)
	require.NoError(t, err)

	digest := repeatedDigest(0x11)
	record := &stampRecord{
		Digest:     "1111111111111111111111111111111111111111111111111111111111111111",
		Factor:     "deb13e8f59308031a15f35d648b27c06f4deb674c0ae237ec20b99600d5e3d35",
		Commitment: "251763aea08cc39181b824b18a9b50cb6168d478cca19eb62d5ac843ee742a7d",
		PublicKey:  "02a673638cb9587cb68ea08dbef685c6f2d2a751a8b3c6f2a7e9a4999e6e4bfaf5",
		Signature:  "3006020101020101",
		Compact:    "1f",
		Path:       "testdata/example.bin",
		Time:       time.Unix(1700000000, 0).UTC(),
	}
	require.NoError(t, store.Put(digest, record))

	fetched, err := store.Fetch(digest)
	require.NoError(t, err)
	require.Equal(t, record, fetched)

	// Storing again under the same digest overwrites the stamp.
	updated := *record
	updated.Path = "testdata/renamed.bin"
	require.NoError(t, store.Put(digest, &updated))
	fetched, err = store.Fetch(digest)
	require.NoError(t, err)
	require.Equal(t, &updated, fetched)

	// The stamp must survive a close and reopen.
	require.NoError(t, store.Close())
	store, err = openStampStore(dataDir)
	require.NoError(t, err)
	defer store.Close()
	fetched, err = store.Fetch(digest)
	require.NoError(t, err)
	require.Equal(t, &updated, fetched)
}

// TestStampStoreForEach ensures iteration visits every stamp in digest order
// and stops on the first callback error.
func TestStampStoreForEach(t *testing.T) {
	t.Parallel()

	store, err := openStampStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	first := &stampRecord{Path: "first", Time: time.Unix(1700000000, 0).UTC()}
	second := &stampRecord{Path: "second", Time: time.Unix(1700000600, 0).UTC()}
	require.NoError(t, store.Put(repeatedDigest(0x22), second))
	require.NoError(t, store.Put(repeatedDigest(0x11), first))

	var paths []string
	err = store.ForEach(func(digest []byte, record *stampRecord) error {
		paths = append(paths, record.Path)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second"}, paths)

	errSentinel := errors.New("stop iteration")
	err = store.ForEach(func(digest []byte, record *stampRecord) error {
		return errSentinel
	})
	require.ErrorIs(t, err, errSentinel)
}
