// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-shamir.
//
// go-shamir is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package testutil provides helpers shared by the package tests.
package testutil

import (
	"crypto/sha256"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

const deterministicInfo = "go-shamir deterministic reader"

// DeterministicReader is a reproducible byte stream for tests. The seed is
// expanded with HKDF-SHA256 into a ChaCha20 key and nonce, and reads return
// the raw keystream. It must never be used outside tests.
type DeterministicReader struct {
	mu     sync.Mutex
	cipher *chacha20.Cipher
}

// NewDeterministicReader returns a reader whose output depends only on seed.
func NewDeterministicReader(seed []byte) *DeterministicReader {
	kdf := hkdf.New(sha256.New, seed, nil, []byte(deterministicInfo))

	key := make([]byte, chacha20.KeySize)
	nonce := make([]byte, chacha20.NonceSize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		panic(err)
	}
	if _, err := io.ReadFull(kdf, nonce); err != nil {
		panic(err)
	}

	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		panic(err)
	}
	return &DeterministicReader{cipher: c}
}

// Read fills p with keystream bytes. It never fails.
func (r *DeterministicReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(p)
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// CountingReader wraps a reader and records how many bytes were read.
type CountingReader struct {
	R io.Reader
	N int
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.R.Read(p)
	c.N += n
	return n, err
}
