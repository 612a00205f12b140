// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/hex"
	"hash"
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// hasherPool holds unkeyed BLAKE2b-256 states. A nil key never fails.
var hasherPool = sync.Pool{
	New: func() any {
		h, _ := blake2b.New256(nil)
		return h
	},
}

// Hash returns the BLAKE2b-256 digest of data.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return sum
}

// HashHex is Hash encoded as lowercase hex.
func HashHex(data []byte) string {
	return hex.EncodeToString(Hash(data))
}

// HashReader streams r into a pooled hasher and returns the hex digest.
func HashReader(r io.Reader) (string, error) {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()
	defer func() {
		h.Reset()
		hasherPool.Put(h)
	}()

	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
