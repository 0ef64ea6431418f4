package sable

import (
	"encoding/hex"
	"fmt"
)

// DigestLen is the byte length of all content hashes handled by the store.
const DigestLen = 32

// Digest is a fixed-width content hash. It addresses every immutable blob in
// the client store (account code, storage and vault roots, note and
// transaction scripts) and identifies notes and transactions. The store never
// computes digests itself; they arrive precomputed from the prover layer.
type Digest [DigestLen]byte

// ZeroDigest is the all-zero digest. It is used to mark optional digest
// fields as unset; no real content hashes to zero.
var ZeroDigest = Digest{}

// HexToDigest converts a hex string to a digest.
func HexToDigest(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("could not decode hex digest: %w", err)
	}
	if len(b) != DigestLen {
		return d, fmt.Errorf("invalid digest length (%d != %d)", len(b), DigestLen)
	}
	copy(d[:], b)
	return d, nil
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	dec, err := HexToDigest(string(text))
	if err != nil {
		return err
	}
	*d = dec
	return nil
}
