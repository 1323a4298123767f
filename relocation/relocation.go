// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package relocation implements age-driven peer relocation (§4.9): a
// peer moved between sections derives a fresh name for its destination,
// resets its age, and joins exempt from the joins-allowed gate.
package relocation

import (
	"encoding/binary"

	"github.com/maidsafe/sn-core/address"
	"golang.org/x/crypto/blake2b"
)

// NewAge halves old_age, rounding down, the reset a relocated peer's age
// undergoes on arrival (§4.9).
func NewAge(oldAge uint8) uint8 {
	return oldAge / 2
}

// DeriveName deterministically derives the peer's new name from its
// prior name, its age at relocation and the destination prefix, so the
// destination section can verify the name was not chosen adversarially
// once the peer proves knowledge of its prior identity. The destination
// prefix's fixed bits are overlaid onto the hash output so the derived
// name always falls inside destPrefix (§4.9, §8 scenario 6), matching
// how ed25519::gen_keypair constrained to name_prefix.range_inclusive()
// produces a name within the destination range.
func DeriveName(priorName address.Name, age uint8, destPrefix address.Prefix) address.Name {
	h, _ := blake2b.New256(nil)
	h.Write(priorName[:])
	h.Write([]byte{age})
	prefixLen := destPrefix.Len()
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(prefixLen))
	h.Write(lenBuf[:])
	h.Write([]byte(destPrefix.String()))

	var out address.Name
	copy(out[:], h.Sum(nil))
	return destPrefix.Overlay(out)
}

// JoinAsRelocated is the exchange a relocating peer presents to its
// destination section: the fresh name, its prior identity and an
// attestation proving continuity between the two.
type JoinAsRelocated struct {
	NewName      address.Name
	NewAge       uint8
	PriorName    address.Name
	DestPrefix   address.Prefix
	Attestation  []byte
}

// Validate reports whether the relocation request is internally
// consistent: NewName and NewAge must match what DeriveName/NewAge
// produce from PriorName and an age the destination section accepted.
func (j JoinAsRelocated) Validate(priorAge uint8) bool {
	wantAge := NewAge(priorAge)
	if j.NewAge != wantAge {
		return false
	}
	wantName := DeriveName(j.PriorName, wantAge, j.DestPrefix)
	return wantName == j.NewName
}

// ExemptFromJoinsAllowed reports whether this request bypasses the
// destination's joins_allowed gate. Relocated peers always do (§4.9);
// this exists so callers never have to special-case relocation in their
// own join-gate logic.
func (JoinAsRelocated) ExemptFromJoinsAllowed() bool {
	return true
}
