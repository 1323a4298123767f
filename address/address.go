// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package address implements the 256-bit XOR address space shared by
// every name in the network: peer names, chunk names, register addresses
// and section prefixes all live in this space (§4.1).
package address

import (
	"bytes"

	"github.com/luxfi/ids"
)

// Name is the 256-bit opaque identifier every peer and data item is
// addressed by. github.com/luxfi/ids.ID is a [32]byte, which is exactly
// the width this design calls for.
type Name = ids.ID

// Distance XORs two names byte-for-byte. The result is compared
// lexicographically, which is equivalent to comparing the underlying
// big-endian integers.
type Distance [32]byte

// Less reports whether d is strictly closer than other.
func (d Distance) Less(other Distance) bool {
	return bytes.Compare(d[:], other[:]) < 0
}

// XorDistance returns d(a,b) = a XOR b.
func XorDistance(a, b Name) Distance {
	var d Distance
	for i := range a {
		d[i] = a[i] ^ b[i]
	}
	return d
}

// Prefix is a bit-string of length Len (0..256) over the leading bits of
// a Name.
type Prefix struct {
	bytes [32]byte
	len   uint16
}

// NewPrefix builds a Prefix from the first bitLen bits of name.
func NewPrefix(name Name, bitLen int) Prefix {
	if bitLen < 0 {
		bitLen = 0
	}
	if bitLen > 256 {
		bitLen = 256
	}
	p := Prefix{len: uint16(bitLen)}
	fullBytes := bitLen / 8
	copy(p.bytes[:fullBytes], name[:fullBytes])
	if rem := bitLen % 8; rem != 0 {
		mask := byte(0xFF << (8 - rem))
		p.bytes[fullBytes] = name[fullBytes] & mask
	}
	return p
}

// Len returns the bit length of the prefix.
func (p Prefix) Len() int { return int(p.len) }

// Matches reports whether the first Len() bits of name equal p.
func (p Prefix) Matches(name Name) bool {
	fullBytes := int(p.len) / 8
	for i := 0; i < fullBytes; i++ {
		if p.bytes[i] != name[i] {
			return false
		}
	}
	if rem := int(p.len) % 8; rem != 0 {
		mask := byte(0xFF << (8 - rem))
		if (p.bytes[fullBytes] & mask) != (name[fullBytes] & mask) {
			return false
		}
	}
	return true
}

// Overlay returns name with its leading Len() bits replaced by p's fixed
// bits, leaving every bit beyond Len() untouched. Used to constrain an
// otherwise-arbitrary derived name to fall within p, e.g. a relocated
// peer's destination-prefix-derived name (§4.9): Matches(Overlay(name))
// always holds.
func (p Prefix) Overlay(name Name) Name {
	out := name
	fullBytes := int(p.len) / 8
	copy(out[:fullBytes], p.bytes[:fullBytes])
	if rem := int(p.len) % 8; rem != 0 {
		mask := byte(0xFF << (8 - rem))
		out[fullBytes] = (p.bytes[fullBytes] & mask) | (out[fullBytes] &^ mask)
	}
	return out
}

// PushBit returns the child prefix obtained by appending bit (0 or 1).
func (p Prefix) PushBit(bit byte) Prefix {
	child := p
	child.len = p.len + 1
	byteIdx := int(p.len) / 8
	bitIdx := 7 - int(p.len)%8
	if bit != 0 {
		child.bytes[byteIdx] |= 1 << uint(bitIdx)
	} else {
		child.bytes[byteIdx] &^= 1 << uint(bitIdx)
	}
	return child
}

// IsExtensionOf reports whether p is a (possibly equal) extension of other,
// i.e. every bit other fixes is also fixed identically by p.
func (p Prefix) IsExtensionOf(other Prefix) bool {
	if p.len < other.len {
		return false
	}
	truncated := p
	truncated.len = other.len
	fullBytes := int(other.len) / 8
	for i := 0; i < fullBytes; i++ {
		if truncated.bytes[i] != other.bytes[i] {
			return false
		}
	}
	if rem := int(other.len) % 8; rem != 0 {
		mask := byte(0xFF << (8 - rem))
		if (truncated.bytes[fullBytes] & mask) != (other.bytes[fullBytes] & mask) {
			return false
		}
	}
	return true
}

func (p Prefix) String() string {
	sb := make([]byte, 0, p.len)
	for i := 0; i < int(p.len); i++ {
		byteIdx := i / 8
		bitIdx := 7 - i%8
		if p.bytes[byteIdx]&(1<<uint(bitIdx)) != 0 {
			sb = append(sb, '1')
		} else {
			sb = append(sb, '0')
		}
	}
	return string(sb)
}

// ClosestK returns the k elements of candidates minimizing XorDistance to
// target, ties broken lexicographically on the candidate's own bytes. Pure,
// total and deterministic as required by §4.1.
func ClosestK(target Name, candidates []Name, k int) []Name {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	sorted := make([]Name, len(candidates))
	copy(sorted, candidates)
	dist := make(map[Name]Distance, len(sorted))
	for _, c := range sorted {
		dist[c] = XorDistance(target, c)
	}
	sortByDistance(sorted, dist)
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

// sortByDistance performs an insertion sort keyed by precomputed
// distances, ties broken by the candidate's own byte order. Candidate
// counts in this system (elders/adults per section) are small (tens to
// low hundreds), so O(n^2) insertion sort keeps the code simple without
// materially costing anything in practice.
func sortByDistance(names []Name, dist map[Name]Distance) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0; j-- {
			if lessName(names[j], names[j-1], dist) {
				names[j], names[j-1] = names[j-1], names[j]
			} else {
				break
			}
		}
	}
}

func lessName(a, b Name, dist map[Name]Distance) bool {
	da, db := dist[a], dist[b]
	if da != db {
		return da.Less(db)
	}
	return bytes.Compare(a[:], b[:]) < 0
}

// PartitionByPrefix splits names into the 0-child and 1-child subsets
// relative to prefix, i.e. the two halves a section split would produce.
func PartitionByPrefix(prefix Prefix, names []Name) (zeroChild, oneChild []Name) {
	zero := prefix.PushBit(0)
	for _, n := range names {
		if zero.Matches(n) {
			zeroChild = append(zeroChild, n)
		} else {
			oneChild = append(oneChild, n)
		}
	}
	return zeroChild, oneChild
}
