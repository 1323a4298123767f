// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sectionchain implements the append-only DAG of BLS section
// public keys described in §3/§4.2: every non-root vertex carries a
// signature of the child key by its parent, and trust is established by
// walking back to a known key. Grounded on the BLS key/signature handling
// in protocol/quasar/hybrid.go (key storage, signature verification
// against a map of known public keys) and on the chain-of-custody shape of
// original_source/sn_interface/src/network_knowledge/section_peers.rs.
package sectionchain

import (
	"fmt"
	"sync"

	"github.com/luxfi/crypto/bls"

	"github.com/maidsafe/sn-core/errs"
)

// KeyBytes is the serialized form of a BLS public key, used as a map key
// since bls.PublicKey is not itself comparable.
type KeyBytes [48]byte

func keyBytes(pk *bls.PublicKey) KeyBytes {
	var kb KeyBytes
	copy(kb[:], bls.PublicKeyToCompressedBytes(pk))
	return kb
}

type edge struct {
	parent KeyBytes
	sig    *bls.Signature
}

// Chain is the rooted DAG of section public keys known to a node. The
// zero value is not usable; construct with NewChain.
type Chain struct {
	mu       sync.RWMutex
	genesis  KeyBytes
	keys     map[KeyBytes]*bls.PublicKey
	inbound  map[KeyBytes]edge   // child -> (parent, sig)
	outbound map[KeyBytes][]KeyBytes // parent -> children
}

// NewChain starts a chain rooted at genesis.
func NewChain(genesis *bls.PublicKey) *Chain {
	gk := keyBytes(genesis)
	return &Chain{
		genesis:  gk,
		keys:     map[KeyBytes]*bls.PublicKey{gk: genesis},
		inbound:  make(map[KeyBytes]edge),
		outbound: make(map[KeyBytes][]KeyBytes),
	}
}

// Insert adds a signed edge from parent to child. It fails with
// errs.KindUnknownSection if parent has never been inserted, and with
// errs.KindInvalidSignature if sig does not verify over child's bytes
// under parent. Insert is idempotent on an already-present identical
// (parent, child, sig) triple (§4.2).
func (c *Chain) Insert(parent, child *bls.PublicKey, sig *bls.Signature) error {
	pk := keyBytes(parent)
	ck := keyBytes(child)

	c.mu.Lock()
	defer c.mu.Unlock()

	parentKey, known := c.keys[pk]
	if !known {
		return errs.New(errs.KindUnknownSection, "insert: unknown parent key")
	}

	if existing, ok := c.inbound[ck]; ok {
		if existing.parent == pk && sameSignature(existing.sig, sig) {
			return nil // idempotent no-op
		}
		// A different parent/sig for the same child is a protocol violation;
		// the spec only requires idempotence on equal triples, not
		// replace-on-conflict, so conflicting inserts are rejected.
		return errs.New(errs.KindInvalidSignature, "insert: child already has a different parent edge")
	}

	if !bls.Verify(parentKey, sig, bls.PublicKeyToCompressedBytes(child)) {
		return errs.New(errs.KindInvalidSignature, "insert: signature does not verify under parent key")
	}

	c.keys[ck] = child
	c.inbound[ck] = edge{parent: pk, sig: sig}
	c.outbound[pk] = append(c.outbound[pk], ck)
	return nil
}

func sameSignature(a, b *bls.Signature) bool {
	if a == nil || b == nil {
		return a == b
	}
	return string(bls.SignatureToBytes(a)) == string(bls.SignatureToBytes(b))
}

// VerifyTrust reports whether every vertex currently known has a path
// back to some key in trustedSet. The chain's own genesis is only
// implicitly trusted when trustedSet is empty (no external trust anchor
// was ever supplied); an explicit, non-empty trustedSet that excludes
// genesis must reject it like any other untrusted key, so a superseded
// root cannot be smuggled back in as trusted.
func (c *Chain) VerifyTrust(trustedSet []*bls.PublicKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	trusted := make(map[KeyBytes]struct{}, len(trustedSet)+1)
	for _, k := range trustedSet {
		trusted[keyBytes(k)] = struct{}{}
	}
	if len(trusted) == 0 {
		trusted[c.genesis] = struct{}{}
	}

	for ck := range c.keys {
		if !c.hasAncestorInLocked(ck, trusted) {
			return false
		}
	}
	return true
}

func (c *Chain) hasAncestorInLocked(k KeyBytes, trusted map[KeyBytes]struct{}) bool {
	seen := map[KeyBytes]struct{}{}
	cur := k
	for {
		if _, ok := trusted[cur]; ok {
			return true
		}
		if _, ok := seen[cur]; ok {
			return false // cycle guard; the chain invariant forbids cycles
		}
		seen[cur] = struct{}{}
		e, ok := c.inbound[cur]
		if !ok {
			// only genesis has no inbound edge, and it would already have
			// matched above if it were in trusted.
			return false
		}
		cur = e.parent
	}
}

// IsOlder reports whether key is a strict ancestor of other, i.e. other's
// chain segment was built on top of key. Used by AntiEntropy to decide
// whether an inbound message's claimed section key is stale relative to
// the recipient's current key (§4.8). Returns false if other is unknown
// to the chain.
func (c *Chain) IsOlder(key, other *bls.PublicKey) bool {
	kb := keyBytes(key)
	if kb == keyBytes(other) {
		return false
	}
	ancestors, err := c.GetAncestors(other)
	if err != nil {
		return false
	}
	for _, a := range ancestors {
		if keyBytes(a) == kb {
			return true
		}
	}
	return false
}

// GetAncestors returns the ancestor chain of key in oldest-first order,
// including the genesis key but excluding key itself.
func (c *Chain) GetAncestors(key *bls.PublicKey) ([]*bls.PublicKey, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	kb := keyBytes(key)
	if _, ok := c.keys[kb]; !ok {
		return nil, errs.New(errs.KindUnknownSection, "get ancestors: unknown key")
	}

	var reversed []*bls.PublicKey
	cur := kb
	for cur != c.genesis {
		e, ok := c.inbound[cur]
		if !ok {
			return nil, fmt.Errorf("sectionchain: broken chain at %x", cur)
		}
		reversed = append(reversed, c.keys[e.parent])
		cur = e.parent
	}

	out := make([]*bls.PublicKey, len(reversed))
	for i, k := range reversed {
		out[len(reversed)-1-i] = k
	}
	return out, nil
}

// MinimizeChain returns the smallest sub-chain (as a fresh Chain rooted at
// genesis) that still contains every key given.
func (c *Chain) MinimizeChain(keysIn []*bls.PublicKey) (*Chain, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	genesisKey := c.keys[c.genesis]
	min := NewChain(genesisKey)

	needed := map[KeyBytes]struct{}{c.genesis: {}}
	for _, k := range keysIn {
		kb := keyBytes(k)
		cur := kb
		for {
			needed[cur] = struct{}{}
			if cur == c.genesis {
				break
			}
			e, ok := c.inbound[cur]
			if !ok {
				return nil, errs.New(errs.KindUnknownSection, "minimize chain: unknown key in request")
			}
			cur = e.parent
		}
	}

	// Replay edges oldest-first (topological by construction: every
	// inbound entry's parent was inserted before the child).
	order := c.topologicalInLocked(needed)
	for _, ck := range order {
		if ck == c.genesis {
			continue
		}
		e := c.inbound[ck]
		if err := min.Insert(c.keys[e.parent], c.keys[ck], e.sig); err != nil {
			return nil, err
		}
	}
	return min, nil
}

func (c *Chain) topologicalInLocked(subset map[KeyBytes]struct{}) []KeyBytes {
	depth := map[KeyBytes]int{}
	var depthOf func(k KeyBytes) int
	depthOf = func(k KeyBytes) int {
		if d, ok := depth[k]; ok {
			return d
		}
		if k == c.genesis {
			depth[k] = 0
			return 0
		}
		e := c.inbound[k]
		d := depthOf(e.parent) + 1
		depth[k] = d
		return d
	}
	ordered := make([]KeyBytes, 0, len(subset))
	for k := range subset {
		depthOf(k)
		ordered = append(ordered, k)
	}
	// stable insertion sort by depth; subset sizes are small.
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && depth[ordered[j]] < depth[ordered[j-1]]; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}

// Len reports the total number of vertices known (including genesis).
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys)
}

// Has reports whether key is a known vertex.
func (c *Chain) Has(key *bls.PublicKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.keys[keyBytes(key)]
	return ok
}
