// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package membership implements the Byzantine-fault-tolerant decision
// process a section's elders run to agree on who is in the section
// (§4.4): joins, leaves, relocations, elder elections and the
// joins-allowed gate. Every decision is reached once a strict
// super-majority of the current elder set has signed the same proposal
// at the same generation, mirroring the vote-aggregation shape of
// engine/chain/poll/set.go generalized from "did the network prefer this
// block" to "did the elders agree on this membership change".
package membership

import (
	"github.com/maidsafe/sn-core/address"
)

// NodeState is the lifecycle state of a peer known to a section.
type NodeState int

const (
	StateJoined NodeState = iota
	StateLeft
	StateRelocated
	StateArchived // pruned from the live view but retained for a bounded history (§4.4 Open Question)
)

func (s NodeState) String() string {
	switch s {
	case StateJoined:
		return "Joined"
	case StateLeft:
		return "Left"
	case StateRelocated:
		return "Relocated"
	case StateArchived:
		return "Archived"
	default:
		return "Unknown"
	}
}

// Peer is a single member of a section's membership view.
type Peer struct {
	Name  address.Name
	Age   uint8
	Elder bool
	State NodeState
}

// SAP (Section Authority Provider) names the elders that speak for a
// prefix at a given section key and membership generation.
type SAP struct {
	Prefix     address.Prefix
	Elders     []address.Name
	Generation uint64
}

// Contains reports whether name is one of the SAP's elders.
func (s SAP) Contains(name address.Name) bool {
	for _, e := range s.Elders {
		if e == name {
			return true
		}
	}
	return false
}

// SuperMajority returns the minimum signer count that counts as a strict
// super-majority (more than two thirds) of an elder set of size n.
func SuperMajority(n int) int {
	return (2*n)/3 + 1
}

// HasSuperMajority reports whether signerCount meets SuperMajority(n).
// The arithmetic form (3*signerCount > 2*n) avoids rounding surprises at
// small n relative to the derived threshold above, so decisions and DKG
// failure sets agree on the exact same boundary.
func HasSuperMajority(signerCount, n int) bool {
	return n > 0 && 3*signerCount > 2*n
}
