// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package membership

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/maidsafe/sn-core/address"
)

// ProposalKind enumerates the membership changes elders vote on (§4.4).
type ProposalKind int

const (
	ProposalJoin ProposalKind = iota
	ProposalLeave
	ProposalRelocate
	ProposalElectElders
	ProposalSetJoinsAllowed
)

func (k ProposalKind) String() string {
	switch k {
	case ProposalJoin:
		return "Join"
	case ProposalLeave:
		return "Leave"
	case ProposalRelocate:
		return "Relocate"
	case ProposalElectElders:
		return "ElectElders"
	case ProposalSetJoinsAllowed:
		return "SetJoinsAllowed"
	default:
		return "Unknown"
	}
}

// Proposal is one candidate change to the membership view at a given
// generation. Two proposals of different kinds, or the same kind with
// different payloads, never commute: the aggregator keys votes by the
// proposal's full hash, not just its generation, so an elder that
// equivocates on the same generation simply fails to reach a
// super-majority for either proposal instead of corrupting one (§4.4).
type Proposal struct {
	Generation uint64
	Kind       ProposalKind

	// Candidate is the peer a Join/Leave/Relocate proposal concerns.
	Candidate address.Name

	// NewAge is the relocated peer's freshly derived age (Relocate only).
	NewAge uint8

	// NewElders is the elder set an ElectElders proposal commits to.
	NewElders []address.Name

	// JoinsAllowed is the value a SetJoinsAllowed proposal commits to.
	JoinsAllowed bool
}

// Hash deterministically identifies a proposal's content so that votes
// for literally the same change can be aggregated together, while
// distinct proposals at the same generation never collide.
func (p Proposal) Hash() [32]byte {
	h := sha256.New()
	var gen [8]byte
	binary.BigEndian.PutUint64(gen[:], p.Generation)
	h.Write(gen[:])
	h.Write([]byte{byte(p.Kind)})
	h.Write(p.Candidate[:])
	h.Write([]byte{p.NewAge})
	for _, e := range p.NewElders {
		h.Write(e[:])
	}
	if p.JoinsAllowed {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
