// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wire defines the datagram envelope and exhaustive payload
// kinds crossing the transport boundary (§6): a tagged PayloadKind names
// which concrete payload struct an Envelope carries. The package defines
// no dispatch table keyed by PayloadKind; routing on it is left to the
// receiver.
package wire

import (
	"github.com/luxfi/crypto/bls"

	"github.com/maidsafe/sn-core/address"
)

// MsgID is a 128-bit random datagram identifier.
type MsgID [16]byte

// SrcAuthorityKind tags which of the four proof-of-origin shapes a
// message carries.
type SrcAuthorityKind int

const (
	AuthorityNodeSig SrcAuthorityKind = iota
	AuthoritySectionKeyShare
	AuthoritySectionSig
	AuthorityEndUser
)

// SrcAuthority proves who sent a message. Exactly one of the pointer
// fields matching Kind is populated.
type SrcAuthority struct {
	Kind SrcAuthorityKind

	NodeSig          *NodeSigAuthority
	SectionKeyShare  *SectionKeyShareAuthority
	SectionSig       *SectionSigAuthority
	EndUser          *EndUserAuthority
}

type NodeSigAuthority struct {
	PublicKey *bls.PublicKey
	Signature *bls.Signature
}

type SectionKeyShareAuthority struct {
	PublicKeySetBytes []byte
	Index             int
	Share             []byte
}

type SectionSigAuthority struct {
	SectionKey *bls.PublicKey
	Signature  *bls.Signature
}

type EndUserAuthority struct {
	PublicKey []byte
	Signature []byte
}

// DestinationKind tags which of the three addressing modes a message
// targets.
type DestinationKind int

const (
	DestNode DestinationKind = iota
	DestSection
	DestEndUser
)

// Destination addresses a message at a node, a section, or an end user.
type Destination struct {
	Kind DestinationKind

	Name       address.Name
	SectionKey *bls.PublicKey // populated for DestNode and DestSection
}

// PayloadKind exhaustively enumerates every payload kind at the boundary
// (§6).
type PayloadKind int

const (
	PayloadJoinRequest PayloadKind = iota
	PayloadJoinAsRelocatedRequest
	PayloadJoinResponse
	PayloadMembershipVotes
	PayloadMembershipAE
	PayloadRelocate

	PayloadDkgStart
	PayloadDkgEphemeralPubKey
	PayloadDkgVotes
	PayloadDkgAE

	PayloadAntiEntropyUpdate
	PayloadAntiEntropyRetry
	PayloadAntiEntropyRedirect
	PayloadAntiEntropyProbe

	PayloadClientCmd
	PayloadClientQuery
	PayloadCmdAck
	PayloadCmdError
	PayloadQueryResponse
	PayloadNodeReplicateOne
	PayloadNodeQuery
)

// Envelope is the datagram every transport send carries.
type Envelope struct {
	MsgID         MsgID
	CorrelationID *MsgID

	SrcAuthority SrcAuthority
	Destination  Destination
	SectionKey   *bls.PublicKey

	Kind    PayloadKind
	Payload []byte // codec-serialized form of the concrete payload struct for Kind
}
