// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"github.com/luxfi/crypto/bls"

	"github.com/maidsafe/sn-core/address"
	"github.com/maidsafe/sn-core/dkg"
	"github.com/maidsafe/sn-core/membership"
	"github.com/maidsafe/sn-core/version"
)

// JoinResponseKind enumerates a JoinResponse's possible outcomes (§6).
type JoinResponseKind int

const (
	JoinApproval JoinResponseKind = iota
	JoinRetry
	JoinRedirect
	JoinRejected
	JoinNodeNotReachable
)

type JoinRequest struct {
	CandidateName address.Name
	PublicKey     *bls.PublicKey
	Age           uint8
	Version       *version.Application
}

// CompatibleWith reports whether a candidate reporting this request can
// join a section run by local's build. A nil Version (an old candidate
// that predates version negotiation) is treated as compatible.
func (r *JoinRequest) CompatibleWith(local *version.Application) bool {
	if r.Version == nil {
		return true
	}
	return local.Compatible(r.Version)
}

type JoinAsRelocatedRequest struct {
	NewName     address.Name
	NewAge      uint8
	PriorName   address.Name
	Attestation []byte
}

type JoinResponse struct {
	Kind    JoinResponseKind
	SAP     *membership.SAP // populated for Redirect
	Bounced []byte          // populated for Retry/Redirect
	Reason  string          // populated for Rejected
}

type MembershipVotes struct {
	Votes []membership.Vote
}

type MembershipAE struct {
	FromGeneration uint64
}

type Relocate struct {
	CandidateName address.Name
	NewState      membership.NodeState
}

type DkgStart struct {
	SessionID dkg.SessionID
}

type DkgEphemeralPubKey struct {
	SessionID  dkg.SessionID
	Participant address.Name
	EphemeralPK *bls.PublicKey
	Sig         *bls.Signature // signed by the participant's long-term key
}

type DkgVotes struct {
	SessionID dkg.SessionID
	Shares    map[address.Name][]byte // opaque per-participant threshold share material
}

type DkgAE struct {
	SessionID dkg.SessionID
}

type AntiEntropyUpdate struct {
	Parent  *bls.PublicKey
	Child   *bls.PublicKey
	Sig     *bls.Signature
	SAP     membership.SAP
	Members []address.Name
}

type AntiEntropyRetry struct {
	Bounced  []byte
	NewerKey *bls.PublicKey
}

type AntiEntropyRedirect struct {
	Bounced []byte
	SAP     membership.SAP
}

type AntiEntropyProbe struct {
	SectionKey *bls.PublicKey
}

// ClientCmdKind distinguishes the two client write commands (§6).
type ClientCmdKind int

const (
	ClientCmdStore ClientCmdKind = iota
	ClientCmdRegisterWrite
)

type ClientCmd struct {
	Kind ClientCmdKind
	Name address.Name
	Data []byte
}

type ClientQuery struct {
	Name address.Name
}

type CmdAck struct{}

type CmdError struct {
	Kind   string // errs.Kind.String(), kept as a string at the wire boundary
	Reason string
}

type QueryResponse struct {
	Found bool
	Data  []byte
	Error *CmdError
}

type NodeReplicateOne struct {
	Name address.Name
	Data []byte
}

type NodeQuery struct {
	Name address.Name
}
