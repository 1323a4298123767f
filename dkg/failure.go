// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package dkg

import (
	"github.com/luxfi/crypto/bls"

	"github.com/maidsafe/sn-core/address"
)

// FailureVote is one participant's signed statement that it could not
// complete the session identified by SessionID.
type FailureVote struct {
	Participant address.Name
	Sig         *bls.Signature
}

// FailureSet carries every failure vote collected for a session. A
// session is only reported as failed once a super-majority of its
// elders have signed the same failure statement (§4.3) — a single
// participant timing out must not abort the round for everyone else.
type FailureSet struct {
	Session SessionID
	Votes   []FailureVote
}

// NewFailureSet starts an empty failure set for a session.
func NewFailureSet(id SessionID) *FailureSet {
	return &FailureSet{Session: id}
}

// AddVote records a participant's failure vote. Duplicate votes from the
// same participant are ignored rather than double-counted.
func (fs *FailureSet) AddVote(vote FailureVote) {
	for _, v := range fs.Votes {
		if v.Participant == vote.Participant {
			return
		}
	}
	fs.Votes = append(fs.Votes, vote)
}

// HasSuperMajority reports whether enough distinct elders (out of
// elderCount total) have voted failure to declare the session dead. The
// threshold matches the membership decision threshold: strictly more
// than two thirds (§4.4's super-majority rule, reused here since a DKG
// failure declaration carries the same weight as a membership decision).
func (fs *FailureSet) HasSuperMajority(elderCount int) bool {
	if elderCount <= 0 {
		return false
	}
	return 3*len(fs.Votes) > 2*elderCount
}
