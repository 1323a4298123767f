// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package membership

import (
	"testing"

	"github.com/luxfi/ids"
	golog "github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/maidsafe/sn-core/address"
	nolog "github.com/maidsafe/sn-core/log"
)

func newTestConsensus(t *testing.T) *Consensus {
	t.Helper()
	reg := prometheus.NewRegistry()
	c, err := NewConsensus(nolog.NewNoOpLogger(), reg)
	require.NoError(t, err)
	return c
}

func elders(n int) []ids.ID {
	out := make([]ids.ID, n)
	for i := range out {
		out[i] = ids.GenerateTestID()
	}
	return out
}

var _ golog.Logger = nolog.NewNoOpLogger()

func TestAddVoteCommitsAtSuperMajority(t *testing.T) {
	require := require.New(t)
	c := newTestConsensus(t)

	elderSet := elders(4)
	sap := SAP{Elders: elderSet, Generation: 1}
	candidate := ids.GenerateTestID()
	proposal := Proposal{Generation: 1, Kind: ProposalJoin, Candidate: candidate}

	var decision *Decision
	var err error
	for i := 0; i < 2; i++ {
		decision, err = c.AddVote(sap, Vote{Proposal: proposal, Voter: elderSet[i]})
		require.NoError(err)
		require.Nil(decision)
	}
	decision, err = c.AddVote(sap, Vote{Proposal: proposal, Voter: elderSet[2]})
	require.NoError(err)
	require.NotNil(decision)
	require.Len(decision.Signers, 3)
	require.Equal(candidate, decision.Proposal.Candidate)
}

func TestAddVoteRejectsNonElderVoter(t *testing.T) {
	require := require.New(t)
	c := newTestConsensus(t)

	sap := SAP{Elders: elders(3), Generation: 1}
	stranger := ids.GenerateTestID()
	proposal := Proposal{Generation: 1, Kind: ProposalLeave, Candidate: ids.GenerateTestID()}

	_, err := c.AddVote(sap, Vote{Proposal: proposal, Voter: stranger})
	require.Error(err)
}

func TestConflictingProposalsAtSameGenerationDoNotCommute(t *testing.T) {
	require := require.New(t)
	c := newTestConsensus(t)

	elderSet := elders(4)
	sap := SAP{Elders: elderSet, Generation: 1}
	candidate := ids.GenerateTestID()
	join := Proposal{Generation: 1, Kind: ProposalJoin, Candidate: candidate}
	leave := Proposal{Generation: 1, Kind: ProposalLeave, Candidate: candidate}

	d, err := c.AddVote(sap, Vote{Proposal: join, Voter: elderSet[0]})
	require.NoError(err)
	require.Nil(d)

	d, err = c.AddVote(sap, Vote{Proposal: leave, Voter: elderSet[1]})
	require.NoError(err)
	require.Nil(d)

	// Two more votes for join reach super-majority without leave's vote
	// ever contributing to it.
	d, err = c.AddVote(sap, Vote{Proposal: join, Voter: elderSet[2]})
	require.NoError(err)
	require.Nil(d)
	d, err = c.AddVote(sap, Vote{Proposal: join, Voter: elderSet[3]})
	require.NoError(err)
	require.NotNil(d)
	require.Equal(ProposalJoin, d.Proposal.Kind)
}

func TestAddVoteAfterDecisionIsRejected(t *testing.T) {
	require := require.New(t)
	c := newTestConsensus(t)

	elderSet := elders(4)
	sap := SAP{Elders: elderSet, Generation: 1}
	proposal := Proposal{Generation: 1, Kind: ProposalSetJoinsAllowed, JoinsAllowed: true}

	for i := 0; i < 3; i++ {
		_, err := c.AddVote(sap, Vote{Proposal: proposal, Voter: elderSet[i]})
		require.NoError(err)
	}

	other := Proposal{Generation: 1, Kind: ProposalSetJoinsAllowed, JoinsAllowed: false}
	_, err := c.AddVote(sap, Vote{Proposal: other, Voter: elderSet[3]})
	require.Error(err)
}

func TestPruneDropsOldGenerations(t *testing.T) {
	require := require.New(t)
	c := newTestConsensus(t)

	elderSet := elders(3)
	sap := SAP{Elders: elderSet, Generation: 1}
	for gen := uint64(1); gen <= 3; gen++ {
		proposal := Proposal{Generation: gen, Kind: ProposalJoin, Candidate: ids.GenerateTestID()}
		_, err := c.AddVote(sap, Vote{Proposal: proposal, Voter: elderSet[0]})
		require.NoError(err)
	}
	require.Equal(3, c.OpenGenerations())
	c.Prune(3)
	require.Equal(1, c.OpenGenerations())
}

func TestSplitPartitionsByPrefix(t *testing.T) {
	require := require.New(t)

	var zeroName, oneName ids.ID
	zeroName[0] = 0x00
	oneName[0] = 0x80

	zero, one := Split(address.NewPrefix(address.Name{}, 0), []ids.ID{zeroName, oneName})
	require.Equal([]ids.ID{zeroName}, zero)
	require.Equal([]ids.ID{oneName}, one)
}

func TestShouldSplitRequiresBothChildrenAtThreshold(t *testing.T) {
	require := require.New(t)

	zero := make([]ids.ID, 3)
	one := make([]ids.ID, 3)
	require.True(ShouldSplit(3, zero, one))

	oneShort := make([]ids.ID, 2)
	require.False(ShouldSplit(3, zero, oneShort))
	require.False(ShouldSplit(3, oneShort, zero))
}
