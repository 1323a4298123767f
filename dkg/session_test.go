// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package dkg

import (
	"context"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/maidsafe/sn-core/address"
)

func elderSet(n int) []address.Name {
	out := make([]address.Name, n)
	for i := range out {
		out[i] = ids.GenerateTestID()
	}
	return out
}

func TestRunProducesSharedPublicKeyAndOneShareEach(t *testing.T) {
	require := require.New(t)

	elders := elderSet(4)
	id := SessionID{
		Prefix:           address.NewPrefix(address.Name{}, 0),
		Elders:           elders,
		SectionChainLen:  1,
		BootstrapMembers: elders,
		Generation:       0,
	}

	result, err := Run(context.Background(), id, 3)
	require.NoError(err)
	require.NotNil(result.PublicKey)
	require.Len(result.Shares, len(elders))

	for _, elder := range elders {
		share, ok := result.Shares[elder]
		require.True(ok)
		require.Equal(result.GroupKey, share.PublicKeySet)
	}
}

func TestRunRejectsEmptyElderSet(t *testing.T) {
	require := require.New(t)

	id := SessionID{Generation: 0}
	_, err := Run(context.Background(), id, 1)
	require.Error(err)
}

func TestRunRejectsThresholdOutOfRange(t *testing.T) {
	require := require.New(t)

	elders := elderSet(3)
	id := SessionID{Elders: elders}

	_, err := Run(context.Background(), id, 0)
	require.Error(err)

	_, err = Run(context.Background(), id, 4)
	require.Error(err)
}

func TestSessionIDBumpAdvancesGeneration(t *testing.T) {
	require := require.New(t)

	id := SessionID{Generation: 5}
	next := id.Bump()
	require.Equal(uint64(6), next.Generation)
	require.False(id.Equal(next))
}

func TestSessionIDEqualIgnoresUnrelatedFields(t *testing.T) {
	require := require.New(t)

	elders := elderSet(2)
	a := SessionID{Elders: elders, Generation: 1, SectionChainLen: 3}
	b := SessionID{Elders: elders, Generation: 1, SectionChainLen: 3, BootstrapMembers: elders}
	require.True(a.Equal(b))
}
