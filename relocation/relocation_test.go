// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package relocation

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/maidsafe/sn-core/address"
)

func TestNewAgeHalvesRoundingDown(t *testing.T) {
	require := require.New(t)
	require.Equal(uint8(5), NewAge(11))
	require.Equal(uint8(0), NewAge(1))
	require.Equal(uint8(0), NewAge(0))
}

func TestDeriveNameDeterministic(t *testing.T) {
	require := require.New(t)

	prior := ids.GenerateTestID()
	prefix := address.NewPrefix(ids.GenerateTestID(), 4)

	a := DeriveName(prior, 5, prefix)
	b := DeriveName(prior, 5, prefix)
	require.Equal(a, b)
}

func TestDeriveNameFallsWithinDestinationPrefix(t *testing.T) {
	require := require.New(t)

	for i := 0; i < 20; i++ {
		prior := ids.GenerateTestID()
		prefix := address.NewPrefix(ids.GenerateTestID(), 10)

		derived := DeriveName(prior, 5, prefix)
		require.True(prefix.Matches(derived))
	}
}

func TestDeriveNameChangesWithAgeOrPrefix(t *testing.T) {
	require := require.New(t)

	prior := ids.GenerateTestID()
	prefix := address.NewPrefix(ids.GenerateTestID(), 4)

	base := DeriveName(prior, 5, prefix)
	differentAge := DeriveName(prior, 6, prefix)
	require.NotEqual(base, differentAge)

	differentPrefix := DeriveName(prior, 5, prefix.PushBit(0))
	require.NotEqual(base, differentPrefix)
}

func TestJoinAsRelocatedValidate(t *testing.T) {
	require := require.New(t)

	prior := ids.GenerateTestID()
	prefix := address.NewPrefix(ids.GenerateTestID(), 4)
	priorAge := uint8(11)
	newAge := NewAge(priorAge)
	newName := DeriveName(prior, newAge, prefix)

	req := JoinAsRelocated{
		NewName:    newName,
		NewAge:     newAge,
		PriorName:  prior,
		DestPrefix: prefix,
	}
	require.True(req.Validate(priorAge))
	require.True(req.ExemptFromJoinsAllowed())
}

func TestJoinAsRelocatedValidateRejectsTamperedAge(t *testing.T) {
	require := require.New(t)

	prior := ids.GenerateTestID()
	prefix := address.NewPrefix(ids.GenerateTestID(), 4)
	priorAge := uint8(11)

	req := JoinAsRelocated{
		NewName:    DeriveName(prior, 99, prefix),
		NewAge:     99,
		PriorName:  prior,
		DestPrefix: prefix,
	}
	require.False(req.Validate(priorAge))
}
