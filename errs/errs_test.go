// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMatchesOnKindOnly(t *testing.T) {
	require := require.New(t)

	err := Wrap(KindOutdatedKnowledge, "stale section key", fmt.Errorf("boom"))
	require.True(errors.Is(err, New(KindOutdatedKnowledge, "")))
	require.False(errors.Is(err, New(KindDataNotFound, "")))
}

func TestOfRecoversKindThroughWrapping(t *testing.T) {
	require := require.New(t)

	err := fmt.Errorf("context: %w", New(KindInsufficientAdults, "not enough holders"))
	kind, ok := Of(err)
	require.True(ok)
	require.Equal(KindInsufficientAdults, kind)

	_, ok = Of(fmt.Errorf("plain"))
	require.False(ok)
}

func TestParseKindRoundTripsString(t *testing.T) {
	require := require.New(t)

	for k := KindUntrustedKey; k <= KindTransportClosed; k++ {
		parsed, ok := ParseKind(k.String())
		require.True(ok)
		require.Equal(k, parsed)
	}

	_, ok := ParseKind("NotARealKind")
	require.False(ok)
}

func TestDroppedKinds(t *testing.T) {
	require := require.New(t)

	require.True(KindUntrustedKey.Dropped())
	require.True(KindInvalidSignature.Dropped())
	require.True(KindInvalidMessage.Dropped())
	require.False(KindDataNotFound.Dropped())
}

func TestClientVisibleKinds(t *testing.T) {
	require := require.New(t)

	require.True(KindInsufficientAdults.ClientVisible())
	require.True(KindNotEnoughSpace.ClientVisible())
	require.True(KindDataNotFound.ClientVisible())
	require.False(KindDkgFailed.ClientVisible())
	require.False(KindMembershipInProgress.ClientVisible())
}
