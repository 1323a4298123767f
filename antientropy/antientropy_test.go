// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package antientropy

import (
	"testing"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/maidsafe/sn-core/address"
	"github.com/maidsafe/sn-core/membership"
	"github.com/maidsafe/sn-core/sectionchain"
)

func mustKey(t *testing.T) *bls.SecretKey {
	t.Helper()
	sk, err := bls.NewSecretKey()
	require.NoError(t, err)
	return sk
}

func TestApplyUpdateExtendsChainFromKnownKey(t *testing.T) {
	require := require.New(t)

	genesisSK := mustKey(t)
	chain := sectionchain.NewChain(genesisSK.PublicKey())
	knowledge := &Knowledge{}

	childSK := mustKey(t)
	sig, err := genesisSK.Sign(bls.PublicKeyToCompressedBytes(childSK.PublicKey()))
	require.NoError(err)

	update := Update{
		Parent: genesisSK.PublicKey(),
		Child:  childSK.PublicKey(),
		Sig:    sig,
		SAP:    membership.SAP{Generation: 2},
	}

	require.NoError(ApplyUpdate(chain, knowledge, update))
	require.True(chain.Has(childSK.PublicKey()))
	require.Equal(uint64(2), knowledge.SAP.Generation)
}

func TestApplyUpdateRejectsUnknownParent(t *testing.T) {
	require := require.New(t)

	genesisSK := mustKey(t)
	chain := sectionchain.NewChain(genesisSK.PublicKey())
	knowledge := &Knowledge{}

	strangerSK := mustKey(t)
	childSK := mustKey(t)
	sig, err := strangerSK.Sign(bls.PublicKeyToCompressedBytes(childSK.PublicKey()))
	require.NoError(err)

	update := Update{Parent: strangerSK.PublicKey(), Child: childSK.PublicKey(), Sig: sig}
	err = ApplyUpdate(chain, knowledge, update)
	require.Error(err)
}

func TestVerifyMessageKeyAcceptsChainMember(t *testing.T) {
	require := require.New(t)

	genesisSK := mustKey(t)
	chain := sectionchain.NewChain(genesisSK.PublicKey())
	require.True(VerifyMessageKey(chain, genesisSK.PublicKey(), nil))
}

func TestVerifyMessageKeyAcceptsTrustedSetMember(t *testing.T) {
	require := require.New(t)

	genesisSK := mustKey(t)
	chain := sectionchain.NewChain(genesisSK.PublicKey())

	outsiderSK := mustKey(t)
	require.False(VerifyMessageKey(chain, outsiderSK.PublicKey(), nil))
	require.True(VerifyMessageKey(chain, outsiderSK.PublicKey(), []*bls.PublicKey{outsiderSK.PublicKey()}))
}

// classifyFixture builds a chain with a genesis key extended once to a
// current key, and a Knowledge bound to the current key over ownPrefix.
func classifyFixture(t *testing.T, ownPrefix address.Prefix) (*sectionchain.Chain, *Knowledge, *bls.SecretKey, *bls.SecretKey) {
	t.Helper()
	genesisSK := mustKey(t)
	chain := sectionchain.NewChain(genesisSK.PublicKey())

	currentSK := mustKey(t)
	sig, err := genesisSK.Sign(bls.PublicKeyToCompressedBytes(currentSK.PublicKey()))
	require.NoError(t, err)
	require.NoError(t, chain.Insert(genesisSK.PublicKey(), currentSK.PublicKey(), sig))

	knowledge := &Knowledge{
		SAP:        membership.SAP{Prefix: ownPrefix, Generation: 1},
		SectionKey: currentSK.PublicKey(),
	}
	return chain, knowledge, genesisSK, currentSK
}

func TestClassifyInboundOKWhenCurrentAndCorrectlyAddressed(t *testing.T) {
	require := require.New(t)

	dstName := ids.GenerateTestID()
	prefix := address.NewPrefix(dstName, 4)
	chain, knowledge, _, currentSK := classifyFixture(t, prefix)

	got := ClassifyInbound(chain, knowledge, currentSK.PublicKey(), dstName, []byte("payload"))
	require.Equal(ClassificationOK, got.Kind)
	require.Nil(got.Retry)
	require.Nil(got.Redirect)
}

func TestClassifyInboundRetryWhenKeyIsStale(t *testing.T) {
	require := require.New(t)

	dstName := ids.GenerateTestID()
	prefix := address.NewPrefix(dstName, 4)
	chain, knowledge, genesisSK, currentSK := classifyFixture(t, prefix)

	got := ClassifyInbound(chain, knowledge, genesisSK.PublicKey(), dstName, []byte("payload"))
	require.Equal(ClassificationRetry, got.Kind)
	require.NotNil(got.Retry)
	require.Equal([]byte("payload"), got.Retry.Bounced)
	require.Equal(bls.PublicKeyToCompressedBytes(currentSK.PublicKey()), bls.PublicKeyToCompressedBytes(got.Retry.NewerKey))
	require.Nil(got.Redirect)
}

func TestClassifyInboundRedirectWhenDestinationWrong(t *testing.T) {
	require := require.New(t)

	ownName := ids.GenerateTestID()
	ownPrefix := address.NewPrefix(ownName, 4)
	chain, knowledge, _, currentSK := classifyFixture(t, ownPrefix)

	// dstName deliberately outside ownPrefix.
	var dstName ids.ID
	copy(dstName[:], ownName[:])
	dstName[0] = ^ownName[0]

	got := ClassifyInbound(chain, knowledge, currentSK.PublicKey(), dstName, []byte("payload"))
	require.Equal(ClassificationRedirect, got.Kind)
	require.NotNil(got.Redirect)
	require.Equal([]byte("payload"), got.Redirect.Bounced)
	require.Equal(knowledge.SAP, got.Redirect.SAP)
	require.Nil(got.Retry)
}

func TestClassifyInboundRedirectTakesPrecedenceOverStaleKey(t *testing.T) {
	require := require.New(t)

	ownName := ids.GenerateTestID()
	ownPrefix := address.NewPrefix(ownName, 4)
	chain, knowledge, genesisSK, _ := classifyFixture(t, ownPrefix)

	var dstName ids.ID
	copy(dstName[:], ownName[:])
	dstName[0] = ^ownName[0]

	// Both a stale key (genesis) and a wrong destination: §8 scenario 5
	// expects a Redirect, not a Retry.
	got := ClassifyInbound(chain, knowledge, genesisSK.PublicKey(), dstName, []byte("payload"))
	require.Equal(ClassificationRedirect, got.Kind)
	require.Nil(got.Retry)
}
