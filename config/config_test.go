// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuilderDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := NewBuilder().Build()
	require.NoError(err)
	require.Equal(4, cfg.ReplicationFactor)
	require.Equal(200, cfg.SplitThreshold)
	require.Equal(7, cfg.NeighbourCount)
	require.Equal(30*time.Second, cfg.LivenessCheckInterval)
	require.Equal(7*time.Second, cfg.AdultResponseTimeout)
}

func TestBuilderWithChunkStoreOverridesDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := NewBuilder().WithChunkStore("/var/lib/chunks", 1<<24).Build()
	require.NoError(err)
	require.Equal("/var/lib/chunks", cfg.ChunkStoreDir)
	require.Equal(uint64(1<<24), cfg.ChunkStoreCapacity)
}

func TestBuilderWithChunkStoreRejectsEmptyDir(t *testing.T) {
	require := require.New(t)

	_, err := NewBuilder().WithChunkStore("", 10).Build()
	require.Error(err)
}

func TestBuilderWithReplicationFactorRejectsNonPositive(t *testing.T) {
	require := require.New(t)

	_, err := NewBuilder().WithReplicationFactor(0).Build()
	require.Error(err)
}

func TestBuilderRejectsReplicationFactorAboveNeighbourhood(t *testing.T) {
	require := require.New(t)

	_, err := NewBuilder().WithNeighbourCount(2).WithReplicationFactor(5).Build()
	require.Error(err)
}

func TestBuilderStopsAtFirstError(t *testing.T) {
	require := require.New(t)

	_, err := NewBuilder().
		WithReplicationFactor(-1).
		WithNeighbourCount(-1). // must not overwrite the first error
		Build()
	require.Error(err)
	require.Contains(err.Error(), "replication factor")
}

func TestBuilderWithSplitThresholdOverridesDefault(t *testing.T) {
	require := require.New(t)

	cfg, err := NewBuilder().WithSplitThreshold(3).Build()
	require.NoError(err)
	require.Equal(3, cfg.SplitThreshold)
}

func TestBuilderWithSplitThresholdRejectsNonPositive(t *testing.T) {
	require := require.New(t)

	_, err := NewBuilder().WithSplitThreshold(0).Build()
	require.Error(err)
}

func TestBuilderWithLivenessCheckIntervalOverridesDefault(t *testing.T) {
	require := require.New(t)

	cfg, err := NewBuilder().WithLivenessCheckInterval(5 * time.Second).Build()
	require.NoError(err)
	require.Equal(5*time.Second, cfg.LivenessCheckInterval)
}

func TestBuilderWithLivenessCheckIntervalRejectsNonPositive(t *testing.T) {
	require := require.New(t)

	_, err := NewBuilder().WithLivenessCheckInterval(0).Build()
	require.Error(err)
}

func TestBuilderWithTransportTuning(t *testing.T) {
	require := require.New(t)

	cfg, err := NewBuilder().
		WithTransportTuning(2*time.Second, 5, 50*time.Millisecond).
		Build()
	require.NoError(err)
	require.Equal(2*time.Second, cfg.AdultResponseTimeout)
	require.Equal(5, cfg.MaxSendJobRetries)
	require.Equal(50*time.Millisecond, cfg.ConnRetryWait)
}

func TestBuilderWithTransportTuningRejectsZeroTimeout(t *testing.T) {
	require := require.New(t)

	_, err := NewBuilder().WithTransportTuning(0, 3, time.Millisecond).Build()
	require.Error(err)
}
