// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config collects the tunables a node needs at startup: where
// its stores live, how much data they may hold, the section's
// replication factor, and the transport/liveness constants that only
// ever need overriding in tests.
package config

import (
	"fmt"
	"time"
)

// Config holds everything a node needs to bring up its stores,
// liveness tracker and replication orchestrator.
type Config struct {
	// Storage
	ChunkStoreDir      string `json:"chunkStoreDir"`
	ChunkStoreCapacity uint64 `json:"chunkStoreCapacity"`
	RegisterStoreDir   string `json:"registerStoreDir"`

	// Replication
	ReplicationFactor int `json:"replicationFactor"`

	// Membership
	SplitThreshold int `json:"splitThreshold"`

	// Liveness
	NeighbourCount        int           `json:"neighbourCount"`
	LivenessCheckInterval time.Duration `json:"livenessCheckInterval"`

	// Transport
	AdultResponseTimeout time.Duration `json:"adultResponseTimeout"`
	MaxSendJobRetries    int           `json:"maxSendJobRetries"`
	ConnRetryWait        time.Duration `json:"connRetryWait"`
}

// Builder provides a fluent interface for constructing a Config,
// accumulating the first validation error so callers only need to
// check it once, at Build.
type Builder struct {
	config *Config
	err    error
}

// NewBuilder returns a Builder seeded with sensible single-section
// defaults: replication factor 4 (four holders must each ack a write),
// seven neighbours for liveness comparison, and the
// transport constants a node runs with unless a test overrides them.
func NewBuilder() *Builder {
	return &Builder{
		config: &Config{
			ChunkStoreDir:        "chunks",
			ChunkStoreCapacity:   1 << 30, // 1 GiB
			RegisterStoreDir:     "registers",
			ReplicationFactor:     4,
			SplitThreshold:        200,
			NeighbourCount:        7,
			LivenessCheckInterval: 30 * time.Second,
			AdultResponseTimeout:  7 * time.Second,
			MaxSendJobRetries:     3,
			ConnRetryWait:         100 * time.Millisecond,
		},
	}
}

// WithChunkStore sets the chunk store's root directory and byte
// capacity.
func (b *Builder) WithChunkStore(dir string, capacity uint64) *Builder {
	if b.err != nil {
		return b
	}
	if dir == "" {
		b.err = fmt.Errorf("config: chunk store directory must not be empty")
		return b
	}
	if capacity == 0 {
		b.err = fmt.Errorf("config: chunk store capacity must be positive")
		return b
	}
	b.config.ChunkStoreDir = dir
	b.config.ChunkStoreCapacity = capacity
	return b
}

// WithRegisterStore sets the register store's root directory.
func (b *Builder) WithRegisterStore(dir string) *Builder {
	if b.err != nil {
		return b
	}
	if dir == "" {
		b.err = fmt.Errorf("config: register store directory must not be empty")
		return b
	}
	b.config.RegisterStoreDir = dir
	return b
}

// WithReplicationFactor sets how many adults must ack a write before
// it succeeds. Must be at least 1; degraded-mode shadow holders (§4.6)
// only ever supplement this, they never substitute for it.
func (b *Builder) WithReplicationFactor(r int) *Builder {
	if b.err != nil {
		return b
	}
	if r < 1 {
		b.err = fmt.Errorf("config: replication factor must be at least 1, got %d", r)
		return b
	}
	b.config.ReplicationFactor = r
	return b
}

// WithSplitThreshold sets the minimum member count each child prefix
// must reach before membership.ShouldSplit approves a section split
// (§4.4). Production default is 200; tests commonly override this to a
// small number so a split can be exercised without generating hundreds
// of members.
func (b *Builder) WithSplitThreshold(threshold int) *Builder {
	if b.err != nil {
		return b
	}
	if threshold < 1 {
		b.err = fmt.Errorf("config: split threshold must be at least 1, got %d", threshold)
		return b
	}
	b.config.SplitThreshold = threshold
	return b
}

// WithNeighbourCount sets how many XOR-closest adults the liveness
// tracker compares each adult's pending-op count against.
func (b *Builder) WithNeighbourCount(n int) *Builder {
	if b.err != nil {
		return b
	}
	if n < 1 {
		b.err = fmt.Errorf("config: neighbour count must be at least 1, got %d", n)
		return b
	}
	b.config.NeighbourCount = n
	return b
}

// WithLivenessCheckInterval sets how often the node's periodic
// liveness-check loop (dispatcher.Dispatcher.SchedulePeriodic) reclassifies
// adults as unresponsive or deviant (§4.7, original_source/.../periodic_checks.rs).
func (b *Builder) WithLivenessCheckInterval(interval time.Duration) *Builder {
	if b.err != nil {
		return b
	}
	if interval <= 0 {
		b.err = fmt.Errorf("config: liveness check interval must be positive")
		return b
	}
	b.config.LivenessCheckInterval = interval
	return b
}

// WithTransportTuning overrides the per-peer session's dial retry
// behaviour and the replication orchestrator's response timeout.
func (b *Builder) WithTransportTuning(timeout time.Duration, maxRetries int, retryWait time.Duration) *Builder {
	if b.err != nil {
		return b
	}
	if timeout <= 0 {
		b.err = fmt.Errorf("config: adult response timeout must be positive")
		return b
	}
	if maxRetries < 1 {
		b.err = fmt.Errorf("config: max send job retries must be at least 1, got %d", maxRetries)
		return b
	}
	if retryWait < 0 {
		b.err = fmt.Errorf("config: connection retry wait must not be negative")
		return b
	}
	b.config.AdultResponseTimeout = timeout
	b.config.MaxSendJobRetries = maxRetries
	b.config.ConnRetryWait = retryWait
	return b
}

// Build returns the assembled Config, or the first error any With*
// call accumulated.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.config.ReplicationFactor > b.config.NeighbourCount+1 {
		return nil, fmt.Errorf(
			"config: replication factor %d cannot exceed neighbour count+1 %d",
			b.config.ReplicationFactor, b.config.NeighbourCount+1,
		)
	}
	return b.config, nil
}
