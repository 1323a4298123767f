// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package replication drives writes and reads across the holders
// DataPlacement names for a piece of content (§4.7): writes wait for a
// strict quorum of successful acknowledgements, reads fall back across
// holders on a DataNotFound from a full responder.
package replication

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/maidsafe/sn-core/address"
	"github.com/maidsafe/sn-core/errs"
	"github.com/maidsafe/sn-core/liveness"
	"github.com/maidsafe/sn-core/placement"
	"github.com/maidsafe/sn-core/utils/set"
)

// AdultResponseTimeout bounds a single per-target send. Chosen as the
// transport idle timeout plus a small slack (§4.7).
const AdultResponseTimeout = 7 * time.Second

// Chunk is the content being replicated.
type Chunk struct {
	Name address.Name
	Data []byte
}

// Response is what a holder returns for a read query.
type Response struct {
	Found bool
	Data  []byte
}

// Sender is the transport-facing contract the orchestrator drives; the
// transport package provides the concrete implementation.
type Sender interface {
	ReplicateOne(ctx context.Context, target address.Name, chunk Chunk) error
	Query(ctx context.Context, target address.Name, name address.Name) (Response, error)
}

// Orchestrator implements the write and read paths over a Sender, using
// a LivenessTracker to penalize targets that time out.
type Orchestrator struct {
	sender   Sender
	liveness *liveness.Tracker
	timeout  time.Duration
}

// NewOrchestrator builds an orchestrator with the production
// AdultResponseTimeout.
func NewOrchestrator(sender Sender, tracker *liveness.Tracker) *Orchestrator {
	return &Orchestrator{sender: sender, liveness: tracker, timeout: AdultResponseTimeout}
}

// NewOrchestratorWithTimeout is NewOrchestrator with a caller-supplied
// per-target response timeout, for deployments that tune it via
// configuration instead of accepting the default.
func NewOrchestratorWithTimeout(sender Sender, tracker *liveness.Tracker, timeout time.Duration) *Orchestrator {
	return &Orchestrator{sender: sender, liveness: tracker, timeout: timeout}
}

// Write computes the target holders for chunk.Name and replicates to all
// of them, acknowledging only once every target has replied
// successfully (strict quorum = r). It returns InsufficientAdults if
// fewer than r primary (non-full) holders could be found; shadow
// holders do not count toward r.
func (o *Orchestrator) Write(ctx context.Context, chunk Chunk, adults []address.Name, full set.Set[address.Name], r int) error {
	targets := placement.TargetHolders(chunk.Name, adults, full, r)
	primaries := 0
	for _, t := range targets {
		if !full.Contains(t) {
			primaries++
		}
	}
	if primaries < r {
		return errs.New(errs.KindInsufficientAdults, "replication: not enough adults to satisfy requested quorum")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		lastErr error
	)
	for _, target := range targets {
		target := target
		wg.Add(1)
		go func() {
			defer wg.Done()
			sendCtx, cancel := context.WithTimeout(ctx, o.timeout)
			defer cancel()
			err := o.sender.ReplicateOne(sendCtx, target, chunk)
			if err == nil {
				return
			}
			if errors.Is(err, context.DeadlineExceeded) {
				o.liveness.Penalize(target)
			}
			mu.Lock()
			lastErr = err
			mu.Unlock()
		}()
	}
	wg.Wait()
	return lastErr
}

// Read queries the adultIndex-th holder of name (0 is the conventional
// primary read target) and, if that holder reports DataNotFound while
// marked full, re-queries the next holder in turn (§4.7).
func (o *Orchestrator) Read(ctx context.Context, name address.Name, adults []address.Name, full set.Set[address.Name], r, adultIndex int) (Response, error) {
	targets := placement.TargetHolders(name, adults, full, r)
	if len(targets) == 0 {
		return Response{}, errs.New(errs.KindDataNotFound, "replication: no holders for this name")
	}

	for i := adultIndex; i < len(targets); i++ {
		target := targets[i]
		queryCtx, cancel := context.WithTimeout(ctx, o.timeout)
		resp, err := o.sender.Query(queryCtx, target, name)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				o.liveness.Penalize(target)
			}
			return Response{}, err
		}
		if resp.Found {
			return resp, nil
		}
		if !full.Contains(target) {
			return resp, nil
		}
		// responder is full and reports not-found: try the next holder.
	}
	return Response{}, errs.New(errs.KindDataNotFound, "replication: exhausted all holders")
}
