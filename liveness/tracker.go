// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package liveness tracks per-adult pending-operation counts and
// classifies adults as unresponsive or deviant relative to their
// XOR-closest neighbors (§4.5). Grounded on the FIFO queue discipline of
// engine/chain/poll/set.go's poll bookkeeping, generalized from "one poll
// per request" to "one pending OperationId per in-flight write/read".
package liveness

import (
	"crypto/rand"
	"sync"

	"github.com/maidsafe/sn-core/address"
	"github.com/maidsafe/sn-core/utils/set"
)

// Thresholds (production values, §4.5).
const (
	MinPendingOps          = 500
	ExcessiveOpsTolerance  = 5.0 // T_kick
)

// OperationID is a 256-bit identifier correlating a query with its
// eventual response.
type OperationID = address.Name

// Unresponsive pairs an adult with its current pending count, the shape
// classify() reports them in.
type Unresponsive struct {
	Adult address.Name
	Count int
}

// Tracker holds the pending-operation queues and the neighbor cohort
// used as each adult's local baseline.
type Tracker struct {
	mu            sync.Mutex
	neighborCount int
	pending       map[address.Name][]OperationID
	neighbors     map[address.Name][]address.Name
}

// NewTracker builds an empty tracker. neighborCount is NEIGHBOUR_COUNT,
// conventionally the section's configured elder count.
func NewTracker(neighborCount int) *Tracker {
	return &Tracker{
		neighborCount: neighborCount,
		pending:       make(map[address.Name][]OperationID),
		neighbors:     make(map[address.Name][]address.Name),
	}
}

// AddPending appends op to adult's pending queue, creating the entry on
// first use.
func (t *Tracker) AddPending(adult address.Name, op OperationID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[adult] = append(t.pending[adult], op)
}

// Fulfill removes the first occurrence of op from adult's pending queue
// and reports whether a removal happened.
func (t *Tracker) Fulfill(adult address.Name, op OperationID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	queue := t.pending[adult]
	for i, pending := range queue {
		if pending == op {
			t.pending[adult] = append(queue[:i], queue[i+1:]...)
			return true
		}
	}
	return false
}

// Penalize appends an operation id that can never be fulfilled, used
// when an adult is observed misbehaving out of band (e.g. a transport
// timeout reported by the replication orchestrator).
func (t *Tracker) Penalize(adult address.Name) {
	var op OperationID
	_, _ = rand.Read(op[:])
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[adult] = append(t.pending[adult], op)
}

// Retain drops any adult not in currentMembers from both maps and
// rebuilds every remaining adult's neighbor cohort against the new
// member set.
func (t *Tracker) Retain(currentMembers []address.Name) {
	t.mu.Lock()
	defer t.mu.Unlock()

	members := set.Of(currentMembers...)
	for adult := range t.pending {
		if !members.Contains(adult) {
			delete(t.pending, adult)
		}
	}
	t.neighbors = make(map[address.Name][]address.Name, len(currentMembers))
	for _, adult := range currentMembers {
		others := make([]address.Name, 0, len(currentMembers)-1)
		for _, other := range currentMembers {
			if other != adult {
				others = append(others, other)
			}
		}
		t.neighbors[adult] = address.ClosestK(adult, others, t.neighborCount)
	}
}

// Classify reports every adult whose pending count is high enough,
// relative to its neighbor cohort's busiest member, to count as
// unresponsive or deviant (§4.5).
func (t *Tracker) Classify() (unresponsive []Unresponsive, deviants []address.Name) {
	t.mu.Lock()
	defer t.mu.Unlock()

	const tWarn = ExcessiveOpsTolerance / 2

	for adult, queue := range t.pending {
		pA := len(queue)
		if pA <= MinPendingOps {
			continue
		}
		mA := 0
		for _, n := range t.neighbors[adult] {
			if c := len(t.pending[n]); c > mA {
				mA = c
			}
		}
		if float64(pA) > ExcessiveOpsTolerance*float64(mA) {
			unresponsive = append(unresponsive, Unresponsive{Adult: adult, Count: pA})
		}
		if float64(pA) > tWarn*float64(mA) {
			deviants = append(deviants, adult)
		}
	}
	return unresponsive, deviants
}
