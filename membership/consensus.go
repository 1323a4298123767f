// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package membership

import (
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/maidsafe/sn-core/address"
	"github.com/maidsafe/sn-core/errs"
	"github.com/maidsafe/sn-core/utils/linked"
)

var (
	errFailedRoundsMetric   = errors.New("failed to register membership_rounds metric")
	errFailedDecisionMetric = errors.New("failed to register membership_decision_duration metric")
)

// Vote is one elder's signature over a proposal.
type Vote struct {
	Proposal Proposal
	Voter    address.Name
	Sig      *bls.Signature
}

// Decision is the outcome of a committed proposal: the proposal itself
// plus the elders whose votes carried it past the super-majority bar.
type Decision struct {
	Generation uint64
	Proposal   Proposal
	Signers    []address.Name
}

type round struct {
	sap     SAP
	tallies map[[32]byte]map[address.Name]struct{}
	decided bool
}

// Consensus aggregates elder votes per generation and reports a Decision
// the moment any single proposal at that generation reaches a strict
// super-majority of the SAP's elders (§4.4). Grounded on the poll
// aggregation shape of engine/chain/poll/set.go: a logger, a gauge of
// in-flight rounds and an averager of time-to-decision, keyed by a
// linked hashmap so old generations can be evicted in insertion order.
type Consensus struct {
	mu           sync.Mutex
	log          log.Logger
	numRounds    prometheus.Gauge
	decisionDur  metric.Averager
	rounds       *linked.Hashmap[uint64, *round]
}

// NewConsensus constructs an empty aggregator.
func NewConsensus(logger log.Logger, reg prometheus.Registerer) (*Consensus, error) {
	numRounds := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "membership_rounds",
		Help: "Number of membership generations with an open vote",
	})
	if err := reg.Register(numRounds); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedRoundsMetric, err)
	}

	decisionDur, err := metric.NewAverager(
		"membership_decision_duration",
		"time (in ns) a membership generation took to reach a decision",
		reg,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedDecisionMetric, err)
	}

	return &Consensus{
		log:         logger,
		numRounds:   numRounds,
		decisionDur: decisionDur,
		rounds:      linked.NewHashmap[uint64, *round](),
	}, nil
}

// AddVote records vote and returns the resulting Decision once its
// proposal reaches a super-majority of sap's elders. It returns
// (nil, nil) while the round is still open, and an error if the voter is
// not one of sap's elders or the round at this generation has already
// been decided (for any proposal, the decided one included).
func (c *Consensus) AddVote(sap SAP, vote Vote) (*Decision, error) {
	if !sap.Contains(vote.Voter) {
		return nil, errs.New(errs.KindUntrustedKey, "vote: voter is not an elder of the given SAP")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.rounds.Get(vote.Proposal.Generation)
	if !ok {
		r = &round{sap: sap, tallies: make(map[[32]byte]map[address.Name]struct{})}
		c.rounds.Put(vote.Proposal.Generation, r)
		c.numRounds.Set(float64(c.rounds.Len()))
	}
	if r.decided {
		return nil, errs.New(errs.KindMembershipInProgress, "vote: generation already decided")
	}

	h := vote.Proposal.Hash()
	signers, ok := r.tallies[h]
	if !ok {
		signers = make(map[address.Name]struct{})
		r.tallies[h] = signers
	}
	signers[vote.Voter] = struct{}{}

	if !HasSuperMajority(len(signers), len(r.sap.Elders)) {
		return nil, nil
	}

	r.decided = true
	out := make([]address.Name, 0, len(signers))
	for name := range signers {
		out = append(out, name)
	}
	c.log.Info("membership decision reached",
		"generation", vote.Proposal.Generation,
		"kind", vote.Proposal.Kind.String(),
		"signers", len(out),
	)
	return &Decision{
		Generation: vote.Proposal.Generation,
		Proposal:   vote.Proposal,
		Signers:    out,
	}, nil
}

// Prune discards every round strictly below generation, freeing memory
// for generations that can no longer be voted on once the section has
// moved past them.
func (c *Consensus) Prune(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		gen, _, ok := c.rounds.OldestEntry()
		if !ok || gen >= generation {
			break
		}
		c.rounds.Delete(gen)
	}
	c.numRounds.Set(float64(c.rounds.Len()))
}

// OpenGenerations reports how many generations currently have a round
// tracked, decided or not; decided rounds stay tracked until Prune
// drops them.
func (c *Consensus) OpenGenerations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rounds.Len()
}

// AERequest is a MembershipAE(from_gen) request: "catch me up from
// fromGeneration" (§4.4).
type AERequest struct {
	FromGeneration uint64
}

// AEResponse carries every decision the responder knows about at or
// after the requested generation, oldest first.
type AEResponse struct {
	Decisions []Decision
}

// Split partitions names by prefix, the shape a section split produces:
// the caller starts a DKG session per child prefix and only commits the
// split once both succeed (§4.4, §4.3). Callers must gate the decision
// to split on ShouldSplit first; Split itself only performs the
// partition.
func Split(prefix address.Prefix, names []address.Name) (zeroChild, oneChild []address.Name) {
	return address.PartitionByPrefix(prefix, names)
}

// ShouldSplit reports whether a section should split, per §4.4: both
// children PartitionByPrefix would produce must independently reach at
// least threshold members. A section one member short in either half
// does not split.
func ShouldSplit(threshold int, zeroChild, oneChild []address.Name) bool {
	return len(zeroChild) >= threshold && len(oneChild) >= threshold
}
