// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package antientropy implements the three message kinds a node uses to
// keep its NetworkKnowledge in sync with the rest of a section (§4.8):
// unsolicited Update, Retry on a stale section key, and Redirect when the
// recipient was never the right destination.
package antientropy

import (
	"github.com/luxfi/crypto/bls"

	"github.com/maidsafe/sn-core/address"
	"github.com/maidsafe/sn-core/errs"
	"github.com/maidsafe/sn-core/membership"
	"github.com/maidsafe/sn-core/sectionchain"
)

// Knowledge is the locally cached view of a section: its current SAP,
// membership list and section key, kept consistent with the section
// chain.
type Knowledge struct {
	SAP        membership.SAP
	Members    []address.Name
	SectionKey *bls.PublicKey
}

// Update is the AE-Update message: a SAP and membership list plus one
// signed chain edge (Child signed by Parent). It carries a single edge,
// not a multi-key chain segment, so it applies only to a chain that
// already holds Parent.
type Update struct {
	Parent  *bls.PublicKey
	Child   *bls.PublicKey
	Sig     *bls.Signature
	SAP     membership.SAP
	Members []address.Name
}

// ApplyUpdate extends chain with update's edge and adopts its SAP and
// membership list, but only if the edge actually extends the chain from
// a key the recipient already trusts — an update whose parent is unknown
// is dropped rather than blindly accepted (§4.8).
func ApplyUpdate(chain *sectionchain.Chain, knowledge *Knowledge, update Update) error {
	if !chain.Has(update.Parent) {
		return errs.New(errs.KindOutdatedKnowledge, "antientropy: update does not extend a known chain key")
	}
	if err := chain.Insert(update.Parent, update.Child, update.Sig); err != nil {
		return err
	}
	knowledge.SAP = update.SAP
	knowledge.SectionKey = update.Child
	if update.Members != nil {
		knowledge.Members = update.Members
	}
	return nil
}

// Retry is sent back to a sender whose message carried a section key
// older than the recipient's current one; the bounced message is
// returned verbatim so the sender can resign it against NewerKey.
type Retry struct {
	Bounced   []byte
	NewerKey  *bls.PublicKey
}

// Redirect is sent when the recipient is not the rightful destination;
// it carries the bounced message and the SAP of the section that is.
type Redirect struct {
	Bounced []byte
	SAP     membership.SAP
}

// VerifyMessageKey implements the inbound verification rule of §4.8: a
// message's claimed section key must be present either in the local
// SectionChain or in the trusted-key set the message itself conveys.
// Messages failing both checks are dropped at the receiver, never
// forwarded (errs.KindUntrustedKey's propagation policy).
func VerifyMessageKey(chain *sectionchain.Chain, sectionKey *bls.PublicKey, trustedKeys []*bls.PublicKey) bool {
	if chain.Has(sectionKey) {
		return true
	}
	claimed := bls.PublicKeyToCompressedBytes(sectionKey)
	for _, k := range trustedKeys {
		if string(bls.PublicKeyToCompressedBytes(k)) == string(claimed) {
			return true
		}
	}
	return false
}

// ClassificationKind is the outcome ClassifyInbound assigns an inbound
// message.
type ClassificationKind int

const (
	ClassificationOK ClassificationKind = iota
	ClassificationRetry
	ClassificationRedirect
)

// Classification is the result of ClassifyInbound: which of OK/Retry/
// Redirect applies, plus the populated response for the latter two.
type Classification struct {
	Kind     ClassificationKind
	Retry    *Retry
	Redirect *Redirect
}

// ClassifyInbound decides how to respond to an inbound node-authored
// message carrying msgKey as its claimed section key and addressed to
// dstName, against the recipient's chain and current Knowledge (§4.8).
// Destination correctness is checked before key staleness: a message
// addressed to the wrong section is redirected regardless of how stale
// its key is, since resigning against a newer key would not make the
// recipient the rightful destination (§8 scenario 5 combines both
// conditions and still expects a Redirect, not a Retry).
func ClassifyInbound(chain *sectionchain.Chain, knowledge *Knowledge, msgKey *bls.PublicKey, dstName address.Name, bounced []byte) Classification {
	if !knowledge.SAP.Prefix.Matches(dstName) {
		return Classification{
			Kind:     ClassificationRedirect,
			Redirect: &Redirect{Bounced: bounced, SAP: knowledge.SAP},
		}
	}
	if knowledge.SectionKey != nil && chain.IsOlder(msgKey, knowledge.SectionKey) {
		return Classification{
			Kind:  ClassificationRetry,
			Retry: &Retry{Bounced: bounced, NewerKey: knowledge.SectionKey},
		}
	}
	return Classification{Kind: ClassificationOK}
}
