// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package errs implements the error taxonomy shared by every core
// component (§7 of the design). Errors are classified by Kind so callers
// can branch with errors.Is against the sentinel Kind values instead of
// string-matching messages.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the boundary-visible categories.
type Kind int

const (
	KindUntrustedKey Kind = iota
	KindInvalidSignature
	KindInvalidMessage
	KindUnknownSection
	KindOutdatedKnowledge
	KindJoinsDisallowed
	KindInsufficientAdults
	KindNotEnoughSpace
	KindDataNotFound
	KindOperationTimeout
	KindMembershipInProgress
	KindDkgFailed
	KindTransportClosed
)

func (k Kind) String() string {
	switch k {
	case KindUntrustedKey:
		return "UntrustedKey"
	case KindInvalidSignature:
		return "InvalidSignature"
	case KindInvalidMessage:
		return "InvalidMessage"
	case KindUnknownSection:
		return "UnknownSection"
	case KindOutdatedKnowledge:
		return "OutdatedKnowledge"
	case KindJoinsDisallowed:
		return "JoinsDisallowed"
	case KindInsufficientAdults:
		return "InsufficientAdults"
	case KindNotEnoughSpace:
		return "NotEnoughSpace"
	case KindDataNotFound:
		return "DataNotFound"
	case KindOperationTimeout:
		return "OperationTimeout"
	case KindMembershipInProgress:
		return "MembershipInProgress"
	case KindDkgFailed:
		return "DkgFailed"
	case KindTransportClosed:
		return "TransportClosed"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with a classification Kind. The
// underlying cause is never exposed to clients (§7 User-visible failure) —
// only Kind and a human-readable reason cross the wire.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

func Wrap(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, errs.New(KindX, "")) match purely on Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Of reports the Kind carried by err, if any, using errors.As.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// ParseKind recovers a Kind from its String() form, for decoding a
// CmdError's Kind field back from the wire (§7's "only Kind and a
// human-readable reason cross the wire"). ok is false for anything not
// produced by String().
func ParseKind(s string) (kind Kind, ok bool) {
	for k := KindUntrustedKey; k <= KindTransportClosed; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Dropped reports whether this Kind is dropped silently at the receiver
// rather than ever surfaced or retried (§7 Propagation policy).
func (k Kind) Dropped() bool {
	switch k {
	case KindUntrustedKey, KindInvalidSignature, KindInvalidMessage:
		return true
	default:
		return false
	}
}

// ClientVisible reports whether this Kind is allowed to cross the
// client boundary as a CmdError/QueryResponse error (§7 User-visible failure).
func (k Kind) ClientVisible() bool {
	switch k {
	case KindInsufficientAdults, KindNotEnoughSpace, KindDataNotFound:
		return true
	default:
		return false
	}
}
