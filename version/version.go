// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package version identifies the node build a peer is running, so that
// a JoinRequest (§6) can carry it and be checked for compatibility.
package version

import "fmt"

// Application identifies a node build: the section protocol and the
// binary running it must agree on Major to ever become section
// members together.
type Application struct {
	Name  string
	Major int
	Minor int
	Patch int
}

// String renders "name-major.minor.patch", e.g. "sn-node-1.0.0".
func (a *Application) String() string {
	return fmt.Sprintf("%s-%d.%d.%d", a.Name, a.Major, a.Minor, a.Patch)
}

// Before returns true if a predates other.
func (a *Application) Before(other *Application) bool {
	return a.Compare(other) < 0
}

// Compare returns -1, 0 or 1 as a is less than, equal to, or greater
// than other. Name is not part of the ordering.
func (a *Application) Compare(other *Application) int {
	if a.Major != other.Major {
		if a.Major < other.Major {
			return -1
		}
		return 1
	}
	if a.Minor != other.Minor {
		if a.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if a.Patch != other.Patch {
		if a.Patch < other.Patch {
			return -1
		}
		return 1
	}
	return 0
}

// Compatible reports whether a and other can join the same section.
// Peers agree on wire semantics as long as the major version matches;
// minor/patch skew is expected during a rolling upgrade.
func (a *Application) Compatible(other *Application) bool {
	return a.Major == other.Major
}

// DefaultVersion is the build identity a node uses (node.New records it
// as Node.Build) when none is injected at build time.
func DefaultVersion() *Application {
	return &Application{
		Name:  "sn-node",
		Major: 1,
		Minor: 0,
		Patch: 0,
	}
}
