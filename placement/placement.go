// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package placement computes which adults hold a given piece of content
// (§4.6): a deterministic function of the item's name, the current adult
// set and which of those adults have reported themselves full.
package placement

import (
	"github.com/maidsafe/sn-core/address"
	"github.com/maidsafe/sn-core/utils/set"
)

// TargetHolders returns the names that should hold name: first the (up
// to r) closest adults not marked full (the primary holders), then any
// full adult strictly closer to name than the farthest primary holder
// (shadow holders, queried on reads so items stored before an adult
// filled up remain retrievable), so the result can be longer than r. If
// every adult is full, every adult is returned, closest first, as a
// degraded-read-mode fallback (§4.6).
func TargetHolders(name address.Name, adults []address.Name, full set.Set[address.Name], r int) []address.Name {
	if r <= 0 || len(adults) == 0 {
		return nil
	}

	sorted := address.ClosestK(name, adults, len(adults))

	primary := make([]address.Name, 0, r)
	for _, a := range sorted {
		if full.Contains(a) {
			continue
		}
		primary = append(primary, a)
		if len(primary) == r {
			break
		}
	}

	if len(primary) == 0 {
		var fallback []address.Name
		for _, a := range sorted {
			if full.Contains(a) {
				fallback = append(fallback, a)
			}
		}
		return fallback
	}

	farthest := primary[len(primary)-1]
	farthestDist := address.XorDistance(name, farthest)

	out := make([]address.Name, len(primary))
	copy(out, primary)
	for _, a := range sorted {
		if !full.Contains(a) {
			continue
		}
		if address.XorDistance(name, a).Less(farthestDist) {
			out = append(out, a)
		}
	}
	return out
}
