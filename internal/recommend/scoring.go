// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"math"
	"sort"

	"github.com/tomtom215/cinegraph/internal/catalog"
)

// policyWeights holds the multipliers applied by a scoring policy.
type policyWeights struct {
	director float64
	keyword  float64
	category map[TagCategory]float64
}

var policies = map[Policy]policyWeights{
	PolicySimilarity: {
		director: 2.0,
		keyword:  2.0,
		category: map[TagCategory]float64{
			CategoryHigh:   5.0,
			CategoryMedium: 2.5,
			CategoryLow:    0.5,
			CategoryOther:  1.0,
		},
	},
	PolicyMarathon: {
		director: 0.5,
		keyword:  5.0,
		category: map[TagCategory]float64{
			CategoryHigh:   0.5,
			CategoryMedium: 2.5,
			CategoryLow:    5.0,
			CategoryOther:  1.0,
		},
	},
}

// Score returns the pairwise weight of a and b under policy. A prequel or
// sequel relation in either direction short-circuits to SequelWeight.
// Score is symmetric in a and b.
func Score(a, b Item, ct catalog.ContentType, policy Policy) float64 {
	if isSequelPair(a, b) {
		return SequelWeight
	}

	w, ok := policies[policy]
	if !ok {
		return 0
	}

	score := 0.0

	if da, db := a.GetDirector(), b.GetDirector(); da != "" && da == db {
		score += w.director
	}

	tagsA, tagsB := a.GetTags(), b.GetTags()
	for _, tag := range sharedTags(tagsA, tagsB) {
		score += math.Min(tagsA[tag], tagsB[tag]) * w.category[Categorize(ct, tag)]
	}

	score += float64(commonKeywords(a.GetKeywords(), b.GetKeywords())) * w.keyword

	return score
}

func isSequelPair(a, b Item) bool {
	return containsID(a.GetSequelIDs(), b.GetID()) || containsID(b.GetSequelIDs(), a.GetID())
}

func containsID(ids []string, id string) bool {
	for _, s := range ids {
		if s == id {
			return true
		}
	}
	return false
}

// sharedTags returns the tags present in both maps, sorted so that the
// floating point sum is identical for (a, b) and (b, a).
func sharedTags(a, b map[string]float64) []string {
	if len(a) > len(b) {
		a, b = b, a
	}
	out := make([]string, 0, len(a))
	for tag := range a {
		if _, ok := b[tag]; ok {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// commonKeywords counts distinct keywords present in both lists.
func commonKeywords(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	n := 0
	for _, k := range b {
		if _, ok := set[k]; ok {
			n++
			delete(set, k)
		}
	}
	return n
}
