package recipes

import (
	"sort"
	"strings"
)

const (
	DefaultMinSelection = 2
	DefaultMaxSelection = 5
)

// SelectCovering picks a bounded subset of candidates so that every priority
// ingredient any candidate can cover ends up covered, with as few redundant
// recipes as possible.
//
// Guarantee: every returned candidate matches at least one priority
// ingredient; candidates that match none are excluded outright. An empty
// priority set yields an empty result by design — there is nothing to
// prioritize, so no recommendation is produced.
//
// The pool is walked greedily in descending order of priority coverage
// (ties keep input order), selecting candidates that cover something new.
// If that yields fewer than minCount recipes, already-covered candidates
// are appended to pad the result. A final backfill pass picks up any
// still-uncovered priority ingredients until coverage is complete or
// maxCount is reached. Output order is selection order, never re-sorted.
func SelectCovering(candidates []*Candidate, priorityIngredients []string, minCount, maxCount int) []*Candidate {
	if minCount <= 0 {
		minCount = DefaultMinSelection
	}
	if maxCount <= 0 {
		maxCount = DefaultMaxSelection
	}
	if maxCount < minCount {
		maxCount = minCount
	}

	priority := make(map[string]bool, len(priorityIngredients))
	for _, name := range priorityIngredients {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			priority[name] = true
		}
	}
	if len(priority) == 0 {
		return nil
	}

	// Pre-filter: only candidates that touch the priority set compete.
	pool := make([]*Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.MatchesAny(priority) {
			pool = append(pool, cand)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	// Stable: ties keep the order the backend returned.
	sort.SliceStable(pool, func(i, j int) bool {
		return priorityOverlap(pool[i], priority) > priorityOverlap(pool[j], priority)
	})

	covered := make(map[string]bool, len(priority))
	selected := make([]*Candidate, 0, maxCount)
	taken := make(map[*Candidate]bool, maxCount)

	// Greedy walk: take candidates that cover something new.
	for _, cand := range pool {
		if len(selected) >= maxCount {
			break
		}
		if !coversNew(cand, priority, covered) {
			continue
		}
		selected = append(selected, cand)
		taken[cand] = true
		markCovered(cand, priority, covered)
		if len(covered) == coverableCount(pool, priority) && len(selected) >= minCount {
			break
		}
	}

	// Pad to minCount with redundant candidates when coverage completed
	// before the floor was reached.
	for _, cand := range pool {
		if len(selected) >= minCount || len(selected) >= maxCount {
			break
		}
		if taken[cand] {
			continue
		}
		selected = append(selected, cand)
		taken[cand] = true
		markCovered(cand, priority, covered)
	}

	// Backfill: the floor padding can consume slots on low-value candidates,
	// so sweep the remaining pool for anything still uncovered.
	for _, cand := range pool {
		if len(selected) >= maxCount {
			break
		}
		if taken[cand] || !coversNew(cand, priority, covered) {
			continue
		}
		selected = append(selected, cand)
		taken[cand] = true
		markCovered(cand, priority, covered)
	}

	return selected
}

// priorityOverlap counts how many priority ingredients the candidate matches.
func priorityOverlap(cand *Candidate, priority map[string]bool) int {
	n := 0
	for name := range cand.MatchedIngredients {
		if priority[name] {
			n++
		}
	}
	return n
}

// coversNew reports whether the candidate matches any priority ingredient
// that is not yet covered.
func coversNew(cand *Candidate, priority, covered map[string]bool) bool {
	for name := range cand.MatchedIngredients {
		if priority[name] && !covered[name] {
			return true
		}
	}
	return false
}

func markCovered(cand *Candidate, priority, covered map[string]bool) {
	for name := range cand.MatchedIngredients {
		if priority[name] {
			covered[name] = true
		}
	}
}

// coverableCount is how many priority ingredients the pool can cover at all.
// Ingredients no candidate matches can never satisfy the stop condition.
func coverableCount(pool []*Candidate, priority map[string]bool) int {
	reachable := make(map[string]bool, len(priority))
	for _, cand := range pool {
		for name := range cand.MatchedIngredients {
			if priority[name] {
				reachable[name] = true
			}
		}
	}
	return len(reachable)
}
