// Package suggest proposes likely intended flag names for misspelled
// command-line flags, using edit distance.
package suggest

import (
	"sort"

	"github.com/agext/levenshtein"
)

// maxSuggestions caps how many candidates an error message carries.
const maxSuggestions = 3

// ForName returns known names close to attempt, best match first. A
// candidate qualifies when its edit distance is within half the attempt's
// length, capped at 4; short attempts still allow distance 1.
func ForName(attempt string, known []string) []string {
	if attempt == "" {
		return nil
	}
	limit := len(attempt) / 2
	if limit > 4 {
		limit = 4
	}
	if limit == 0 {
		limit = 1
	}

	type candidate struct {
		name string
		dist int
	}
	var candidates []candidate
	for _, name := range known {
		d := levenshtein.Distance(attempt, name, nil)
		if d <= limit {
			candidates = append(candidates, candidate{name: name, dist: d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}
