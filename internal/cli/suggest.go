// Package cli provides a lightweight CLI framework with colored help,
// subcommand dispatch, and "did you mean?" suggestions.
package cli

// gitMuscleMemory maps command abbreviations and names a user coming from
// real git would reach for out of habit to their govc equivalents. These
// are checked before falling back to edit-distance scoring, since "ci" and
// "commit" are nowhere near each other by Levenshtein distance.
var gitMuscleMemory = map[string]string{
	"ci":     "commit",
	"co":     "checkout",
	"br":     "branch",
	"status": "diff",
}

// Suggest returns the best matching candidate for input, or "" if no
// candidate is within the edit distance threshold max(2, len(input)/3).
// A known git abbreviation or alias is returned immediately, skipping the
// edit-distance scoring, as long as its target is actually registered.
func Suggest(input string, candidates []string) string {
	if input == "" {
		return ""
	}

	if alias, ok := gitMuscleMemory[input]; ok && contains(candidates, alias) {
		return alias
	}

	threshold := max(2, len(input)/3)

	best := ""
	bestDist := threshold + 1

	for _, c := range candidates {
		d := levenshtein(input, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}

	return best
}

func contains(candidates []string, target string) bool {
	for _, c := range candidates {
		if c == target {
			return true
		}
	}
	return false
}

// levenshtein computes the Levenshtein (edit) distance between two strings
// using a single-row dynamic programming approach.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Use shorter string for the row to save memory.
	if len(a) > len(b) {
		a, b = b, a
	}

	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(b); j++ {
		prev := row[0]
		row[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			tmp := row[i]
			// min of deletion, insertion, substitution
			row[i] = min(row[i]+1, min(row[i-1]+1, prev+cost))
			prev = tmp
		}
	}

	return row[len(a)]
}
